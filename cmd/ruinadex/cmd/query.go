package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/ruinadex/dex"
)

var (
	queryLimit  int
	queryLocale string
	queryJSON   bool
	queryLobo   bool
)

var queryCmd = &cobra.Command{
	Use:   "query <text...>",
	Short: "Rank entities by similarity to a name",
	Long: "Search every locale at once. Input that is already a typed id such as\n" +
		"c#607204 returns that entity alone. With --lobocorp, search the\n" +
		"Lobotomy Corporation encyclopedia instead.",
	Example: "  ruinadex query degraded pillar\n" +
		"  ruinadex query 샤오 --locale kr\n" +
		"  ruinadex query --lobocorp big bird",
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 10, "maximum number of hits")
	queryCmd.Flags().StringVarP(&queryLocale, "locale", "l", "en", "locale of the printed labels")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print JSON")
	queryCmd.Flags().BoolVar(&queryLobo, "lobocorp", false, "search the LoboCorp encyclopedia")
}

// queryHit is one line of query output.
type queryHit struct {
	ID    string `json:"id"`
	Score uint32 `json:"score"`
	Label string `json:"label"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	loc, err := dex.ParseLocale(queryLocale)
	if err != nil {
		return err
	}
	if queryLimit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}
	d, err := openDex()
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	start := time.Now()
	var hits []queryHit
	if queryLobo {
		hits = encyclopediaHits(d, text, loc)
	} else {
		for _, h := range d.Scored(text) {
			hits = append(hits, queryHit{ID: h.ID.String(), Score: h.Score, Label: d.Label(h.ID, loc)})
		}
	}
	if len(hits) > queryLimit {
		hits = hits[:queryLimit]
	}

	out := cmd.OutOrStdout()
	if queryJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"query": text, "hits": hits})
	}
	fmt.Fprint(out, formatHits(hits, time.Since(start), useColor()))
	return nil
}

func encyclopediaHits(d *dex.Dex, text string, loc dex.Locale) []queryHit {
	var hits []queryHit
	for _, id := range d.QueryEncyclopedia(text) {
		a, _ := d.Encyclopedia(id)
		name, _ := d.EncyclopediaName(id, loc.Lobo())
		hits = append(hits, queryHit{
			ID:    fmt.Sprint(id),
			Label: fmt.Sprintf("%s %s [%s]", a.Code, name, a.Risk),
		})
	}
	return hits
}
