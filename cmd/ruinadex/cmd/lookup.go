package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/ruinadex/dex"
)

var lookupJSON bool

var lookupCmd = &cobra.Command{
	Use:     "lookup <typed-id>",
	Short:   "Show one entity with its names in every locale",
	Example: "  ruinadex lookup k#150036\n  ruinadex lookup c#607204 --json",
	Args:    cobra.ExactArgs(1),
	RunE:    runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "print the raw record as JSON")
}

func runLookup(cmd *cobra.Command, args []string) error {
	id, err := dex.ParseID(args[0])
	if err != nil {
		return err
	}
	d, err := openDex()
	if err != nil {
		return err
	}
	rec, ok := d.Record(id)
	if !ok {
		return fmt.Errorf("%s: no such entity", id)
	}

	out := cmd.OutOrStdout()
	if lookupJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
	fmt.Fprint(out, formatEntity(d, id, rec, useColor()))
	return nil
}
