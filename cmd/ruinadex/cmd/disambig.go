package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/ruinadex/dex"
	"github.com/corey/ruinadex/internal/domain/disambig"
)

var (
	disambigLocale     string
	disambigUnresolved bool
)

var disambigCmd = &cobra.Command{
	Use:   "disambig",
	Short: "List names shared by several entities and how each is told apart",
	Args:  cobra.NoArgs,
	RunE:  runDisambig,
}

func init() {
	disambigCmd.Flags().StringVarP(&disambigLocale, "locale", "l", "", "only this locale (default all)")
	disambigCmd.Flags().BoolVar(&disambigUnresolved, "unresolved", false, "only members still lacking a disambiguation")
}

func runDisambig(cmd *cobra.Command, args []string) error {
	only := -1
	if disambigLocale != "" {
		loc, err := dex.ParseLocale(disambigLocale)
		if err != nil {
			return err
		}
		only = int(loc)
	}
	d, err := openDex()
	if err != nil {
		return err
	}

	a := d.Artifact()
	var groups []disambig.Group
	for _, g := range disambig.Groups(a.Corpus) {
		if only >= 0 && int(g.Locale) != only {
			continue
		}
		if disambigUnresolved {
			var missing []dex.TypedID
			for _, id := range g.Members {
				if _, ok := a.Disambiguations.Get(id, g.Locale); !ok {
					missing = append(missing, id)
				}
			}
			if len(missing) == 0 {
				continue
			}
			g.Members = missing
		}
		groups = append(groups, g)
	}

	fmt.Fprint(cmd.OutOrStdout(), formatGroups(d, groups, useColor()))
	return nil
}
