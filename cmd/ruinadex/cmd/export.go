package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/ruinadex/internal/adapters/bbolt"
	"github.com/corey/ruinadex/internal/app"
)

var (
	exportList   bool
	exportDelete bool
)

var exportCmd = &cobra.Command{
	Use:   "export <db>",
	Short: "Save the loaded artifact into a bbolt database",
	Long: "Store the artifact (the embedded one, or --artifact) in a bbolt database\n" +
		"under --build, replacing any build of that name. Other commands read it\n" +
		"back with --bolt <db> --build <name>.",
	Example: "  ruinadex export builds.db --build 1.1.0.6a\n" +
		"  ruinadex export builds.db --list",
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportList, "list", false, "list the builds stored in the database")
	exportCmd.Flags().BoolVar(&exportDelete, "delete", false, "delete --build from the database")
}

func runExport(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()
	name := resolvedBuildName(nil)

	if exportList || exportDelete {
		store, err := bbolt.NewStore(path)
		if err != nil {
			return err
		}
		defer store.Close()

		if exportDelete {
			if err := store.DeleteArtifact(name); err != nil {
				return err
			}
			fmt.Fprintf(out, "deleted %s from %s\n", name, path)
			return nil
		}
		builds, err := store.Builds()
		if err != nil {
			return err
		}
		for _, b := range builds {
			fmt.Fprintln(out, b)
		}
		return nil
	}

	d, err := openDex()
	if err != nil {
		return err
	}
	log, err := newLogger(nil)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := app.Export(d.Artifact(), path, name, log); err != nil {
		return err
	}
	fmt.Fprintf(out, "exported %s to %s\n", name, path)
	return nil
}
