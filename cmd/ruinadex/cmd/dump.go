package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/ruinadex/dex"
	"github.com/corey/ruinadex/internal/adapters/gosrc"
)

var (
	dumpFormat  string
	dumpPackage string
	dumpOut     string
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print every entity with its labels",
	Long: "Print the name tables of the loaded artifact. --format text writes one\n" +
		"tab-separated line per entity and locale; --format go writes a Go file\n" +
		"with the names, disambiguations and annotations as maps.",
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "text", "output format: text or go")
	dumpCmd.Flags().StringVar(&dumpPackage, "package", "names", "package clause for --format go")
	dumpCmd.Flags().StringVarP(&dumpOut, "out", "o", "", "write to this file instead of stdout")
}

func runDump(cmd *cobra.Command, args []string) error {
	if dumpFormat != "text" && dumpFormat != "go" {
		return fmt.Errorf("unknown format %q (want text or go)", dumpFormat)
	}
	d, err := openDex()
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if dumpOut != "" {
		f, err := os.Create(dumpOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if dumpFormat == "go" {
		return gosrc.WriteTables(w, dumpPackage, d.Artifact())
	}
	return dumpText(w, d)
}

// dumpText writes id, locale tag and label for every entity named in a
// locale.
func dumpText(w io.Writer, d *dex.Dex) error {
	bw := bufio.NewWriter(w)
	for _, id := range d.IDs() {
		for _, loc := range dex.Locales {
			if _, ok := d.Name(id, loc); !ok {
				continue
			}
			fmt.Fprintf(bw, "%s\t%s\t%s\n", id, loc, d.Label(id, loc))
		}
	}
	return bw.Flush()
}
