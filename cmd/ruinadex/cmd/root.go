package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corey/ruinadex/dex"
	"github.com/corey/ruinadex/internal/adapters/bbolt"
	"github.com/corey/ruinadex/internal/adapters/codec"
	"github.com/corey/ruinadex/internal/app"
)

var (
	configPath   string
	debugFlag    bool
	artifactPath string
	boltPath     string
	buildName    string
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "ruinadex",
	Short: "ruinadex: multilingual search over Library of Ruina data",
	Long: "Build the search artifact from game data, then query it by name in any " +
		"of the five Ruina locales.",
	SilenceUsage: true,
}

// Execute runs the root command. Errors are printed once here.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if hint := diagnose(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
	}
	return err
}

func init() {
	rootCmd.SilenceErrors = true

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "build config (default ./"+app.DefaultConfigFile+" when present)")
	pf.BoolVar(&debugFlag, "debug", false, "verbose development logging")
	pf.StringVar(&artifactPath, "artifact", "", "read this artifact file instead of the embedded one")
	pf.StringVar(&boltPath, "bolt", "", "bbolt database holding exported builds")
	pf.StringVar(&buildName, "build", "", "build name inside the bbolt database (default from config)")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(disambigCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(statsCmd)
}

// loadConfig reads --config, or ruinadex.yaml in the working directory when
// it exists, or falls back to defaults resolved against the working directory.
func loadConfig() (*app.Config, error) {
	path := configPath
	if path == "" {
		if _, err := os.Stat(app.DefaultConfigFile); err == nil {
			path = app.DefaultConfigFile
		}
	}
	if path != "" {
		return app.LoadConfig(path)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg := app.DefaultConfig()
	cfg.Resolve(wd)
	return cfg, nil
}

func newLogger(cfg *app.Config) (*zap.Logger, error) {
	debug := debugFlag
	if cfg != nil {
		debug = debug || cfg.Debug
	}
	return app.NewLogger(debug)
}

func resolvedBuildName(cfg *app.Config) string {
	if buildName != "" {
		return buildName
	}
	if cfg != nil && cfg.Output.BuildName != "" {
		return cfg.Output.BuildName
	}
	return "latest"
}

// openDex loads the runtime from --artifact, --bolt or the embedded blob, in
// that order of preference.
func openDex() (*dex.Dex, error) {
	switch {
	case artifactPath != "":
		a, err := codec.ReadFile(artifactPath)
		if err != nil {
			return nil, err
		}
		return dex.FromArtifact(a), nil

	case boltPath != "":
		store, err := bbolt.NewStore(boltPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		name := resolvedBuildName(nil)
		a, err := store.LoadArtifact(name)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, fmt.Errorf("build %q not found in %s", name, boltPath)
		}
		return dex.FromArtifact(a), nil
	}

	d, err := dex.Default()
	if errors.Is(err, dex.ErrNoArtifact) {
		// A freshly built artifact on disk beats an empty embed.
		if cfg, cerr := loadConfig(); cerr == nil {
			if _, serr := os.Stat(cfg.Output.Artifact); serr == nil {
				a, rerr := codec.ReadFile(cfg.Output.Artifact)
				if rerr != nil {
					return nil, rerr
				}
				return dex.FromArtifact(a), nil
			}
		}
	}
	return d, err
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
