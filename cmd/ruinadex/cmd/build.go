package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corey/ruinadex/internal/adapters/fsnotify"
	"github.com/corey/ruinadex/internal/app"
	"github.com/corey/ruinadex/internal/ports"
)

var (
	buildOut   string
	buildWatch bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the search artifact from game data",
	Long: "Reparse the Ruina (and optionally LoboCorp) game data, join the curated\n" +
		"tables, build annotations, disambiguations and both indexes, and write\n" +
		"the artifact. With --bolt, also export it under --build. With --watch,\n" +
		"rebuild whenever a source file changes.",
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "artifact path (default from config)")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "rebuild on source changes until interrupted")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	p := app.NewPaths(cfg)
	if buildOut != "" {
		p.Artifact = absPath(buildOut)
	}
	if boltPath != "" {
		p.Bolt = absPath(boltPath)
	}
	name := resolvedBuildName(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, report, err := app.Build(ctx, p, log)
	if err != nil {
		return err
	}
	if err := app.Write(a, p, name, log); err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatReport(report, p.Artifact, useColor()))

	if !buildWatch {
		return nil
	}
	return watchAndRebuild(ctx, cmd, p, name, log)
}

func watchAndRebuild(ctx context.Context, cmd *cobra.Command, p *app.Paths, name string, log *zap.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	r := &app.Rebuilder{
		Paths:     p,
		BuildName: name,
		Watcher:   w,
		Log:       log,
		OnBuild: func(_ *ports.Artifact, report *app.Report) {
			fmt.Fprint(cmd.OutOrStdout(), formatReport(report, p.Artifact, useColor()))
		},
	}
	fmt.Fprintf(cmd.OutOrStdout(), "watching %d source roots, ctrl-c to stop\n", len(p.WatchRoots()))
	return r.Run(ctx)
}
