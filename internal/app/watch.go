package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/corey/ruinadex/internal/ports"
)

// Rebuilder reruns the build whenever a source file changes.
type Rebuilder struct {
	Paths     *Paths
	BuildName string
	Watcher   ports.Watcher
	Log       *zap.Logger

	// Quiet is how long the sources must stay unchanged before a rebuild
	// starts. Game patches touch many files at once.
	Quiet time.Duration

	// OnBuild, when set, receives every successful rebuild.
	OnBuild func(*ports.Artifact, *Report)
}

// Run watches every source root and rebuilds until ctx is done. A failed
// rebuild is logged and the previous artifact stays in place.
func (r *Rebuilder) Run(ctx context.Context) error {
	changed := make(chan string, 1)
	for _, root := range r.Paths.WatchRoots() {
		err := r.Watcher.Watch(root, func(path string) {
			select {
			case changed <- path:
			default: // a rebuild is already pending
			}
		})
		if err != nil {
			r.Watcher.Stop()
			return err
		}
		r.Log.Info("watching", zap.String("dir", root))
	}
	defer r.Watcher.Stop()

	quiet := r.Quiet
	if quiet <= 0 {
		quiet = 300 * time.Millisecond
	}
	timer := time.NewTimer(quiet)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changed:
			r.Log.Debug("source changed", zap.String("file", path))
			timer.Reset(quiet)
		case <-timer.C:
			r.rebuild(ctx)
		}
	}
}

func (r *Rebuilder) rebuild(ctx context.Context) {
	a, report, err := Build(ctx, r.Paths, r.Log)
	if err != nil {
		r.Log.Error("rebuild failed", zap.Error(err))
		return
	}
	if err := Write(a, r.Paths, r.BuildName, r.Log); err != nil {
		r.Log.Error("rebuild not written", zap.Error(err))
		return
	}
	if r.OnBuild != nil {
		r.OnBuild(a, report)
	}
}
