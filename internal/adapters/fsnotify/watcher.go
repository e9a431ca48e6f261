// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It recursively watches the game data and curated directories, passes on
// only the source files a build reads, and debounces rapid events (editors
// and game patchers often write a file several times in a row).
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/corey/ruinadex/internal/ports"
)

// sourceExts are the file types a build reads.
var sourceExts = map[string]bool{
	".xml":  true,
	".toml": true,
	".yaml": true,
}

const debounceInterval = 50 * time.Millisecond

var _ ports.Watcher = (*Watcher)(nil)

type root struct {
	path     string
	onChange func(string)
}

// Watcher implements ports.Watcher using fsnotify. Several roots may be
// watched at once; each event goes to the callback of the root containing it.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	start   sync.Once
	mu      sync.Mutex
	roots   []root
	stopped bool
}

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}, nil
}

// Watch starts monitoring dir recursively.
// onChange is called with the absolute path of each changed source file.
func (w *Watcher) Watch(dir string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absPath); err != nil {
		return err
	}

	err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if d.IsDir() {
			if isHidden(d.Name()) && path != absPath {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.roots = append(w.roots, root{path: absPath, onChange: onChange})
	w.mu.Unlock()

	w.start.Do(func() { go w.loop() })
	return nil
}

func (w *Watcher) loop() {
	// Debounce state: last event time per file
	debounce := make(map[string]time.Time)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			path := event.Name

			// New directories join the watch list along with everything
			// already inside them; files created before their directory was
			// watched produce no events of their own.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					if !isHidden(info.Name()) {
						for _, f := range w.addTree(path) {
							w.notify(f, debounce)
						}
					}
					continue
				}
			}

			if !isSource(path) {
				continue
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}
			w.notify(path, debounce)

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Errors are swallowed; fsnotify recovers automatically

		case <-w.done:
			return
		}
	}
}

// notify fires the owning root's callback unless path fired within the
// debounce interval.
func (w *Watcher) notify(path string, debounce map[string]time.Time) {
	now := time.Now()
	if last, ok := debounce[path]; ok && now.Sub(last) < debounceInterval {
		return
	}
	debounce[path] = now

	if cb := w.callbackFor(path); cb != nil {
		cb(path)
	}
}

// addTree watches dir and every non-hidden directory below it, and returns
// the source files already present.
func (w *Watcher) addTree(dir string) []string {
	var files []string
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if isHidden(d.Name()) && path != dir {
				return filepath.SkipDir
			}
			w.fw.Add(path)
			return nil
		}
		if isSource(path) {
			files = append(files, path)
		}
		return nil
	})
	return files
}

// callbackFor returns the callback of the longest root containing path.
func (w *Watcher) callbackFor(path string) func(string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}

	var best root
	for _, r := range w.roots {
		if (path == r.path || strings.HasPrefix(path, r.path+string(filepath.Separator))) &&
			len(r.path) > len(best.path) {
			best = r
		}
	}
	return best.onChange
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// isSource reports whether a change to path can affect a build.
func isSource(path string) bool {
	base := filepath.Base(path)
	if isHidden(base) {
		return false
	}
	for _, part := range strings.Split(filepath.Dir(path), string(filepath.Separator)) {
		if isHidden(part) && part != "." && part != ".." {
			return false
		}
	}
	return sourceExts[strings.ToLower(filepath.Ext(base))]
}
