package fsnotify

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// fsnotify watcher: detect game data and curated file changes for rebuilds
// =============================================================================

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func startWatcher(t *testing.T, dir string) (*Watcher, chan string) {
	t.Helper()
	w, err := NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(dir, func(path string) { changed <- path }))
	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)
	return w, changed
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "CardInfo.xml")
	require.NoError(t, os.WriteFile(testFile, []byte("<a/>"), 0644))

	_, changed := startWatcher(t, dir)
	require.NoError(t, os.WriteFile(testFile, []byte("<b/>"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for file change")
	assert.Equal(t, testFile, path)
}

func TestWatcher_DetectsNewFileInNewDir(t *testing.T) {
	dir := t.TempDir()
	_, changed := startWatcher(t, dir)

	sub := filepath.Join(dir, "Localize", "en")
	require.NoError(t, os.MkdirAll(sub, 0755))
	time.Sleep(100 * time.Millisecond)

	newFile := filepath.Join(sub, "Books.xml")
	require.NoError(t, os.WriteFile(newFile, []byte("<x/>"), 0644))

	var got []string
	for {
		p, ok := waitForCallback(changed, 2*time.Second)
		if !ok {
			break
		}
		got = append(got, p)
		if p == newFile {
			break
		}
	}
	assert.Contains(t, got, newFile)
}

// collectUntil gathers callback paths until want arrives or callbacks stop.
func collectUntil(ch <-chan string, want string) []string {
	var got []string
	for {
		p, ok := waitForCallback(ch, 2*time.Second)
		if !ok {
			return got
		}
		got = append(got, p)
		if p == want {
			return got
		}
	}
}

func TestWatcher_NestedDirsCreatedAtOnce(t *testing.T) {
	dir := t.TempDir()
	_, changed := startWatcher(t, dir)

	sub := filepath.Join(dir, "Localize", "jp", "Books")
	require.NoError(t, os.MkdirAll(sub, 0755))
	newFile := filepath.Join(sub, "Books_Liu.xml")
	require.NoError(t, os.WriteFile(newFile, []byte("<x/>"), 0644))

	assert.Contains(t, collectUntil(changed, newFile), newFile)
}

func TestWatcher_TreeMovedIn(t *testing.T) {
	dir := t.TempDir()
	_, changed := startWatcher(t, dir)

	// Build a locale tree outside the watched root, then move it in whole.
	staging := t.TempDir()
	src := filepath.Join(staging, "cn")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "Books"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Books", "Books.xml"), []byte("<x/>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("x"), 0644))

	dst := filepath.Join(dir, "cn")
	require.NoError(t, os.Rename(src, dst))

	want := filepath.Join(dst, "Books", "Books.xml")
	got := collectUntil(changed, want)
	assert.Contains(t, got, want)
	assert.NotContains(t, got, filepath.Join(dst, "notes.txt"))

	// The moved subdirectory is watched from now on.
	later := filepath.Join(dst, "Books", "Books_Liu.xml")
	require.NoError(t, os.WriteFile(later, []byte("<y/>"), 0644))
	assert.Contains(t, collectUntil(changed, later), later)
}

func TestWatcher_DetectsDeletedFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "collectability.toml")
	require.NoError(t, os.WriteFile(testFile, []byte("# x"), 0644))

	_, changed := startWatcher(t, dir)
	require.NoError(t, os.Remove(testFile))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for deleted file")
	assert.Equal(t, testFile, path)
}

func TestWatcher_IgnoresNonSourceFiles(t *testing.T) {
	dir := t.TempDir()
	gitDir := filepath.Join(dir, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0755))

	_, changed := startWatcher(t, dir)

	os.WriteFile(filepath.Join(gitDir, "config.toml"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, ".disambiguations.toml.swp"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "artwork.png"), []byte("x"), 0644)

	_, ok := waitForCallback(changed, 500*time.Millisecond)
	assert.False(t, ok, "should not have received callback for ignored files")

	yamlFile := filepath.Join(dir, "disambiguation.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte("k: v"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for source file")
	assert.Equal(t, yamlFile, path)
}

func TestWatcher_RoutesToOwningRoot(t *testing.T) {
	ruina := t.TempDir()
	curated := t.TempDir()

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	fromRuina := make(chan string, 10)
	fromCurated := make(chan string, 10)
	require.NoError(t, w.Watch(ruina, func(p string) { fromRuina <- p }))
	require.NoError(t, w.Watch(curated, func(p string) { fromCurated <- p }))
	time.Sleep(50 * time.Millisecond)

	f := filepath.Join(curated, "chapter.toml")
	require.NoError(t, os.WriteFile(f, []byte("# x"), 0644))

	path, ok := waitForCallback(fromCurated, 2*time.Second)
	assert.True(t, ok)
	assert.Equal(t, f, path)
	_, ok = waitForCallback(fromRuina, 200*time.Millisecond)
	assert.False(t, ok)
}

func TestWatcher_MissingDir(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()
	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "nope"), func(string) {}))
}

func TestWatcher_StopCleanup(t *testing.T) {
	// After Stop(), no more callbacks fire.
	dir := t.TempDir()

	w, err := NewWatcher()
	require.NoError(t, err)

	callCount := 0
	var mu sync.Mutex
	err = w.Watch(dir, func(path string) {
		mu.Lock()
		callCount++
		mu.Unlock()
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, w.Stop())

	mu.Lock()
	countAfterStop := callCount
	mu.Unlock()

	os.WriteFile(filepath.Join(dir, "after_stop.xml"), []byte("<n/>"), 0644)
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	countAfterWrite := callCount
	mu.Unlock()

	assert.Equal(t, countAfterStop, countAfterWrite, "callbacks fired after Stop()")

	// Double-stop should be safe
	assert.NoError(t, w.Stop())
}

func TestIsSource(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/data/StaticInfo/Card/CardInfo.xml", true},
		{"/data/curated/chapter.TOML", true},
		{"/locales/en/disambiguation.yaml", true},
		{"/data/.git/index.toml", false},
		{"/data/.chapter.toml.swp", false},
		{"/data/readme.md", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isSource(tt.path), tt.path)
	}
}
