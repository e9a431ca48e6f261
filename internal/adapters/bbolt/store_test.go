package bbolt

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/corey/ruinadex/internal/adapters/codec"
	"github.com/corey/ruinadex/internal/adapters/templates"
	"github.com/corey/ruinadex/internal/domain/disambig"
	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/index"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/domain/reparse"
	"github.com/corey/ruinadex/internal/ports"
	"github.com/corey/ruinadex/locales"
)

// =============================================================================
// bbolt artifact store: save/load builds, crash recovery, lock timeout
// =============================================================================

const fixtureRoot = "../../../testdata/gamedata"

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

// makeTestArtifact builds the artifact of the fixture game data.
func makeTestArtifact(t *testing.T) *ports.Artifact {
	t.Helper()
	curated := os.DirFS(fixtureRoot + "/curated")
	c, err := reparse.Parse(context.Background(), reparse.Sources{
		Ruina:    os.DirFS(fixtureRoot + "/ruina"),
		Curated:  curated,
		LoboCorp: os.DirFS(fixtureRoot + "/lobocorp"),
	})
	require.NoError(t, err)
	tpl, err := templates.Load(locales.FS, ".")
	require.NoError(t, err)
	entries, err := disambig.LoadEntries(curated, disambig.AnnotationsFile, c)
	require.NoError(t, err)
	ann, err := disambig.Annotations(tpl, entries)
	require.NoError(t, err)
	res, err := disambig.Build(c, tpl, nil)
	require.NoError(t, err)
	return &ports.Artifact{
		Corpus:          c,
		Annotations:     ann,
		Disambiguations: res.Disambiguations,
		Index:           index.Build(c, ann, res.Disambiguations),
		Encyclopedia:    index.BuildEncyclopedia(c),
	}
}

func TestStore_SaveLoadArtifact_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	a := makeTestArtifact(t)

	require.NoError(t, store.SaveArtifact("main", a))

	got, err := store.LoadArtifact("main")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.Index, got.Index)
	assert.Equal(t, a.Encyclopedia, got.Encyclopedia)
	assert.Equal(t, a.Annotations, got.Annotations)
	assert.Equal(t, a.Disambiguations, got.Disambiguations)
	assert.Equal(t, a.Corpus.IDs(), got.Corpus.IDs())

	s, ok := got.Annotations.Get(ident.New(ident.CombatPage, "607204"), locale.English)
	assert.True(t, ok)
	assert.Equal(t, "Binah Reception", s)
}

func TestStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.LoadArtifact("nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.SaveArtifact("main", makeTestArtifact(t)))
	got, err = store.LoadArtifact("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_SaveRejectsBadInput(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Error(t, store.SaveArtifact("", makeTestArtifact(t)))
	assert.Error(t, store.SaveArtifact("main", &ports.Artifact{}))

	names, err := store.Builds()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStore_SaveReplaces(t *testing.T) {
	store, _ := newTestStore(t)
	a := makeTestArtifact(t)
	require.NoError(t, store.SaveArtifact("main", a))

	smaller := *a
	smaller.Annotations = ports.Mapping{}
	require.NoError(t, store.SaveArtifact("main", &smaller))

	got, err := store.LoadArtifact("main")
	require.NoError(t, err)
	assert.Empty(t, got.Annotations)
}

func TestStore_CrashRecovery(t *testing.T) {
	// Close and reopen: data from the last committed transaction is intact.
	dir := t.TempDir()
	path := filepath.Join(dir, "crash.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	a := makeTestArtifact(t)
	require.NoError(t, store.SaveArtifact("main", a))
	require.NoError(t, store.Close())

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	loaded, err := store2.LoadArtifact("main")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, len(a.Index.Postings), len(loaded.Index.Postings))
	assert.Equal(t, a.Corpus.Len(), loaded.Corpus.Len())
}

func TestStore_BuildsAndDelete(t *testing.T) {
	store, _ := newTestStore(t)
	a := makeTestArtifact(t)

	names, err := store.Builds()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, store.SaveArtifact("2024-10", a))
	require.NoError(t, store.SaveArtifact("2023-05", a))

	names, err = store.Builds()
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-05", "2024-10"}, names)

	require.NoError(t, store.DeleteArtifact("2023-05"))
	names, err = store.Builds()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-10"}, names)

	// Idempotent.
	require.NoError(t, store.DeleteArtifact("2023-05"))
	require.NoError(t, store.DeleteArtifact("never"))
}

func TestStore_DeleteOnEmptyDB(t *testing.T) {
	store, _ := newTestStore(t)
	assert.NoError(t, store.DeleteArtifact("main"))
}

func TestStore_VersionMismatch(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveArtifact("main", makeTestArtifact(t)))

	require.NoError(t, store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBuilds).Bucket([]byte("main")).Put(keyVersion, []byte{0xFF, 0xFF})
	}))

	_, err := store.LoadArtifact("main")
	var ve *codec.VersionError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, uint16(0xFFFF), ve.Got)
}

func TestStore_ConcurrentReads(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveArtifact("main", makeTestArtifact(t)))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := store.LoadArtifact("main")
			if err == nil && a == nil {
				err = assert.AnError
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

// =============================================================================
// Lock contention: the 1s timeout prevents hangs
// =============================================================================

func TestStore_OpenTimeout_DoesNotHang(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locked.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	defer store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.Error(t, err, "second open should fail with lock timeout")
	assert.Nil(t, store2)
	assert.Contains(t, err.Error(), "bbolt open")
	assert.Contains(t, err.Error(), "timeout")
	assert.Less(t, elapsed, 3*time.Second, "should complete within 3s, not hang")
}

func TestStore_OpenAfterClose_Succeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "released.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.SaveArtifact("main", makeTestArtifact(t)))
	store1.Close()

	store2, err := NewStore(path)
	require.NoError(t, err, "open after close should succeed")
	defer store2.Close()

	names, err := store2.Builds()
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, names)
}
