package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/ruinadex/internal/domain/locale"
)

func TestNewPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolve("/project")
	cfg.LoboCorp.GameData = "/lobo"
	cfg.Output.Bolt = "/project/builds.db"

	p := NewPaths(cfg)
	assert.Equal(t, "/project/gamedata/ruina", p.RuinaData)
	assert.Equal(t, "/project/curated", p.Curated)
	assert.Equal(t, "/lobo", p.LoboCorpData)
	assert.Equal(t, "/project/dex/data/artifact.bin", p.Artifact)
	assert.Equal(t, "/project/builds.db", p.Bolt)
	assert.Empty(t, p.Locales)
}

func TestPaths_WatchRoots(t *testing.T) {
	p := &Paths{RuinaData: "/r", Curated: "/c"}
	assert.Equal(t, []string{"/r", "/c"}, p.WatchRoots())

	p.LoboCorpData = "/l"
	p.Locales = "/loc"
	assert.Equal(t, []string{"/r", "/c", "/l", "/loc"}, p.WatchRoots())
}

func TestPaths_Sources(t *testing.T) {
	p := &Paths{RuinaData: "/r", Curated: "/c", LoboCorpData: "/l"}
	assert.NotNil(t, p.Sources().LoboCorp)

	p.LoboCorpData = ""
	src := p.Sources()
	assert.NotNil(t, src.Ruina)
	assert.NotNil(t, src.Curated)
	assert.Nil(t, src.LoboCorp)
}

func TestPaths_CuratedFS(t *testing.T) {
	root, err := filepath.Abs("../../testdata/gamedata/curated")
	require.NoError(t, err)
	p := &Paths{Curated: root}

	f, err := p.CuratedFS().Open("chapter.toml")
	require.NoError(t, err)
	f.Close()
}

func TestPaths_TemplatesEmbedded(t *testing.T) {
	tpl, err := (&Paths{}).Templates()
	require.NoError(t, err)
	text, ok := tpl.Lookup(locale.English, "chapter-star-of-the-city")
	assert.True(t, ok)
	assert.Equal(t, "Star of the City", text)
}

func TestPaths_TemplatesFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "en"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en", "extra.yaml"),
		[]byte("chapter-star-of-the-city: Star\n"), 0o644))

	tpl, err := (&Paths{Locales: dir}).Templates()
	require.NoError(t, err)
	text, ok := tpl.Lookup(locale.English, "chapter-star-of-the-city")
	assert.True(t, ok)
	assert.Equal(t, "Star", text)

	_, ok = tpl.Lookup(locale.Korean, "chapter-star-of-the-city")
	assert.False(t, ok)
}
