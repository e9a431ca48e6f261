package app

import (
	"io/fs"
	"os"

	"github.com/corey/ruinadex/internal/adapters/templates"
	"github.com/corey/ruinadex/internal/domain/reparse"
	"github.com/corey/ruinadex/locales"
)

// Paths holds the resolved filesystem locations of one build.
type Paths struct {
	RuinaData    string // game data: StaticInfo/, Localize/
	Curated      string // collectability.toml, chapter.toml, annotations.toml, disambiguations.toml
	LoboCorpData string // Creature/, Localize/; empty when LoboCorp is skipped
	Locales      string // template dirs per tag; empty = embedded

	Artifact string // artifact blob written by the build
	Bolt     string // optional bbolt export
}

// NewPaths takes the paths of an already resolved config.
func NewPaths(cfg *Config) *Paths {
	return &Paths{
		RuinaData:    cfg.Ruina.GameData,
		Curated:      cfg.Ruina.Curated,
		LoboCorpData: cfg.LoboCorp.GameData,
		Locales:      cfg.LocalesDir,
		Artifact:     cfg.Output.Artifact,
		Bolt:         cfg.Output.Bolt,
	}
}

// Sources opens the source directories for the reparser.
func (p *Paths) Sources() reparse.Sources {
	src := reparse.Sources{
		Ruina:   os.DirFS(p.RuinaData),
		Curated: os.DirFS(p.Curated),
	}
	if p.LoboCorpData != "" {
		src.LoboCorp = os.DirFS(p.LoboCorpData)
	}
	return src
}

// CuratedFS opens the curated directory.
func (p *Paths) CuratedFS() fs.FS {
	return os.DirFS(p.Curated)
}

// Templates loads the locale templates from disk, or the embedded ones when
// no directory is configured.
func (p *Paths) Templates() (*templates.Bundle, error) {
	if p.Locales == "" {
		return templates.Load(locales.FS, ".")
	}
	return templates.Load(os.DirFS(p.Locales), ".")
}

// WatchRoots lists every directory a rebuild depends on.
func (p *Paths) WatchRoots() []string {
	roots := []string{p.RuinaData, p.Curated}
	for _, r := range []string{p.LoboCorpData, p.Locales} {
		if r != "" {
			roots = append(roots, r)
		}
	}
	return roots
}
