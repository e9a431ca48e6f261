// Package reparse reads the game's XML data and the curated TOML files into a
// corpus.Corpus.
//
// Kinds and locales are parsed concurrently. Each goroutine writes into its own
// slot and the slots are merged in a fixed order afterwards, so the resulting
// corpus does not depend on scheduling. Any malformed input aborts the whole
// parse with a *SourceParseError or *PartitionError.
package reparse

import (
	"context"
	"io/fs"

	"golang.org/x/sync/errgroup"

	"github.com/corey/ruinadex/internal/domain/corpus"
	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/domain/model"
)

// Sources are the inputs of a parse. LoboCorp may be nil.
type Sources struct {
	Ruina    fs.FS // game data root holding StaticInfo/ and Localize/
	Curated  fs.FS // collectability.toml and chapter.toml
	LoboCorp fs.FS // game data root holding Creature/ and Localize/
}

// Parse reads every source and returns the joined corpus.
func Parse(ctx context.Context, src Sources) (*corpus.Corpus, error) {
	var (
		records [len(ident.Kinds)][]model.Record
		texts   [len(ident.Kinds)][len(locale.All)][]localizedText
		lobo    loboResult
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, k := range ident.Kinds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := readRecords(src.Ruina, recordSources[k])
			records[k] = recs
			return err
		})
		for _, loc := range locale.All {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				ts, err := readTexts(src.Ruina, textSources[k], loc)
				texts[k][loc] = ts
				return err
			})
		}
	}
	if src.LoboCorp != nil {
		g.Go(func() error {
			abnos, err := readAbnormalities(src.LoboCorp)
			lobo.abnos = abnos
			return err
		})
		for _, loc := range locale.AllLobo {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				ts, err := readCreatureTexts(src.LoboCorp, loc)
				lobo.texts[loc] = ts
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := corpus.New()
	for _, k := range ident.Kinds {
		for _, r := range records[k] {
			if err := c.AddRecord(r); err != nil {
				return nil, err
			}
		}
		for _, loc := range locale.All {
			for _, t := range texts[k][loc] {
				key := corpus.TextKey{Kind: k, Locale: loc, Key: t.key}
				if err := c.AddText(key, t.text); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := joinCollectability(src.Curated, c); err != nil {
		return nil, err
	}
	if err := joinChapters(src.Curated, c); err != nil {
		return nil, err
	}

	if src.LoboCorp != nil {
		if err := mergeLoboCorp(c, &lobo); err != nil {
			return nil, err
		}
	}
	return c, nil
}
