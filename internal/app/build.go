// Package app wires the build pipeline: it reads the configured sources,
// runs the domain passes in order and writes the artifact.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/corey/ruinadex/internal/adapters/bbolt"
	"github.com/corey/ruinadex/internal/adapters/codec"
	"github.com/corey/ruinadex/internal/domain/disambig"
	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/index"
	"github.com/corey/ruinadex/internal/domain/reparse"
	"github.com/corey/ruinadex/internal/ports"
)

// Report summarizes one build.
type Report struct {
	Records           int
	Abnormalities     int
	Annotated         int
	Disambiguated     int
	Grams             int
	EncyclopediaGrams int
	Stale             []ident.TypedID
	Unresolved        []disambig.Group
	Elapsed           time.Duration
}

// Build runs the whole pipeline in memory: reparse, annotations,
// disambiguations, then both indexes. Stale overrides and unresolved groups
// are logged as warnings; they do not fail the build.
func Build(ctx context.Context, p *Paths, log *zap.Logger) (*ports.Artifact, *Report, error) {
	start := time.Now()

	c, err := reparse.Parse(ctx, p.Sources())
	if err != nil {
		return nil, nil, err
	}
	log.Debug("reparsed", zap.Int("records", c.Len()), zap.Int("abnormalities", len(c.AbnormalityIDs())))

	tpl, err := p.Templates()
	if err != nil {
		return nil, nil, fmt.Errorf("load templates: %w", err)
	}

	curated := p.CuratedFS()
	annEntries, err := disambig.LoadEntries(curated, disambig.AnnotationsFile, c)
	if err != nil {
		return nil, nil, err
	}
	ann, err := disambig.Annotations(tpl, annEntries)
	if err != nil {
		return nil, nil, err
	}

	overrides, err := disambig.LoadEntries(curated, disambig.DisambiguationsFile, c)
	if err != nil {
		return nil, nil, err
	}
	res, err := disambig.Build(c, tpl, overrides)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range res.Stale {
		log.Warn("disambiguation override on an unambiguous entity",
			zap.String("id", id.String()), zap.String("file", disambig.DisambiguationsFile))
	}
	for _, g := range res.Unresolved {
		ids := make([]string, len(g.Members))
		for i, m := range g.Members {
			ids[i] = m.String()
		}
		log.Warn("ambiguous name left without disambiguation",
			zap.String("locale", g.Locale.String()), zap.String("name", g.Name), zap.Strings("ids", ids))
	}

	a := &ports.Artifact{
		Corpus:          c,
		Annotations:     ann,
		Disambiguations: res.Disambiguations,
		Index:           index.Build(c, ann, res.Disambiguations),
		Encyclopedia:    index.BuildEncyclopedia(c),
	}

	report := &Report{
		Records:           c.Len(),
		Abnormalities:     len(c.AbnormalityIDs()),
		Annotated:         len(ann),
		Disambiguated:     len(res.Disambiguations),
		Grams:             len(a.Index.Postings),
		EncyclopediaGrams: len(a.Encyclopedia.Postings),
		Stale:             res.Stale,
		Unresolved:        res.Unresolved,
		Elapsed:           time.Since(start),
	}
	log.Info("build complete",
		zap.Int("records", report.Records),
		zap.Int("grams", report.Grams),
		zap.Int("disambiguated", report.Disambiguated),
		zap.Int("stale", len(report.Stale)),
		zap.Int("unresolved", len(report.Unresolved)),
		zap.Duration("elapsed", report.Elapsed))
	return a, report, nil
}

// Write stores a at the configured artifact path and, when configured, in the
// bbolt export under buildName.
func Write(a *ports.Artifact, p *Paths, buildName string, log *zap.Logger) error {
	if err := codec.WriteFile(p.Artifact, a); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	log.Info("artifact written", zap.String("path", p.Artifact))

	if p.Bolt == "" {
		return nil
	}
	return Export(a, p.Bolt, buildName, log)
}

// Export saves a into the bbolt database at path.
func Export(a *ports.Artifact, path, buildName string, log *zap.Logger) error {
	store, err := bbolt.NewStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveArtifact(buildName, a); err != nil {
		return fmt.Errorf("export to %s: %w", path, err)
	}
	log.Info("artifact exported", zap.String("bolt", path), zap.String("build", buildName))
	return nil
}
