// Package disambig computes the short labels that tell apart entities whose
// display names collide in a locale.
//
// Names are grouped by display equivalence per locale. A group with two or
// more members is ambiguous. An ordered pipeline of heuristics then walks the
// groups: when exactly one member of a group satisfies a heuristic, that
// member gets the heuristic's text, unless an earlier step already gave it
// one. Manual overrides run first.
package disambig

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corey/ruinadex/internal/domain/corpus"
	"github.com/corey/ruinadex/internal/domain/display"
	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/domain/model"
	"github.com/corey/ruinadex/internal/ports"
)

// Group is the set of entities sharing one equivalent name in one locale.
type Group struct {
	Locale  locale.Locale
	Name    string
	Members []ident.TypedID
}

// Heuristic is one step of the pipeline.
type Heuristic struct {
	Name    string
	Applies func(model.Record) bool
	Text    Localized
}

// Result is the output of Build.
type Result struct {
	Disambiguations ports.Mapping
	// Stale lists overrides for entities that are not ambiguous in any locale.
	Stale []ident.TypedID
	// Unresolved lists groups still holding two or more members without text.
	Unresolved []Group
}

// Groups returns the ambiguous groups of every locale, ordered by locale and
// then by name.
func Groups(c *corpus.Corpus) []Group {
	var out []Group
	for _, loc := range locale.All {
		byName := make(map[string][]ident.TypedID)
		for _, id := range c.IDs() {
			name, ok := display.Name(c, id, loc)
			if !ok {
				continue
			}
			key := display.Equivalent(name)
			if key == "" {
				continue
			}
			byName[key] = append(byName[key], id)
		}

		names := make([]string, 0, len(byName))
		for n, ids := range byName {
			if len(ids) >= 2 {
				names = append(names, n)
			}
		}
		sort.Strings(names)
		for _, n := range names {
			out = append(out, Group{Locale: loc, Name: n, Members: byName[n]})
		}
	}
	return out
}

func templateKey(prefix, name string) string {
	return prefix + "-" + strings.ReplaceAll(name, "_", "-")
}

var collectabilityKeys = map[model.Collectability]string{
	model.Collectable: "collectability-collectable",
	model.Obtainable:  "collectability-obtainable",
	model.EnemyOnly:   "collectability-enemy",
}

// Pipeline returns the automatic heuristics in order: kind, collectability,
// then chapter for entities that cannot be collected.
func Pipeline(t ports.Templates) ([]Heuristic, error) {
	var hs []Heuristic
	add := func(name, key string, applies func(model.Record) bool) error {
		text, err := resolve(t, key)
		if err != nil {
			return err
		}
		hs = append(hs, Heuristic{Name: name, Applies: applies, Text: text})
		return nil
	}

	for _, k := range ident.Kinds {
		if err := add("kind "+k.Name(), templateKey("kind", k.Name()), func(r model.Record) bool {
			return r.TypedID().Kind == k
		}); err != nil {
			return nil, err
		}
	}
	for _, col := range model.Collectabilities {
		if err := add("collectability "+col.String(), collectabilityKeys[col], func(r model.Record) bool {
			return r.Meta().Collectability == col
		}); err != nil {
			return nil, err
		}
	}
	for _, ch := range model.Chapters {
		if err := add("chapter "+ch.String(), templateKey("chapter", ch.String()), func(r model.Record) bool {
			m := r.Meta()
			return m.Collectability != model.Collectable && m.Chapter != nil && *m.Chapter == ch
		}); err != nil {
			return nil, err
		}
	}
	return hs, nil
}

// Build runs the manual overrides and then the pipeline over every
// ambiguous group of c.
func Build(c *corpus.Corpus, t ports.Templates, overrides []Entry) (*Result, error) {
	pipeline, err := Pipeline(t)
	if err != nil {
		return nil, err
	}

	groups := Groups(c)
	ambiguous := make(map[locale.Locale]map[ident.TypedID]bool, len(locale.All))
	for _, g := range groups {
		if ambiguous[g.Locale] == nil {
			ambiguous[g.Locale] = make(map[ident.TypedID]bool)
		}
		for _, id := range g.Members {
			ambiguous[g.Locale][id] = true
		}
	}

	res := &Result{Disambiguations: make(ports.Mapping)}

	for _, o := range overrides {
		texts, err := resolve(t, o.LocalizationID)
		if err != nil {
			return nil, fmt.Errorf("override for %s: %w", o.ID, err)
		}
		applied := false
		for _, loc := range locale.All {
			if !ambiguous[loc][o.ID] {
				continue
			}
			if _, done := res.Disambiguations.Get(o.ID, loc); done {
				continue
			}
			res.Disambiguations.Set(o.ID, loc, texts[loc])
			applied = true
		}
		if !applied {
			res.Stale = append(res.Stale, o.ID)
		}
	}

	for _, h := range pipeline {
		for _, g := range groups {
			var match ident.TypedID
			n := 0
			for _, id := range g.Members {
				r, _ := c.Record(id)
				if h.Applies(r) {
					match = id
					n++
				}
			}
			if n != 1 {
				continue
			}
			if _, done := res.Disambiguations.Get(match, g.Locale); done {
				continue
			}
			res.Disambiguations.Set(match, g.Locale, h.Text[g.Locale])
		}
	}

	for _, g := range groups {
		left := 0
		for _, id := range g.Members {
			if _, done := res.Disambiguations.Get(id, g.Locale); !done {
				left++
			}
		}
		if left >= 2 {
			res.Unresolved = append(res.Unresolved, g)
		}
	}
	return res, nil
}
