package disambig

import (
	"context"
	"errors"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/ruinadex/internal/adapters/templates"
	"github.com/corey/ruinadex/internal/domain/corpus"
	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/domain/reparse"
	"github.com/corey/ruinadex/locales"
)

const fixtureRoot = "../../../testdata/gamedata"

func fixture(t *testing.T) (*corpus.Corpus, *templates.Bundle) {
	t.Helper()
	c, err := reparse.Parse(context.Background(), reparse.Sources{
		Ruina:   os.DirFS(fixtureRoot + "/ruina"),
		Curated: os.DirFS(fixtureRoot + "/curated"),
	})
	require.NoError(t, err)
	b, err := templates.Load(locales.FS, ".")
	require.NoError(t, err)
	return c, b
}

func buildFixture(t *testing.T) *Result {
	t.Helper()
	c, b := fixture(t)
	overrides, err := LoadEntries(os.DirFS(fixtureRoot+"/curated"), DisambiguationsFile, c)
	require.NoError(t, err)
	res, err := Build(c, b, overrides)
	require.NoError(t, err)
	return res
}

func id(k ident.Kind, s string) ident.TypedID { return ident.New(k, s) }

// ============================================================================
// Groups
// ============================================================================

func TestGroups_English(t *testing.T) {
	c, _ := fixture(t)

	var en []Group
	for _, g := range Groups(c) {
		if g.Locale == locale.English {
			en = append(en, g)
		}
	}
	require.Len(t, en, 4)
	assert.Equal(t, "Evade", en[0].Name)
	assert.Equal(t, "Gather Intel", en[1].Name)
	assert.Equal(t, "The Weight of Sin", en[2].Name)
	assert.Equal(t, "Xiao", en[3].Name)
	assert.Equal(t, []ident.TypedID{
		id(ident.KeyPage, "150020"), id(ident.KeyPage, "150036"),
		id(ident.KeyPage, "150038"), id(ident.KeyPage, "250036"),
	}, en[3].Members)
}

func TestGroups_NoNameNoGroup(t *testing.T) {
	c, _ := fixture(t)
	for _, g := range Groups(c) {
		assert.NotEqual(t, locale.Japanese, g.Locale, "fixture has no Japanese text")
	}
}

// ============================================================================
// Pipeline
// ============================================================================

func TestBuild_GatherIntel(t *testing.T) {
	res := buildFixture(t)
	d := res.Disambiguations

	s, ok := d.Get(id(ident.CombatPage, "202002"), locale.English)
	require.True(t, ok)
	assert.Equal(t, "collectable", s)

	s, ok = d.Get(id(ident.CombatPage, "202005"), locale.English)
	require.True(t, ok)
	assert.Equal(t, "enemy", s)

	s, ok = d.Get(id(ident.CombatPage, "202002"), locale.Korean)
	require.True(t, ok)
	assert.Equal(t, "수집 가능", s)

	s, ok = d.Get(id(ident.CombatPage, "202005"), locale.Korean)
	require.True(t, ok)
	assert.Equal(t, "적 전용", s)
}

func TestBuild_KindHeuristic(t *testing.T) {
	d := buildFixture(t).Disambiguations

	s, _ := d.Get(id(ident.AbnoPage, "10702"), locale.English)
	assert.Equal(t, "abno page", s)
	s, _ = d.Get(id(ident.Passive, "250403"), locale.English)
	assert.Equal(t, "passive", s)
	s, _ = d.Get(id(ident.Passive, "250403"), locale.Korean)
	assert.Equal(t, "패시브", s)
}

func TestBuild_ChapterOnlyForNonCollectable(t *testing.T) {
	d := buildFixture(t).Disambiguations

	s, _ := d.Get(id(ident.CombatPage, "101001"), locale.English)
	assert.Equal(t, "collectable", s)
	s, _ = d.Get(id(ident.CombatPage, "301001"), locale.English)
	assert.Equal(t, "Urban Legend", s)
	s, _ = d.Get(id(ident.CombatPage, "401001"), locale.English)
	assert.Equal(t, "Urban Plague", s)
}

func TestBuild_OverrideRunsFirst(t *testing.T) {
	d := buildFixture(t).Disambiguations

	tests := []struct {
		id   string
		want string
	}{
		{"150020", "collectable"},
		{"150036", "Liu Section 1"},
		{"150038", "Star of the City"},
		{"250036", "enemy"},
	}
	for _, tt := range tests {
		s, ok := d.Get(id(ident.KeyPage, tt.id), locale.English)
		require.True(t, ok, tt.id)
		assert.Equal(t, tt.want, s, tt.id)
	}

	s, _ := d.Get(id(ident.KeyPage, "150036"), locale.Korean)
	assert.Equal(t, "류 협회 1과", s)
}

func TestBuild_AllResolved(t *testing.T) {
	res := buildFixture(t)
	assert.Empty(t, res.Unresolved)
	assert.Empty(t, res.Stale)
}

func TestBuild_UniqueWithinGroup(t *testing.T) {
	c, b := fixture(t)
	overrides, err := LoadEntries(os.DirFS(fixtureRoot+"/curated"), DisambiguationsFile, c)
	require.NoError(t, err)
	res, err := Build(c, b, overrides)
	require.NoError(t, err)

	for _, g := range Groups(c) {
		seen := map[string]ident.TypedID{}
		for _, m := range g.Members {
			s, ok := res.Disambiguations.Get(m, g.Locale)
			if !ok || s == "" {
				continue
			}
			prev, dup := seen[s]
			assert.False(t, dup, "%s: %s and %s both read %q in %s", g.Name, prev, m, s, g.Locale)
			seen[s] = m
		}
	}
}

func TestBuild_OnlyAmbiguousEntities(t *testing.T) {
	c, b := fixture(t)
	res, err := Build(c, b, nil)
	require.NoError(t, err)

	ambiguous := map[ident.TypedID]map[locale.Locale]bool{}
	for _, g := range Groups(c) {
		for _, m := range g.Members {
			if ambiguous[m] == nil {
				ambiguous[m] = map[locale.Locale]bool{}
			}
			ambiguous[m][g.Locale] = true
		}
	}
	for eid, byLoc := range res.Disambiguations {
		for loc := range byLoc {
			assert.True(t, ambiguous[eid][loc], "%s in %s is not ambiguous", eid, loc)
		}
	}
	_, ok := res.Disambiguations.Get(id(ident.CombatPage, "607204"), locale.English)
	assert.False(t, ok)
}

func TestBuild_WithoutOverrideLeavesGroupUnresolved(t *testing.T) {
	c, b := fixture(t)
	res, err := Build(c, b, nil)
	require.NoError(t, err)

	_, ok := res.Disambiguations.Get(id(ident.KeyPage, "150036"), locale.English)
	assert.False(t, ok)
	// 150036 and 250036 share chapter and neither can be singled out; 250036
	// already has "enemy", so only one member is left without text.
	assert.Empty(t, res.Unresolved)
}

func TestBuild_StaleOverride(t *testing.T) {
	c, b := fixture(t)
	res, err := Build(c, b, []Entry{{ID: id(ident.CombatPage, "607204"), LocalizationID: "annotation-roland"}})
	require.NoError(t, err)
	assert.Equal(t, []ident.TypedID{id(ident.CombatPage, "607204")}, res.Stale)
	_, ok := res.Disambiguations.Get(id(ident.CombatPage, "607204"), locale.English)
	assert.False(t, ok)
}

func TestBuild_Deterministic(t *testing.T) {
	a := buildFixture(t)
	b := buildFixture(t)
	assert.Equal(t, a.Disambiguations, b.Disambiguations)
}

func TestBuild_MissingTemplate(t *testing.T) {
	c, b := fixture(t)
	_, err := Build(c, b, []Entry{{ID: id(ident.KeyPage, "150036"), LocalizationID: "no-such-key"}})
	var te *TemplateError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "no-such-key", te.Key)
}

// ============================================================================
// Entries and annotations
// ============================================================================

func TestAnnotations_FallBackToEnglish(t *testing.T) {
	c, b := fixture(t)
	entries, err := LoadEntries(os.DirFS(fixtureRoot+"/curated"), AnnotationsFile, c)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	m, err := Annotations(b, entries)
	require.NoError(t, err)
	s, _ := m.Get(id(ident.CombatPage, "607204"), locale.English)
	assert.Equal(t, "Binah Reception", s)
	s, _ = m.Get(id(ident.CombatPage, "607204"), locale.Korean)
	assert.Equal(t, "비나 접대", s)
	for _, loc := range locale.All {
		_, ok := m.Get(id(ident.CombatPage, "607004"), loc)
		assert.True(t, ok, loc.String())
	}
}

func TestLoadEntries_Errors(t *testing.T) {
	c, _ := fixture(t)
	tests := map[string]string{
		"bad kind":   "[[entry]]\npagetype = \"CombatPage\"\nid = \"607204\"\nlocalization_id = \"x\"\n",
		"no record":  "[[entry]]\npagetype = \"combat_page\"\nid = \"1\"\nlocalization_id = \"x\"\n",
		"empty key":  "[[entry]]\npagetype = \"combat_page\"\nid = \"607204\"\nlocalization_id = \"\"\n",
		"twice":      "[[entry]]\npagetype = \"passive\"\nid = \"250403\"\nlocalization_id = \"x\"\n[[entry]]\npagetype = \"passive\"\nid = \"250403\"\nlocalization_id = \"y\"\n",
		"unknown":    "[[entry]]\npagetype = \"passive\"\nid = \"250403\"\nlocalization_id = \"x\"\nnote = \"?\"\n",
		"not a toml": "[[entry",
	}
	for name, data := range tests {
		fsys := fstest.MapFS{"f.toml": {Data: []byte(data)}}
		_, err := LoadEntries(fsys, "f.toml", c)
		assert.Error(t, err, name)
	}
}
