// Package dex is the runtime side of ruinadex: it embeds the artifact written
// by the build and answers lookups and fuzzy queries over it.
//
// The artifact is decoded once. Every method of Dex is read-only, performs no
// I/O and is safe for concurrent use.
//
// Usage:
//
//	d, err := dex.Default()
//	ids := d.Query("degraded pillar")
//	label := d.Label(ids[0], dex.English)
package dex

//go:generate go run ../cmd/ruinadex build --config ../ruinadex.yaml --out data/artifact.bin

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/corey/ruinadex/internal/adapters/codec"
	"github.com/corey/ruinadex/internal/domain/corpus"
	"github.com/corey/ruinadex/internal/domain/display"
	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/index"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/domain/model"
	"github.com/corey/ruinadex/internal/ports"
)

//go:embed all:data
var data embed.FS

const artifactFile = "data/artifact.bin"

// ErrNoArtifact means the binary was built before `go generate ./dex`.
var ErrNoArtifact = errors.New("dex: no embedded artifact, run go generate ./dex")

// Dex is a decoded artifact with its query engines.
type Dex struct {
	a      *ports.Artifact
	engine *index.Engine
	enc    *index.EncyclopediaEngine
}

var (
	defaultOnce sync.Once
	defaultDex  *Dex
	defaultErr  error
)

// Default returns the embedded artifact, decoded on first use.
func Default() (*Dex, error) {
	defaultOnce.Do(func() {
		blob, err := data.ReadFile(artifactFile)
		if errors.Is(err, fs.ErrNotExist) {
			defaultErr = ErrNoArtifact
			return
		}
		if err != nil {
			defaultErr = err
			return
		}
		defaultDex, defaultErr = decode(blob)
	})
	return defaultDex, defaultErr
}

// MustDefault is Default for programs that cannot run without the artifact.
func MustDefault() *Dex {
	d, err := Default()
	if err != nil {
		panic(err)
	}
	return d
}

// Load decodes an artifact blob from r.
func Load(r io.Reader) (*Dex, error) {
	blob, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decode(blob)
}

func decode(blob []byte) (*Dex, error) {
	a, err := codec.Unmarshal(blob)
	if err != nil {
		return nil, fmt.Errorf("dex: %w", err)
	}
	return FromArtifact(a), nil
}

// FromArtifact wraps an artifact that is already in memory. a must not be
// modified afterwards.
func FromArtifact(a *ports.Artifact) *Dex {
	return &Dex{
		a:      a,
		engine: index.NewEngine(a.Index),
		enc:    index.NewEncyclopediaEngine(a.Encyclopedia),
	}
}

// Artifact exposes the decoded tables for tooling.
func (d *Dex) Artifact() *ports.Artifact { return d.a }

// IDs lists every entity in kind order, then id order.
func (d *Dex) IDs() []TypedID { return d.a.Corpus.IDs() }

// Record looks up any entity.
func (d *Dex) Record(id TypedID) (Record, bool) { return d.a.Corpus.Record(id) }

func (d *Dex) AbnoPage(id string) (*model.AbnoPage, bool) {
	return corpus.Get[*model.AbnoPage](d.a.Corpus, ident.New(ident.AbnoPage, id))
}

func (d *Dex) BattleSymbol(id string) (*model.BattleSymbol, bool) {
	return corpus.Get[*model.BattleSymbol](d.a.Corpus, ident.New(ident.BattleSymbol, id))
}

func (d *Dex) CombatPage(id string) (*model.CombatPage, bool) {
	return corpus.Get[*model.CombatPage](d.a.Corpus, ident.New(ident.CombatPage, id))
}

func (d *Dex) KeyPage(id string) (*model.KeyPage, bool) {
	return corpus.Get[*model.KeyPage](d.a.Corpus, ident.New(ident.KeyPage, id))
}

func (d *Dex) Passive(id string) (*model.Passive, bool) {
	return corpus.Get[*model.Passive](d.a.Corpus, ident.New(ident.Passive, id))
}

// Localization returns the text of id in loc. Key pages resolve through
// their text id.
func (d *Dex) Localization(id TypedID, loc Locale) (Text, bool) {
	return d.a.Corpus.Localization(id, loc)
}

// Disambiguation returns the suffix that tells id apart from entities
// sharing its name in loc.
func (d *Dex) Disambiguation(id TypedID, loc Locale) (string, bool) {
	return d.a.Disambiguations.Get(id, loc)
}

// Annotation returns the search-only text attached to id in loc.
func (d *Dex) Annotation(id TypedID, loc Locale) (string, bool) {
	return d.a.Annotations.Get(id, loc)
}

// Name returns the display name of id in loc, without fallback.
func (d *Dex) Name(id TypedID, loc Locale) (string, bool) {
	return display.Name(d.a.Corpus, id, loc)
}

// Label is the name shown to users: the display name (falling back to
// English, then to the id) followed by its disambiguation in parentheses
// when the name is ambiguous.
func (d *Dex) Label(id TypedID, loc Locale) string {
	name, from := display.NameOrFallback(d.a.Corpus, id, loc)
	if dis, ok := d.a.Disambiguations.Get(id, from); ok && dis != "" {
		return name + " (" + dis + ")"
	}
	return name
}

// Query ranks entities by n-gram overlap with text. Input that parses as an
// existing TypedID returns just that id. A blank query returns nil.
func (d *Dex) Query(text string) []TypedID {
	if id, ok := d.exactID(text); ok {
		return []TypedID{id}
	}
	return d.engine.Query(text)
}

// Scored is Query with scores.
func (d *Dex) Scored(text string) []index.Hit {
	if id, ok := d.exactID(text); ok {
		return []index.Hit{{ID: id}}
	}
	return d.engine.Scored(text)
}

func (d *Dex) exactID(text string) (TypedID, bool) {
	id, err := ident.Parse(strings.TrimSpace(text))
	if err != nil {
		return TypedID{}, false
	}
	_, ok := d.a.Corpus.Record(id)
	return id, ok
}

// DefaultChoices and MaxLabelLen follow the limits of chat autocomplete
// surfaces.
const (
	DefaultChoices = 25
	MaxLabelLen    = 100
)

// Choice is one autocomplete suggestion.
type Choice struct {
	ID    TypedID `json:"id"`
	Label string  `json:"label"`
}

// Autocomplete returns at most limit labeled suggestions for a partial query.
// limit <= 0 means DefaultChoices. Labels longer than MaxLabelLen runes are
// cut with an ellipsis.
func (d *Dex) Autocomplete(text string, loc Locale, limit int) []Choice {
	if limit <= 0 {
		limit = DefaultChoices
	}
	ids := d.Query(text)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]Choice, len(ids))
	for i, id := range ids {
		out[i] = Choice{ID: id, Label: truncate(d.Label(id, loc), MaxLabelLen)}
	}
	return out
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// Encyclopedia looks up a Lobotomy Corporation abnormality.
func (d *Dex) Encyclopedia(id uint32) (*Abnormality, bool) {
	return d.a.Corpus.Abnormality(id)
}

// EncyclopediaName returns the name of an abnormality in loc, falling back
// to English.
func (d *Dex) EncyclopediaName(id uint32, loc LoboLocale) (string, bool) {
	if t, ok := d.a.Corpus.AbnormalityText(id, loc); ok && t.Name != "" {
		return t.Name, true
	}
	if t, ok := d.a.Corpus.AbnormalityText(id, locale.LoboEnglish); ok && t.Name != "" {
		return t.Name, true
	}
	return "", false
}

// QueryEncyclopedia ranks abnormalities by n-gram overlap with their names in
// every LoboCorp locale.
func (d *Dex) QueryEncyclopedia(text string) []uint32 {
	hits := d.enc.Scored(text)
	if hits == nil {
		return nil
	}
	ids := make([]uint32, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}

// Stats counts what the artifact holds.
type Stats struct {
	Records           map[string]int `json:"records"`
	Texts             int            `json:"texts"`
	Annotated         int            `json:"annotated"`
	Disambiguated     int            `json:"disambiguated"`
	Grams             int            `json:"grams"`
	Postings          int            `json:"postings"`
	Abnormalities     int            `json:"abnormalities"`
	EncyclopediaGrams int            `json:"encyclopedia_grams"`
}

// Stats summarizes the artifact.
func (d *Dex) Stats() Stats {
	c := d.a.Corpus
	s := Stats{
		Records:           make(map[string]int, len(ident.Kinds)),
		Texts:             len(c.TextKeys()),
		Annotated:         len(d.a.Annotations),
		Disambiguated:     len(d.a.Disambiguations),
		Grams:             len(d.a.Index.Postings),
		Abnormalities:     len(c.AbnormalityIDs()),
		EncyclopediaGrams: len(d.a.Encyclopedia.Postings),
	}
	for _, k := range ident.Kinds {
		s.Records[k.Name()] = len(c.IDsOf(k))
	}
	for _, ps := range d.a.Index.Postings {
		s.Postings += len(ps)
	}
	return s
}
