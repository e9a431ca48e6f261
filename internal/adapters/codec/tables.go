package codec

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/corey/ruinadex/internal/domain/corpus"
	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/domain/model"
	"github.com/corey/ruinadex/internal/ports"
)

// tables is the gob form of everything except the indexes. Only slices are
// encoded, in corpus order, so the output is stable across builds.
type tables struct {
	AbnoPages     []model.AbnoPage
	BattleSymbols []model.BattleSymbol
	CombatPages   []model.CombatPage
	KeyPages      []model.KeyPage
	Passives      []model.Passive

	// Chapters is kept apart from the records: gob drops a pointer to a
	// zero value, which would turn Canard into unranked.
	Chapters []chapterEntry

	AbnoPageTexts     []keyed[model.AbnoPageText]
	BattleSymbolTexts []keyed[model.BattleSymbolText]
	CombatPageTexts   []keyed[model.CombatPageText]
	KeyPageTexts      []keyed[model.KeyPageText]
	PassiveTexts      []keyed[model.PassiveText]

	Abnormalities    []model.Abnormality
	AbnormalityTexts []loboKeyed

	Annotations     []mappingEntry
	Disambiguations []mappingEntry
}

type chapterEntry struct {
	ID      ident.TypedID
	Chapter model.Chapter
}

type keyed[T any] struct {
	Key  corpus.TextKey
	Text T
}

type loboKeyed struct {
	Key  corpus.LoboTextKey
	Name string
}

type mappingEntry struct {
	ID     ident.TypedID
	Locale locale.Locale
	Text   string
}

// EncodeTables gob-encodes the corpus and both mappings.
func EncodeTables(c *corpus.Corpus, ann, dis ports.Mapping) ([]byte, error) {
	var t tables
	for _, id := range c.IDs() {
		r, _ := c.Record(id)
		if ch := r.Meta().Chapter; ch != nil {
			t.Chapters = append(t.Chapters, chapterEntry{ID: id, Chapter: *ch})
		}
		switch r := r.(type) {
		case *model.AbnoPage:
			v := *r
			v.Chapter = nil
			t.AbnoPages = append(t.AbnoPages, v)
		case *model.BattleSymbol:
			v := *r
			v.Chapter = nil
			t.BattleSymbols = append(t.BattleSymbols, v)
		case *model.CombatPage:
			v := *r
			v.Chapter = nil
			t.CombatPages = append(t.CombatPages, v)
		case *model.KeyPage:
			v := *r
			v.Chapter = nil
			t.KeyPages = append(t.KeyPages, v)
		case *model.Passive:
			v := *r
			v.Chapter = nil
			t.Passives = append(t.Passives, v)
		default:
			return nil, fmt.Errorf("record %s: unexpected type %T", id, r)
		}
	}

	for _, k := range c.TextKeys() {
		txt, _ := c.Text(k)
		switch txt := txt.(type) {
		case *model.AbnoPageText:
			t.AbnoPageTexts = append(t.AbnoPageTexts, keyed[model.AbnoPageText]{k, *txt})
		case *model.BattleSymbolText:
			t.BattleSymbolTexts = append(t.BattleSymbolTexts, keyed[model.BattleSymbolText]{k, *txt})
		case *model.CombatPageText:
			t.CombatPageTexts = append(t.CombatPageTexts, keyed[model.CombatPageText]{k, *txt})
		case *model.KeyPageText:
			t.KeyPageTexts = append(t.KeyPageTexts, keyed[model.KeyPageText]{k, *txt})
		case *model.PassiveText:
			t.PassiveTexts = append(t.PassiveTexts, keyed[model.PassiveText]{k, *txt})
		default:
			return nil, fmt.Errorf("text %v: unexpected type %T", k, txt)
		}
	}

	for _, id := range c.AbnormalityIDs() {
		a, _ := c.Abnormality(id)
		t.Abnormalities = append(t.Abnormalities, *a)
	}
	for _, k := range c.AbnormalityTextKeys() {
		at, _ := c.AbnormalityText(k.ID, k.Locale)
		t.AbnormalityTexts = append(t.AbnormalityTexts, loboKeyed{Key: k, Name: at.Name})
	}

	t.Annotations = flatten(ann)
	t.Disambiguations = flatten(dis)

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&t); err != nil {
		return nil, fmt.Errorf("gob encode tables: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeTables rebuilds the corpus and both mappings from EncodeTables output.
func DecodeTables(data []byte) (*corpus.Corpus, ports.Mapping, ports.Mapping, error) {
	var t tables
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&t); err != nil {
		return nil, nil, nil, fmt.Errorf("gob decode tables: %w", err)
	}

	chapters := make(map[ident.TypedID]model.Chapter, len(t.Chapters))
	for _, e := range t.Chapters {
		chapters[e.ID] = e.Chapter
	}
	withChapter := func(h *model.Header, id ident.TypedID) {
		if ch, ok := chapters[id]; ok {
			h.Chapter = ch.Ptr()
		}
	}

	c := corpus.New()
	var records []model.Record
	for i := range t.AbnoPages {
		r := &t.AbnoPages[i]
		withChapter(&r.Header, r.TypedID())
		records = append(records, r)
	}
	for i := range t.BattleSymbols {
		r := &t.BattleSymbols[i]
		withChapter(&r.Header, r.TypedID())
		records = append(records, r)
	}
	for i := range t.CombatPages {
		r := &t.CombatPages[i]
		withChapter(&r.Header, r.TypedID())
		records = append(records, r)
	}
	for i := range t.KeyPages {
		r := &t.KeyPages[i]
		withChapter(&r.Header, r.TypedID())
		records = append(records, r)
	}
	for i := range t.Passives {
		r := &t.Passives[i]
		withChapter(&r.Header, r.TypedID())
		records = append(records, r)
	}
	for _, r := range records {
		if err := c.AddRecord(r); err != nil {
			return nil, nil, nil, err
		}
	}

	if err := addTexts(c, t.AbnoPageTexts); err != nil {
		return nil, nil, nil, err
	}
	if err := addTexts(c, t.BattleSymbolTexts); err != nil {
		return nil, nil, nil, err
	}
	if err := addTexts(c, t.CombatPageTexts); err != nil {
		return nil, nil, nil, err
	}
	if err := addTexts(c, t.KeyPageTexts); err != nil {
		return nil, nil, nil, err
	}
	if err := addTexts(c, t.PassiveTexts); err != nil {
		return nil, nil, nil, err
	}

	for i := range t.Abnormalities {
		if err := c.AddAbnormality(&t.Abnormalities[i]); err != nil {
			return nil, nil, nil, err
		}
	}
	for _, e := range t.AbnormalityTexts {
		if err := c.AddAbnormalityText(e.Key, &model.AbnormalityText{Name: e.Name}); err != nil {
			return nil, nil, nil, err
		}
	}

	return c, unflatten(t.Annotations), unflatten(t.Disambiguations), nil
}

// addTexts stores decoded texts. PT is the pointer type of T, the one that
// implements model.Text.
func addTexts[T any, PT interface {
	*T
	model.Text
}](c *corpus.Corpus, entries []keyed[T]) error {
	for i := range entries {
		if err := c.AddText(entries[i].Key, PT(&entries[i].Text)); err != nil {
			return err
		}
	}
	return nil
}

func flatten(m ports.Mapping) []mappingEntry {
	ids := make([]ident.TypedID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sortIDs(ids)

	var out []mappingEntry
	for _, id := range ids {
		for _, loc := range locale.All {
			if s, ok := m.Get(id, loc); ok {
				out = append(out, mappingEntry{ID: id, Locale: loc, Text: s})
			}
		}
	}
	return out
}

func unflatten(entries []mappingEntry) ports.Mapping {
	m := make(ports.Mapping)
	for _, e := range entries {
		m.Set(e.ID, e.Locale, e.Text)
	}
	return m
}
