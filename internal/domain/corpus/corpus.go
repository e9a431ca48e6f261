// Package corpus holds the full set of reparsed records and their localized
// text, keyed for lookup.
//
// A Corpus is filled once (by the reparser at build time, or by the artifact
// decoder at program start) and only read afterwards. Reads are safe for
// concurrent use once filling is done.
package corpus

import (
	"fmt"
	"sort"

	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/domain/model"
)

// TextKey addresses one localized text. Key is the record id, or the text id
// for key pages.
type TextKey struct {
	Kind   ident.Kind
	Locale locale.Locale
	Key    string
}

// LoboTextKey addresses one localized encyclopedia name.
type LoboTextKey struct {
	Locale locale.LoboLocale
	ID     uint32
}

// Corpus is every record and text of both games.
type Corpus struct {
	records   map[ident.TypedID]model.Record
	texts     map[TextKey]model.Text
	abnos     map[uint32]*model.Abnormality
	abnoTexts map[LoboTextKey]*model.AbnormalityText
}

// New returns an empty corpus.
func New() *Corpus {
	return &Corpus{
		records:   make(map[ident.TypedID]model.Record),
		texts:     make(map[TextKey]model.Text),
		abnos:     make(map[uint32]*model.Abnormality),
		abnoTexts: make(map[LoboTextKey]*model.AbnormalityText),
	}
}

// AddRecord stores r. A second record with the same TypedID is an error.
func (c *Corpus) AddRecord(r model.Record) error {
	id := r.TypedID()
	if _, dup := c.records[id]; dup {
		return fmt.Errorf("duplicate record %s", id)
	}
	c.records[id] = r
	return nil
}

// AddText stores t under k. A second text for the same key is an error.
func (c *Corpus) AddText(k TextKey, t model.Text) error {
	if _, dup := c.texts[k]; dup {
		return fmt.Errorf("duplicate %s text %q for %s", k.Kind, k.Key, k.Locale)
	}
	c.texts[k] = t
	return nil
}

// AddAbnormality stores an encyclopedia entry.
func (c *Corpus) AddAbnormality(a *model.Abnormality) error {
	if _, dup := c.abnos[a.ID]; dup {
		return fmt.Errorf("duplicate abnormality %d", a.ID)
	}
	c.abnos[a.ID] = a
	return nil
}

// AddAbnormalityText stores the localized name of an encyclopedia entry.
func (c *Corpus) AddAbnormalityText(k LoboTextKey, t *model.AbnormalityText) error {
	if _, dup := c.abnoTexts[k]; dup {
		return fmt.Errorf("duplicate abnormality text %d for %s", k.ID, k.Locale)
	}
	c.abnoTexts[k] = t
	return nil
}

// Record looks up one record.
func (c *Corpus) Record(id ident.TypedID) (model.Record, bool) {
	r, ok := c.records[id]
	return r, ok
}

// Text looks up a text by its raw key, without key page indirection.
func (c *Corpus) Text(k TextKey) (model.Text, bool) {
	t, ok := c.texts[k]
	return t, ok
}

// Localization returns the text of the record id in loc. Key pages are
// resolved through their TextID.
func (c *Corpus) Localization(id ident.TypedID, loc locale.Locale) (model.Text, bool) {
	key := id.ID
	if id.Kind == ident.KeyPage {
		r, ok := c.records[id]
		if !ok {
			return nil, false
		}
		key = r.(*model.KeyPage).TextID
	}
	return c.Text(TextKey{Kind: id.Kind, Locale: loc, Key: key})
}

// Abnormality looks up one encyclopedia entry.
func (c *Corpus) Abnormality(id uint32) (*model.Abnormality, bool) {
	a, ok := c.abnos[id]
	return a, ok
}

// AbnormalityText looks up the localized name of an encyclopedia entry.
func (c *Corpus) AbnormalityText(id uint32, loc locale.LoboLocale) (*model.AbnormalityText, bool) {
	t, ok := c.abnoTexts[LoboTextKey{Locale: loc, ID: id}]
	return t, ok
}

// IDs returns every record id ordered by kind and then id.
func (c *Corpus) IDs() []ident.TypedID {
	ids := make([]ident.TypedID, 0, len(c.records))
	for id := range c.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// IDsOf returns the ids of one kind in order.
func (c *Corpus) IDsOf(k ident.Kind) []ident.TypedID {
	var ids []ident.TypedID
	for _, id := range c.IDs() {
		if id.Kind == k {
			ids = append(ids, id)
		}
	}
	return ids
}

// TextKeys returns every text key ordered by kind, locale and key.
func (c *Corpus) TextKeys() []TextKey {
	keys := make([]TextKey, 0, len(c.texts))
	for k := range c.texts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Locale != b.Locale {
			return a.Locale < b.Locale
		}
		return a.Key < b.Key
	})
	return keys
}

// AbnormalityIDs returns every encyclopedia id in ascending order.
func (c *Corpus) AbnormalityIDs() []uint32 {
	ids := make([]uint32, 0, len(c.abnos))
	for id := range c.abnos {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AbnormalityTextKeys returns every encyclopedia text key ordered by id and locale.
func (c *Corpus) AbnormalityTextKeys() []LoboTextKey {
	keys := make([]LoboTextKey, 0, len(c.abnoTexts))
	for k := range c.abnoTexts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ID != keys[j].ID {
			return keys[i].ID < keys[j].ID
		}
		return keys[i].Locale < keys[j].Locale
	})
	return keys
}

// Len returns the number of records.
func (c *Corpus) Len() int { return len(c.records) }

// Get is a typed lookup helper.
func Get[T model.Record](c *Corpus, id ident.TypedID) (T, bool) {
	var zero T
	r, ok := c.records[id]
	if !ok {
		return zero, false
	}
	t, ok := r.(T)
	return t, ok
}
