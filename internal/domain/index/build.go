package index

import (
	"sort"
	"strings"

	"github.com/corey/ruinadex/internal/domain/corpus"
	"github.com/corey/ruinadex/internal/domain/display"
	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/domain/ngram"
	"github.com/corey/ruinadex/internal/ports"
)

// SearchableText joins, with single spaces, the entity's display names in
// locale order, then its annotations, then its disambiguations. Missing
// pieces are skipped.
func SearchableText(c *corpus.Corpus, ann, dis ports.Mapping, id ident.TypedID) string {
	var parts []string
	for _, loc := range locale.All {
		if n, ok := display.Name(c, id, loc); ok && n != "" {
			parts = append(parts, n)
		}
	}
	for _, m := range []ports.Mapping{ann, dis} {
		for _, loc := range locale.All {
			if s, ok := m.Get(id, loc); ok && s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, " ")
}

// Build inverts the trigram bags of every entity with searchable text.
func Build(c *corpus.Corpus, ann, dis ports.Mapping) *ports.Index {
	idx := &ports.Index{Postings: make(map[ngram.Gram][]ports.Posting)}
	// c.IDs() is ordered, so appends keep every posting list sorted.
	for _, id := range c.IDs() {
		text := SearchableText(c, ann, dis, id)
		if text == "" {
			continue
		}
		for g, n := range ngram.Analyze(text) {
			idx.Postings[g] = append(idx.Postings[g], ports.Posting{ID: id, Freq: uint32(n)})
		}
	}
	return idx
}

// EncyclopediaText joins the names of a LoboCorp entry across all locales.
func EncyclopediaText(c *corpus.Corpus, id uint32) string {
	var parts []string
	for _, loc := range locale.AllLobo {
		if t, ok := c.AbnormalityText(id, loc); ok && t.Name != "" {
			parts = append(parts, t.Name)
		}
	}
	return strings.Join(parts, " ")
}

// BuildEncyclopedia inverts the LoboCorp names.
func BuildEncyclopedia(c *corpus.Corpus) *ports.EncyclopediaIndex {
	idx := &ports.EncyclopediaIndex{Postings: make(map[ngram.Gram][]ports.EncyclopediaPosting)}
	for _, id := range c.AbnormalityIDs() {
		text := EncyclopediaText(c, id)
		if text == "" {
			continue
		}
		for g, n := range ngram.Analyze(text) {
			idx.Postings[g] = append(idx.Postings[g], ports.EncyclopediaPosting{ID: id, Freq: uint32(n)})
		}
	}
	return idx
}

// Grams returns the grams of idx in sorted order.
func Grams(idx *ports.Index) []ngram.Gram {
	grams := make([]ngram.Gram, 0, len(idx.Postings))
	for g := range idx.Postings {
		grams = append(grams, g)
	}
	sort.Slice(grams, func(i, j int) bool { return grams[i] < grams[j] })
	return grams
}
