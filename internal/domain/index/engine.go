package index

import (
	"sort"
	"strings"

	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/ngram"
	"github.com/corey/ruinadex/internal/ports"
)

// Hit is one scored query result.
type Hit struct {
	ID    ident.TypedID `json:"id"`
	Score uint32        `json:"score"`
}

// Engine answers queries over a frozen index. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	idx *ports.Index
}

// NewEngine wraps idx. The index must not be modified afterwards.
func NewEngine(idx *ports.Index) *Engine {
	return &Engine{idx: idx}
}

// Scored ranks every entity sharing at least one gram with text. An entity's
// score is the sum over query grams of min(query freq, entity freq). Ties
// break by kind order and then by id. A blank query returns nil.
func (e *Engine) Scored(text string) []Hit {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	scores := make(map[ident.TypedID]uint32)
	for g, qn := range ngram.Analyze(text) {
		for _, p := range e.idx.Postings[g] {
			scores[p.ID] += min(uint32(qn), p.Freq)
		}
	}
	if len(scores) == 0 {
		return nil
	}

	hits := make([]Hit, 0, len(scores))
	for id, s := range scores {
		hits = append(hits, Hit{ID: id, Score: s})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID.Less(hits[j].ID)
	})
	return hits
}

// Query returns the ids of Scored in rank order.
func (e *Engine) Query(text string) []ident.TypedID {
	hits := e.Scored(text)
	if hits == nil {
		return nil
	}
	ids := make([]ident.TypedID, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}

// EncyclopediaHit is one scored LoboCorp result.
type EncyclopediaHit struct {
	ID    uint32 `json:"id"`
	Score uint32 `json:"score"`
}

// EncyclopediaEngine answers queries over the LoboCorp index.
type EncyclopediaEngine struct {
	idx *ports.EncyclopediaIndex
}

func NewEncyclopediaEngine(idx *ports.EncyclopediaIndex) *EncyclopediaEngine {
	return &EncyclopediaEngine{idx: idx}
}

// Scored ranks encyclopedia entries the same way Engine.Scored does, with
// ties broken by ascending id.
func (e *EncyclopediaEngine) Scored(text string) []EncyclopediaHit {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	scores := make(map[uint32]uint32)
	for g, qn := range ngram.Analyze(text) {
		for _, p := range e.idx.Postings[g] {
			scores[p.ID] += min(uint32(qn), p.Freq)
		}
	}
	if len(scores) == 0 {
		return nil
	}

	hits := make([]EncyclopediaHit, 0, len(scores))
	for id, s := range scores {
		hits = append(hits, EncyclopediaHit{ID: id, Score: s})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	return hits
}
