// Package ports defines the shared artifact types and the interfaces
// (contracts) that adapters must implement. Domain logic depends only on
// these, never on concrete adapters.
package ports

import (
	"github.com/corey/ruinadex/internal/domain/corpus"
	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/domain/ngram"
)

// ArtifactStore persists a built artifact outside the embedded blob.
// The bbolt adapter keeps one artifact per named build.
//
// SaveArtifact must be transactional: a crash mid-write must not corrupt a
// previously committed artifact.
type ArtifactStore interface {
	// SaveArtifact persists a under name, replacing any prior artifact.
	SaveArtifact(name string, a *Artifact) error

	// LoadArtifact retrieves the artifact stored under name.
	// Returns nil, nil if no artifact exists.
	LoadArtifact(name string) (*Artifact, error)

	// Builds lists the stored artifact names in order.
	Builds() ([]string, error)

	// DeleteArtifact removes an artifact. Deleting a missing one is not an error.
	DeleteArtifact(name string) error
}

// Mapping attaches localized text to entities. Used for both annotations
// (search-only text) and disambiguations (shown next to ambiguous names).
type Mapping map[ident.TypedID]map[locale.Locale]string

// Get looks up the text of id in loc.
func (m Mapping) Get(id ident.TypedID, loc locale.Locale) (string, bool) {
	s, ok := m[id][loc]
	return s, ok
}

// Set stores text for id in loc, allocating the inner map when needed.
func (m Mapping) Set(id ident.TypedID, loc locale.Locale, text string) {
	inner, ok := m[id]
	if !ok {
		inner = make(map[locale.Locale]string)
		m[id] = inner
	}
	inner[loc] = text
}

// Artifact is everything the runtime needs, produced once per build.
type Artifact struct {
	Corpus          *corpus.Corpus
	Annotations     Mapping
	Disambiguations Mapping
	Index           *Index
	Encyclopedia    *EncyclopediaIndex
}

// Index is the inverted n-gram index over Ruina entities.
type Index struct {
	Postings map[ngram.Gram][]Posting // gram -> entities, sorted by id
}

// Posting is one entity's frequency for one gram.
type Posting struct {
	ID   ident.TypedID
	Freq uint32
}

// EncyclopediaIndex is the inverted n-gram index over LoboCorp entries.
type EncyclopediaIndex struct {
	Postings map[ngram.Gram][]EncyclopediaPosting // gram -> entries, sorted by id
}

// EncyclopediaPosting is one encyclopedia entry's frequency for one gram.
type EncyclopediaPosting struct {
	ID   uint32
	Freq uint32
}
