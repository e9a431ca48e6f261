// Package ident defines the typed identifiers shared by every entity kind.
//
// A TypedID pairs a Kind with the game's own string id. Its text form is the
// kind prefix followed by the id ("c#607204"), which is what users type and
// what the index stores.
package ident

import (
	"fmt"
	"strings"
)

// Kind is the closed set of entity kinds. The numeric order is the ordering
// used to break ties in query results.
type Kind uint8

const (
	AbnoPage Kind = iota
	BattleSymbol
	CombatPage
	KeyPage
	Passive
)

// Kinds lists every kind in canonical order.
var Kinds = [...]Kind{AbnoPage, BattleSymbol, CombatPage, KeyPage, Passive}

var kindPrefixes = [...]string{
	AbnoPage:     "a#",
	BattleSymbol: "b#",
	CombatPage:   "c#",
	KeyPage:      "k#",
	Passive:      "p#",
}

var kindNames = [...]string{
	AbnoPage:     "abno_page",
	BattleSymbol: "battle_symbol",
	CombatPage:   "combat_page",
	KeyPage:      "key_page",
	Passive:      "passive",
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return int(k) < len(kindPrefixes)
}

// Prefix returns the two-byte prefix used in the text form of a TypedID.
func (k Kind) Prefix() string {
	if !k.Valid() {
		return ""
	}
	return kindPrefixes[k]
}

// Name returns the snake_case name used in curated TOML files.
func (k Kind) Name() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", k)
	}
	return kindNames[k]
}

func (k Kind) String() string { return k.Name() }

// KindFromPrefix is the inverse of Kind.Prefix.
func KindFromPrefix(prefix string) (Kind, bool) {
	for _, k := range Kinds {
		if kindPrefixes[k] == prefix {
			return k, true
		}
	}
	return 0, false
}

// KindFromName is the inverse of Kind.Name.
func KindFromName(name string) (Kind, bool) {
	for _, k := range Kinds {
		if kindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// TypedID identifies one entity of one kind.
type TypedID struct {
	Kind Kind
	ID   string
}

// New is shorthand for TypedID{Kind: k, ID: id}.
func New(k Kind, id string) TypedID {
	return TypedID{Kind: k, ID: id}
}

func (t TypedID) String() string {
	return t.Kind.Prefix() + t.ID
}

// Less orders ids by kind and then by id string.
func (t TypedID) Less(o TypedID) bool {
	if t.Kind != o.Kind {
		return t.Kind < o.Kind
	}
	return t.ID < o.ID
}

// ParseError reports a string that is not a valid TypedID.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse typed id %q: %s", e.Input, e.Reason)
}

// Parse splits s into its two-byte kind prefix and the remaining id.
// The id part must be non-empty and carry no leading or trailing whitespace.
func Parse(s string) (TypedID, error) {
	if len(s) < 2 {
		return TypedID{}, &ParseError{Input: s, Reason: "too short"}
	}
	k, ok := KindFromPrefix(s[:2])
	if !ok {
		return TypedID{}, &ParseError{Input: s, Reason: fmt.Sprintf("unknown prefix %q", s[:2])}
	}
	id := s[2:]
	if id == "" || strings.TrimSpace(id) != id {
		return TypedID{}, &ParseError{Input: s, Reason: "empty or padded id"}
	}
	return TypedID{Kind: k, ID: id}, nil
}

// MarshalText implements encoding.TextMarshaler so TypedIDs serialize in
// their prefixed form.
func (t TypedID) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TypedID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
