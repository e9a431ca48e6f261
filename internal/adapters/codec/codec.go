// Package codec serializes a built artifact into the single blob the runtime
// embeds.
//
// Blob format (little-endian):
//
//	magic:   "RDEX"
//	version: uint16
//	3× section, in order postings, encyclopedia, tables:
//	  length: uint32
//	  body:   [length]byte
//
// The index sections use compact binary posting lists. The tables section is
// gob. Equal artifacts always encode to equal bytes.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/ports"
)

const (
	magic = "RDEX"

	// Version is bumped whenever the layout of any section changes.
	Version uint16 = 1

	headerSize = len(magic) + 2
)

// ErrBadMagic means the data is not an artifact blob at all.
var ErrBadMagic = errors.New("not an artifact: bad magic")

// VersionError is a blob written by an incompatible build.
type VersionError struct {
	Got uint16
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("artifact version %d, want %d", e.Got, Version)
}

// Sections holds the encoded sections of an artifact. The bbolt store keeps
// them under separate keys.
type Sections struct {
	Postings     []byte
	Encyclopedia []byte
	Tables       []byte
}

// EncodeSections encodes every part of a.
func EncodeSections(a *ports.Artifact) (*Sections, error) {
	if a == nil || a.Corpus == nil || a.Index == nil || a.Encyclopedia == nil {
		return nil, fmt.Errorf("incomplete artifact")
	}
	var s Sections
	var err error
	if s.Postings, err = EncodePostings(a.Index); err != nil {
		return nil, fmt.Errorf("encode postings: %w", err)
	}
	if s.Encyclopedia, err = EncodeEncyclopedia(a.Encyclopedia); err != nil {
		return nil, fmt.Errorf("encode encyclopedia: %w", err)
	}
	if s.Tables, err = EncodeTables(a.Corpus, a.Annotations, a.Disambiguations); err != nil {
		return nil, err
	}
	return &s, nil
}

// DecodeSections rebuilds an artifact from its sections.
func DecodeSections(s *Sections) (*ports.Artifact, error) {
	idx, err := DecodePostings(s.Postings)
	if err != nil {
		return nil, fmt.Errorf("decode postings: %w", err)
	}
	enc, err := DecodeEncyclopedia(s.Encyclopedia)
	if err != nil {
		return nil, fmt.Errorf("decode encyclopedia: %w", err)
	}
	c, ann, dis, err := DecodeTables(s.Tables)
	if err != nil {
		return nil, err
	}
	return &ports.Artifact{
		Corpus:          c,
		Annotations:     ann,
		Disambiguations: dis,
		Index:           idx,
		Encyclopedia:    enc,
	}, nil
}

// Marshal encodes a into a single blob.
func Marshal(a *ports.Artifact) ([]byte, error) {
	s, err := EncodeSections(a)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + 12 + len(s.Postings) + len(s.Encyclopedia) + len(s.Tables))
	buf.WriteString(magic)
	_ = binary.Write(&buf, binary.LittleEndian, Version)
	for _, sec := range [][]byte{s.Postings, s.Encyclopedia, s.Tables} {
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(sec)))
		buf.Write(sec)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a Marshal blob.
func Unmarshal(data []byte) (*ports.Artifact, error) {
	if len(data) < headerSize || string(data[:len(magic)]) != magic {
		return nil, ErrBadMagic
	}
	r := reader{data: data, offset: len(magic)}
	v, _ := r.uint16("version")
	if v != Version {
		return nil, &VersionError{Got: v}
	}

	var secs [3][]byte
	for i, name := range []string{"postings", "encyclopedia", "tables"} {
		n, err := r.uint32(name + " length")
		if err != nil {
			return nil, err
		}
		if secs[i], err = r.bytes(int(n), name); err != nil {
			return nil, err
		}
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after artifact", r.remaining())
	}
	return DecodeSections(&Sections{Postings: secs[0], Encyclopedia: secs[1], Tables: secs[2]})
}

// WriteFile marshals a to path. The blob is written to a temporary file in
// the same directory and renamed into place, so readers never see a partial
// artifact.
func WriteFile(path string, a *ports.Artifact) error {
	data, err := Marshal(a)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".artifact-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadFile reads and decodes an artifact blob from path.
func ReadFile(path string) (*ports.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

func sortIDs(ids []ident.TypedID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}
