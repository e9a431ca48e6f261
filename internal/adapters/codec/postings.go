// Binary encoding for the two inverted indexes.
//
// Posting list format (little-endian):
//
//	gramCount: uint32
//	per gram:
//	  keyLen:       uint16
//	  key:          [keyLen]byte
//	  postingCount: uint32
//	  postings:     [postingCount]× posting
//
// An entity posting is Kind:uint8 + idLen:uint16 + id:[idLen]byte + Freq:uint32.
// An encyclopedia posting is ID:uint32 + Freq:uint32.
package codec

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/ngram"
	"github.com/corey/ruinadex/internal/ports"
)

// encyclopediaPostingSize is the byte size of one encoded EncyclopediaPosting.
const encyclopediaPostingSize = 8

func sortedGrams[P any](m map[ngram.Gram][]P) []ngram.Gram {
	keys := make([]ngram.Gram, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// EncodePostings encodes the entity index. Grams are sorted so equal
// indexes always encode to equal bytes.
func EncodePostings(idx *ports.Index) ([]byte, error) {
	// Header: 4 bytes. Per gram: 2 + len(key) + 4. Per posting: 1 + 2 + len(id) + 4.
	totalSize := 4
	for g, ps := range idx.Postings {
		totalSize += 2 + len(g) + 4
		for _, p := range ps {
			totalSize += 7 + len(p.ID.ID)
		}
	}

	buf := make([]byte, totalSize)
	keys := sortedGrams(idx.Postings)
	binary.LittleEndian.PutUint32(buf, uint32(len(keys)))
	offset := 4

	for _, g := range keys {
		var err error
		if offset, err = putKey(buf, offset, string(g)); err != nil {
			return nil, err
		}
		ps := idx.Postings[g]
		binary.LittleEndian.PutUint32(buf[offset:], uint32(len(ps)))
		offset += 4
		for _, p := range ps {
			buf[offset] = byte(p.ID.Kind)
			offset++
			if offset, err = putKey(buf, offset, p.ID.ID); err != nil {
				return nil, err
			}
			binary.LittleEndian.PutUint32(buf[offset:], p.Freq)
			offset += 4
		}
	}
	return buf, nil
}

// DecodePostings decodes EncodePostings output. Every read is bounds-checked
// so corrupt data yields an error instead of a panic.
func DecodePostings(data []byte) (*ports.Index, error) {
	r := reader{data: data}
	count, err := r.uint32("gram count")
	if err != nil {
		return nil, err
	}

	idx := &ports.Index{Postings: make(map[ngram.Gram][]ports.Posting, count)}
	for i := uint32(0); i < count; i++ {
		key, err := r.key("gram")
		if err != nil {
			return nil, fmt.Errorf("gram %d: %w", i, err)
		}
		n, err := r.uint32("posting count")
		if err != nil {
			return nil, fmt.Errorf("gram %q: %w", key, err)
		}
		// Smallest posting is 7 bytes; reject counts the data cannot hold.
		if uint64(n)*7 > uint64(r.remaining()) {
			return nil, fmt.Errorf("gram %q: %d postings exceed %d remaining bytes", key, n, r.remaining())
		}
		ps := make([]ports.Posting, n)
		for j := range ps {
			kind, err := r.uint8("kind")
			if err != nil {
				return nil, fmt.Errorf("gram %q posting %d: %w", key, j, err)
			}
			if !ident.Kind(kind).Valid() {
				return nil, fmt.Errorf("gram %q posting %d: invalid kind %d", key, j, kind)
			}
			id, err := r.key("id")
			if err != nil {
				return nil, fmt.Errorf("gram %q posting %d: %w", key, j, err)
			}
			freq, err := r.uint32("freq")
			if err != nil {
				return nil, fmt.Errorf("gram %q posting %d: %w", key, j, err)
			}
			ps[j] = ports.Posting{ID: ident.New(ident.Kind(kind), id), Freq: freq}
		}
		idx.Postings[ngram.Gram(key)] = ps
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after postings", r.remaining())
	}
	return idx, nil
}

// EncodeEncyclopedia encodes the LoboCorp index.
func EncodeEncyclopedia(idx *ports.EncyclopediaIndex) ([]byte, error) {
	totalSize := 4
	for g, ps := range idx.Postings {
		totalSize += 2 + len(g) + 4 + len(ps)*encyclopediaPostingSize
	}

	buf := make([]byte, totalSize)
	keys := sortedGrams(idx.Postings)
	binary.LittleEndian.PutUint32(buf, uint32(len(keys)))
	offset := 4

	for _, g := range keys {
		var err error
		if offset, err = putKey(buf, offset, string(g)); err != nil {
			return nil, err
		}
		ps := idx.Postings[g]
		binary.LittleEndian.PutUint32(buf[offset:], uint32(len(ps)))
		offset += 4
		for _, p := range ps {
			binary.LittleEndian.PutUint32(buf[offset:], p.ID)
			binary.LittleEndian.PutUint32(buf[offset+4:], p.Freq)
			offset += encyclopediaPostingSize
		}
	}
	return buf, nil
}

// DecodeEncyclopedia decodes EncodeEncyclopedia output.
func DecodeEncyclopedia(data []byte) (*ports.EncyclopediaIndex, error) {
	r := reader{data: data}
	count, err := r.uint32("gram count")
	if err != nil {
		return nil, err
	}

	idx := &ports.EncyclopediaIndex{Postings: make(map[ngram.Gram][]ports.EncyclopediaPosting, count)}
	for i := uint32(0); i < count; i++ {
		key, err := r.key("gram")
		if err != nil {
			return nil, fmt.Errorf("gram %d: %w", i, err)
		}
		n, err := r.uint32("posting count")
		if err != nil {
			return nil, fmt.Errorf("gram %q: %w", key, err)
		}
		if uint64(n)*encyclopediaPostingSize > uint64(r.remaining()) {
			return nil, fmt.Errorf("gram %q: truncated postings (need %d)", key, uint64(n)*encyclopediaPostingSize)
		}
		ps := make([]ports.EncyclopediaPosting, n)
		for j := range ps {
			ps[j].ID, _ = r.uint32("id")
			ps[j].Freq, _ = r.uint32("freq")
		}
		idx.Postings[ngram.Gram(key)] = ps
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after encyclopedia", r.remaining())
	}
	return idx, nil
}

func putKey(buf []byte, offset int, key string) (int, error) {
	if len(key) > 65535 {
		return offset, fmt.Errorf("key too long: %d bytes", len(key))
	}
	binary.LittleEndian.PutUint16(buf[offset:], uint16(len(key)))
	offset += 2
	copy(buf[offset:], key)
	return offset + len(key), nil
}

// reader walks a byte slice with bounds checks.
type reader struct {
	data   []byte
	offset int
}

func (r *reader) remaining() int { return len(r.data) - r.offset }

func (r *reader) need(n int, what string) error {
	if r.offset+n > len(r.data) {
		return fmt.Errorf("truncated at %s (offset %d, need %d)", what, r.offset, n)
	}
	return nil
}

func (r *reader) uint8(what string) (uint8, error) {
	if err := r.need(1, what); err != nil {
		return 0, err
	}
	v := r.data[r.offset]
	r.offset++
	return v, nil
}

func (r *reader) uint16(what string) (uint16, error) {
	if err := r.need(2, what); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.offset:])
	r.offset += 2
	return v, nil
}

func (r *reader) uint32(what string) (uint32, error) {
	if err := r.need(4, what); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.offset:])
	r.offset += 4
	return v, nil
}

func (r *reader) bytes(n int, what string) ([]byte, error) {
	if err := r.need(n, what); err != nil {
		return nil, err
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

func (r *reader) key(what string) (string, error) {
	n, err := r.uint16(what + " length")
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(n), what)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
