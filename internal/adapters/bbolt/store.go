// Package bbolt implements ports.ArtifactStore using bbolt (embedded B+ tree).
// Each named build gets its own bucket under "builds". The encoded sections of
// the artifact live under separate keys in that bucket. Writes are
// transactional, so a crash mid-write cannot corrupt a committed build.
package bbolt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/ruinadex/internal/adapters/codec"
	"github.com/corey/ruinadex/internal/ports"
)

// Bucket keys
var (
	bucketBuilds    = []byte("builds")
	keyVersion      = []byte("version")
	keyPostings     = []byte("postings")
	keyEncyclopedia = []byte("encyclopedia")
	keyTables       = []byte("tables")
)

var _ ports.ArtifactStore = (*Store)(nil)

// Store implements ports.ArtifactStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path. A database
// locked by another process fails after one second instead of hanging.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveArtifact persists a under name, replacing any prior build of that name.
func (s *Store) SaveArtifact(name string, a *ports.Artifact) error {
	if name == "" {
		return fmt.Errorf("empty build name")
	}
	secs, err := codec.EncodeSections(a)
	if err != nil {
		return err
	}
	version := binary.LittleEndian.AppendUint16(nil, codec.Version)

	return s.db.Update(func(tx *bolt.Tx) error {
		builds, err := tx.CreateBucketIfNotExists(bucketBuilds)
		if err != nil {
			return err
		}
		if err := builds.DeleteBucket([]byte(name)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		b, err := builds.CreateBucket([]byte(name))
		if err != nil {
			return err
		}
		for _, kv := range []struct{ k, v []byte }{
			{keyVersion, version},
			{keyPostings, secs.Postings},
			{keyEncyclopedia, secs.Encyclopedia},
			{keyTables, secs.Tables},
		} {
			if err := b.Put(kv.k, kv.v); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadArtifact retrieves the build stored under name.
// Returns nil, nil if no such build exists.
func (s *Store) LoadArtifact(name string) (*ports.Artifact, error) {
	var secs *codec.Sections
	var version []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		builds := tx.Bucket(bucketBuilds)
		if builds == nil {
			return nil
		}
		b := builds.Bucket([]byte(name))
		if b == nil {
			return nil
		}
		// bbolt slices are only valid within the transaction.
		version = clone(b.Get(keyVersion))
		secs = &codec.Sections{
			Postings:     clone(b.Get(keyPostings)),
			Encyclopedia: clone(b.Get(keyEncyclopedia)),
			Tables:       clone(b.Get(keyTables)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if secs == nil {
		return nil, nil
	}

	if len(version) != 2 {
		return nil, fmt.Errorf("build %q: missing version", name)
	}
	if v := binary.LittleEndian.Uint16(version); v != codec.Version {
		return nil, fmt.Errorf("build %q: %w", name, &codec.VersionError{Got: v})
	}
	a, err := codec.DecodeSections(secs)
	if err != nil {
		return nil, fmt.Errorf("build %q: %w", name, err)
	}
	return a, nil
}

// Builds lists the stored build names in byte order.
func (s *Store) Builds() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		builds := tx.Bucket(bucketBuilds)
		if builds == nil {
			return nil
		}
		return builds.ForEachBucket(func(k []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// DeleteArtifact removes a build.
// Idempotent: deleting a nonexistent build is not an error.
func (s *Store) DeleteArtifact(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		builds := tx.Bucket(bucketBuilds)
		if builds == nil {
			return nil
		}
		if err := builds.DeleteBucket([]byte(name)); errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		} else {
			return err
		}
	})
}

func clone(v []byte) []byte {
	if v == nil {
		return nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out
}
