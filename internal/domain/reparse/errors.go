package reparse

import (
	"fmt"
	"strings"

	"github.com/corey/ruinadex/internal/domain/ident"
)

// SourceParseError is a malformed game file: bad XML, a missing required
// node, an unknown enum value, or a duplicate id.
type SourceParseError struct {
	File     string
	RecordID string // empty when the error is not tied to a record
	Err      error
}

func (e *SourceParseError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("%s: record %s: %v", e.File, e.RecordID, e.Err)
}

func (e *SourceParseError) Unwrap() error { return e.Err }

// PartitionError is a curated TOML file that does not partition the parsed
// records: an id listed in several tables, in none, or not parsed at all.
type PartitionError struct {
	File       string
	Kind       ident.Kind
	ID         string
	Partitions []string
	// Unknown is set when the id is listed but no such record was parsed.
	Unknown bool
}

func (e *PartitionError) Error() string {
	switch {
	case e.Unknown:
		return fmt.Sprintf("%s: %s %s in [%s] does not exist",
			e.File, e.Kind, e.ID, strings.Join(e.Partitions, ", "))
	case len(e.Partitions) == 0:
		return fmt.Sprintf("%s: %s %s is in no partition", e.File, e.Kind, e.ID)
	default:
		return fmt.Sprintf("%s: %s %s is in several partitions: %s",
			e.File, e.Kind, e.ID, strings.Join(e.Partitions, ", "))
	}
}
