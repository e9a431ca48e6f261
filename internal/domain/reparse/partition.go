package reparse

import (
	"bytes"
	"fmt"
	"io/fs"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/corey/ruinadex/internal/domain/corpus"
	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/model"
)

const (
	CollectabilityFile = "collectability.toml"
	ChapterFile        = "chapter.toml"
)

const unranked = "unranked"

// partitionFile is a curated TOML file that splits record ids of some kinds
// into named tables: table -> "<kind>s" array -> ids.
type partitionFile struct {
	name   string
	tables map[string]map[ident.Kind][]string
}

// loadPartitions reads file and checks that only the given tables and kinds
// appear in it.
func loadPartitions(fsys fs.FS, file string, tables []string, kinds []ident.Kind) (*partitionFile, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, &SourceParseError{File: file, Err: err}
	}

	var raw map[string]map[string][]string
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, &SourceParseError{File: file, Err: err}
	}

	allowedTable := make(map[string]bool, len(tables))
	for _, t := range tables {
		allowedTable[t] = true
	}
	arrayKind := make(map[string]ident.Kind, len(kinds))
	for _, k := range kinds {
		arrayKind[k.Name()+"s"] = k
	}

	pf := &partitionFile{name: file, tables: make(map[string]map[ident.Kind][]string)}
	for table, arrays := range raw {
		if !allowedTable[table] {
			return nil, &SourceParseError{File: file, Err: fmt.Errorf("unknown table [%s]", table)}
		}
		pf.tables[table] = make(map[ident.Kind][]string)
		for array, ids := range arrays {
			k, ok := arrayKind[array]
			if !ok {
				return nil, &SourceParseError{File: file, Err: fmt.Errorf("unknown array %s.%s", table, array)}
			}
			pf.tables[table][k] = ids
		}
	}
	return pf, nil
}

// mentions reports whether any table lists ids of kind k.
func (pf *partitionFile) mentions(k ident.Kind) bool {
	for _, arrays := range pf.tables {
		if _, ok := arrays[k]; ok {
			return true
		}
	}
	return false
}

// assign maps every record id of the given kinds to exactly one table.
// Tables are walked in the given order so the first error is stable.
func (pf *partitionFile) assign(c *corpus.Corpus, tables []string, kinds []ident.Kind) (map[ident.TypedID]string, error) {
	where := make(map[ident.TypedID][]string)
	for _, table := range tables {
		for _, k := range kinds {
			for _, id := range pf.tables[table][k] {
				tid := ident.New(k, id)
				where[tid] = append(where[tid], table)
			}
		}
	}

	listed := make([]ident.TypedID, 0, len(where))
	for tid := range where {
		listed = append(listed, tid)
	}
	sort.Slice(listed, func(i, j int) bool { return listed[i].Less(listed[j]) })
	for _, tid := range listed {
		if _, ok := c.Record(tid); !ok {
			return nil, &PartitionError{File: pf.name, Kind: tid.Kind, ID: tid.ID, Partitions: where[tid], Unknown: true}
		}
		if len(where[tid]) > 1 {
			return nil, &PartitionError{File: pf.name, Kind: tid.Kind, ID: tid.ID, Partitions: where[tid]}
		}
	}

	out := make(map[ident.TypedID]string, len(where))
	for _, k := range kinds {
		for _, tid := range c.IDsOf(k) {
			tables := where[tid]
			if len(tables) == 0 {
				return nil, &PartitionError{File: pf.name, Kind: k, ID: tid.ID}
			}
			out[tid] = tables[0]
		}
	}
	return out, nil
}

func header(r model.Record) *model.Header {
	switch v := r.(type) {
	case *model.AbnoPage:
		return &v.Header
	case *model.BattleSymbol:
		return &v.Header
	case *model.CombatPage:
		return &v.Header
	case *model.KeyPage:
		return &v.Header
	case *model.Passive:
		return &v.Header
	}
	panic(fmt.Sprintf("unknown record type %T", r))
}

var rankedKinds = []ident.Kind{ident.CombatPage, ident.KeyPage, ident.Passive}

// defaultCollectability applies to kinds that collectability.toml does not mention.
var defaultCollectability = map[ident.Kind]model.Collectability{
	ident.AbnoPage:     model.Obtainable,
	ident.BattleSymbol: model.Collectable,
}

// joinCollectability assigns a Collectability to every record.
func joinCollectability(fsys fs.FS, c *corpus.Corpus) error {
	tables := make([]string, 0, len(model.Collectabilities))
	for _, col := range model.Collectabilities {
		tables = append(tables, col.String())
	}
	pf, err := loadPartitions(fsys, CollectabilityFile, tables, ident.Kinds[:])
	if err != nil {
		return err
	}

	kinds := append([]ident.Kind(nil), rankedKinds...)
	for _, k := range []ident.Kind{ident.AbnoPage, ident.BattleSymbol} {
		if pf.mentions(k) {
			kinds = append(kinds, k)
			continue
		}
		for _, tid := range c.IDsOf(k) {
			r, _ := c.Record(tid)
			header(r).Collectability = defaultCollectability[k]
		}
	}

	assigned, err := pf.assign(c, tables, kinds)
	if err != nil {
		return err
	}
	for tid, table := range assigned {
		col, err := model.ParseCollectability(table)
		if err != nil {
			return err
		}
		r, _ := c.Record(tid)
		header(r).Collectability = col
	}
	return nil
}

// joinChapters assigns a Chapter, or nil for unranked, to every combat page,
// key page and passive.
func joinChapters(fsys fs.FS, c *corpus.Corpus) error {
	tables := make([]string, 0, len(model.Chapters)+1)
	for _, ch := range model.Chapters {
		tables = append(tables, ch.String())
	}
	tables = append(tables, unranked)

	pf, err := loadPartitions(fsys, ChapterFile, tables, rankedKinds)
	if err != nil {
		return err
	}
	assigned, err := pf.assign(c, tables, rankedKinds)
	if err != nil {
		return err
	}
	for tid, table := range assigned {
		r, _ := c.Record(tid)
		if table == unranked {
			header(r).Chapter = nil
			continue
		}
		ch, err := model.ParseChapter(table)
		if err != nil {
			return err
		}
		header(r).Chapter = ch.Ptr()
	}
	return nil
}
