package disambig

import (
	"bytes"
	"fmt"
	"io/fs"

	"github.com/pelletier/go-toml/v2"

	"github.com/corey/ruinadex/internal/domain/corpus"
	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/ports"
)

const (
	AnnotationsFile     = "annotations.toml"
	DisambiguationsFile = "disambiguations.toml"
)

// Entry attaches a localization handle to one entity.
type Entry struct {
	ID             ident.TypedID
	LocalizationID string
}

type entryFile struct {
	Entry []struct {
		PageType       string `toml:"pagetype"`
		ID             string `toml:"id"`
		LocalizationID string `toml:"localization_id"`
	} `toml:"entry"`
}

// LoadEntries reads a curated [[entry]] file. Every entry must name an
// existing record, and an entity may appear only once per file.
func LoadEntries(fsys fs.FS, file string, c *corpus.Corpus) ([]Entry, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	var raw entryFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}

	seen := make(map[ident.TypedID]bool, len(raw.Entry))
	out := make([]Entry, 0, len(raw.Entry))
	for i, e := range raw.Entry {
		k, ok := ident.KindFromName(e.PageType)
		if !ok {
			return nil, fmt.Errorf("%s: entry %d: unknown pagetype %q", file, i, e.PageType)
		}
		id := ident.New(k, e.ID)
		if _, ok := c.Record(id); !ok {
			return nil, fmt.Errorf("%s: entry %d: no record %s", file, i, id)
		}
		if e.LocalizationID == "" {
			return nil, fmt.Errorf("%s: entry %d: empty localization_id", file, i)
		}
		if seen[id] {
			return nil, fmt.Errorf("%s: entry %d: %s listed twice", file, i, id)
		}
		seen[id] = true
		out = append(out, Entry{ID: id, LocalizationID: e.LocalizationID})
	}
	return out, nil
}

// TemplateError is a localization handle with no English text.
type TemplateError struct {
	Key string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q has no English text", e.Key)
}

// Localized is a template resolved for every locale, indexed by locale.
type Localized [len(locale.All)]string

// resolve looks key up in every locale, falling back to English.
func resolve(t ports.Templates, key string) (Localized, error) {
	var out Localized
	en, ok := t.Lookup(locale.English, key)
	if !ok {
		return out, &TemplateError{Key: key}
	}
	for _, loc := range locale.All {
		if s, ok := t.Lookup(loc, key); ok && s != "" {
			out[loc] = s
		} else {
			out[loc] = en
		}
	}
	return out, nil
}

// Annotations resolves annotation entries into per-locale search text.
func Annotations(t ports.Templates, entries []Entry) (ports.Mapping, error) {
	m := make(ports.Mapping, len(entries))
	for _, e := range entries {
		texts, err := resolve(t, e.LocalizationID)
		if err != nil {
			return nil, fmt.Errorf("annotation for %s: %w", e.ID, err)
		}
		for _, loc := range locale.All {
			m.Set(e.ID, loc, texts[loc])
		}
	}
	return m, nil
}
