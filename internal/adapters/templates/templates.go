// Package templates loads localization templates: one directory per locale
// tag, each holding flat YAML files of key: text pairs.
//
// Usage:
//
//	templates.Load(locales.FS, ".")
package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/corey/ruinadex/internal/domain/locale"
)

// Bundle holds the templates of every Ruina locale. It implements
// ports.Templates.
type Bundle struct {
	texts [len(locale.All)]map[string]string
}

// Load reads <dir>/<tag>/*.yaml for every Ruina locale. English is required;
// other locales may be missing. Files are loaded in sorted order and a key
// defined twice in one locale is an error.
func Load(fsys fs.FS, dir string) (*Bundle, error) {
	b := &Bundle{}
	for _, loc := range locale.All {
		texts, err := loadLocale(fsys, path.Join(dir, loc.String()))
		if errors.Is(err, fs.ErrNotExist) && loc != locale.English {
			continue
		}
		if err != nil {
			return nil, err
		}
		b.texts[loc] = texts
	}
	if len(b.texts[locale.English]) == 0 {
		return nil, fmt.Errorf("templates in %q: no English keys", dir)
	}
	return b, nil
}

func loadLocale(fsys fs.FS, dir string) (map[string]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read templates dir %q: %w", dir, err)
	}

	// Sort for deterministic load order
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	texts := make(map[string]string)
	seen := make(map[string]string) // key -> source file
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		p := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}

		var kv map[string]string
		if err := yaml.Unmarshal(data, &kv); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}

		for k, v := range kv {
			if prev, ok := seen[k]; ok {
				return nil, fmt.Errorf("duplicate template key %q (first in %s, again in %s)", k, prev, entry.Name())
			}
			seen[k] = entry.Name()
			texts[k] = strings.TrimSpace(v)
		}
	}
	return texts, nil
}

// Lookup returns the text of key in loc.
func (b *Bundle) Lookup(loc locale.Locale, key string) (string, bool) {
	if !loc.Valid() {
		return "", false
	}
	s, ok := b.texts[loc][key]
	return s, ok
}

// Keys returns the keys defined for loc, sorted.
func (b *Bundle) Keys(loc locale.Locale) []string {
	if !loc.Valid() {
		return nil
	}
	keys := make([]string, 0, len(b.texts[loc]))
	for k := range b.texts[loc] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
