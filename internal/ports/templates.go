package ports

import "github.com/corey/ruinadex/internal/domain/locale"

// Templates resolves localization handles (e.g. "chapter-urban-myth") to
// text. The YAML adapter loads one flat key/value set per locale.
type Templates interface {
	// Lookup returns the text of key in loc, without falling back to
	// another locale.
	Lookup(loc locale.Locale, key string) (string, bool)
}
