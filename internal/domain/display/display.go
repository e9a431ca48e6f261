// Package display resolves the name a user sees for an entity in a locale.
package display

import (
	"strings"

	"github.com/corey/ruinadex/internal/domain/corpus"
	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/domain/model"
)

// Name returns the localized display name of id in loc. It reports false
// when the entity has no text in that locale.
func Name(c *corpus.Corpus, id ident.TypedID, loc locale.Locale) (string, bool) {
	t, ok := c.Localization(id, loc)
	if !ok {
		return "", false
	}
	switch v := t.(type) {
	case *model.AbnoPageText:
		return v.CardName, true
	case *model.BattleSymbolText:
		return v.Prefix + " " + v.Postfix, true
	case *model.CombatPageText:
		return v.Name, true
	case *model.KeyPageText:
		return v.Name, true
	case *model.PassiveText:
		return v.Name, true
	}
	return "", false
}

// NameOrFallback tries loc, then English, then the raw id. The returned
// locale is the one the name came from.
func NameOrFallback(c *corpus.Corpus, id ident.TypedID, loc locale.Locale) (string, locale.Locale) {
	if n, ok := Name(c, id, loc); ok && n != "" {
		return n, loc
	}
	if n, ok := Name(c, id, locale.English); ok && n != "" {
		return n, locale.English
	}
	return id.String(), loc
}

// possessiveSuffixes are removed, first match only, before comparing names.
var possessiveSuffixes = []string{
	"’s Page",
	"’ Page",
	"のページ",
	"사서 책장",
	"의 책장",
	"책장",
	"之页",
	"之頁",
}

// Equivalent reduces a display name to the form used for ambiguity
// detection, so "Xiao’s Page" and a passive named "Xiao" collide.
func Equivalent(name string) string {
	for _, s := range possessiveSuffixes {
		if strings.HasSuffix(name, s) {
			name = strings.TrimSuffix(name, s)
			break
		}
	}
	return strings.TrimSpace(name)
}
