// Package locale enumerates the languages shipped by the two games.
//
// Ruina ships five locales; LoboCorp ships those five plus six more. Each
// locale knows the directory name the game uses under Localize/ and its
// BCP-47 tag.
package locale

import (
	"fmt"

	"golang.org/x/text/language"
)

// Locale is a Ruina locale. The order of the constants is the order used
// whenever text from several locales is concatenated.
type Locale uint8

const (
	English Locale = iota
	Korean
	Japanese
	Chinese
	TraditionalChinese
)

// All lists every Ruina locale in canonical order.
var All = [...]Locale{English, Korean, Japanese, Chinese, TraditionalChinese}

// Valid reports whether l is a declared Ruina locale.
func (l Locale) Valid() bool { return int(l) < len(All) }

// Dir returns the directory name the game uses for this locale.
func (l Locale) Dir() string { return LoboLocale(l).Dir() }

// Tag returns the BCP-47 tag for this locale.
func (l Locale) Tag() language.Tag { return LoboLocale(l).Tag() }

func (l Locale) String() string { return l.Tag().String() }

// Lobo widens a Ruina locale to the LoboCorp set.
func (l Locale) Lobo() LoboLocale { return LoboLocale(l) }

// FromTag finds the Ruina locale with exactly this tag.
func FromTag(tag language.Tag) (Locale, bool) {
	l, ok := LoboFromTag(tag)
	if !ok || !l.Ruina() {
		return 0, false
	}
	return Locale(l), true
}

// FromDir finds the Ruina locale stored under the given directory name.
func FromDir(dir string) (Locale, bool) {
	for _, l := range All {
		if l.Dir() == dir {
			return l, true
		}
	}
	return 0, false
}

// Parse accepts a BCP-47 tag ("ko", "zh-TW") or a game directory name
// ("kr", "trcn").
func Parse(s string) (Locale, error) {
	if l, ok := FromDir(s); ok {
		return l, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("parse locale %q: %w", s, err)
	}
	if l, ok := FromTag(tag); ok {
		return l, nil
	}
	return 0, fmt.Errorf("parse locale %q: not a Ruina locale", s)
}

// LoboLocale is a LoboCorp locale. The first five values coincide with the
// Ruina locales.
type LoboLocale uint8

const (
	LoboEnglish LoboLocale = iota
	LoboKorean
	LoboJapanese
	LoboChinese
	LoboTraditionalChinese
	LoboRussian
	LoboBulgarian
	LoboSpanish
	LoboFrench
	LoboPortugueseBrazil
	LoboPortuguesePortugal
)

// AllLobo lists every LoboCorp locale in canonical order.
var AllLobo = [...]LoboLocale{
	LoboEnglish, LoboKorean, LoboJapanese, LoboChinese, LoboTraditionalChinese,
	LoboRussian, LoboBulgarian, LoboSpanish, LoboFrench,
	LoboPortugueseBrazil, LoboPortuguesePortugal,
}

var loboDirs = [...]string{"en", "kr", "jp", "cn", "trcn", "ru", "bg", "es", "fr", "pt_br", "pt_pt"}

var loboTags = [...]language.Tag{
	language.MustParse("en"),
	language.MustParse("ko"),
	language.MustParse("ja"),
	language.MustParse("zh-CN"),
	language.MustParse("zh-TW"),
	language.MustParse("ru"),
	language.MustParse("bg"),
	language.MustParse("es"),
	language.MustParse("fr"),
	language.MustParse("pt-BR"),
	language.MustParse("pt-PT"),
}

// Valid reports whether l is a declared LoboCorp locale.
func (l LoboLocale) Valid() bool { return int(l) < len(AllLobo) }

// Ruina reports whether l also exists in Ruina.
func (l LoboLocale) Ruina() bool { return l <= LoboTraditionalChinese }

// Dir returns the directory name the game uses for this locale.
func (l LoboLocale) Dir() string {
	if !l.Valid() {
		return ""
	}
	return loboDirs[l]
}

// Tag returns the BCP-47 tag for this locale.
func (l LoboLocale) Tag() language.Tag {
	if !l.Valid() {
		return language.Und
	}
	return loboTags[l]
}

func (l LoboLocale) String() string { return l.Tag().String() }

// LoboFromTag finds the LoboCorp locale with exactly this tag.
func LoboFromTag(tag language.Tag) (LoboLocale, bool) {
	for _, l := range AllLobo {
		if loboTags[l] == tag {
			return l, true
		}
	}
	return 0, false
}

// LoboFromDir finds the LoboCorp locale stored under the given directory name.
func LoboFromDir(dir string) (LoboLocale, bool) {
	for _, l := range AllLobo {
		if loboDirs[l] == dir {
			return l, true
		}
	}
	return 0, false
}
