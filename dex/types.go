package dex

import (
	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/domain/model"
)

// Identifiers and locales.
type (
	Kind       = ident.Kind
	TypedID    = ident.TypedID
	ParseError = ident.ParseError
	Locale     = locale.Locale
	LoboLocale = locale.LoboLocale
)

const (
	AbnoPage     = ident.AbnoPage
	BattleSymbol = ident.BattleSymbol
	CombatPage   = ident.CombatPage
	KeyPage      = ident.KeyPage
	Passive      = ident.Passive
)

const (
	English            = locale.English
	Korean             = locale.Korean
	Japanese           = locale.Japanese
	Chinese            = locale.Chinese
	TraditionalChinese = locale.TraditionalChinese
)

// Locales lists every Ruina locale in canonical order.
var Locales = locale.All

// Records and their localized text.
type (
	Record             = model.Record
	AbnoPageRecord     = model.AbnoPage
	BattleSymbolRecord = model.BattleSymbol
	CombatPageRecord   = model.CombatPage
	KeyPageRecord      = model.KeyPage
	PassiveRecord      = model.Passive
	Text               = model.Text
	Abnormality        = model.Abnormality
	Collectability     = model.Collectability
	Chapter            = model.Chapter
)

// ParseID parses the prefixed form of an id, such as "c#607204".
func ParseID(s string) (TypedID, error) { return ident.Parse(s) }

// ParseLocale accepts a game directory name ("kr") or a BCP-47 tag ("ko").
func ParseLocale(s string) (Locale, error) { return locale.Parse(s) }
