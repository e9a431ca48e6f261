package model

// Text is the localized text attached to one record in one locale.
// Implemented by the five *Text types below only.
type Text interface {
	text()
}

type AbnoPageText struct {
	CardName    string
	AbilityDesc string
	FlavorText  string
}

type BattleSymbolText struct {
	Prefix  string
	Postfix string
	Desc    string
}

type CombatPageText struct {
	Name    string
	Ability string
}

// KeyPageText is keyed by the key page's TextID.
type KeyPageText struct {
	Name string
	Desc []string
}

type PassiveText struct {
	Name string
	Desc string
}

func (*AbnoPageText) text()     {}
func (*BattleSymbolText) text() {}
func (*CombatPageText) text()   {}
func (*KeyPageText) text()      {}
func (*PassiveText) text()      {}
