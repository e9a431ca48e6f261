// Package model holds the immutable records reparsed from game data and the
// localized text attached to them.
package model

import "github.com/corey/ruinadex/internal/domain/ident"

// Header carries the fields every record kind shares.
type Header struct {
	ID             string
	Collectability Collectability
	// Chapter is nil for unranked records and for kinds without a ranking.
	Chapter *Chapter
}

// Record is implemented by the five record kinds only.
type Record interface {
	TypedID() ident.TypedID
	Meta() Header
	record()
}

// AbnoPage is an emotion card gained from an abnormality reception.
type AbnoPage struct {
	Header
	Name       string
	Sephirah   Sephirah
	Level      int
	TargetType string
	State      EmotionState
	Script     string
	Artwork    string
}

func (p *AbnoPage) TypedID() ident.TypedID { return ident.New(ident.AbnoPage, p.ID) }
func (p *AbnoPage) Meta() Header           { return p.Header }
func (*AbnoPage) record()                  {}

// BattleSymbol is a cosmetic gift with a passive effect.
type BattleSymbol struct {
	Header
	Name     string
	Position GiftPosition
	Resource string
	Scripts  []string
}

func (b *BattleSymbol) TypedID() ident.TypedID { return ident.New(ident.BattleSymbol, b.ID) }
func (b *BattleSymbol) Meta() Header           { return b.Header }
func (*BattleSymbol) record()                  {}

// CombatPage is a playable card.
type CombatPage struct {
	Header
	Name         string
	Artwork      string
	Rarity       Rarity
	Cost         int
	Range        CardRange
	StoryChapter int
	Options      []string
	Script       string
	Keywords     []string
	Dice         []Die
}

func (c *CombatPage) TypedID() ident.TypedID { return ident.New(ident.CombatPage, c.ID) }
func (c *CombatPage) Meta() Header           { return c.Header }
func (*CombatPage) record()                  {}

// Die is one die of a combat page.
type Die struct {
	Min    int
	Max    int
	Type   DiceType
	Detail DiceDetail
	Motion string
	Script string
	Desc   string
}

// KeyPage is an equippable book. Its localized text is keyed by TextID, not ID.
type KeyPage struct {
	Header
	TextID         string
	Name           string
	StoryChapter   int
	Rarity         Rarity
	CharacterSkin  string
	Range          BookRange
	HP             int
	Break          int
	SpeedMin       int
	SpeedMax       int
	SpeedDiceNum   int
	StartLight     int
	MaxLight       int
	AddedStartDraw int
	Resists        Resists
	Passives       []string
	OnlyCards      []string
}

func (k *KeyPage) TypedID() ident.TypedID { return ident.New(ident.KeyPage, k.ID) }
func (k *KeyPage) Meta() Header           { return k.Header }
func (*KeyPage) record()                  {}

// Resists is the resistance table of a key page: HP resistances first,
// stagger resistances second.
type Resists struct {
	Slash       Resistance
	Pierce      Resistance
	Blunt       Resistance
	SlashBreak  Resistance
	PierceBreak Resistance
	BluntBreak  Resistance
}

// Passive is a key page ability.
type Passive struct {
	Header
	Name   string
	Rarity Rarity
	Cost   int
	Script string
}

func (p *Passive) TypedID() ident.TypedID { return ident.New(ident.Passive, p.ID) }
func (p *Passive) Meta() Header           { return p.Header }
func (*Passive) record()                  {}
