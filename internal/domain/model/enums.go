package model

import "fmt"

// parseEnum maps a game discriminant to its enum value. Unknown values are
// errors so the reparser can fail loudly on schema drift.
func parseEnum[T ~uint8](names []string, what, s string) (T, error) {
	for i, n := range names {
		if n == s {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, s)
}

func enumString[T ~uint8](names []string, v T) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%d", v)
}

// Collectability describes how a player can come to own a record.
type Collectability uint8

const (
	Collectable Collectability = iota
	Obtainable
	EnemyOnly
)

var collectabilityNames = []string{"collectable", "obtainable", "enemy_only"}

// Collectabilities lists every value in canonical order.
var Collectabilities = [...]Collectability{Collectable, Obtainable, EnemyOnly}

func (c Collectability) String() string { return enumString(collectabilityNames, c) }

// ParseCollectability accepts the snake_case table names used in collectability.toml.
func ParseCollectability(s string) (Collectability, error) {
	return parseEnum[Collectability](collectabilityNames, "collectability", s)
}

// Chapter is the story ranking a record belongs to. Records outside every
// ranking carry a nil *Chapter.
type Chapter uint8

const (
	Canard Chapter = iota
	UrbanMyth
	UrbanLegend
	UrbanPlague
	UrbanNightmare
	StarOfTheCity
	ImpuritasCivitatis
)

var chapterNames = []string{
	"canard", "urban_myth", "urban_legend", "urban_plague",
	"urban_nightmare", "star_of_the_city", "impuritas_civitatis",
}

// Chapters lists every chapter in story order.
var Chapters = [...]Chapter{Canard, UrbanMyth, UrbanLegend, UrbanPlague, UrbanNightmare, StarOfTheCity, ImpuritasCivitatis}

func (c Chapter) String() string { return enumString(chapterNames, c) }

// Ptr returns a pointer to a copy of c.
func (c Chapter) Ptr() *Chapter { return &c }

// ParseChapter accepts the snake_case table names used in chapter.toml.
func ParseChapter(s string) (Chapter, error) {
	return parseEnum[Chapter](chapterNames, "chapter", s)
}

// Rarity is shared by combat pages, key pages and passives.
type Rarity uint8

const (
	Common Rarity = iota
	Uncommon
	Rare
	Unique
)

var rarityNames = []string{"Common", "Uncommon", "Rare", "Unique"}

func (r Rarity) String() string { return enumString(rarityNames, r) }

func ParseRarity(s string) (Rarity, error) { return parseEnum[Rarity](rarityNames, "rarity", s) }

// CardRange is the range type of a combat page.
type CardRange uint8

const (
	Near CardRange = iota
	Far
	FarArea
	FarAreaEach
	Instance
)

var cardRangeNames = []string{"Near", "Far", "FarArea", "FarAreaEach", "Instance"}

func (r CardRange) String() string { return enumString(cardRangeNames, r) }

func ParseCardRange(s string) (CardRange, error) {
	return parseEnum[CardRange](cardRangeNames, "card range", s)
}

// DiceType separates offensive, defensive and counter dice.
type DiceType uint8

const (
	Atk DiceType = iota
	Def
	Standby
)

var diceTypeNames = []string{"Atk", "Def", "Standby"}

func (d DiceType) String() string { return enumString(diceTypeNames, d) }

func ParseDiceType(s string) (DiceType, error) {
	return parseEnum[DiceType](diceTypeNames, "dice type", s)
}

// DiceDetail is the damage or block type of a single die.
type DiceDetail uint8

const (
	Slash DiceDetail = iota
	Penetrate
	Hit
	Guard
	Evasion
)

var diceDetailNames = []string{"Slash", "Penetrate", "Hit", "Guard", "Evasion"}

func (d DiceDetail) String() string { return enumString(diceDetailNames, d) }

func ParseDiceDetail(s string) (DiceDetail, error) {
	return parseEnum[DiceDetail](diceDetailNames, "dice detail", s)
}

// BookRange is the weapon range of a key page.
type BookRange uint8

const (
	Melee BookRange = iota
	Ranged
	Hybrid
)

var bookRangeNames = []string{"Melee", "Range", "Hybrid"}

func (r BookRange) String() string { return enumString(bookRangeNames, r) }

func ParseBookRange(s string) (BookRange, error) {
	return parseEnum[BookRange](bookRangeNames, "book range", s)
}

// Resistance is one entry of a key page's resistance table.
type Resistance uint8

const (
	Normal Resistance = iota
	Immune
	Resist
	Endure
	Weak
	Vulnerable
)

var resistanceNames = []string{"Normal", "Immune", "Resist", "Endure", "Weak", "Vulnerable"}

func (r Resistance) String() string { return enumString(resistanceNames, r) }

func ParseResistance(s string) (Resistance, error) {
	return parseEnum[Resistance](resistanceNames, "resistance", s)
}

// EmotionState marks an abno page as positive or negative.
type EmotionState uint8

const (
	Positive EmotionState = iota
	Negative
)

var emotionStateNames = []string{"Positive", "Negative"}

func (s EmotionState) String() string { return enumString(emotionStateNames, s) }

func ParseEmotionState(s string) (EmotionState, error) {
	return parseEnum[EmotionState](emotionStateNames, "emotion state", s)
}

// Sephirah is the floor an abno page is unlocked on.
type Sephirah uint8

const (
	NoSephirah Sephirah = iota
	Malkuth
	Yesod
	Hod
	Netzach
	Tiphereth
	Gebura
	Chesed
	Binah
	Hokma
	Keter
)

var sephirahNames = []string{
	"None", "Malkuth", "Yesod", "Hod", "Netzach", "Tiphereth",
	"Gebura", "Chesed", "Binah", "Hokma", "Keter",
}

func (s Sephirah) String() string { return enumString(sephirahNames, s) }

func ParseSephirah(s string) (Sephirah, error) {
	return parseEnum[Sephirah](sephirahNames, "sephirah", s)
}

// GiftPosition is the face slot a battle symbol occupies.
type GiftPosition uint8

const (
	NoPosition GiftPosition = iota
	Eye
	Nose
	Cheek
	Mouth
	Ear
	Hat
	Mask
	Helmet
)

var giftPositionNames = []string{"None", "Eye", "Nose", "Cheek", "Mouth", "Ear", "Hat", "Mask", "Helmet"}

func (p GiftPosition) String() string { return enumString(giftPositionNames, p) }

func ParseGiftPosition(s string) (GiftPosition, error) {
	return parseEnum[GiftPosition](giftPositionNames, "gift position", s)
}
