package model

// RiskLevel is an abnormality's LoboCorp risk class.
type RiskLevel uint8

const (
	Zayin RiskLevel = iota
	Teth
	He
	Waw
	Aleph
)

var riskLevelNames = []string{"ZAYIN", "TETH", "HE", "WAW", "ALEPH"}

func (r RiskLevel) String() string { return enumString(riskLevelNames, r) }

func ParseRiskLevel(s string) (RiskLevel, error) {
	return parseEnum[RiskLevel](riskLevelNames, "risk level", s)
}

// DamageType is the LoboCorp damage color. NoDamage marks abnormalities
// that never attack.
type DamageType uint8

const (
	NoDamage DamageType = iota
	Red
	White
	Black
	Pale
)

var damageTypeNames = []string{"", "R", "W", "B", "P"}

func (d DamageType) String() string { return enumString(damageTypeNames, d) }

func ParseDamageType(s string) (DamageType, error) {
	return parseEnum[DamageType](damageTypeNames, "damage type", s)
}

// Abnormality is one LoboCorp encyclopedia entry.
type Abnormality struct {
	ID     uint32
	Code   string
	Risk   RiskLevel
	Damage DamageType
}

// AbnormalityText is the localized name of an encyclopedia entry.
type AbnormalityText struct {
	Name string
}
