package domain

import "strings"

// StatEntry is one base-stat reading as delivered by the upstream dex API.
// Immutable once received.
type StatEntry struct {
	Name string `json:"name"`
	Base int    `json:"base"`
}

// Creature is the full detail record for one Pokémon.
type Creature struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"` // API slug, e.g. "pikachu"
	KoreanName string      `json:"korean_name,omitempty"`
	Types      []string    `json:"types"`
	Abilities  []string    `json:"abilities"`
	Height     int         `json:"height"` // decimetres
	Weight     int         `json:"weight"` // hectograms
	Moves      []string    `json:"moves"`
	Sprite     string      `json:"sprite,omitempty"`
	Artwork    string      `json:"artwork,omitempty"`
	Stats      []StatEntry `json:"stats"`
}

// HPBase returns the hit-point base stat, 0 when absent.
func (c *Creature) HPBase() int {
	if c == nil {
		return 0
	}
	for _, s := range c.Stats {
		if s.Name == "hp" {
			return s.Base
		}
	}
	return 0
}

// DisplayName prefers the Korean localization when known.
func (c *Creature) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.KoreanName != "" {
		return c.KoreanName
	}
	return capitalize(c.Name)
}

func (c *Creature) HeightMeters() float64 {
	if c == nil {
		return 0
	}
	return float64(c.Height) / 10
}

func (c *Creature) WeightKg() float64 {
	if c == nil {
		return 0
	}
	return float64(c.Weight) / 10
}

// BestSprite prefers the official artwork over the pixel sprite.
func (c *Creature) BestSprite() string {
	if c == nil {
		return ""
	}
	if c.Artwork != "" {
		return c.Artwork
	}
	return c.Sprite
}

// CreatureRef is the lightweight list/pool element: enough to identify a
// creature without fetching its full detail record.
type CreatureRef struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	KoreanName string `json:"korean_name,omitempty"`
}

func (r CreatureRef) DisplayName() string {
	if r.KoreanName != "" {
		return r.KoreanName
	}
	return capitalize(r.Name)
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var typeNamesKo = map[string]string{
	"normal":   "노말",
	"fire":     "불꽃",
	"water":    "물",
	"electric": "전기",
	"grass":    "풀",
	"ice":      "얼음",
	"fighting": "격투",
	"poison":   "독",
	"ground":   "땅",
	"flying":   "비행",
	"psychic":  "에스퍼",
	"bug":      "벌레",
	"rock":     "바위",
	"ghost":    "고스트",
	"dragon":   "드래곤",
	"dark":     "악",
	"steel":    "강철",
	"fairy":    "페어리",
}

// TypeNameKo translates an English type slug to its Korean dex name,
// returning the input unchanged when unknown.
func TypeNameKo(name string) string {
	if ko, ok := typeNamesKo[strings.ToLower(name)]; ok {
		return ko
	}
	return name
}

var statNamesKo = map[string]string{
	"hp":              "HP",
	"attack":          "공격",
	"defense":         "방어",
	"special-attack":  "특수공격",
	"special-defense": "특수방어",
	"speed":           "스피드",
}

// StatNameKo translates a stat slug to its Korean label.
func StatNameKo(name string) string {
	if ko, ok := statNamesKo[strings.ToLower(name)]; ok {
		return ko
	}
	return name
}
