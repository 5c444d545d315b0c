package data

import (
	"fmt"

	"github.com/Varyaggg/quest-bot/internal/fold"
)

// Range is an inclusive integer interval.
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Avg returns the midpoint of the range.
func (r Range) Avg() float64 {
	return float64(r.Min+r.Max) / 2
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// Requirement gates a choice. Exactly one form is used: Item names a
// specific item, Category with Count asks for at least Count items of a kind.
type Requirement struct {
	Item     string   `yaml:"item,omitempty"`
	Category ItemKind `yaml:"category,omitempty"`
	Count    int      `yaml:"count,omitempty"`
}

func (r Requirement) String() string {
	if r.Item != "" {
		return "requires " + r.Item
	}
	noun := string(r.Category) + " items"
	if r.Category == ItemRune {
		noun = "runes"
	}
	return fmt.Sprintf("requires at least %d %s", r.Count, noun)
}

// Choice is an outgoing edge of a scene.
type Choice struct {
	Label    string       `yaml:"label"`
	To       string       `yaml:"to"`
	Requires *Requirement `yaml:"requires,omitempty"`
	Consumes []string     `yaml:"consumes,omitempty"`
	Grants   []string     `yaml:"grants,omitempty"`
	Reset    bool         `yaml:"reset,omitempty"`
}

// PuzzleOption is one answer of a puzzle.
type PuzzleOption struct {
	Label   string `yaml:"label"`
	Correct bool   `yaml:"correct"`
}

// Puzzle routes to Success or Failure depending on the picked option.
type Puzzle struct {
	Question string         `yaml:"question"`
	Options  []PuzzleOption `yaml:"options"`
	Success  string         `yaml:"success"`
	Failure  string         `yaml:"failure"`
}

// Entry effects fire every time a scene is entered.
type Entry struct {
	HP    int      `yaml:"hp,omitempty"`
	Items []string `yaml:"items,omitempty"`
}

// Scene is a node of the story graph.
type Scene struct {
	ID      string    `yaml:"id"`
	Title   string    `yaml:"title"`
	Kind    SceneKind `yaml:"kind"`
	Body    string    `yaml:"body"`
	Image   string    `yaml:"image,omitempty"`
	Hint    string    `yaml:"hint,omitempty"`
	Entry   Entry     `yaml:"entry,omitempty"`
	Choices []Choice  `yaml:"choices,omitempty"`
	Monster string    `yaml:"monster,omitempty"`
	Puzzle  *Puzzle   `yaml:"puzzle,omitempty"`
}

// Monster is the immutable template an encounter is created from.
type Monster struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name"`
	HP      int     `yaml:"hp"`
	Damage  Range   `yaml:"damage"`
	Traits  []Trait `yaml:"traits,omitempty"`
	Hint    string  `yaml:"hint,omitempty"`
	Image   string  `yaml:"image,omitempty"`
	Victory string  `yaml:"victory"`
	Defeat  string  `yaml:"defeat"`
	XP      int     `yaml:"xp"`
	Drop    string  `yaml:"drop,omitempty"`
	Weapon  string  `yaml:"weapon,omitempty"`
}

// Has reports whether the monster carries trait t.
func (m *Monster) Has(t Trait) bool {
	for _, have := range m.Traits {
		if have == t {
			return true
		}
	}
	return false
}

// Item is a catalog entry; ID doubles as the display name.
type Item struct {
	ID     string   `yaml:"id"`
	Kind   ItemKind `yaml:"kind"`
	Amount int      `yaml:"amount,omitempty"`
	Desc   string   `yaml:"desc,omitempty"`
}

// Key returns the folded identity of the item.
func (i *Item) Key() string {
	return fold.Key(i.ID)
}

// Ability describes how a combat action rolls and recovers.
type Ability struct {
	Action   Action `yaml:"action"`
	Label    string `yaml:"label"`
	Damage   Range  `yaml:"damage,omitempty"`
	Cooldown int    `yaml:"cooldown,omitempty"`
	Desc     string `yaml:"desc,omitempty"`
}

// LevelUp lists the stat increases granted per level.
type LevelUp struct {
	MaxHP     int `yaml:"max_hp"`
	AttackMin int `yaml:"attack_min"`
	AttackMax int `yaml:"attack_max"`
	Defense   int `yaml:"defense"`
}

// Rules carries the tuning constants of the combat and progression model.
type Rules struct {
	ElementalBonus     int     `yaml:"elemental_bonus"`
	WeaponBonus        int     `yaml:"weapon_bonus"`
	ArmoredFactor      float64 `yaml:"armored_factor"`
	ShieldFactor       float64 `yaml:"shield_factor"`
	ShieldFlat         int     `yaml:"shield_flat"`
	WeakenFactor       float64 `yaml:"weaken_factor"`
	WeakenTurns        int     `yaml:"weaken_turns"`
	DisableChance      float64 `yaml:"disable_chance"`
	EvadeChance        float64 `yaml:"evade_chance"`
	DoubleStrikeChance float64 `yaml:"double_strike_chance"`
	BurnChance         float64 `yaml:"burn_chance"`
	PoisonDamage       int     `yaml:"poison_damage"`
	PoisonTurns        int     `yaml:"poison_turns"`
	LifestealFraction  float64 `yaml:"lifesteal_fraction"`
	AdaptiveThreshold  float64 `yaml:"adaptive_threshold"`
	AdaptiveFactor     float64 `yaml:"adaptive_factor"`
	TalismanItem       string  `yaml:"talisman_item"`
	TalismanDamage     int     `yaml:"talisman_damage"`
	XPGrowth           float64 `yaml:"xp_growth"`
	LevelUp            LevelUp `yaml:"level_up"`
}

// DefaultRules returns the stock tuning. Content files override fields
// they set explicitly.
func DefaultRules() Rules {
	return Rules{
		ElementalBonus:     8,
		WeaponBonus:        10,
		ArmoredFactor:      0.7,
		ShieldFactor:       0.6,
		ShieldFlat:         2,
		WeakenFactor:       0.7,
		WeakenTurns:        2,
		DisableChance:      0.5,
		EvadeChance:        0.25,
		DoubleStrikeChance: 0.5,
		BurnChance:         0.25,
		PoisonDamage:       2,
		PoisonTurns:        3,
		LifestealFraction:  0.5,
		AdaptiveThreshold:  0.35,
		AdaptiveFactor:     0.8,
		TalismanDamage:     12,
		XPGrowth:           1.35,
		LevelUp:            LevelUp{MaxHP: 8, AttackMin: 1, AttackMax: 1, Defense: 1},
	}
}

// Start seeds new sessions. Fallen is entered when scene effects drop HP
// to zero outside combat.
type Start struct {
	Scene   string `yaml:"scene"`
	Fallen  string `yaml:"fallen,omitempty"`
	HP      int    `yaml:"hp"`
	Attack  Range  `yaml:"attack"`
	Defense int    `yaml:"defense"`
	Fate    int    `yaml:"fate"`
	XPNext  int    `yaml:"xp_next"`
}
