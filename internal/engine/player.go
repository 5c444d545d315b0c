package engine

import (
	"maps"

	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/Varyaggg/quest-bot/internal/inventory"
)

// Player is the mutable record of one player's run.
type Player struct {
	SceneID   string
	HP        int
	MaxHP     int
	Attack    data.Range
	Defense   int
	Level     int
	XP        int
	XPNext    int
	Fate      int
	Turns     int
	Inventory *inventory.Inventory
	Combat    *CombatInstance
}

// NewPlayer seeds a player from the catalog start block.
func NewPlayer(start data.Start) *Player {
	return &Player{
		SceneID:   start.Scene,
		HP:        start.HP,
		MaxHP:     start.HP,
		Attack:    start.Attack,
		Defense:   start.Defense,
		Level:     1,
		XPNext:    start.XPNext,
		Fate:      start.Fate,
		Inventory: inventory.New(),
	}
}

// InCombat reports whether an encounter is unresolved.
func (p *Player) InCombat() bool {
	return p.Combat != nil
}

// Clone returns a deep copy.
func (p *Player) Clone() *Player {
	cp := *p
	cp.Inventory = p.Inventory.Clone()
	if p.Combat != nil {
		c := *p.Combat
		c.Cooldowns = maps.Clone(p.Combat.Cooldowns)
		cp.Combat = &c
	}
	return &cp
}

func (p *Player) setHP(hp int) {
	p.HP = clamp(hp, 0, p.MaxHP)
}

// CombatInstance is one live encounter. It exists only while the player's
// scene is an unresolved combat scene.
type CombatInstance struct {
	ID          string
	TemplateID  string
	Name        string
	HP          int
	MaxHP       int
	Scaled      bool
	Turn        int
	Cooldowns   map[data.Action]int
	Weaken      int
	Poison      int
	PoisonArmed int

	// per-turn status, cleared when the turn ends
	Fresh    data.Action
	Shielded bool
	Potion   bool
	Talisman bool
}

func (c *CombatInstance) setHP(hp int) {
	c.HP = clamp(hp, 0, c.MaxHP)
}

func (c *CombatInstance) clearTurn() {
	c.Fresh = ""
	c.Shielded = false
	c.Potion = false
	c.Talisman = false
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
