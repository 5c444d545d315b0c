package rules

import (
	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/Varyaggg/quest-bot/internal/engine"
)

// Context exposes a player and their fight to a policy:
//
//	player  hp, max_hp, hp_ratio, level, fate, potions, runes, items
//	monster name, hp, max_hp, hp_ratio, traits, weakened, poisoning (empty outside a fight)
//	ready   action name -> off cooldown
//	turn    the turn about to be played, from 1
func Context(catalog *data.Catalog, p *engine.Player) map[string]any {
	player := map[string]any{
		"hp":       p.HP,
		"max_hp":   p.MaxHP,
		"hp_ratio": ratio(p.HP, p.MaxHP),
		"level":    p.Level,
		"fate":     p.Fate,
		"potions":  p.Inventory.TotalPotions(),
		"runes":    p.Inventory.RuneCount(),
		"items":    p.Inventory.Items(),
	}

	c := p.Combat
	ready := make(map[string]bool, len(data.Actions))
	for _, a := range data.Actions {
		if _, ok := catalog.Ability(a); ok {
			ready[string(a)] = c == nil || c.Cooldowns[a] == 0
		}
	}

	monster := map[string]any{}
	turn := 0
	if c != nil {
		traits := []string{}
		if m, ok := catalog.Monster(c.TemplateID); ok {
			for _, t := range m.Traits {
				traits = append(traits, string(t))
			}
		}
		monster = map[string]any{
			"name":      c.Name,
			"hp":        c.HP,
			"max_hp":    c.MaxHP,
			"hp_ratio":  ratio(c.HP, c.MaxHP),
			"traits":    traits,
			"weakened":  c.Weaken > 0,
			"poisoning": c.Poison > 0,
		}
		turn = c.Turn + 1
	}

	return map[string]any{
		"player":  player,
		"monster": monster,
		"ready":   ready,
		"turn":    turn,
	}
}

func ratio(cur, maxV int) float64 {
	if maxV <= 0 {
		return 0
	}
	return float64(cur) / float64(maxV)
}
