package engine

import (
	"math"

	"github.com/Varyaggg/quest-bot/internal/data"
)

// Progression turns experience into levels.
type Progression struct {
	rules data.Rules
}

// NewProgression builds a tracker for the given rules.
func NewProgression(rules data.Rules) Progression {
	return Progression{rules: rules}
}

// NextThreshold grows an XP threshold geometrically.
func (pr Progression) NextThreshold(cur int) int {
	next := int(math.Ceil(float64(cur)*pr.rules.XPGrowth - 1e-9))
	if next <= cur {
		next = cur + 1
	}
	return next
}

// gain awards amount XP and levels up as many times as the total allows.
// Each level raises max HP, attack and defense and restores HP to full.
func (pr Progression) gain(rec *recorder, amount int) error {
	if amount <= 0 {
		return nil
	}
	if err := rec.apply(&XPGainedEvent{Amount: amount}); err != nil {
		return err
	}
	p := rec.player
	up := pr.rules.LevelUp
	for p.XPNext > 0 && p.XP >= p.XPNext {
		evt := &LevelUpEvent{
			Level:  p.Level + 1,
			Spent:  p.XPNext,
			XPNext: pr.NextThreshold(p.XPNext),
			MaxHP:  p.MaxHP + up.MaxHP,
			Attack: data.Range{
				Min: p.Attack.Min + up.AttackMin,
				Max: p.Attack.Max + up.AttackMax,
			},
			Defense: p.Defense + up.Defense,
		}
		if err := rec.apply(evt); err != nil {
			return err
		}
	}
	return nil
}
