package engine

import (
	"math"

	"github.com/Varyaggg/quest-bot/internal/data"
)

// Threat is a rough read of how a fight will go.
type Threat string

const (
	ThreatEasy   Threat = "easy"
	ThreatFair   Threat = "fair"
	ThreatDeadly Threat = "deadly"
)

// incomingFactor discounts monster damage for misses, shields and armor.
const incomingFactor = 0.6

// Assess estimates a fight of p against m with monsterHP left, by trading
// average blows until the monster falls.
func Assess(p *Player, m *data.Monster, monsterHP int) Threat {
	avg := p.Attack.Avg()
	if avg <= 0 {
		return ThreatDeadly
	}
	rounds := math.Ceil(float64(monsterHP) / avg)
	perRound := m.Damage.Avg()
	if m.Has(data.TraitDoubleStrike) {
		perRound *= 1.5
	}
	expected := rounds * perRound * incomingFactor
	switch {
	case expected <= float64(p.HP)/2:
		return ThreatEasy
	case expected < float64(p.HP):
		return ThreatFair
	default:
		return ThreatDeadly
	}
}
