package engine

import (
	"fmt"
	"math"

	"github.com/Varyaggg/quest-bot/internal/data"
)

// Resolver runs combat turns. Like the Navigator it keeps no player state.
type Resolver struct {
	catalog     *data.Catalog
	nav         *Navigator
	progression Progression
}

// NewResolver builds a resolver that hands control back to nav when a
// fight ends.
func NewResolver(nav *Navigator) *Resolver {
	return &Resolver{
		catalog:     nav.catalog,
		nav:         nav,
		progression: NewProgression(nav.catalog.Rules),
	}
}

// Resolve plays one turn: the player's action, then (unless the monster
// fell) the monster's strike, then end-of-turn ticks. Rejected actions
// change nothing and do not use up a turn.
func (r *Resolver) Resolve(p *Player, action data.Action, dice Dice) (*Outcome, error) {
	c := p.Combat
	if c == nil {
		return r.nav.reject(p, newError(CodeNotInCombat, nil, "there is nothing to fight here"))
	}
	ab, ok := r.catalog.Ability(action)
	if !ok {
		return r.nav.reject(p, newError(CodeUnknownAction, map[string]string{"action": string(action)}, "unknown action %q", action))
	}
	m, ok := r.catalog.Monster(c.TemplateID)
	if !ok {
		return nil, fmt.Errorf("encounter %s: monster %q is not in the catalog", c.ID, c.TemplateID)
	}
	if left := c.Cooldowns[action]; left > 0 {
		return r.nav.reject(p, newError(CodeAbilityOnCooldown, map[string]string{"action": string(action)},
			"%s is not ready for %d more turn(s)", ab.Label, left))
	}

	rules := r.catalog.Rules
	var potion *data.Item
	switch action {
	case data.ActionConsumePotion:
		potion = r.strongestPotion(p)
		if potion == nil {
			return r.nav.reject(p, newError(CodeNoResource, map[string]string{"action": string(action)}, "you have no remedies left"))
		}
	case data.ActionDisplayTalisman:
		if rules.TalismanItem == "" || !p.Inventory.Has(rules.TalismanItem) {
			return r.nav.reject(p, newError(CodeNoResource, map[string]string{"action": string(action)}, "you carry no talisman"))
		}
	}

	rec := newRecorder(p)
	acted, err := r.playerStrike(p, m, ab, dice)
	if err != nil {
		return nil, err
	}
	if err := rec.apply(acted); err != nil {
		return nil, err
	}
	if potion != nil {
		if err := rec.apply(&ItemLostEvent{Item: potion.ID, Kind: potion.Kind}); err != nil {
			return nil, err
		}
		if err := rec.apply(&HPChangedEvent{Amount: potion.Amount, Reason: potion.ID}); err != nil {
			return nil, err
		}
	}
	if action == data.ActionDisable && rules.WeakenTurns > 0 {
		if err := rec.apply(&StatusArmedEvent{Status: StatusWeaken, Turns: rules.WeakenTurns, Target: m.Name}); err != nil {
			return nil, err
		}
	}

	if c.HP == 0 {
		return r.victory(rec, m)
	}

	if err := r.monsterStrike(rec, m, action, dice); err != nil {
		return nil, err
	}

	if p.HP > 0 && c.Poison > 0 && c.PoisonArmed < c.Turn && rules.PoisonDamage > 0 {
		tick, saved := r.fateCheck(p, rules.PoisonDamage)
		if err := rec.apply(&PoisonTickEvent{Damage: tick}); err != nil {
			return nil, err
		}
		if saved {
			if err := rec.apply(&FateSavedEvent{}); err != nil {
				return nil, err
			}
		}
	}
	if err := rec.apply(&TurnEndedEvent{}); err != nil {
		return nil, err
	}

	if p.HP <= 0 {
		return r.defeat(rec, m)
	}
	return r.nav.outcome(rec), nil
}

// playerStrike computes the player's half of the turn.
func (r *Resolver) playerStrike(p *Player, m *data.Monster, ab *data.Ability, dice Dice) (*PlayerActedEvent, error) {
	rules := r.catalog.Rules
	evt := &PlayerActedEvent{
		Action:   ab.Action,
		Label:    ab.Label,
		Target:   m.Name,
		Cooldown: ab.Cooldown,
	}

	roll := ab.Damage
	if ab.Action == data.ActionStrike {
		roll = p.Attack
	}
	dmg := 0
	if roll.Max > 0 {
		dmg = dice.Between(roll.Min, roll.Max)
		if buff := r.heldAmount(p, data.ItemDamageBuff); buff > 0 {
			dmg += buff
			evt.Notes = append(evt.Notes, fmt.Sprintf("+%d from charms", buff))
		}
	}

	armored, evasive := false, false
	for _, t := range m.Traits {
		switch t {
		case data.TraitWeakToA:
			if ab.Action == data.ActionElementalA {
				dmg += rules.ElementalBonus
				evt.Notes = append(evt.Notes, "weakness")
			}
		case data.TraitWeakToB:
			if ab.Action == data.ActionElementalB {
				dmg += rules.ElementalBonus
				evt.Notes = append(evt.Notes, "weakness")
			}
		case data.TraitRequiresSpecialWeapon:
			if ab.Action == data.ActionStrike && p.Inventory.Has(m.Weapon) {
				dmg += rules.WeaponBonus
				evt.Notes = append(evt.Notes, m.Weapon)
			}
		case data.TraitTalismanBane:
			if ab.Action == data.ActionDisplayTalisman {
				dmg += rules.TalismanDamage
				evt.Notes = append(evt.Notes, "the amulet burns")
			}
		case data.TraitArmored:
			armored = true
		case data.TraitEvasive:
			evasive = true
		case data.TraitDoubleStrike, data.TraitBurnItems, data.TraitPoison,
			data.TraitLifesteal, data.TraitColdVulnerable:
			// monster side
		default:
			return nil, fmt.Errorf("monster %s: unhandled trait %q", m.ID, t)
		}
	}

	if armored && dmg > 0 {
		dmg = scale(dmg, rules.ArmoredFactor)
		evt.Notes = append(evt.Notes, "armor")
	}
	if evasive && dmg > 0 && dice.Chance(rules.EvadeChance) {
		dmg = 0
		evt.Evaded = true
	}
	evt.Damage = max(0, dmg)
	return evt, nil
}

// monsterStrike runs the monster's half of the turn. Mitigation applies in
// a fixed order, flooring at zero after each step.
func (r *Resolver) monsterStrike(rec *recorder, m *data.Monster, action data.Action, dice Dice) error {
	p := rec.player
	c := p.Combat
	rules := r.catalog.Rules

	dmg := dice.Between(m.Damage.Min, m.Damage.Max)

	if c.Talisman && m.Has(data.TraitColdVulnerable) {
		return rec.apply(&MonsterActedEvent{Name: m.Name, Result: StrikeNegated})
	}
	if c.Shielded {
		dmg = max(0, scale(dmg, rules.ShieldFactor)-rules.ShieldFlat)
	}
	if c.Weaken > 0 {
		dmg = scale(dmg, rules.WeakenFactor)
	}
	if action == data.ActionDisable && dice.Chance(rules.DisableChance) {
		return rec.apply(&MonsterActedEvent{Name: m.Name, Result: StrikeStunned})
	}

	double := false
	var burned *data.Item
	lifesteal, poison := false, false
	for _, t := range m.Traits {
		switch t {
		case data.TraitDoubleStrike:
			if dice.Chance(rules.DoubleStrikeChance) {
				dmg += dice.Between(m.Damage.Min, m.Damage.Max)
				double = true
			}
		case data.TraitBurnItems:
			if dice.Chance(rules.BurnChance) {
				burned = r.strongestPotion(p)
			}
		case data.TraitLifesteal:
			lifesteal = true
		case data.TraitPoison:
			poison = true
		case data.TraitWeakToA, data.TraitWeakToB, data.TraitRequiresSpecialWeapon,
			data.TraitArmored, data.TraitEvasive, data.TraitColdVulnerable, data.TraitTalismanBane:
			// player side
		default:
			return fmt.Errorf("monster %s: unhandled trait %q", m.ID, t)
		}
	}

	if c.Potion {
		dmg /= 2
	}
	dmg = max(0, dmg-p.Defense-r.heldAmount(p, data.ItemDefenseBuff))

	if burned != nil {
		if err := rec.apply(&ItemLostEvent{Item: burned.ID, Kind: burned.Kind, Burned: true}); err != nil {
			return err
		}
	}

	dmg, saved := r.fateCheck(p, dmg)
	if err := rec.apply(&MonsterActedEvent{Name: m.Name, Result: StrikeHit, Damage: dmg, Double: double}); err != nil {
		return err
	}
	if saved {
		if err := rec.apply(&FateSavedEvent{}); err != nil {
			return err
		}
	}
	if dmg == 0 {
		return nil
	}
	if lifesteal {
		if heal := scale(dmg, rules.LifestealFraction); heal > 0 {
			if err := rec.apply(&MonsterHealedEvent{Name: m.Name, Amount: heal}); err != nil {
				return err
			}
		}
	}
	if poison && rules.PoisonTurns > 0 {
		if err := rec.apply(&StatusArmedEvent{Status: StatusPoison, Turns: rules.PoisonTurns}); err != nil {
			return err
		}
	}
	return nil
}

// fateCheck turns a lethal hit into one that leaves exactly 1 HP when a
// fate charge is left. A player already at 0 HP cannot be saved.
func (r *Resolver) fateCheck(p *Player, dmg int) (int, bool) {
	if p.HP > 0 && dmg >= p.HP && p.Fate > 0 {
		return p.HP - 1, true
	}
	return dmg, false
}

func (r *Resolver) victory(rec *recorder, m *data.Monster) (*Outcome, error) {
	if err := rec.apply(&EncounterEndedEvent{Name: m.Name, Victory: true}); err != nil {
		return nil, err
	}
	if err := r.progression.gain(rec, m.XP); err != nil {
		return nil, err
	}
	if m.Drop != "" {
		if err := r.nav.drop(rec, m.Drop); err != nil {
			return nil, err
		}
	}
	if err := r.nav.enter(rec, m.Victory); err != nil {
		return nil, err
	}
	out := r.nav.outcome(rec)
	out.Result = ResultVictory
	return out, nil
}

func (r *Resolver) defeat(rec *recorder, m *data.Monster) (*Outcome, error) {
	if err := rec.apply(&EncounterEndedEvent{Name: m.Name}); err != nil {
		return nil, err
	}
	if err := r.nav.enter(rec, m.Defeat); err != nil {
		return nil, err
	}
	out := r.nav.outcome(rec)
	out.Result = ResultDefeat
	return out, nil
}

// strongestPotion picks the held remedy that heals the most.
func (r *Resolver) strongestPotion(p *Player) *data.Item {
	var best *data.Item
	for name := range p.Inventory.Potions() {
		it, ok := r.catalog.Item(name)
		if !ok {
			continue
		}
		if best == nil || it.Amount > best.Amount || (it.Amount == best.Amount && it.ID < best.ID) {
			best = it
		}
	}
	return best
}

// heldAmount sums the amounts of held items of kind.
func (r *Resolver) heldAmount(p *Player, kind data.ItemKind) int {
	total := 0
	for _, name := range p.Inventory.Items() {
		if it, ok := r.catalog.Item(name); ok && it.Kind == kind {
			total += it.Amount
		}
	}
	return total
}

// scale multiplies n by f and rounds down.
func scale(n int, f float64) int {
	return int(math.Floor(float64(n)*f + 1e-9))
}
