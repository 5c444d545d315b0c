// Package balance plays combat scenes many times with a fixed policy to
// show how hard each fight is for a fresh player.
package balance

import (
	"errors"
	"fmt"

	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/Varyaggg/quest-bot/internal/engine"
	"github.com/Varyaggg/quest-bot/internal/rules"
)

// Options tune a simulation run.
type Options struct {
	// Trials is the number of fights per scene.
	Trials int
	// Seed makes a run reproducible. Zero picks a random seed.
	Seed int64
	// MaxTurns ends a fight as stalled.
	MaxTurns int
	// Policy is a CEL expression naming the action to take each turn.
	// Empty uses the built-in policy.
	Policy string
	// Progress, if set, is called after every finished fight.
	Progress func()
}

const (
	defaultTrials   = 200
	defaultMaxTurns = 100
	// lowHP is the share of max HP at which the policy drinks.
	lowHP = 0.35
)

// Report summarizes the fights played in one scene.
type Report struct {
	Scene     string
	Monster   string
	MonsterHP int
	Threat    engine.Threat
	Trials    int
	Wins      int
	Losses    int
	Stalled   int
	FateSaves int
	AvgTurns  float64
	AvgHPLeft float64
}

// WinRate is the share of fights won.
func (r Report) WinRate() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Trials)
}

// Run simulates every combat scene of the catalog in file order.
func Run(catalog *data.Catalog, opts Options) ([]Report, error) {
	opts = opts.withDefaults()
	var reports []Report
	for i, id := range catalog.CombatScenes() {
		r, err := simulate(catalog, id, engine.NewDice(opts.Seed+int64(i)), opts)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Simulate plays a single combat scene.
func Simulate(catalog *data.Catalog, sceneID string, opts Options) (Report, error) {
	opts = opts.withDefaults()
	return simulate(catalog, sceneID, engine.NewDice(opts.Seed), opts)
}

func (o Options) withDefaults() Options {
	if o.Trials <= 0 {
		o.Trials = defaultTrials
	}
	if o.MaxTurns <= 0 {
		o.MaxTurns = defaultMaxTurns
	}
	if o.Seed == 0 {
		o.Seed = engine.RandomSeed()
	}
	return o
}

func simulate(catalog *data.Catalog, sceneID string, dice engine.Dice, opts Options) (Report, error) {
	nav := engine.NewNavigator(catalog)
	res := engine.NewResolver(nav)
	report := Report{Scene: sceneID, Trials: opts.Trials}

	var policy *rules.Policy
	if opts.Policy != "" {
		reg, err := rules.NewRegistry(dice.Between)
		if err != nil {
			return report, err
		}
		if policy, err = reg.Compile(opts.Policy); err != nil {
			return report, fmt.Errorf("invalid policy: %w", err)
		}
	}

	var turns, hpLeft int
	for range opts.Trials {
		p := engine.NewPlayer(catalog.Start)
		if _, err := nav.Enter(p, sceneID); err != nil {
			return report, fmt.Errorf("enter %s: %w", sceneID, err)
		}
		if !p.InCombat() {
			return report, fmt.Errorf("scene %s did not start an encounter", sceneID)
		}
		if report.Monster == "" {
			m, _ := catalog.Monster(p.Combat.TemplateID)
			report.Monster = p.Combat.Name
			report.MonsterHP = p.Combat.MaxHP
			report.Threat = engine.Assess(p, m, p.Combat.HP)
		}

		result, n, err := fight(res, catalog, p, dice, policy, opts.MaxTurns)
		if err != nil {
			return report, fmt.Errorf("simulate %s: %w", sceneID, err)
		}
		turns += n
		switch result {
		case engine.ResultVictory:
			report.Wins++
			hpLeft += p.HP
		case engine.ResultDefeat:
			report.Losses++
		default:
			report.Stalled++
		}
		if p.Fate < catalog.Start.Fate {
			report.FateSaves++
		}
		if opts.Progress != nil {
			opts.Progress()
		}
	}

	report.AvgTurns = float64(turns) / float64(opts.Trials)
	if report.Wins > 0 {
		report.AvgHPLeft = float64(hpLeft) / float64(report.Wins)
	}
	return report, nil
}

// fight plays turns until the encounter ends or maxTurns pass. An action
// the resolver rejects is replaced by a strike.
func fight(res *engine.Resolver, catalog *data.Catalog, p *engine.Player, dice engine.Dice, policy *rules.Policy, maxTurns int) (engine.Result, int, error) {
	for turn := 1; turn <= maxTurns; turn++ {
		action, err := choose(catalog, p, policy)
		if err != nil {
			return engine.ResultOngoing, turn, err
		}
		out, err := res.Resolve(p, action, dice)
		var derr *engine.Error
		if errors.As(err, &derr) {
			out, err = res.Resolve(p, data.ActionStrike, dice)
		}
		if err != nil {
			return engine.ResultOngoing, turn, err
		}
		if out.Result != engine.ResultOngoing {
			return out.Result, turn, nil
		}
	}
	return engine.ResultOngoing, maxTurns, nil
}

func choose(catalog *data.Catalog, p *engine.Player, policy *rules.Policy) (data.Action, error) {
	if policy == nil {
		return pick(catalog, p), nil
	}
	name, err := policy.Eval(rules.Context(catalog, p))
	if err != nil {
		return "", fmt.Errorf("policy %q: %w", policy, err)
	}
	a, err := data.ParseAction(name)
	if err != nil {
		return "", fmt.Errorf("policy %q chose %q: %w", policy, name, err)
	}
	return a, nil
}

// pick drinks when badly hurt and otherwise uses the ready attack with the
// best average damage.
func pick(catalog *data.Catalog, p *engine.Player) data.Action {
	c := p.Combat
	if float64(p.HP) <= lowHP*float64(p.MaxHP) && p.Inventory.TotalPotions() > 0 && c.Cooldowns[data.ActionConsumePotion] == 0 {
		return data.ActionConsumePotion
	}
	best, bestAvg := data.ActionStrike, p.Attack.Avg()
	for _, a := range []data.Action{data.ActionElementalA, data.ActionElementalB} {
		ab, ok := catalog.Ability(a)
		if !ok || c.Cooldowns[a] > 0 {
			continue
		}
		if avg := ab.Damage.Avg(); avg > bestAvg {
			best, bestAvg = a, avg
		}
	}
	return best
}
