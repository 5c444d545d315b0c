package engine

import (
	"strconv"
	"strings"

	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/Varyaggg/quest-bot/internal/fold"
	"github.com/agnivade/levenshtein"
)

// option is something the player can name: a choice, a puzzle answer or a
// combat action. Any of its names matches.
type option struct {
	names []string
}

// matchOption resolves input against opts. It tries, in order, a 1-based
// index, an exact folded name and the closest name within a typo budget.
// Ties in the fuzzy step are refused.
func matchOption(opts []option, input string) (int, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(opts) {
			return n - 1, true
		}
		return 0, false
	}

	key := fold.Key(input)
	for i, o := range opts {
		for _, name := range o.names {
			if name != "" && fold.Key(name) == key {
				return i, true
			}
		}
	}

	best, bestDist, tie := -1, 0, false
	for i, o := range opts {
		for _, name := range o.names {
			cand := fold.Key(name)
			if cand == "" {
				continue
			}
			dist := levenshtein.ComputeDistance(key, cand)
			if dist > levenshteinLimit(len([]rune(cand))) {
				continue
			}
			switch {
			case best == -1 || dist < bestDist:
				best, bestDist, tie = i, dist, false
			case dist == bestDist && best != i:
				tie = true
			}
		}
	}
	if best == -1 || tie {
		return 0, false
	}
	return best, true
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// actionAliases are extra names players type for actions.
var actionAliases = map[data.Action][]string{
	data.ActionStrike:          {"hit", "attack"},
	data.ActionElementalA:      {"fire"},
	data.ActionElementalB:      {"push"},
	data.ActionShield:          {"block", "defend"},
	data.ActionDisable:         {"daze", "stun"},
	data.ActionConsumePotion:   {"potion", "heal", "drink"},
	data.ActionDisplayTalisman: {"talisman", "amulet"},
}

// ParseAction resolves a typed action name: canonical name, ability label,
// alias or menu number.
func (r *Resolver) ParseAction(input string) (data.Action, bool) {
	opts := make([]option, len(data.Actions))
	for i, a := range data.Actions {
		names := append([]string{string(a)}, actionAliases[a]...)
		if ab, ok := r.catalog.Ability(a); ok {
			names = append(names, ab.Label)
		}
		opts[i] = option{names: names}
	}
	idx, ok := matchOption(opts, input)
	if !ok {
		return "", false
	}
	return data.Actions[idx], true
}

// Act resolves a typed action name and plays it.
func (r *Resolver) Act(p *Player, input string, dice Dice) (*Outcome, error) {
	if p.Combat == nil {
		return r.nav.reject(p, newError(CodeNotInCombat, nil, "there is nothing to fight here"))
	}
	action, ok := r.ParseAction(input)
	if !ok {
		return r.nav.reject(p, newError(CodeUnknownAction, map[string]string{"action": input}, "unknown action %q", input))
	}
	return r.Resolve(p, action, dice)
}
