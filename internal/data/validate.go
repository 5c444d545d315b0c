package data

import (
	"errors"
	"fmt"
)

// Validate checks ids, enum values and every reference between tables.
// All problems are reported at once.
func (c *Catalog) Validate() error {
	errs := c.index()

	sceneRef := func(owner, id string) {
		if id == "" {
			errs = append(errs, fmt.Errorf("%s: missing scene reference", owner))
			return
		}
		if _, ok := c.scenes[id]; !ok {
			errs = append(errs, fmt.Errorf("%s: unknown scene %q", owner, id))
		}
	}
	itemRef := func(owner, name string) {
		if _, ok := c.Item(name); !ok {
			errs = append(errs, fmt.Errorf("%s: unknown item %q", owner, name))
		}
	}
	rangeCheck := func(owner string, r Range) {
		if r.Min < 0 || r.Min > r.Max {
			errs = append(errs, fmt.Errorf("%s: invalid range %s", owner, r))
		}
	}

	sceneRef("start", c.Start.Scene)
	if c.Start.Fallen != "" {
		sceneRef("start fallen", c.Start.Fallen)
	}
	if c.Start.HP <= 0 {
		errs = append(errs, fmt.Errorf("start: hp must be positive"))
	}
	if c.Start.XPNext <= 0 {
		errs = append(errs, fmt.Errorf("start: xp_next must be positive"))
	}
	rangeCheck("start attack", c.Start.Attack)

	for _, a := range Actions {
		if _, ok := c.abilities[a]; !ok {
			errs = append(errs, fmt.Errorf("abilities: no row for action %q", a))
		}
	}
	for _, a := range c.Abilities {
		owner := fmt.Sprintf("ability %s", a.Action)
		rangeCheck(owner, a.Damage)
		if a.Cooldown < 0 {
			errs = append(errs, fmt.Errorf("%s: negative cooldown", owner))
		}
	}

	for _, it := range c.Items {
		if it.ID == "" {
			errs = append(errs, errors.New("item with empty id"))
		}
		if it.Kind == ItemHeal && it.Amount <= 0 {
			errs = append(errs, fmt.Errorf("item %q: heal amount must be positive", it.ID))
		}
	}

	for _, m := range c.Monsters {
		owner := fmt.Sprintf("monster %s", m.ID)
		if m.HP <= 0 {
			errs = append(errs, fmt.Errorf("%s: hp must be positive", owner))
		}
		rangeCheck(owner, m.Damage)
		sceneRef(owner+" victory", m.Victory)
		sceneRef(owner+" defeat", m.Defeat)
		if m.Drop != "" {
			itemRef(owner+" drop", m.Drop)
		}
		if m.Has(TraitRequiresSpecialWeapon) {
			if m.Weapon == "" {
				errs = append(errs, fmt.Errorf("%s: requires-special-weapon without weapon", owner))
			} else {
				itemRef(owner+" weapon", m.Weapon)
			}
		}
	}

	for _, s := range c.Scenes {
		owner := fmt.Sprintf("scene %s", s.ID)
		if s.ID == "" {
			errs = append(errs, errors.New("scene with empty id"))
		}
		for _, name := range s.Entry.Items {
			itemRef(owner+" entry", name)
		}
		for i, ch := range s.Choices {
			chOwner := fmt.Sprintf("%s choice %d", owner, i+1)
			sceneRef(chOwner, ch.To)
			for _, name := range ch.Consumes {
				itemRef(chOwner+" consumes", name)
			}
			for _, name := range ch.Grants {
				itemRef(chOwner+" grants", name)
			}
			if r := ch.Requires; r != nil {
				switch {
				case r.Item != "":
					itemRef(chOwner+" requires", r.Item)
				case r.Category != "" && r.Count > 0:
				default:
					errs = append(errs, fmt.Errorf("%s: requirement needs an item or a category with a count", chOwner))
				}
			}
		}
		switch s.Kind {
		case SceneCombat:
			if _, ok := c.monsters[s.Monster]; !ok {
				errs = append(errs, fmt.Errorf("%s: unknown monster %q", owner, s.Monster))
			}
		case ScenePuzzle:
			if s.Puzzle == nil || len(s.Puzzle.Options) == 0 {
				errs = append(errs, fmt.Errorf("%s: puzzle scene without options", owner))
				continue
			}
			correct := 0
			for _, o := range s.Puzzle.Options {
				if o.Correct {
					correct++
				}
			}
			if correct == 0 {
				errs = append(errs, fmt.Errorf("%s: puzzle has no correct option", owner))
			}
			sceneRef(owner+" success", s.Puzzle.Success)
			sceneRef(owner+" failure", s.Puzzle.Failure)
		case SceneNarrative:
			if len(s.Choices) == 0 {
				errs = append(errs, fmt.Errorf("%s: dead end, no choices", owner))
			}
		default:
			errs = append(errs, fmt.Errorf("%s: missing kind", owner))
		}
	}

	if c.Rules.TalismanItem != "" {
		itemRef("rules talisman", c.Rules.TalismanItem)
	}

	return errors.Join(errs...)
}
