package data

import (
	"bytes"
	"fmt"

	"github.com/Varyaggg/quest-bot/internal/fold"
	"gopkg.in/yaml.v3"
)

// Catalog is the immutable content of a quest. It is built once at startup
// and shared read-only by every session.
type Catalog struct {
	Title     string    `yaml:"title"`
	Start     Start     `yaml:"start"`
	Rules     Rules     `yaml:"rules"`
	Abilities []Ability `yaml:"abilities"`
	Items     []Item    `yaml:"items"`
	Monsters  []Monster `yaml:"monsters"`
	Scenes    []Scene   `yaml:"scenes"`

	scenes    map[string]*Scene
	monsters  map[string]*Monster
	items     map[string]*Item
	abilities map[Action]*Ability
}

// Parse decodes a YAML catalog, fills rule defaults and validates every
// cross reference. Any problem is fatal for the catalog.
func Parse(raw []byte) (*Catalog, error) {
	c := &Catalog{Rules: DefaultRules()}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// index rebuilds the lookup tables and returns any duplicate ids it met.
func (c *Catalog) index() []error {
	var errs []error
	c.scenes = make(map[string]*Scene, len(c.Scenes))
	for i := range c.Scenes {
		s := &c.Scenes[i]
		if _, dup := c.scenes[s.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate scene id %q", s.ID))
			continue
		}
		c.scenes[s.ID] = s
	}
	c.monsters = make(map[string]*Monster, len(c.Monsters))
	for i := range c.Monsters {
		m := &c.Monsters[i]
		if _, dup := c.monsters[m.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate monster id %q", m.ID))
			continue
		}
		c.monsters[m.ID] = m
	}
	c.items = make(map[string]*Item, len(c.Items))
	for i := range c.Items {
		it := &c.Items[i]
		if _, dup := c.items[it.Key()]; dup {
			errs = append(errs, fmt.Errorf("duplicate item %q", it.ID))
			continue
		}
		c.items[it.Key()] = it
	}
	c.abilities = make(map[Action]*Ability, len(c.Abilities))
	for i := range c.Abilities {
		a := &c.Abilities[i]
		if _, dup := c.abilities[a.Action]; dup {
			errs = append(errs, fmt.Errorf("duplicate ability for action %q", a.Action))
			continue
		}
		c.abilities[a.Action] = a
	}
	return errs
}

// Scene looks up a scene by id.
func (c *Catalog) Scene(id string) (*Scene, bool) {
	s, ok := c.scenes[id]
	return s, ok
}

// Monster looks up a monster template by id.
func (c *Catalog) Monster(id string) (*Monster, bool) {
	m, ok := c.monsters[id]
	return m, ok
}

// Item looks up an item by any spelling of its name.
func (c *Catalog) Item(name string) (*Item, bool) {
	it, ok := c.items[fold.Key(name)]
	return it, ok
}

// Ability returns the ability row of a combat action.
func (c *Catalog) Ability(a Action) (*Ability, bool) {
	ab, ok := c.abilities[a]
	return ab, ok
}

// CombatScenes returns the ids of every combat scene in file order.
func (c *Catalog) CombatScenes() []string {
	var ids []string
	for _, s := range c.Scenes {
		if s.Kind == SceneCombat {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
