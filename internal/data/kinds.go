package data

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SceneKind classifies a scene.
type SceneKind string

const (
	SceneNarrative SceneKind = "narrative"
	ScenePuzzle    SceneKind = "puzzle"
	SceneCombat    SceneKind = "combat"
)

var sceneKinds = map[string]SceneKind{
	"narrative": SceneNarrative,
	"story":     SceneNarrative,
	"puzzle":    ScenePuzzle,
	"combat":    SceneCombat,
}

// ParseSceneKind converts a string into a SceneKind.
func ParseSceneKind(s string) (SceneKind, error) {
	if k, ok := sceneKinds[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown scene kind %q", s)
}

func (k *SceneKind) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseSceneKind(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*k = parsed
	return nil
}

// ItemKind decides where a granted item lands and what holding it does.
type ItemKind string

const (
	ItemHeal        ItemKind = "heal"
	ItemDamageBuff  ItemKind = "damage-buff"
	ItemDefenseBuff ItemKind = "defense-buff"
	ItemQuest       ItemKind = "quest"
	ItemRune        ItemKind = "rune"
)

var itemKinds = map[string]ItemKind{
	"heal":         ItemHeal,
	"damage-buff":  ItemDamageBuff,
	"buff":         ItemDamageBuff,
	"defense-buff": ItemDefenseBuff,
	"def":          ItemDefenseBuff,
	"quest":        ItemQuest,
	"rune":         ItemRune,
}

// ParseItemKind converts a string into an ItemKind.
func ParseItemKind(s string) (ItemKind, error) {
	if k, ok := itemKinds[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown item kind %q", s)
}

func (k *ItemKind) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseItemKind(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*k = parsed
	return nil
}

// Trait is a monster behaviour flag. The set is closed: content may only
// use the values declared here.
type Trait string

const (
	TraitWeakToA               Trait = "weak-to-a"
	TraitWeakToB               Trait = "weak-to-b"
	TraitRequiresSpecialWeapon Trait = "requires-special-weapon"
	TraitArmored               Trait = "armored"
	TraitEvasive               Trait = "evasive"
	TraitDoubleStrike          Trait = "double-strike"
	TraitBurnItems             Trait = "burn-items"
	TraitPoison                Trait = "poison"
	TraitLifesteal             Trait = "lifesteal"
	TraitColdVulnerable        Trait = "cold-vulnerable"
	TraitTalismanBane          Trait = "talisman-bane"
)

// Traits lists every known trait in declaration order.
var Traits = []Trait{
	TraitWeakToA,
	TraitWeakToB,
	TraitRequiresSpecialWeapon,
	TraitArmored,
	TraitEvasive,
	TraitDoubleStrike,
	TraitBurnItems,
	TraitPoison,
	TraitLifesteal,
	TraitColdVulnerable,
	TraitTalismanBane,
}

// ParseTrait converts a string into a Trait.
func ParseTrait(s string) (Trait, error) {
	want := Trait(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range Traits {
		if t == want {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown trait %q", s)
}

func (t *Trait) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseTrait(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*t = parsed
	return nil
}

// Action is a combat move the player can pick on their turn.
type Action string

const (
	ActionStrike          Action = "strike"
	ActionElementalA      Action = "elemental-a"
	ActionElementalB      Action = "elemental-b"
	ActionShield          Action = "shield"
	ActionDisable         Action = "disable"
	ActionConsumePotion   Action = "consume-potion"
	ActionDisplayTalisman Action = "display-talisman"
)

// Actions lists every combat action in menu order.
var Actions = []Action{
	ActionStrike,
	ActionElementalA,
	ActionElementalB,
	ActionShield,
	ActionDisable,
	ActionConsumePotion,
	ActionDisplayTalisman,
}

// ParseAction converts a canonical action name into an Action.
func ParseAction(s string) (Action, error) {
	want := Action(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range Actions {
		if a == want {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

func (a *Action) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseAction(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*a = parsed
	return nil
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
