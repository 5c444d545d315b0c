package engine

import (
	"testing"

	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Navigator, *Resolver, *data.Catalog) {
	t.Helper()
	c, err := data.Parse([]byte(testCatalog))
	require.NoError(t, err)
	nav := NewNavigator(c)
	return nav, NewResolver(nav), c
}

// newFighter puts a fresh player, adjusted by mutate, into a combat scene.
func newFighter(t *testing.T, nav *Navigator, scene string, mutate func(*Player)) *Player {
	t.Helper()
	p := NewPlayer(nav.Catalog().Start)
	if mutate != nil {
		mutate(p)
	}
	_, err := nav.Enter(p, scene)
	require.NoError(t, err)
	require.NotNil(t, p.Combat)
	return p
}

func eventTypes(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, evt := range events {
		out[i] = evt.Type()
	}
	return out
}

const testCatalog = `
title: Test
start: {scene: camp, fallen: fallen, hp: 60, attack: {min: 5, max: 9}, defense: 0, fate: 1, xp_next: 20}
rules:
  talisman_item: amulet
abilities:
  - {action: strike, label: Strike}
  - {action: elemental-a, label: Igni, damage: {min: 5, max: 11}, cooldown: 3}
  - {action: elemental-b, label: Aard, damage: {min: 4, max: 9}, cooldown: 3}
  - {action: shield, label: Quen, cooldown: 2}
  - {action: disable, label: Axii, cooldown: 3}
  - {action: consume-potion, label: Drink}
  - {action: display-talisman, label: Amulet}
items:
  - {id: herbs, kind: heal, amount: 20}
  - {id: brew, kind: heal, amount: 30}
  - {id: amulet, kind: quest}
  - {id: silver sword, kind: quest}
  - {id: map, kind: quest}
  - {id: bog herbs, kind: quest}
  - {id: charm, kind: defense-buff, amount: 2}
  - {id: feather, kind: damage-buff, amount: 3}
  - {id: frost rune, kind: rune}
  - {id: light rune, kind: rune}
monsters:
  - {id: dummy, name: Dummy, hp: 100, damage: {min: 9, max: 9}, victory: camp, defeat: fallen, xp: 5}
  - {id: treant, name: Treant, hp: 100, damage: {min: 1, max: 1}, traits: [weak-to-a], victory: camp, defeat: fallen, xp: 5, hint: Burn it.}
  - {id: rat, name: Rat, hp: 5, damage: {min: 3, max: 3}, victory: den, defeat: fallen, xp: 25, drop: map}
  - {id: frost, name: Frost, hp: 50, damage: {min: 8, max: 8}, traits: [cold-vulnerable], victory: camp, defeat: fallen, xp: 5}
  - {id: wolf, name: Wolf, hp: 50, damage: {min: 4, max: 4}, traits: [requires-special-weapon], weapon: silver sword, victory: camp, defeat: fallen, xp: 5}
  - {id: golem, name: Golem, hp: 50, damage: {min: 4, max: 4}, traits: [armored], victory: camp, defeat: fallen, xp: 5}
  - {id: leech, name: Leech, hp: 50, damage: {min: 6, max: 6}, traits: [lifesteal, poison], victory: camp, defeat: fallen, xp: 5}
  - {id: twin, name: Twin, hp: 50, damage: {min: 5, max: 5}, traits: [double-strike], victory: camp, defeat: fallen, xp: 5}
  - {id: imp, name: Imp, hp: 50, damage: {min: 2, max: 2}, traits: [burn-items], victory: camp, defeat: fallen, xp: 5}
  - {id: eel, name: Eel, hp: 50, damage: {min: 2, max: 2}, traits: [evasive], victory: camp, defeat: fallen, xp: 5}
  - {id: warlock, name: Warlock, hp: 50, damage: {min: 2, max: 2}, traits: [talisman-bane], victory: camp, defeat: fallen, xp: 5}
  - {id: toad, name: Toad, hp: 5, damage: {min: 1, max: 1}, victory: den, defeat: fallen, xp: 1, drop: herbs}
scenes:
  - id: camp
    kind: narrative
    title: Camp
    body: A fire crackles.
    hint: The gate needs the amulet.
    choices:
      - {label: Walk the road, to: road}
      - {label: Enter the gate, to: gate, requires: {item: amulet}}
      - {label: Read the runes, to: shrine, requires: {category: rune, count: 2}}
      - {label: Pick up the amulet, to: camp, grants: [amulet]}
      - {label: Solve the riddle, to: riddle}
      - {label: Visit the armory, to: armory}
  - id: road
    kind: narrative
    title: Road
    body: Thorns scratch you. A bundle of herbs lies by the path.
    hint: Mind the rat.
    entry: {hp: -5, items: [herbs]}
    choices:
      - {label: Fight the rat, to: rat-fight}
      - {label: Back to camp, to: camp}
  - id: armory
    kind: narrative
    title: Armory
    body: Blades hang on the wall.
    choices: [{label: Take the silver sword, to: wolf-path, grants: [silver sword]}]
  - id: wolf-path
    kind: narrative
    title: Wolf Path
    body: Howling ahead.
    choices: [{label: Face the wolf, to: arena-wolf}]
  - {id: rat-fight, kind: combat, title: Rat, body: A rat!, monster: rat}
  - id: garden
    kind: narrative
    title: Garden
    body: Bog herbs grow by the fence.
    choices:
      - {label: Gather herbs, to: kitchen, grants: [bog herbs]}
      - {label: Back to camp, to: camp}
  - id: kitchen
    kind: narrative
    title: Kitchen
    body: A cauldron waits.
    choices:
      - {label: Brew a potion, to: garden, requires: {item: bog herbs}, consumes: [bog herbs], grants: [brew]}
      - {label: Leave, to: garden}
  - id: den
    kind: narrative
    title: Den
    body: The rat's den.
    choices: [{label: Back to camp, to: camp}]
  - id: gate
    kind: narrative
    title: Gate
    body: The gate opens.
    choices: [{label: Back to camp, to: camp}]
  - id: shrine
    kind: narrative
    title: Shrine
    body: Runes glow.
    entry: {items: [frost rune]}
    choices: [{label: Back to camp, to: camp}]
  - id: riddle
    kind: puzzle
    title: Riddle
    body: A voice asks.
    puzzle:
      question: What melts?
      options:
        - {label: Iron, correct: false}
        - {label: Ice, correct: true}
      success: shrine
      failure: pit
  - id: pit
    kind: narrative
    title: Pit
    body: You fall.
    entry: {hp: -100}
    choices: [{label: Climb out, to: camp}]
  - id: fallen
    kind: narrative
    title: Fallen
    body: Darkness.
    choices: [{label: Try again, to: camp, reset: true}]
  - {id: arena-dummy, kind: combat, title: Arena, body: x, monster: dummy}
  - {id: arena-treant, kind: combat, title: Arena, body: x, monster: treant}
  - {id: arena-frost, kind: combat, title: Arena, body: x, monster: frost}
  - {id: arena-wolf, kind: combat, title: Arena, body: x, monster: wolf}
  - {id: arena-golem, kind: combat, title: Arena, body: x, monster: golem}
  - {id: arena-leech, kind: combat, title: Arena, body: x, monster: leech}
  - {id: arena-twin, kind: combat, title: Arena, body: x, monster: twin}
  - {id: arena-imp, kind: combat, title: Arena, body: x, monster: imp}
  - {id: arena-eel, kind: combat, title: Arena, body: x, monster: eel}
  - {id: arena-warlock, kind: combat, title: Arena, body: x, monster: warlock}
  - {id: arena-toad, kind: combat, title: Arena, body: x, monster: toad}
`
