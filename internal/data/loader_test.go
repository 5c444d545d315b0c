package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderEmbeddedFallback(t *testing.T) {
	// No directories: the quest compiled into the binary is used.
	l := NewLoader(nil)

	c, err := l.Load("")
	require.NoError(t, err)

	start, ok := c.Scene(c.Start.Scene)
	require.True(t, ok)
	assert.Equal(t, SceneNarrative, start.Kind)

	wolf, ok := c.Monster("volkolak")
	require.True(t, ok)
	assert.True(t, wolf.Has(TraitRequiresSpecialWeapon))
	assert.Equal(t, "silver sword", wolf.Weapon)

	for _, a := range Actions {
		_, ok := c.Ability(a)
		assert.True(t, ok, "ability row for %s", a)
	}
	assert.NotEmpty(t, c.CombatScenes())
}

func TestLoaderPrefersDataDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte(minimalCatalog), 0o644))

	c, err := NewLoader([]string{filepath.Join(dir, "missing"), dir}).Load(DefaultFile)
	require.NoError(t, err)
	assert.Equal(t, "Tiny", c.Title)
	assert.Len(t, c.Scenes, 3)
}

func TestItemLookupFoldsNames(t *testing.T) {
	c, err := Embedded()
	require.NoError(t, err)

	it, ok := c.Item("  Silver   SWORD ")
	require.True(t, ok)
	assert.Equal(t, "silver sword", it.ID)

	_, ok = c.Item("golden sword")
	assert.False(t, ok)
}

func TestRulesDefaultsSurviveOverrides(t *testing.T) {
	c, err := Parse([]byte(minimalCatalog))
	require.NoError(t, err)

	assert.Equal(t, 8, c.Rules.ElementalBonus)
	assert.InDelta(t, 0.7, c.Rules.ArmoredFactor, 1e-9)
	assert.Equal(t, 3, c.Rules.TalismanDamage, "explicit value wins")
}

const minimalCatalog = `
title: Tiny
start: {scene: a, hp: 10, attack: {min: 1, max: 2}, defense: 0, fate: 1, xp_next: 10}
rules:
  talisman_damage: 3
abilities:
  - {action: strike, label: Strike}
  - {action: elemental-a, label: Fire, damage: {min: 5, max: 11}, cooldown: 3}
  - {action: elemental-b, label: Push, damage: {min: 4, max: 9}, cooldown: 3}
  - {action: shield, label: Shield, cooldown: 2}
  - {action: disable, label: Daze, cooldown: 3}
  - {action: consume-potion, label: Drink}
  - {action: display-talisman, label: Amulet}
items:
  - {id: herbs, kind: heal, amount: 5}
monsters:
  - {id: rat, name: Rat, hp: 5, damage: {min: 1, max: 1}, victory: a, defeat: a, xp: 1}
scenes:
  - id: a
    kind: narrative
    title: A
    body: a
    choices: [{label: go, to: b}]
  - id: b
    kind: combat
    title: B
    body: b
    monster: rat
  - id: c
    kind: puzzle
    title: C
    body: c
    puzzle:
      question: q
      options: [{label: yes, correct: true}]
      success: a
      failure: b
`
