package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantIsIdempotent(t *testing.T) {
	inv := New()

	assert.True(t, inv.Grant("Silver Sword"))
	assert.False(t, inv.Grant("silver sword"))
	assert.False(t, inv.Grant("  SILVER  sword"))

	assert.Equal(t, []string{"Silver Sword"}, inv.Items())
	assert.True(t, inv.Has("silver sword"))
}

func TestConsumeRemovesOnce(t *testing.T) {
	inv := New()
	inv.Grant("torch")
	inv.Grant("Torch")

	assert.True(t, inv.Consume("TORCH"))
	assert.False(t, inv.Has("torch"))
	assert.False(t, inv.Consume("torch"))
	assert.Empty(t, inv.Items())
}

func TestDiacriticsFold(t *testing.T) {
	inv := New()
	inv.Grant("Ladá stone")
	assert.True(t, inv.Has("lada stone"))

	inv.Grant("зелье")
	assert.True(t, inv.Has("ЗЕЛЬЕ"))

	inv.Grant("ёж")
	assert.True(t, inv.Has("еж"))
}

func TestRunesCountDistinct(t *testing.T) {
	inv := New()
	assert.True(t, inv.GrantRune("frost rune"))
	assert.False(t, inv.GrantRune("Frost Rune"))
	assert.True(t, inv.GrantRune("light rune"))

	assert.Equal(t, 2, inv.RuneCount())
	assert.True(t, inv.Has("frost rune"))
	assert.Empty(t, inv.Items(), "runes do not occupy the item set")
}

func TestPotionStacks(t *testing.T) {
	inv := New()
	inv.AddPotion("healing herbs")
	inv.AddPotion("Healing Herbs")
	inv.AddPotion("swamp brew")

	assert.Equal(t, 2, inv.PotionCount("healing herbs"))
	assert.Equal(t, 3, inv.TotalPotions())

	require.True(t, inv.TakePotion("healing herbs"))
	require.True(t, inv.TakePotion("healing herbs"))
	assert.False(t, inv.TakePotion("healing herbs"))
	assert.False(t, inv.Has("healing herbs"))
	assert.Equal(t, map[string]int{"swamp brew": 1}, inv.Potions())
}

func TestCloneIsDeep(t *testing.T) {
	inv := New()
	inv.Grant("torch")
	inv.AddPotion("healing herbs")

	cp := inv.Clone()
	cp.Consume("torch")
	cp.TakePotion("healing herbs")

	assert.True(t, inv.Has("torch"))
	assert.Equal(t, 1, inv.PotionCount("healing herbs"))
}
