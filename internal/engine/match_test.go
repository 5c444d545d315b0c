package engine

import (
	"testing"

	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchOption(t *testing.T) {
	opts := []option{
		{names: []string{"Follow the forest lights", "forest-lights"}},
		{names: []string{"Visit the herbalist", "herbalist-hut"}},
		{names: []string{"Go down to the old bridge", "old-bridge"}},
	}

	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"2", 1, true},
		{"4", 0, false},
		{"old-bridge", 2, true},
		{"VISIT THE HERBALIST", 1, true},
		{"visit the herbalst", 1, true},
		{"forest-light", 0, true},
		{"dance", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := matchOption(opts, tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMatchOptionRefusesTies(t *testing.T) {
	opts := []option{{names: []string{"cat"}}, {names: []string{"car"}}}
	_, ok := matchOption(opts, "caw")
	assert.False(t, ok)
}

func TestParseAction(t *testing.T) {
	_, res, _ := newTestEngine(t)

	tests := map[string]data.Action{
		"strike":      data.ActionStrike,
		"Igni":        data.ActionElementalA,
		"aard":        data.ActionElementalB,
		"quen":        data.ActionShield,
		"potion":      data.ActionConsumePotion,
		"amulet":      data.ActionDisplayTalisman,
		"elemental-a": data.ActionElementalA,
		"5":           data.ActionDisable,
		"strkie":      data.ActionStrike,
	}
	for in, want := range tests {
		got, ok := res.ParseAction(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := res.ParseAction("sing a song")
	assert.False(t, ok)
}

func TestAct(t *testing.T) {
	nav, res, c := newTestEngine(t)

	_, err := res.Act(NewPlayer(c.Start), "strike", &ScriptedDice{})
	assert.ErrorIs(t, err, ErrNotInCombat)

	p := newFighter(t, nav, "arena-dummy", nil)
	out, err := res.Act(p, "sing a song", &ScriptedDice{})
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, CodeUnknownAction, out.Code)
	assert.Equal(t, 0, p.Combat.Turn)

	out, err = res.Act(p, "hit", &ScriptedDice{Rolls: []int{7, 9}})
	require.NoError(t, err)
	assert.Equal(t, 93, out.Combat.HP)
	assert.Equal(t, 51, p.HP)
}
