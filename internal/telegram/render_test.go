package telegram

import (
	"testing"

	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/Varyaggg/quest-bot/internal/engine"
	"github.com/Varyaggg/quest-bot/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, "a\\_b \\*c\\* \\`d\\` \\[e]", Escape("a_b *c* `d` [e]"))
	assert.Equal(t, "plain text.", Escape("plain text."))
}

func TestRenderRejected(t *testing.T) {
	out := Render(&session.Reply{Kind: session.ReplyOutcome, Outcome: &engine.Outcome{
		Code:  engine.CodeRequirementNotMet,
		Log:   []string{"Enter the gate: requires amulet"},
		Scene: &engine.SceneView{Title: "Camp"},
	}})
	require.Len(t, out, 1)
	assert.Equal(t, Outgoing{Text: "⚠️ Enter the gate: requires amulet"}, out[0])
}

func TestRenderVictory(t *testing.T) {
	out := Render(&session.Reply{Kind: session.ReplyOutcome, Outcome: &engine.Outcome{
		Result: engine.ResultVictory,
		Log:    []string{"Rat is defeated!", "+4 XP."},
		Scene:  &engine.SceneView{ID: "den", Title: "Den", Body: "Quiet now.", Choices: []engine.ChoiceView{{Index: 1, Label: "Leave"}}},
	}})
	require.Len(t, out, 1)
	assert.Equal(t, "🏆 *Victory!*\nRat is defeated!\n+4 XP.\n\n*Den*\n\nQuiet now.", out[0].Text)
	assert.Equal(t, "go:den:1", out[0].Markup.InlineKeyboard[0][0].CallbackData)
}

func TestSplitGo(t *testing.T) {
	tests := []struct {
		data   string
		scene  string
		choice string
		ok     bool
	}{
		{data: "den:1", scene: "den", choice: "1", ok: true},
		{data: "act:2:3", scene: "act:2", choice: "3", ok: true},
		{data: "1"},
		{data: ":1"},
		{data: "den:"},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			scene, choice, ok := splitGo(tt.data)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.scene, scene)
			assert.Equal(t, tt.choice, choice)
		})
	}
}

func TestRenderCooldownLabel(t *testing.T) {
	kb := combatKeyboard(&engine.CombatView{Actions: []engine.ActionView{
		{Action: data.ActionStrike, Label: "Strike", Ready: true},
		{Action: data.ActionElementalA, Label: "Igni", Cooldown: 2},
	}})
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "Igni ⏳2", kb.InlineKeyboard[0][1].Text)
	assert.Equal(t, dataHint, kb.InlineKeyboard[1][0].CallbackData)
}

func TestRenderInventory(t *testing.T) {
	st := &engine.Status{
		Items:   []string{"silver_sword"},
		Potions: map[string]int{"herbs": 2, "brew": 1},
	}
	out := Render(&session.Reply{Kind: session.ReplyInventory, Status: st})
	require.Len(t, out, 1)
	assert.Equal(t, "🎒 Items: silver\\_sword\n🔮 Runes: empty\n🧪 Remedies: brew ×1, herbs ×2", out[0].Text)
}
