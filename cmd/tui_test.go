package cmd

import (
	"testing"

	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/Varyaggg/quest-bot/internal/engine"
	"github.com/Varyaggg/quest-bot/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) playModel {
	t.Helper()
	catalog, err := data.Embedded()
	require.NoError(t, err)
	game := session.NewGame(catalog, session.NewStore(catalog.Start, session.SeededDice(1)))
	return newPlayModel(game, "local")
}

func TestPlayModelStartsQuest(t *testing.T) {
	m := newTestModel(t)

	assert.Contains(t, m.logContent, "The Northern Province")
	assert.Contains(t, m.logContent, "1. Follow the forest lights")

	opts := m.options()
	assert.Contains(t, opts, "Visit the herbalist")
	assert.Contains(t, opts, "/hint")
}

func TestPlayModelSubmitAndSuggest(t *testing.T) {
	m := newTestModel(t)

	m.textInput.SetValue("vis")
	m.updateSuggestions()
	require.True(t, m.showList)
	item, ok := m.suggestions.SelectedItem().(suggestion)
	require.True(t, ok)
	assert.Equal(t, "Visit the herbalist", string(item))

	m.textInput.SetValue("/hint")
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"/hint"}, m.history)
	assert.Contains(t, m.logContent, "Hint: Herbs and charms")
	assert.Empty(t, m.textInput.Value())
}

func TestRenderOutcomeRejected(t *testing.T) {
	out := &engine.Outcome{Code: engine.CodeUnknownChoice, Log: []string{"No such choice."}}
	assert.Contains(t, renderOutcome(out), "! No such choice.")
}

func TestRenderInventory(t *testing.T) {
	st := &engine.Status{
		Items:   []string{"torch"},
		Potions: map[string]int{"healing herbs": 2},
	}
	got := renderStatus(st, true)
	assert.Contains(t, got, "Items: torch")
	assert.Contains(t, got, "Runes: none")
	assert.Contains(t, got, "Remedies: healing herbs x2")
}
