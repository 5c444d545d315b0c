package parser_test

import (
	"testing"

	"github.com/Varyaggg/quest-bot/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeywords(t *testing.T) {
	p := parser.Build()

	tests := []struct {
		input   string
		slash   bool
		keyword string
	}{
		{"/start", true, "start"},
		{"hint", false, "hint"},
		{"/HP", true, "HP"},
		{"Inventory", false, "Inventory"},
		{"/inv", true, "inv"},
		{"/reset", true, "reset"},
		{"help", false, "help"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, err := p.ParseString("", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.slash, cmd.Slash)
			assert.Equal(t, tt.keyword, cmd.Keyword())
			assert.Nil(t, cmd.Text)
		})
	}
}

func TestParseGo(t *testing.T) {
	p := parser.Build()
	input := "go Walk the road, quickly"

	cmd, err := p.ParseString("", input)
	require.NoError(t, err)
	require.NotNil(t, cmd.Go)
	assert.Equal(t, []string{"Walk", "the", "road", ",", "quickly"}, cmd.Go.Target.Tokens)
	assert.Equal(t, "Walk the road, quickly", cmd.Go.Target.Text(input))
}

func TestParseFight(t *testing.T) {
	p := parser.Build()
	input := "/use Igni"

	cmd, err := p.ParseString("", input)
	require.NoError(t, err)
	require.NotNil(t, cmd.Fight)
	assert.True(t, cmd.Slash)
	assert.Equal(t, "Igni", cmd.Fight.Action.Text(input))
}

func TestParseFreeText(t *testing.T) {
	p := parser.Build()

	for _, input := range []string{"2", "Walk the road", "Пойти к мельнице", "Ask about the lights?"} {
		t.Run(input, func(t *testing.T) {
			cmd, err := p.ParseString("", input)
			require.NoError(t, err)
			require.NotNil(t, cmd.Text)
			assert.Empty(t, cmd.Keyword())
			assert.Equal(t, input, cmd.Text.Text(input))
		})
	}
}

func TestParseRejectsArguments(t *testing.T) {
	p := parser.Build()

	_, err := p.ParseString("", "/hint please")
	require.Error(t, err)
	assert.EqualError(t, parser.MapError("/hint please", err), "The command hint takes no arguments: /hint")
}

func TestMapError(t *testing.T) {
	assert.EqualError(t, parser.MapError("  ", nil), "I wasn't able to understand your command")
	assert.EqualError(t, parser.MapError("/go", nil), "The command go must be: go <number|choice>")
	assert.EqualError(t, parser.MapError("/dance now", nil), `Unknown command "dance". Try /help`)
}
