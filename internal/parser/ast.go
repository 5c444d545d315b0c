package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Command is one line of player input: an optional slash, then either a
// keyword command or free text.
type Command struct {
	Slash     bool          `parser:"@Slash?"`
	Start     *StartCmd     `parser:"( @@"`
	Go        *GoCmd        `parser:"| @@"`
	Fight     *FightCmd     `parser:"| @@"`
	Hint      *HintCmd      `parser:"| @@"`
	Status    *StatusCmd    `parser:"| @@"`
	Inventory *InventoryCmd `parser:"| @@"`
	Reset     *ResetCmd     `parser:"| @@"`
	Help      *HelpCmd      `parser:"| @@"`
	Text      *Rest         `parser:"| @@ )"`
}

// StartCmd begins (or resumes) the quest
type StartCmd struct {
	Keyword string `parser:"@(\"start\"|\"begin\")"`
}

// GoCmd picks a choice by number, label or target
type GoCmd struct {
	Keyword string `parser:"@(\"go\"|\"choose\"|\"pick\")"`
	Target  *Rest  `parser:"@@"`
}

// FightCmd names a combat action
type FightCmd struct {
	Keyword string `parser:"@(\"fight\"|\"use\"|\"cast\"|\"act\")"`
	Action  *Rest  `parser:"@@"`
}

// HintCmd asks for the hint of the current scene or monster
type HintCmd struct {
	Keyword string `parser:"@(\"hint\"|\"clue\")"`
}

// StatusCmd shows HP, level and experience
type StatusCmd struct {
	Keyword string `parser:"@(\"status\"|\"hp\"|\"stats\")"`
}

// InventoryCmd lists items, runes and remedies
type InventoryCmd struct {
	Keyword string `parser:"@(\"inventory\"|\"inv\"|\"bag\")"`
}

// ResetCmd throws the run away and starts over
type ResetCmd struct {
	Keyword string `parser:"@(\"reset\"|\"restart\")"`
}

// HelpCmd lists the commands
type HelpCmd struct {
	Keyword string `parser:"@\"help\""`
}

// Rest captures everything up to the end of the line.
type Rest struct {
	Pos    lexer.Position
	Tokens []string `parser:"@(Word|Number|Punct|Slash)+"`
}

// Text returns the captured part of input as the player typed it.
func (r *Rest) Text(input string) string {
	if r == nil {
		return ""
	}
	if r.Pos.Offset >= 0 && r.Pos.Offset < len(input) {
		return strings.TrimSpace(input[r.Pos.Offset:])
	}
	return strings.Join(r.Tokens, " ")
}

// Keyword reports the command word used, or "" for free text.
func (c *Command) Keyword() string {
	switch {
	case c.Start != nil:
		return c.Start.Keyword
	case c.Go != nil:
		return c.Go.Keyword
	case c.Fight != nil:
		return c.Fight.Keyword
	case c.Hint != nil:
		return c.Hint.Keyword
	case c.Status != nil:
		return c.Status.Keyword
	case c.Inventory != nil:
		return c.Inventory.Keyword
	case c.Reset != nil:
		return c.Reset.Keyword
	case c.Help != nil:
		return c.Help.Keyword
	}
	return ""
}
