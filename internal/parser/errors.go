package parser

import (
	"fmt"
	"strings"
)

// MapError takes a raw input and a participle error, and returns a human-friendly guidance message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "/"))
	if input == "" {
		return fmt.Errorf("I wasn't able to understand your command")
	}

	parts := strings.Fields(strings.ToLower(input))
	switch parts[0] {
	case "start", "begin":
		return fmt.Errorf("The command start takes no arguments: /start")
	case "go", "choose", "pick":
		return fmt.Errorf("The command go must be: go <number|choice>")
	case "fight", "use", "cast", "act":
		return fmt.Errorf("The command fight must be: fight <action>")
	case "hint", "clue":
		return fmt.Errorf("The command hint takes no arguments: /hint")
	case "status", "hp", "stats":
		return fmt.Errorf("The command status takes no arguments: /hp")
	case "inventory", "inv", "bag":
		return fmt.Errorf("The command inventory takes no arguments: /inv")
	case "reset", "restart":
		return fmt.Errorf("The command reset takes no arguments: /reset")
	case "help":
		return fmt.Errorf("The command help takes no arguments: /help")
	}

	return fmt.Errorf("Unknown command %q. Try /help", parts[0])
}
