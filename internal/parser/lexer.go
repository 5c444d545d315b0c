package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer splits player input into words, numbers and punctuation. Words are
// Unicode letters so labels in any script come through intact.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Slash", Pattern: `/`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `[\p{L}_][\p{L}\p{N}_'’-]*`},
	{Name: "Punct", Pattern: `[^\s\p{L}\p{N}_/]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Build creates our parser based on the struct tags in `ast.go`
func Build() *participle.Parser[Command] {
	return participle.MustBuild[Command](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
		participle.CaseInsensitive("Word"),
	)
}
