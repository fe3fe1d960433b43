package scanner

import "fmt"

// TokenType represents the lexical units the scanner emits
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota

	// Content tokens
	LITERAL          // plain run of characters, single-quoted spans included
	VARIABLE         // $NAME or ${NAME...}
	COMMAND          // contents of $( ... )
	BACKTICK_COMMAND // contents of ` ... `
	ESCAPE           // deferred \` or \$ escape, resolved after the command pass
)

// Pre-computed token name lookup for fast debugging
var tokenNames = [...]string{
	EOF:              "EOF",
	LITERAL:          "LITERAL",
	VARIABLE:         "VARIABLE",
	COMMAND:          "COMMAND",
	BACKTICK_COMMAND: "BACKTICK_COMMAND",
	ESCAPE:           "ESCAPE",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) && int(t) >= 0 {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is one lexical unit over a span of the scanned source.
//
// Text, Name and Default are slices of the original source string, never
// copies. Start and End are byte offsets into the source; the spans of
// successive tokens partition the input with no gaps or overlaps.
type Token struct {
	Type TokenType

	// Text holds the literal run (LITERAL), the command body (COMMAND,
	// BACKTICK_COMMAND), or the single escaped character (ESCAPE).
	Text string

	// Variable fields (VARIABLE only). Default is the raw, unresolved
	// default/replacement span; HasDefault distinguishes ${X-} from ${X}.
	// Strict marks the :-/:+ family (empty treated as unset), Conditional
	// marks the +-family (substitute when present).
	Name        string
	Default     string
	HasDefault  bool
	Strict      bool
	Conditional bool

	// Byte span in the scanned source
	Start int
	End   int
}

// String returns a compact representation for testing and debugging
func (t Token) String() string {
	switch t.Type {
	case VARIABLE:
		if t.HasDefault {
			return fmt.Sprintf("VARIABLE(%s, default=%q, strict=%t, conditional=%t)",
				t.Name, t.Default, t.Strict, t.Conditional)
		}
		return fmt.Sprintf("VARIABLE(%s)", t.Name)
	case EOF:
		return "EOF"
	default:
		return fmt.Sprintf("%s(%q)", t.Type, t.Text)
	}
}
