package scanner

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sproutlang/sprout/errors"
)

// tokenExpectation is a token stripped of its source span
type tokenExpectation struct {
	Type        TokenType
	Text        string
	Name        string
	Default     string
	HasDefault  bool
	Strict      bool
	Conditional bool
}

func collectTokens(t *testing.T, input string) []Token {
	t.Helper()

	sc := New(input)
	var tokens []Token
	for {
		tok, err := sc.Next()
		if err != nil {
			t.Fatalf("unexpected scan error for %q: %v", input, err)
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// assertTokens compares the scanned token stream with expected,
// ignoring source spans
func assertTokens(t *testing.T, name, input string, expected []tokenExpectation) {
	t.Helper()

	tokens := collectTokens(t, input)
	actual := make([]tokenExpectation, len(tokens))
	for i, tok := range tokens {
		actual[i] = tokenExpectation{
			Type:        tok.Type,
			Text:        tok.Text,
			Name:        tok.Name,
			Default:     tok.Default,
			HasDefault:  tok.HasDefault,
			Strict:      tok.Strict,
			Conditional: tok.Conditional,
		}
	}

	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("%s: token mismatch for %q (-want +got):\n%s", name, input, diff)
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "plain text",
			input: "just plain text",
			expected: []tokenExpectation{
				{Type: LITERAL, Text: "just plain text"},
				{Type: EOF},
			},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []tokenExpectation{{Type: EOF}},
		},
		{
			name:  "dollar before space",
			input: "$ NotVar",
			expected: []tokenExpectation{
				{Type: LITERAL, Text: "$"},
				{Type: LITERAL, Text: " NotVar"},
				{Type: EOF},
			},
		},
		{
			name:  "dollar at end of input",
			input: "Value: $",
			expected: []tokenExpectation{
				{Type: LITERAL, Text: "Value: "},
				{Type: LITERAL, Text: "$"},
				{Type: EOF},
			},
		},
		{
			name:  "dollar before digit",
			input: "Price is $100",
			expected: []tokenExpectation{
				{Type: LITERAL, Text: "Price is "},
				{Type: LITERAL, Text: "$"},
				{Type: LITERAL, Text: "100"},
				{Type: EOF},
			},
		},
		{
			name:  "escape pair stays in literal",
			input: `Line1\nLine2`,
			expected: []tokenExpectation{
				{Type: LITERAL, Text: `Line1\nLine2`},
				{Type: EOF},
			},
		},
		{
			name:  "trailing lone backslash",
			input: `end\`,
			expected: []tokenExpectation{
				{Type: LITERAL, Text: `end\`},
				{Type: EOF},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.name, tt.input, tt.expected)
		})
	}
}

func TestVariables(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "simple variable",
			input: "Hello $USER",
			expected: []tokenExpectation{
				{Type: LITERAL, Text: "Hello "},
				{Type: VARIABLE, Name: "USER"},
				{Type: EOF},
			},
		},
		{
			name:  "simple variable stops at punctuation",
			input: "$user@$host:",
			expected: []tokenExpectation{
				{Type: VARIABLE, Name: "user"},
				{Type: LITERAL, Text: "@"},
				{Type: VARIABLE, Name: "host"},
				{Type: LITERAL, Text: ":"},
				{Type: EOF},
			},
		},
		{
			name:  "braced variable",
			input: "${TEST_VAR}",
			expected: []tokenExpectation{
				{Type: VARIABLE, Name: "TEST_VAR"},
				{Type: EOF},
			},
		},
		{
			name:  "empty braced name",
			input: "${}",
			expected: []tokenExpectation{
				{Type: VARIABLE, Name: ""},
				{Type: EOF},
			},
		},
		{
			name:  "braced name may start with a digit",
			input: "${1VAR}",
			expected: []tokenExpectation{
				{Type: VARIABLE, Name: "1VAR"},
				{Type: EOF},
			},
		},
		{
			name:  "strict default",
			input: "${PATH:-/usr/bin}",
			expected: []tokenExpectation{
				{Type: VARIABLE, Name: "PATH", Default: "/usr/bin", HasDefault: true, Strict: true},
				{Type: EOF},
			},
		},
		{
			name:  "loose default",
			input: "${PATH-/usr/local/bin}",
			expected: []tokenExpectation{
				{Type: VARIABLE, Name: "PATH", Default: "/usr/local/bin", HasDefault: true},
				{Type: EOF},
			},
		},
		{
			name:  "strict conditional",
			input: "${VAR:+alt}",
			expected: []tokenExpectation{
				{Type: VARIABLE, Name: "VAR", Default: "alt", HasDefault: true, Strict: true, Conditional: true},
				{Type: EOF},
			},
		},
		{
			name:  "loose conditional",
			input: "${VAR+alt}",
			expected: []tokenExpectation{
				{Type: VARIABLE, Name: "VAR", Default: "alt", HasDefault: true, Conditional: true},
				{Type: EOF},
			},
		},
		{
			name:  "bare colon stays in the name",
			input: "${host:port}",
			expected: []tokenExpectation{
				{Type: VARIABLE, Name: "host:port"},
				{Type: EOF},
			},
		},
		{
			name:  "nested braces carried as raw default",
			input: "${A:-${B:-${C}}}",
			expected: []tokenExpectation{
				{Type: VARIABLE, Name: "A", Default: "${B:-${C}}", HasDefault: true, Strict: true},
				{Type: EOF},
			},
		},
		{
			name:  "default keeps special characters",
			input: "${PATH:-/usr/bin:/usr/local/bin}",
			expected: []tokenExpectation{
				{Type: VARIABLE, Name: "PATH", Default: "/usr/bin:/usr/local/bin", HasDefault: true, Strict: true},
				{Type: EOF},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.name, tt.input, tt.expected)
		})
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "command substitution",
			input: "now: $(date +%s)",
			expected: []tokenExpectation{
				{Type: LITERAL, Text: "now: "},
				{Type: COMMAND, Text: "date +%s"},
				{Type: EOF},
			},
		},
		{
			name:  "nested parentheses",
			input: "$(echo $(echo inner))",
			expected: []tokenExpectation{
				{Type: COMMAND, Text: "echo $(echo inner)"},
				{Type: EOF},
			},
		},
		{
			name:  "parens inside quotes do not count",
			input: `$(echo "a)b" 'c)d')`,
			expected: []tokenExpectation{
				{Type: COMMAND, Text: `echo "a)b" 'c)d'`},
				{Type: EOF},
			},
		},
		{
			name:  "backtick command",
			input: "Date: `echo 2024`",
			expected: []tokenExpectation{
				{Type: LITERAL, Text: "Date: "},
				{Type: BACKTICK_COMMAND, Text: "echo 2024"},
				{Type: EOF},
			},
		},
		{
			name:  "escaped backtick inside backticks",
			input: "`echo \\` done`",
			expected: []tokenExpectation{
				{Type: BACKTICK_COMMAND, Text: "echo \\` done"},
				{Type: EOF},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.name, tt.input, tt.expected)
		})
	}
}

func TestEscapeTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "escaped dollar",
			input: `cost \$5`,
			expected: []tokenExpectation{
				{Type: LITERAL, Text: "cost "},
				{Type: ESCAPE, Text: "$"},
				{Type: LITERAL, Text: "5"},
				{Type: EOF},
			},
		},
		{
			name:  "escaped backtick",
			input: "use \\`ticks\\`",
			expected: []tokenExpectation{
				{Type: LITERAL, Text: "use "},
				{Type: ESCAPE, Text: "`"},
				{Type: LITERAL, Text: "ticks"},
				{Type: ESCAPE, Text: "`"},
				{Type: EOF},
			},
		},
		{
			name:  "escaped dollar blocks variable",
			input: `\${TEST_VAR}`,
			expected: []tokenExpectation{
				{Type: ESCAPE, Text: "$"},
				{Type: LITERAL, Text: "{TEST_VAR}"},
				{Type: EOF},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.name, tt.input, tt.expected)
		})
	}
}

func TestSingleQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "quoted span is inert",
			input: "'${NOT_INTERPOLATED}'",
			expected: []tokenExpectation{
				{Type: LITERAL, Text: "'${NOT_INTERPOLATED}'"},
				{Type: EOF},
			},
		},
		{
			name:  "quoted backtick is inert",
			input: "a '`cmd`' b",
			expected: []tokenExpectation{
				{Type: LITERAL, Text: "a '`cmd`' b"},
				{Type: EOF},
			},
		},
		{
			name:  "escaped quote inside quotes",
			input: `'don\'t' $X`,
			expected: []tokenExpectation{
				{Type: LITERAL, Text: `'don\'t' `},
				{Type: VARIABLE, Name: "X"},
				{Type: EOF},
			},
		},
		{
			name:  "unterminated top-level quote runs to end",
			input: "'open ${X}",
			expected: []tokenExpectation{
				{Type: LITERAL, Text: "'open ${X}"},
				{Type: EOF},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.name, tt.input, tt.expected)
		})
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   string
		offset int
	}{
		{"unclosed brace", "${TEST_VAR", errors.UnclosedBrace, 0},
		{"unclosed brace with modifier", "text ${TEST_VAR:-default", errors.UnclosedBrace, 5},
		{"unclosed command substitution", "$(echo hi", errors.Syntax, 0},
		{"unclosed quote inside command", "$(echo 'hi)", errors.UnclosedQuote, 7},
		{"unclosed backtick", "`unclosed", errors.UnclosedBacktick, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := New(tt.input)
			var err error
			for err == nil {
				var tok Token
				tok, err = sc.Next()
				if err == nil && tok.Type == EOF {
					t.Fatalf("expected %s error for %q, scan completed", tt.kind, tt.input)
				}
			}
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("expected %s error for %q, got %v", tt.kind, tt.input, err)
			}
			if e := err.(*errors.Error); e.Offset != tt.offset {
				t.Errorf("expected offset %d for %q, got %d", tt.offset, tt.input, e.Offset)
			}
		})
	}
}

// Token spans must partition the input: no gaps, no overlaps, and
// concatenating the source ranges reconstructs the input exactly.
func TestSpansPartitionInput(t *testing.T) {
	inputs := []string{
		"plain text",
		"Hello ${USER}, today is $(date) at `hostname`",
		"escaped \\$ and \\` here",
		"'quoted ${X}' then ${Y:-def} tail",
		"$ loose $. ${} $$ nested ${A:-${B}} end",
		"a\\nb\\tc\\\\d",
		"mixed `echo hi` and $(echo 'y(e)s') and $V",
	}

	for _, input := range inputs {
		tokens := collectTokens(t, input)

		var b strings.Builder
		pos := 0
		for _, tok := range tokens {
			if tok.Type == EOF {
				continue
			}
			if tok.Start != pos {
				t.Fatalf("gap or overlap at %d (token starts at %d) in %q", pos, tok.Start, input)
			}
			if tok.End < tok.Start || tok.End > len(input) {
				t.Fatalf("bad span [%d,%d) in %q", tok.Start, tok.End, input)
			}
			b.WriteString(input[tok.Start:tok.End])
			pos = tok.End
		}
		if pos != len(input) {
			t.Fatalf("tokens stop at %d of %d in %q", pos, len(input), input)
		}
		if b.String() != input {
			t.Fatalf("reconstructed %q from spans of %q", b.String(), input)
		}
	}
}
