package sprout

import (
	"strings"
	"unicode/utf8"

	"github.com/sproutlang/sprout/errors"
	"github.com/sproutlang/sprout/scanner"
)

// interpolator runs one resolution pass. It holds only borrowed,
// read-only state, so independent calls may run concurrently.
type interpolator struct {
	provider Provider
	config   *Config
}

// resolve performs the synchronous pass over input.
//
// While every token is an unmodified literal the function returns the
// input string itself, with no allocation. The first token that requires
// substitution switches it to an owned buffer, pre-filled with
// everything seen so far; the switch is one-directional per call.
//
// With preserve set, deferred \` and \$ escapes are re-emitted in their
// two-byte source form so the command pass can still see them.
func (r *interpolator) resolve(input string, depth int, preserve bool) (string, error) {
	if depth > r.config.MaxDepth {
		return "", errors.NewRecursiveLookup(input)
	}

	sc := scanner.New(input)
	var buf *strings.Builder

	for {
		tok, err := sc.Next()
		if err != nil {
			return "", err
		}
		if tok.Type == scanner.EOF {
			break
		}

		piece, modified, err := r.resolveToken(input, tok, depth, preserve)
		if err != nil {
			return "", err
		}

		if buf == nil {
			if !modified {
				continue
			}
			buf = &strings.Builder{}
			buf.Grow(len(input) + 32)
			buf.WriteString(input[:tok.Start])
		}
		buf.WriteString(piece)
	}

	if buf == nil {
		return input, nil
	}
	return buf.String(), nil
}

// resolveToken returns the resolved form of one token and whether it
// differs from the token's source text.
func (r *interpolator) resolveToken(input string, tok scanner.Token, depth int, preserve bool) (string, bool, error) {
	verbatim := input[tok.Start:tok.End]

	switch tok.Type {
	case scanner.LITERAL:
		if r.config.Features.Escapes && strings.IndexByte(tok.Text, '\\') >= 0 {
			return unescape(tok.Text), true, nil
		}
		return verbatim, false, nil

	case scanner.VARIABLE:
		// With variables disabled the placeholder passes through as-is.
		if !r.config.Features.Variables {
			return verbatim, false, nil
		}
		value, err := r.resolveVariable(tok, depth, preserve)
		if err != nil {
			return "", false, err
		}
		return value, true, nil

	case scanner.ESCAPE:
		if preserve || !r.config.Features.Escapes {
			return verbatim, false, nil
		}
		return tok.Text, true, nil

	default:
		// COMMAND and BACKTICK_COMMAND are literal text in this pass;
		// only the command pass interprets them.
		return verbatim, false, nil
	}
}

// resolveVariable applies the modifier matrix.
//
//	${VAR:-d}  substitute d when unset or empty
//	${VAR-d}   substitute d when unset; empty is a valid value
//	${VAR:+d}  substitute d when set and non-empty, else empty
//	${VAR+d}   substitute d when set, even if empty, else empty
//	${VAR}     plain lookup
//
// A found value is itself resolved recursively, as is whichever default
// span gets taken; the untaken branch is never evaluated. Disabling the
// governing feature demotes the modifier to a plain lookup.
func (r *interpolator) resolveVariable(tok scanner.Token, depth int, preserve bool) (string, error) {
	feats := r.config.Features
	value, found := r.provider.Get(tok.Name)

	if tok.Conditional && feats.Conditionals {
		if !found || (tok.Strict && value == "") {
			return "", nil
		}
		return r.resolve(tok.Default, depth+1, preserve)
	}

	hasDefault := tok.HasDefault && !tok.Conditional

	if found {
		if tok.Strict && value == "" && hasDefault && feats.Defaults {
			return r.resolve(tok.Default, depth+1, preserve)
		}
		return r.resolve(value, depth+1, preserve)
	}

	if hasDefault {
		if tok.Strict && feats.Defaults {
			return r.resolve(tok.Default, depth+1, preserve)
		}
		if !tok.Strict && feats.Alternates {
			return r.resolve(tok.Default, depth+1, preserve)
		}
	}
	return "", errors.NewMissingVar(tok.Name)
}

// unescape rewrites backslash sequences in a literal run. Unknown
// escapes drop the backslash, as bash does; a trailing lone backslash
// stands for itself. The \` and \$ pairs only reach here inside
// single-quoted spans, where they cannot be live syntax.
func unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			b.WriteByte('\\')
			break
		}

		next, size := utf8.DecodeRuneInString(s[i+1:])
		switch next {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		default:
			b.WriteRune(next)
		}
		i += 1 + size
	}
	return b.String()
}
