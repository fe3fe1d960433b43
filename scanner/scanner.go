// Package scanner tokenizes shell-style interpolation syntax: simple
// $NAME references, braced ${NAME:-default} forms, $(command) and
// `command` substitutions, escape pairs, and inert single-quoted spans.
//
// The scanner is pull-based: callers drive it one token at a time and it
// never builds a token list up front. Tokens borrow from the source
// string and their byte spans partition the input exactly.
package scanner

import (
	"strings"
	"unicode/utf8"

	"github.com/sproutlang/sprout/errors"
)

// specials are the characters that can end a literal run.
const specials = "$\\'`"

// Scanner is a single-pass tokenizer over a source string. The resolver
// creates a fresh Scanner for every nested span it resolves.
type Scanner struct {
	source string
	pos    int // current byte offset, monotonically non-decreasing
}

// New creates a Scanner positioned at the start of source.
func New(source string) *Scanner {
	return &Scanner{source: source}
}

// Next returns the next token. The returned token has Type EOF once the
// cursor reaches the end of the source.
func (s *Scanner) Next() (Token, error) {
	if s.pos >= len(s.source) {
		return Token{Type: EOF, Start: s.pos, End: s.pos}, nil
	}

	start := s.pos
	cur := start

	for cur < len(s.source) {
		rel := strings.IndexAny(s.source[cur:], specials)
		if rel < 0 {
			cur = len(s.source)
			break
		}

		p := cur + rel
		switch s.source[p] {
		case '\\':
			if p+1 < len(s.source) && (s.source[p+1] == '`' || s.source[p+1] == '$') {
				// Deferred escape: surfaced as its own token so the
				// command pass can tell it apart from live syntax.
				if p > start {
					s.pos = p
					return s.literal(start, p), nil
				}
				s.pos = p + 2
				return Token{Type: ESCAPE, Text: s.source[p+1 : p+2], Start: p, End: p + 2}, nil
			}
			// Every other escape pair stays inside the literal; the
			// resolver interprets it.
			cur = s.skipEscaped(p)
		case '\'':
			// Single-quoted span is inert, quotes included.
			cur = s.skipSingleQuoted(p)
		case '$':
			if p > start {
				s.pos = p
				return s.literal(start, p), nil
			}
			return s.scanDollar(p)
		case '`':
			if p > start {
				s.pos = p
				return s.literal(start, p), nil
			}
			return s.scanBacktick(p)
		}
	}

	s.pos = cur
	return s.literal(start, cur), nil
}

func (s *Scanner) literal(start, end int) Token {
	return Token{Type: LITERAL, Text: s.source[start:end], Start: start, End: end}
}

// skipEscaped consumes the backslash at p and the full character after
// it. A trailing lone backslash consumes to end of input.
func (s *Scanner) skipEscaped(p int) int {
	if p+1 >= len(s.source) {
		return len(s.source)
	}
	_, size := utf8.DecodeRuneInString(s.source[p+1:])
	return p + 1 + size
}

// skipSingleQuoted consumes from the opening quote at p through the
// matching unescaped close. An unterminated quote at the top level runs
// leniently to the end of input.
func (s *Scanner) skipSingleQuoted(p int) int {
	i := p + 1
	for i < len(s.source) {
		rel := strings.IndexAny(s.source[i:], `'\`)
		if rel < 0 {
			return len(s.source)
		}
		q := i + rel
		if s.source[q] == '\\' {
			i = s.skipEscaped(q)
			continue
		}
		return q + 1
	}
	return len(s.source)
}

// scanDollar dispatches on the character after a $ at offset p.
func (s *Scanner) scanDollar(p int) (Token, error) {
	if p+1 < len(s.source) {
		switch s.source[p+1] {
		case '{':
			return s.scanBraced(p)
		case '(':
			return s.scanCommand(p)
		}
		r, _ := utf8.DecodeRuneInString(s.source[p+1:])
		if isNameStart(r) {
			return s.scanSimpleVariable(p)
		}
	}

	// A $ before anything else (or at end of input) is a literal $.
	s.pos = p + 1
	return s.literal(p, p+1), nil
}

// scanSimpleVariable consumes $NAME: the longest run of name characters
// after the $.
func (s *Scanner) scanSimpleVariable(p int) (Token, error) {
	i := p + 1
	for i < len(s.source) {
		r, size := utf8.DecodeRuneInString(s.source[i:])
		if !isNamePart(r) {
			break
		}
		i += size
	}
	s.pos = i
	return Token{Type: VARIABLE, Name: s.source[p+1 : i], Start: p, End: i}, nil
}

// scanBraced consumes ${...} with brace-depth counting so nested
// ${A:-${B}} forms close correctly. The name is everything before the
// first :-, :+, - or + (checked in that priority, so a bare : stays part
// of the name); everything after the modifier is the raw default span,
// carried unresolved. An empty name is legal and looks up the "" key.
func (s *Scanner) scanBraced(p int) (Token, error) {
	inner := p + 2
	depth := 1
	end := -1

scan:
	for i := inner; i < len(s.source); i++ {
		switch s.source[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i
				break scan
			}
		}
	}
	if end < 0 {
		return Token{}, errors.NewUnclosedBrace(p)
	}

	content := s.source[inner:end]
	s.pos = end + 1
	tok := Token{Type: VARIABLE, Name: content, Start: p, End: end + 1}

	for i := 0; i < len(content); i++ {
		switch content[i] {
		case ':':
			if i+1 < len(content) && (content[i+1] == '-' || content[i+1] == '+') {
				tok.Name = content[:i]
				tok.Default = content[i+2:]
				tok.HasDefault = true
				tok.Strict = true
				tok.Conditional = content[i+1] == '+'
				return tok, nil
			}
		case '-':
			tok.Name = content[:i]
			tok.Default = content[i+1:]
			tok.HasDefault = true
			return tok, nil
		case '+':
			tok.Name = content[:i]
			tok.Default = content[i+1:]
			tok.HasDefault = true
			tok.Conditional = true
			return tok, nil
		}
	}
	return tok, nil
}

// scanCommand consumes $(...) counting nested parentheses. Quoted
// sub-spans are opaque: parentheses inside '...' or "..." do not affect
// depth, and backslash escapes are honored inside double quotes.
func (s *Scanner) scanCommand(p int) (Token, error) {
	inner := p + 2
	depth := 1
	inSingle, inDouble := false, false
	quoteStart := -1

	i := inner
	for i < len(s.source) {
		c := s.source[i]
		switch {
		case inSingle:
			if c == '\'' {
				inSingle = false
				quoteStart = -1
			}
			i++
		case inDouble:
			switch c {
			case '"':
				inDouble = false
				quoteStart = -1
				i++
			case '\\':
				i = s.skipEscaped(i)
			default:
				i++
			}
		default:
			switch c {
			case '(':
				depth++
				i++
			case ')':
				depth--
				if depth == 0 {
					s.pos = i + 1
					return Token{Type: COMMAND, Text: s.source[inner:i], Start: p, End: i + 1}, nil
				}
				i++
			case '\'':
				inSingle = true
				quoteStart = i
				i++
			case '"':
				inDouble = true
				quoteStart = i
				i++
			case '\\':
				i = s.skipEscaped(i)
			default:
				i++
			}
		}
	}

	if quoteStart >= 0 {
		return Token{}, errors.NewUnclosedQuote(quoteStart)
	}
	return Token{}, errors.NewSyntax("unclosed command substitution", p)
}

// scanBacktick consumes `...` through the next unescaped backtick.
// Inside, \` and \\ are the only meaningful escapes; the backslash is
// consumed together with the following character either way.
func (s *Scanner) scanBacktick(p int) (Token, error) {
	i := p + 1
	for i < len(s.source) {
		switch s.source[i] {
		case '\\':
			i = s.skipEscaped(i)
		case '`':
			s.pos = i + 1
			return Token{Type: BACKTICK_COMMAND, Text: s.source[p+1 : i], Start: p, End: i + 1}, nil
		default:
			i++
		}
	}
	return Token{}, errors.NewUnclosedBacktick(p)
}
