package schema

import (
	"fmt"

	"github.com/wippyai/wasm-wire/errors"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokIdent
	tokLAngle
	tokRAngle
	tokLParen
	tokRParen
	tokComma
)

func (t tokenType) String() string {
	switch t {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokLAngle:
		return "'<'"
	case tokRAngle:
		return "'>'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	}
	return "unknown"
}

type token struct {
	value string
	typ   tokenType
	pos   int
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '-' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// tokenize splits a type expression. Identifiers may contain '::' so that
// Rust paths like std::string::String survive as one token.
func tokenize(input string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(input); {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '<':
			tokens = append(tokens, token{typ: tokLAngle, value: "<", pos: i})
			i++
		case c == '>':
			tokens = append(tokens, token{typ: tokRAngle, value: ">", pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{typ: tokLParen, value: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{typ: tokRParen, value: ")", pos: i})
			i++
		case c == ',':
			tokens = append(tokens, token{typ: tokComma, value: ",", pos: i})
			i++
		case isIdentByte(c):
			start := i
			for i < len(input) && isIdentByte(input[i]) {
				i++
			}
			tokens = append(tokens, token{typ: tokIdent, value: input[start:i], pos: start})
		default:
			return nil, errors.ParseFailed(input, i, fmt.Sprintf("unexpected character %q", c))
		}
	}
	tokens = append(tokens, token{typ: tokEOF, pos: len(input)})
	return tokens, nil
}
