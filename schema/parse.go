package schema

import (
	"fmt"
	"strings"

	"github.com/wippyai/wasm-wire/errors"
)

// Resolver looks up named record and variant types while parsing.
type Resolver interface {
	Lookup(name string) (*Type, bool)
}

// Parse reads a type expression such as "Vec<Option<String>>",
// "HashMap<String, u32>" or "(u8, String)". Both Rust and WIT spellings are
// accepted: list<T>, option<T>, tuple<A, B>, s32, string. Any other
// identifier is resolved through r, which may be nil.
func Parse(expr string, r Resolver) (*Type, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{input: expr, tokens: tokens, resolve: r}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.typ != tokEOF {
		return nil, p.errorf(tok, "unexpected %s after type", tok.typ)
	}
	return t, nil
}

// MustParse is like Parse but panics on error. It is meant for expressions
// fixed at compile time.
func MustParse(expr string) *Type {
	t, err := Parse(expr, nil)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	resolve Resolver
	input   string
	tokens  []token
	pos     int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.typ != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(typ tokenType) (token, error) {
	t := p.next()
	if t.typ != typ {
		return t, p.errorf(t, "expected %s, got %s", typ, describe(t))
	}
	return t, nil
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return errors.ParseFailed(p.input, t.pos, fmt.Sprintf(format, args...))
}

func describe(t token) string {
	if t.typ == tokIdent {
		return fmt.Sprintf("%q", t.value)
	}
	return t.typ.String()
}

func (p *parser) parseType() (*Type, error) {
	t := p.peek()
	switch t.typ {
	case tokLParen:
		return p.parseParenTuple()
	case tokIdent:
		p.next()
		return p.parseNamed(t)
	default:
		p.next()
		return nil, p.errorf(t, "expected type, got %s", describe(t))
	}
}

// parseParenTuple handles "()", "(A)", "(A,)" and "(A, B, ...)".
func (p *parser) parseParenTuple() (*Type, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	if p.peek().typ == tokRParen {
		p.next()
		return Primitive(KindUnit), nil
	}
	var elems []*Type
	trailing := false
	for {
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if p.peek().typ != tokComma {
			break
		}
		p.next()
		if p.peek().typ == tokRParen {
			trailing = true
			break
		}
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	if len(elems) == 1 && !trailing {
		return elems[0], nil
	}
	return Tuple(elems...), nil
}

func (p *parser) parseNamed(t token) (*Type, error) {
	name := t.value
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	switch name {
	case "Vec", "list", "VecDeque":
		args, err := p.parseArgs(t, 1)
		if err != nil {
			return nil, err
		}
		return Vec(args[0]), nil
	case "Option", "option":
		args, err := p.parseArgs(t, 1)
		if err != nil {
			return nil, err
		}
		return Option(args[0]), nil
	case "Box":
		args, err := p.parseArgs(t, 1)
		if err != nil {
			return nil, err
		}
		return args[0], nil
	case "HashMap", "BTreeMap", "map":
		args, err := p.parseArgs(t, 2)
		if err != nil {
			return nil, err
		}
		return Map(args[0], args[1]), nil
	case "tuple":
		args, err := p.parseArgs(t, -1)
		if err != nil {
			return nil, err
		}
		return Tuple(args...), nil
	}
	if p.peek().typ == tokLAngle {
		return nil, p.errorf(p.peek(), "type %q takes no parameters", name)
	}
	if k, ok := primitiveNames[name]; ok {
		return Primitive(k), nil
	}
	if p.resolve != nil {
		if named, ok := p.resolve.Lookup(name); ok {
			return named, nil
		}
	}
	return nil, errors.NotFound(errors.PhaseParse, "type", name)
}

// parseArgs reads "<A, B, ...>". want is the required count, or -1 for any.
func (p *parser) parseArgs(head token, want int) ([]*Type, error) {
	if _, err := p.expect(tokLAngle); err != nil {
		return nil, err
	}
	var args []*Type
	if p.peek().typ != tokRAngle {
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().typ != tokComma {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(tokRAngle); err != nil {
		return nil, err
	}
	if want >= 0 && len(args) != want {
		return nil, p.errorf(head, "%s takes %d type parameter(s), got %d", head.value, want, len(args))
	}
	return args, nil
}
