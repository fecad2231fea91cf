package schema

import (
	"strings"

	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/errors"
)

// Type describes the wire shape of a value at run time.
type Type struct {
	Elem   *Type
	Key    *Type
	Name   string
	Fields []Field
	Cases  []Case
	Kind   Kind
}

// Field is a record field or tuple element. Tuple elements have no name.
type Field struct {
	Type *Type
	Name string
}

// Case is a variant case. A nil Type means the case has no payload.
type Case struct {
	Type *Type
	Name string
}

// Primitive returns the descriptor of a scalar kind.
func Primitive(k Kind) *Type {
	return &Type{Kind: k}
}

// Option describes Option<elem>.
func Option(elem *Type) *Type {
	return &Type{Kind: KindOption, Elem: elem}
}

// Vec describes Vec<elem>.
func Vec(elem *Type) *Type {
	return &Type{Kind: KindVec, Elem: elem}
}

// Map describes HashMap<key, value>.
func Map(key, value *Type) *Type {
	return &Type{Kind: KindMap, Key: key, Elem: value}
}

// Tuple describes (elems...). An empty tuple is unit.
func Tuple(elems ...*Type) *Type {
	if len(elems) == 0 {
		return Primitive(KindUnit)
	}
	fields := make([]Field, len(elems))
	for i, e := range elems {
		fields[i] = Field{Type: e}
	}
	return &Type{Kind: KindTuple, Fields: fields}
}

// Record describes a named struct whose fields are encoded in order.
func Record(name string, fields ...Field) *Type {
	return &Type{Kind: KindRecord, Name: name, Fields: fields}
}

// Variant describes a named tagged union.
func Variant(name string, cases ...Case) *Type {
	return &Type{Kind: KindVariant, Name: name, Cases: cases}
}

// String returns the canonical type expression, e.g. "Vec<Option<String>>".
// Records and variants are referred to by name.
func (t *Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	switch t.Kind {
	case KindOption, KindVec:
		b.WriteString(t.Kind.String())
		b.WriteByte('<')
		t.Elem.write(b)
		b.WriteByte('>')
	case KindMap:
		b.WriteString("HashMap<")
		t.Key.write(b)
		b.WriteString(", ")
		t.Elem.write(b)
		b.WriteByte('>')
	case KindTuple:
		b.WriteByte('(')
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			f.Type.write(b)
		}
		if len(t.Fields) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case KindRecord, KindVariant:
		b.WriteString(t.Name)
	default:
		b.WriteString(t.Kind.String())
	}
}

// Describe renders records and variants with their members, for display.
func (t *Type) Describe() string {
	var b strings.Builder
	switch t.Kind {
	case KindRecord:
		b.WriteString("record " + t.Name + " {")
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(" " + f.Name + ": " + f.Type.String())
		}
		b.WriteString(" }")
	case KindVariant:
		b.WriteString("variant " + t.Name + " {")
		for i, c := range t.Cases {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(" " + c.Name)
			if c.Type != nil {
				b.WriteString("(" + c.Type.String() + ")")
			}
		}
		b.WriteString(" }")
	default:
		return t.String()
	}
	return b.String()
}

// Fixed reports the constant encoded size of t at width, if every value of
// t encodes to the same number of bytes.
func (t *Type) Fixed(width buffer.Width) (int, bool) {
	switch t.Kind {
	case KindUnit:
		return 0, true
	case KindBool, KindU8, KindI8:
		return 1, true
	case KindU16, KindI16:
		return 2, true
	case KindU32, KindI32, KindF32:
		return 4, true
	case KindU64, KindI64, KindF64:
		return 8, true
	case KindU128, KindI128:
		return 16, true
	case KindUsize, KindIsize:
		return int(width), true
	case KindTuple, KindRecord:
		total := 0
		for _, f := range t.Fields {
			n, ok := f.Type.Fixed(width)
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true
	case KindVariant:
		size := -1
		for _, c := range t.Cases {
			n := 0
			if c.Type != nil {
				var ok bool
				if n, ok = c.Type.Fixed(width); !ok {
					return 0, false
				}
			}
			if size >= 0 && n != size {
				return 0, false
			}
			size = n
		}
		return int(width) + max(size, 0), true
	default:
		return 0, false
	}
}

// FieldIndex returns the position of the named record field, or -1.
func (t *Type) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// CaseIndex returns the position of the named variant case, or -1.
func (t *Type) CaseIndex(name string) int {
	for i, c := range t.Cases {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Validate checks that t is well formed: container types have their element
// types, named types have names, and no record or variant contains itself
// except through Option, Vec or HashMap.
func (t *Type) Validate() error {
	var named []*Type
	if err := t.check(make(map[*Type]bool), &named); err != nil {
		return err
	}
	color := make(map[*Type]uint8)
	for _, n := range named {
		if err := directCycle(n, color); err != nil {
			return err
		}
	}
	return nil
}

// check verifies the structure of every type reachable from t and collects
// the named ones.
func (t *Type) check(seen map[*Type]bool, named *[]*Type) error {
	if t == nil {
		return errors.InvalidInput(errors.PhaseSchema, "missing type")
	}
	if seen[t] {
		return nil
	}
	seen[t] = true
	switch t.Kind {
	case KindOption, KindVec:
		if t.Elem == nil {
			return errors.InvalidInput(errors.PhaseSchema, t.Kind.String()+" without element type")
		}
		return t.Elem.check(seen, named)
	case KindMap:
		if t.Key == nil || t.Elem == nil {
			return errors.InvalidInput(errors.PhaseSchema, "HashMap without key or value type")
		}
		if !t.Key.Kind.IsPrimitive() {
			return errors.Unsupported(errors.PhaseSchema, "map key type "+t.Key.String())
		}
		return t.Elem.check(seen, named)
	case KindTuple:
		for _, f := range t.Fields {
			if err := f.Type.check(seen, named); err != nil {
				return err
			}
		}
		return nil
	case KindRecord:
		if t.Name == "" {
			return errors.InvalidInput(errors.PhaseSchema, "record without name")
		}
		*named = append(*named, t)
		for _, f := range t.Fields {
			if f.Name == "" {
				return errors.InvalidInput(errors.PhaseSchema, "record "+t.Name+" has an unnamed field")
			}
			if err := f.Type.check(seen, named); err != nil {
				return errors.AtPath(err, t.Name+"."+f.Name)
			}
		}
		return nil
	case KindVariant:
		if t.Name == "" {
			return errors.InvalidInput(errors.PhaseSchema, "variant without name")
		}
		if len(t.Cases) == 0 {
			return errors.InvalidInput(errors.PhaseSchema, "variant "+t.Name+" has no cases")
		}
		*named = append(*named, t)
		for _, c := range t.Cases {
			if c.Type == nil {
				continue
			}
			if err := c.Type.check(seen, named); err != nil {
				return errors.AtPath(err, t.Name+"::"+c.Name)
			}
		}
		return nil
	default:
		if t.Kind > KindString {
			return errors.InvalidInput(errors.PhaseSchema, "unknown kind")
		}
		return nil
	}
}

// direct returns the types embedded in t without an Option, Vec or HashMap
// in between.
func (t *Type) direct() []*Type {
	var out []*Type
	switch t.Kind {
	case KindTuple, KindRecord:
		for _, f := range t.Fields {
			out = append(out, f.Type)
		}
	case KindVariant:
		for _, c := range t.Cases {
			if c.Type != nil {
				out = append(out, c.Type)
			}
		}
	}
	return out
}

const (
	white uint8 = iota
	grey
	black
)

func directCycle(t *Type, color map[*Type]uint8) error {
	switch color[t] {
	case grey:
		return errors.New(errors.PhaseSchema, errors.KindInvalidInput).
			Type(t.String()).
			Detail("%s contains itself without indirection", t).
			Build()
	case black:
		return nil
	}
	color[t] = grey
	for _, d := range t.direct() {
		if err := directCycle(d, color); err != nil {
			return err
		}
	}
	color[t] = black
	return nil
}
