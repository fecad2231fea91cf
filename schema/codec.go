package schema

import (
	"strconv"

	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/codec"
	"github.com/wippyai/wasm-wire/errors"
)

// Codec builds a codec for values of t in their dynamic Go form:
//
//	()                  struct{}
//	bool, u8..i64, f32  bool, uint8..int64, float32, float64
//	u128, i128          codec.Uint128, codec.Int128
//	usize, isize        uint, int
//	String              string
//	Vec<u8>             []byte
//	Vec<T>, tuples      []any
//	Option<T>           *any (nil is None)
//	HashMap<K, V>       map[any]any
//	records             RecordValue
//	variants            VariantValue
func (t *Type) Codec() (codec.Codec[any], error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	b := &builder{named: make(map[*Type]*lazyCodec)}
	return b.build(t)
}

type builder struct {
	named map[*Type]*lazyCodec
}

func (b *builder) build(t *Type) (codec.Codec[any], error) {
	switch t.Kind {
	case KindUnit:
		return codec.Any(codec.Unit()), nil
	case KindBool:
		return codec.Any(codec.Bool()), nil
	case KindU8:
		return codec.Any(codec.U8()), nil
	case KindU16:
		return codec.Any(codec.U16()), nil
	case KindU32:
		return codec.Any(codec.U32()), nil
	case KindU64:
		return codec.Any(codec.U64()), nil
	case KindU128:
		return codec.Any(codec.U128()), nil
	case KindI8:
		return codec.Any(codec.I8()), nil
	case KindI16:
		return codec.Any(codec.I16()), nil
	case KindI32:
		return codec.Any(codec.I32()), nil
	case KindI64:
		return codec.Any(codec.I64()), nil
	case KindI128:
		return codec.Any(codec.I128()), nil
	case KindF32:
		return codec.Any(codec.F32()), nil
	case KindF64:
		return codec.Any(codec.F64()), nil
	case KindUsize:
		return codec.Any(codec.Usize()), nil
	case KindIsize:
		return codec.Any(codec.Isize()), nil
	case KindString:
		return codec.Any(codec.String()), nil
	case KindOption:
		elem, err := b.build(t.Elem)
		if err != nil {
			return nil, err
		}
		return codec.Any(codec.Option(elem)), nil
	case KindVec:
		if t.Elem.Kind == KindU8 {
			return codec.Any(codec.Bytes()), nil
		}
		elem, err := b.build(t.Elem)
		if err != nil {
			return nil, err
		}
		return codec.Any(codec.Slice(elem)), nil
	case KindMap:
		if !t.Key.Kind.IsPrimitive() {
			return nil, errors.Unsupported(errors.PhaseSchema, "map key type "+t.Key.String())
		}
		key, err := b.build(t.Key)
		if err != nil {
			return nil, err
		}
		val, err := b.build(t.Elem)
		if err != nil {
			return nil, err
		}
		return codec.Any(codec.Map(key, val)), nil
	case KindTuple:
		fields, err := b.fields(t)
		if err != nil {
			return nil, err
		}
		return &seqCodec{name: t.String(), fields: fields}, nil
	case KindRecord, KindVariant:
		if l, ok := b.named[t]; ok {
			return l, nil
		}
		l := &lazyCodec{name: t.Name}
		b.named[t] = l
		c, err := b.buildNamed(t)
		if err != nil {
			return nil, err
		}
		l.c = c
		return l, nil
	}
	return nil, errors.Unsupported(errors.PhaseSchema, "kind "+t.Kind.String())
}

func (b *builder) buildNamed(t *Type) (codec.Codec[any], error) {
	if t.Kind == KindRecord {
		fields, err := b.fields(t)
		if err != nil {
			return nil, err
		}
		return &seqCodec{name: t.Name, fields: fields, record: t}, nil
	}
	cases := make([]codec.Case, len(t.Cases))
	for i, cs := range t.Cases {
		cases[i].Name = cs.Name
		if cs.Type == nil {
			continue
		}
		c, err := b.build(cs.Type)
		if err != nil {
			return nil, errors.AtPath(err, t.Name+"::"+cs.Name)
		}
		cases[i].Codec = c
	}
	return codec.Any(codec.Variant(t.Name, cases...)), nil
}

func (b *builder) fields(t *Type) ([]codec.Codec[any], error) {
	out := make([]codec.Codec[any], len(t.Fields))
	for i, f := range t.Fields {
		c, err := b.build(f.Type)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// lazyCodec lets a named type refer to itself through Option, Vec or HashMap.
type lazyCodec struct {
	c    codec.Codec[any]
	name string
}

func (l *lazyCodec) Name() string { return l.name }

func (l *lazyCodec) FixedSize(width buffer.Width) (int, bool) { return codec.FixedSize(l.c, width) }

func (l *lazyCodec) MinSize(width buffer.Width) int { return minSizeOf(l.c, width) }

func (l *lazyCodec) Size(v any, width buffer.Width) int { return l.c.Size(v, width) }

func (l *lazyCodec) Encode(w *buffer.Writer, v any) error { return l.c.Encode(w, v) }

func (l *lazyCodec) Decode(r *buffer.Reader) (any, error) { return l.c.Decode(r) }

func minSizeOf(c codec.Codec[any], width buffer.Width) int {
	if n, ok := codec.FixedSize(c, width); ok {
		return n
	}
	if m, ok := c.(interface{ MinSize(buffer.Width) int }); ok {
		return m.MinSize(width)
	}
	return 0
}

// seqCodec encodes tuples and records: each field in order, no framing.
type seqCodec struct {
	record *Type
	name   string
	fields []codec.Codec[any]
}

func (s *seqCodec) Name() string { return s.name }

func (s *seqCodec) FixedSize(width buffer.Width) (int, bool) {
	total := 0
	for _, f := range s.fields {
		n, ok := codec.FixedSize(f, width)
		if !ok {
			return 0, false
		}
		total += n
	}
	return total, true
}

func (s *seqCodec) MinSize(width buffer.Width) int {
	total := 0
	for _, f := range s.fields {
		total += minSizeOf(f, width)
	}
	return total
}

func (s *seqCodec) values(v any) ([]any, bool) {
	var vals []any
	switch x := v.(type) {
	case []any:
		vals = x
	case RecordValue:
		if s.record == nil {
			return nil, false
		}
		vals = x.Values
	case *RecordValue:
		if s.record == nil || x == nil {
			return nil, false
		}
		vals = x.Values
	default:
		return nil, false
	}
	return vals, len(vals) == len(s.fields)
}

func (s *seqCodec) Size(v any, width buffer.Width) int {
	vals, ok := s.values(v)
	if !ok {
		return 0
	}
	total := 0
	for i, f := range s.fields {
		total += f.Size(vals[i], width)
	}
	return total
}

func (s *seqCodec) Encode(w *buffer.Writer, v any) error {
	vals, ok := s.values(v)
	if !ok {
		return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Type(s.name).
			Value(v).
			Detail("cannot encode %T as %s with %d fields", v, s.name, len(s.fields)).
			Build()
	}
	for i, f := range s.fields {
		if err := f.Encode(w, vals[i]); err != nil {
			return errors.AtPath(err, s.fieldName(i))
		}
	}
	return nil
}

func (s *seqCodec) Decode(r *buffer.Reader) (any, error) {
	vals := make([]any, len(s.fields))
	for i, f := range s.fields {
		v, err := f.Decode(r)
		if err != nil {
			return nil, errors.AtPath(err, s.fieldName(i))
		}
		vals[i] = v
	}
	if s.record != nil {
		return RecordValue{Type: s.record, Values: vals}, nil
	}
	return vals, nil
}

func (s *seqCodec) fieldName(i int) string {
	if s.record != nil {
		return s.name + "." + s.record.Fields[i].Name
	}
	return s.name + "." + strconv.Itoa(i)
}
