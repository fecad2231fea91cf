package codec

import (
	"strconv"

	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/errors"
)

// Case is one alternative of a variant. A nil Codec means the case carries
// no payload.
type Case struct {
	Codec Codec[any]
	Name  string
}

// VariantValue is a decoded variant: the case index and its payload, if any.
type VariantValue struct {
	Value any
	Case  int
}

type variantCodec struct {
	name  string
	cases []Case
}

// Variant encodes a width-sized discriminant (the case index) followed by
// the payload of that case.
func Variant(name string, cases ...Case) Codec[VariantValue] {
	return variantCodec{name: name, cases: cases}
}

func (c variantCodec) Name() string { return c.name }

func (c variantCodec) MinSize(width buffer.Width) int { return int(width) }

func (c variantCodec) FixedSize(width buffer.Width) (int, bool) {
	size := -1
	for _, cs := range c.cases {
		n := 0
		if cs.Codec != nil {
			var ok bool
			if n, ok = FixedSize(cs.Codec, width); !ok {
				return 0, false
			}
		}
		if size >= 0 && n != size {
			return 0, false
		}
		size = n
	}
	if size < 0 {
		size = 0
	}
	return int(width) + size, true
}

func (c variantCodec) Size(v VariantValue, width buffer.Width) int {
	size := int(width)
	if v.Case >= 0 && v.Case < len(c.cases) && c.cases[v.Case].Codec != nil {
		size += c.cases[v.Case].Codec.Size(v.Value, width)
	}
	return size
}

func (c variantCodec) Encode(w *buffer.Writer, v VariantValue) error {
	if v.Case < 0 || v.Case >= len(c.cases) {
		return errors.New(errors.PhaseEncode, errors.KindInvalidDiscriminant).
			Type(c.name).
			Value(v.Case).
			Detail("case %d out of range (%d cases)", v.Case, len(c.cases)).
			Build()
	}
	if err := w.PutLen(uint64(v.Case)); err != nil {
		return errors.AtType(err, c.name)
	}
	cs := c.cases[v.Case]
	if cs.Codec == nil {
		return nil
	}
	if err := cs.Codec.Encode(w, v.Value); err != nil {
		return errors.AtPath(err, c.caseName(v.Case))
	}
	return nil
}

func (c variantCodec) Decode(r *buffer.Reader) (VariantValue, error) {
	d, err := r.Len()
	if err != nil {
		return VariantValue{}, errors.AtType(err, c.name)
	}
	if d >= uint64(len(c.cases)) {
		return VariantValue{}, errors.InvalidDiscriminant(errors.PhaseDecode, c.name, d, lastCase(uint64(len(c.cases))))
	}
	i := int(d)
	cs := c.cases[i]
	if cs.Codec == nil {
		return VariantValue{Case: i}, nil
	}
	v, err := cs.Codec.Decode(r)
	if err != nil {
		return VariantValue{}, errors.AtPath(err, c.caseName(i))
	}
	return VariantValue{Case: i, Value: v}, nil
}

func (c variantCodec) caseName(i int) string {
	if n := c.cases[i].Name; n != "" {
		return c.name + "::" + n
	}
	return c.name + "::" + strconv.Itoa(i)
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type enumCodec[E integer] struct {
	name  string
	count uint64
}

// Enum is a variant whose cases carry no payload, decoded straight into an
// integer type. Valid values are 0 through count-1.
func Enum[E integer](name string, count int) Codec[E] {
	return enumCodec[E]{name: name, count: uint64(count)}
}

func (c enumCodec[E]) Name() string { return c.name }

func (c enumCodec[E]) Size(_ E, width buffer.Width) int { return int(width) }

func (c enumCodec[E]) FixedSize(width buffer.Width) (int, bool) { return int(width), true }

func (c enumCodec[E]) Encode(w *buffer.Writer, v E) error {
	if v < 0 || uint64(v) >= c.count {
		return errors.New(errors.PhaseEncode, errors.KindInvalidDiscriminant).
			Type(c.name).
			Value(v).
			Detail("case %d out of range (%d cases)", v, c.count).
			Build()
	}
	return errors.AtType(w.PutLen(uint64(v)), c.name)
}

func (c enumCodec[E]) Decode(r *buffer.Reader) (E, error) {
	d, err := r.Len()
	if err != nil {
		return 0, errors.AtType(err, c.name)
	}
	if d >= c.count {
		return 0, errors.InvalidDiscriminant(errors.PhaseDecode, c.name, d, lastCase(c.count))
	}
	return E(d), nil
}

func lastCase(count uint64) uint64 {
	if count == 0 {
		return 0
	}
	return count - 1
}
