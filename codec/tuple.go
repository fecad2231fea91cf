package codec

import (
	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/errors"
)

// T2 is a pair. Tuples encode their elements back to back with no prefix.
type T2[A, B any] struct {
	V0 A
	V1 B
}

// T3 is a triple.
type T3[A, B, C any] struct {
	V0 A
	V1 B
	V2 C
}

// T4 is a quadruple.
type T4[A, B, C, D any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
}

// tupleName builds "(A, B, ...)".
func tupleName(names ...string) string {
	s := "("
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += n
	}
	return s + ")"
}

// sumFixed adds the fixed sizes of the given codecs, if all have one.
func sumFixed(width buffer.Width, sizes ...func(buffer.Width) (int, bool)) (int, bool) {
	total := 0
	for _, f := range sizes {
		n, ok := f(width)
		if !ok {
			return 0, false
		}
		total += n
	}
	return total, true
}

func fixedOf[T any](c Codec[T]) func(buffer.Width) (int, bool) {
	return func(w buffer.Width) (int, bool) { return FixedSize(c, w) }
}

func elemErr(err error, name string, i string) error {
	return errors.AtPath(err, name+"."+i)
}

type tuple2[A, B any] struct {
	a    Codec[A]
	b    Codec[B]
	name string
}

func Tuple2[A, B any](a Codec[A], b Codec[B]) Codec[T2[A, B]] {
	return tuple2[A, B]{a: a, b: b, name: tupleName(NameOf(a), NameOf(b))}
}

func (c tuple2[A, B]) Name() string { return c.name }

func (c tuple2[A, B]) FixedSize(width buffer.Width) (int, bool) {
	return sumFixed(width, fixedOf(c.a), fixedOf(c.b))
}

func (c tuple2[A, B]) MinSize(width buffer.Width) int {
	return minSize(c.a, width) + minSize(c.b, width)
}

func (c tuple2[A, B]) Size(v T2[A, B], width buffer.Width) int {
	return c.a.Size(v.V0, width) + c.b.Size(v.V1, width)
}

func (c tuple2[A, B]) Encode(w *buffer.Writer, v T2[A, B]) error {
	if err := c.a.Encode(w, v.V0); err != nil {
		return elemErr(err, c.name, "0")
	}
	if err := c.b.Encode(w, v.V1); err != nil {
		return elemErr(err, c.name, "1")
	}
	return nil
}

func (c tuple2[A, B]) Decode(r *buffer.Reader) (T2[A, B], error) {
	var v T2[A, B]
	var err error
	if v.V0, err = c.a.Decode(r); err != nil {
		return v, elemErr(err, c.name, "0")
	}
	if v.V1, err = c.b.Decode(r); err != nil {
		return v, elemErr(err, c.name, "1")
	}
	return v, nil
}

type tuple3[A, B, C any] struct {
	a    Codec[A]
	b    Codec[B]
	c    Codec[C]
	name string
}

func Tuple3[A, B, C any](a Codec[A], b Codec[B], c Codec[C]) Codec[T3[A, B, C]] {
	return tuple3[A, B, C]{a: a, b: b, c: c, name: tupleName(NameOf(a), NameOf(b), NameOf(c))}
}

func (t tuple3[A, B, C]) Name() string { return t.name }

func (t tuple3[A, B, C]) FixedSize(width buffer.Width) (int, bool) {
	return sumFixed(width, fixedOf(t.a), fixedOf(t.b), fixedOf(t.c))
}

func (t tuple3[A, B, C]) MinSize(width buffer.Width) int {
	return minSize(t.a, width) + minSize(t.b, width) + minSize(t.c, width)
}

func (t tuple3[A, B, C]) Size(v T3[A, B, C], width buffer.Width) int {
	return t.a.Size(v.V0, width) + t.b.Size(v.V1, width) + t.c.Size(v.V2, width)
}

func (t tuple3[A, B, C]) Encode(w *buffer.Writer, v T3[A, B, C]) error {
	if err := t.a.Encode(w, v.V0); err != nil {
		return elemErr(err, t.name, "0")
	}
	if err := t.b.Encode(w, v.V1); err != nil {
		return elemErr(err, t.name, "1")
	}
	if err := t.c.Encode(w, v.V2); err != nil {
		return elemErr(err, t.name, "2")
	}
	return nil
}

func (t tuple3[A, B, C]) Decode(r *buffer.Reader) (T3[A, B, C], error) {
	var v T3[A, B, C]
	var err error
	if v.V0, err = t.a.Decode(r); err != nil {
		return v, elemErr(err, t.name, "0")
	}
	if v.V1, err = t.b.Decode(r); err != nil {
		return v, elemErr(err, t.name, "1")
	}
	if v.V2, err = t.c.Decode(r); err != nil {
		return v, elemErr(err, t.name, "2")
	}
	return v, nil
}

type tuple4[A, B, C, D any] struct {
	a    Codec[A]
	b    Codec[B]
	c    Codec[C]
	d    Codec[D]
	name string
}

func Tuple4[A, B, C, D any](a Codec[A], b Codec[B], c Codec[C], d Codec[D]) Codec[T4[A, B, C, D]] {
	return tuple4[A, B, C, D]{a: a, b: b, c: c, d: d, name: tupleName(NameOf(a), NameOf(b), NameOf(c), NameOf(d))}
}

func (t tuple4[A, B, C, D]) Name() string { return t.name }

func (t tuple4[A, B, C, D]) FixedSize(width buffer.Width) (int, bool) {
	return sumFixed(width, fixedOf(t.a), fixedOf(t.b), fixedOf(t.c), fixedOf(t.d))
}

func (t tuple4[A, B, C, D]) MinSize(width buffer.Width) int {
	return minSize(t.a, width) + minSize(t.b, width) + minSize(t.c, width) + minSize(t.d, width)
}

func (t tuple4[A, B, C, D]) Size(v T4[A, B, C, D], width buffer.Width) int {
	return t.a.Size(v.V0, width) + t.b.Size(v.V1, width) + t.c.Size(v.V2, width) + t.d.Size(v.V3, width)
}

func (t tuple4[A, B, C, D]) Encode(w *buffer.Writer, v T4[A, B, C, D]) error {
	if err := t.a.Encode(w, v.V0); err != nil {
		return elemErr(err, t.name, "0")
	}
	if err := t.b.Encode(w, v.V1); err != nil {
		return elemErr(err, t.name, "1")
	}
	if err := t.c.Encode(w, v.V2); err != nil {
		return elemErr(err, t.name, "2")
	}
	if err := t.d.Encode(w, v.V3); err != nil {
		return elemErr(err, t.name, "3")
	}
	return nil
}

func (t tuple4[A, B, C, D]) Decode(r *buffer.Reader) (T4[A, B, C, D], error) {
	var v T4[A, B, C, D]
	var err error
	if v.V0, err = t.a.Decode(r); err != nil {
		return v, elemErr(err, t.name, "0")
	}
	if v.V1, err = t.b.Decode(r); err != nil {
		return v, elemErr(err, t.name, "1")
	}
	if v.V2, err = t.c.Decode(r); err != nil {
		return v, elemErr(err, t.name, "2")
	}
	if v.V3, err = t.d.Decode(r); err != nil {
		return v, elemErr(err, t.name, "3")
	}
	return v, nil
}
