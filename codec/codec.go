package codec

import (
	"fmt"

	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/errors"
)

// Codec encodes and decodes values of type T in the wire format.
//
// Size must return exactly the number of bytes Encode writes for v at the
// given width. Producers rely on it to allocate buffers up front.
type Codec[T any] interface {
	Size(v T, width buffer.Width) int
	Encode(w *buffer.Writer, v T) error
	Decode(r *buffer.Reader) (T, error)
}

// Named is implemented by codecs that describe their wire type,
// e.g. "Vec<Option<String>>".
type Named interface {
	Name() string
}

// fixedSizer is implemented by codecs whose encoding size does not depend on the value.
type fixedSizer interface {
	FixedSize(width buffer.Width) (int, bool)
}

// NameOf returns the wire type name of c.
func NameOf[T any](c Codec[T]) string {
	if n, ok := c.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", c)
}

// FixedSize reports the constant encoded size of c, if it has one.
func FixedSize[T any](c Codec[T], width buffer.Width) (int, bool) {
	if f, ok := any(c).(fixedSizer); ok {
		return f.FixedSize(width)
	}
	return 0, false
}

// Marshal encodes v into a new byte slice of exactly Size(v, width) bytes.
func Marshal[T any](c Codec[T], v T, width buffer.Width) ([]byte, error) {
	buf := buffer.WithSize(c.Size(v, width)).SetWidth(width)
	w := buf.Writer()
	if err := c.Encode(w, v); err != nil {
		return nil, err
	}
	return buf.Bytes()[:w.Position()], nil
}

// Unmarshal decodes one value from data and returns it together with the
// number of bytes consumed. Trailing bytes are not an error.
func Unmarshal[T any](c Codec[T], data []byte, width buffer.Width) (T, int, error) {
	r := buffer.FromSlice(data).SetWidth(width).Reader()
	v, err := c.Decode(r)
	return v, r.Position(), err
}

func take(r *buffer.Reader, n int, name string) ([]byte, error) {
	b, err := r.Next(n)
	if err != nil {
		return nil, errors.AtType(err, name)
	}
	return b, nil
}

func reserve(w *buffer.Writer, n int, name string) ([]byte, error) {
	b, err := w.Next(n)
	if err != nil {
		return nil, errors.AtType(err, name)
	}
	return b, nil
}

// readCount reads a length prefix and checks it against the bytes left in r.
// minElem is the smallest encoded size of one element; counts that cannot
// possibly fit fail before any allocation happens.
func readCount(r *buffer.Reader, name string, minElem int) (int, error) {
	n, err := r.Len()
	if err != nil {
		return 0, errors.AtType(err, name)
	}
	if n > uint64(maxInt) {
		return 0, errors.Overflow(errors.PhaseDecode, n, name+" length")
	}
	if minElem > 0 {
		if rem := r.Remaining(); n > uint64(rem/minElem) {
			return 0, errors.UnexpectedEOF(errors.PhaseDecode, name, int(min(n, uint64(maxInt/minElem)))*minElem, rem)
		}
	}
	return int(n), nil
}

// capHint bounds a preallocation by what the remaining input could hold.
func capHint(n int, r *buffer.Reader) int {
	return min(n, r.Remaining())
}

const maxInt = int(^uint(0) >> 1)

// minSizer is implemented by variable-size codecs that still have a lower
// bound on their encoded size, e.g. the length prefix of a string.
type minSizer interface {
	MinSize(width buffer.Width) int
}

// minSize returns the smallest possible encoding of any value of c.
func minSize[T any](c Codec[T], width buffer.Width) int {
	if n, ok := FixedSize(c, width); ok {
		return n
	}
	if m, ok := any(c).(minSizer); ok {
		return m.MinSize(width)
	}
	return 0
}
