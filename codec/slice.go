package codec

import (
	"strconv"
	"unsafe"

	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/errors"
)

// maxZeroSized bounds the allocation for zero-sized wire elements whose Go
// representation still takes memory.
const maxZeroSized = 1 << 20

type sliceCodec[T any] struct {
	elem Codec[T]
	name string
}

// Slice encodes a width-sized element count followed by each element.
func Slice[T any](elem Codec[T]) Codec[[]T] {
	return sliceCodec[T]{elem: elem, name: "Vec<" + NameOf(elem) + ">"}
}

func (c sliceCodec[T]) Name() string { return c.name }

func (c sliceCodec[T]) MinSize(width buffer.Width) int { return int(width) }

func (c sliceCodec[T]) Size(v []T, width buffer.Width) int {
	if n, ok := FixedSize(c.elem, width); ok {
		return int(width) + n*len(v)
	}
	size := int(width)
	for i := range v {
		size += c.elem.Size(v[i], width)
	}
	return size
}

func (c sliceCodec[T]) Encode(w *buffer.Writer, v []T) error {
	if err := w.PutLen(uint64(len(v))); err != nil {
		return errors.AtType(err, c.name)
	}
	for i := range v {
		if err := c.elem.Encode(w, v[i]); err != nil {
			return errors.AtPath(err, c.index(i))
		}
	}
	return nil
}

func (c sliceCodec[T]) Decode(r *buffer.Reader) ([]T, error) {
	elemMin := minSize(c.elem, r.Width())
	n, err := readCount(r, c.name, elemMin)
	if err != nil {
		return nil, err
	}
	if elemMin == 0 {
		if fixed, ok := FixedSize(c.elem, r.Width()); ok && fixed == 0 {
			// zero-sized elements occupy no input, decode one and replicate it
			var zero T
			if unsafe.Sizeof(zero) != 0 && n > maxZeroSized {
				return nil, errors.InvalidData(errors.PhaseDecode, c.name, "element count "+strconv.Itoa(n)+" exceeds limit for zero-sized elements")
			}
			out := make([]T, n)
			if n > 0 {
				v, err := c.elem.Decode(r)
				if err != nil {
					return nil, errors.AtPath(err, c.index(0))
				}
				for i := range out {
					out[i] = v
				}
			}
			return out, nil
		}
		// every element beyond the remaining input must decode from zero bytes
		if n-r.Remaining() > maxZeroSized {
			return nil, errors.InvalidData(errors.PhaseDecode, c.name, "element count "+strconv.Itoa(n)+" exceeds limit for zero-sized elements")
		}
	}
	out := make([]T, 0, capHint(n, r))
	for i := 0; i < n; i++ {
		v, err := c.elem.Decode(r)
		if err != nil {
			return nil, errors.AtPath(err, c.index(i))
		}
		out = append(out, v)
	}
	return out, nil
}

func (c sliceCodec[T]) index(i int) string {
	return c.name + "[" + strconv.Itoa(i) + "]"
}

type bytesCodec struct{}

// Bytes is the Vec<u8> codec specialized to copy the payload in one step.
func Bytes() Codec[[]byte] {
	return bytesCodec{}
}

func (bytesCodec) Name() string { return "Vec<u8>" }

func (bytesCodec) MinSize(width buffer.Width) int { return int(width) }

func (bytesCodec) Size(v []byte, width buffer.Width) int { return int(width) + len(v) }

func (bytesCodec) Encode(w *buffer.Writer, v []byte) error {
	if err := w.PutLen(uint64(len(v))); err != nil {
		return errors.AtType(err, "Vec<u8>")
	}
	b, err := reserve(w, len(v), "Vec<u8>")
	if err != nil {
		return err
	}
	copy(b, v)
	return nil
}

func (bytesCodec) Decode(r *buffer.Reader) ([]byte, error) {
	n, err := readCount(r, "Vec<u8>", 1)
	if err != nil {
		return nil, err
	}
	b, err := take(r, n, "Vec<u8>")
	if err != nil {
		return nil, err
	}
	// the view may alias borrowed memory
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}
