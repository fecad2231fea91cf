package codec

import (
	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/errors"
)

const (
	optionNone uint8 = 0
	optionSome uint8 = 1
)

type optionCodec[T any] struct {
	elem Codec[T]
	name string
}

// Option encodes a nil pointer as the single byte 0 and a non-nil pointer as
// the byte 1 followed by the pointee.
func Option[T any](elem Codec[T]) Codec[*T] {
	return optionCodec[T]{elem: elem, name: "Option<" + NameOf(elem) + ">"}
}

func (c optionCodec[T]) Name() string { return c.name }

func (c optionCodec[T]) MinSize(buffer.Width) int { return 1 }

func (c optionCodec[T]) Size(v *T, width buffer.Width) int {
	if v == nil {
		return 1
	}
	return 1 + c.elem.Size(*v, width)
}

func (c optionCodec[T]) Encode(w *buffer.Writer, v *T) error {
	if v == nil {
		return errors.AtType(w.PutU8(optionNone), c.name)
	}
	if err := w.PutU8(optionSome); err != nil {
		return errors.AtType(err, c.name)
	}
	return c.elem.Encode(w, *v)
}

func (c optionCodec[T]) Decode(r *buffer.Reader) (*T, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, errors.AtType(err, c.name)
	}
	switch tag {
	case optionNone:
		return nil, nil
	case optionSome:
		v, err := c.elem.Decode(r)
		if err != nil {
			return nil, err
		}
		return &v, nil
	default:
		return nil, errors.InvalidDiscriminant(errors.PhaseDecode, c.name, uint64(tag), uint64(optionSome))
	}
}

// Some returns a pointer to v, for building optional values inline.
func Some[T any](v T) *T {
	return &v
}
