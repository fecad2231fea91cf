package codec

import (
	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/errors"
)

type anyCodec[T any] struct {
	c Codec[T]
}

// Any erases the static type of c so it can serve as a variant payload or
// inside dynamically built codecs. Encoding a value of the wrong Go type
// fails with an invalid input error.
func Any[T any](c Codec[T]) Codec[any] {
	return anyCodec[T]{c: c}
}

func (a anyCodec[T]) Name() string { return NameOf(a.c) }

func (a anyCodec[T]) FixedSize(width buffer.Width) (int, bool) { return FixedSize(a.c, width) }

func (a anyCodec[T]) MinSize(width buffer.Width) int { return minSize(a.c, width) }

// Size returns 0 for a mismatched value; Encode reports the error.
func (a anyCodec[T]) Size(v any, width buffer.Width) int {
	t, ok := v.(T)
	if !ok {
		return 0
	}
	return a.c.Size(t, width)
}

func (a anyCodec[T]) Encode(w *buffer.Writer, v any) error {
	t, ok := v.(T)
	if !ok {
		return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Type(a.Name()).
			Value(v).
			Detail("cannot encode %T as %s", v, a.Name()).
			Build()
	}
	return a.c.Encode(w, t)
}

func (a anyCodec[T]) Decode(r *buffer.Reader) (any, error) {
	v, err := a.c.Decode(r)
	if err != nil {
		return nil, err
	}
	return v, nil
}
