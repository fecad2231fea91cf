package codec

import (
	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/errors"
)

// Marshaler is implemented by types that encode themselves, typically structs
// that write their fields in declaration order with the codecs of this package.
type Marshaler interface {
	WireSize(width buffer.Width) int
	MarshalWire(w *buffer.Writer) error
}

// Unmarshaler is the decoding counterpart of Marshaler.
type Unmarshaler interface {
	UnmarshalWire(r *buffer.Reader) error
}

type objectCodec[T any, PT interface {
	*T
	Marshaler
	Unmarshaler
}] struct {
	name string
}

// Object adapts a type whose pointer implements Marshaler and Unmarshaler.
func Object[T any, PT interface {
	*T
	Marshaler
	Unmarshaler
}](name string) Codec[T] {
	return objectCodec[T, PT]{name: name}
}

func (c objectCodec[T, PT]) Name() string { return c.name }

func (c objectCodec[T, PT]) Size(v T, width buffer.Width) int {
	return PT(&v).WireSize(width)
}

func (c objectCodec[T, PT]) Encode(w *buffer.Writer, v T) error {
	if err := PT(&v).MarshalWire(w); err != nil {
		return errors.AtPath(err, c.name)
	}
	return nil
}

func (c objectCodec[T, PT]) Decode(r *buffer.Reader) (T, error) {
	var v T
	if err := PT(&v).UnmarshalWire(r); err != nil {
		return v, errors.AtPath(err, c.name)
	}
	return v, nil
}
