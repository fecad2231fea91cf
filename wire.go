package wire

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/codec"
	"github.com/wippyai/wasm-wire/errors"
)

// Wire is a T encoded into a flat buffer that can cross a foreign-function
// boundary. The buffer is either owned by the wire or borrowed from the caller.
type Wire[T any] struct {
	codec    codec.Codec[T]
	buf      *buffer.Buffer
	consumed bool
}

// Record is the FFI view of a wire: the payload bytes, their length and the
// storage capacity. Cap is 0 when the storage is borrowed, which tells the
// receiving side not to free it.
type Record struct {
	Data []byte
	Len  int
	Cap  int
}

// Borrowed reports whether the record points at memory the receiver must not free.
func (r Record) Borrowed() bool {
	return r.Cap == 0
}

// Option configures how a wire is created.
type Option func(*options)

type options struct {
	width buffer.Width
}

// WithWidth selects the length-prefix and discriminant width. The default is
// buffer.Native. Both ends of the boundary must use the same width.
func WithWidth(w buffer.Width) Option {
	return func(o *options) {
		o.width = w
	}
}

func applyOptions(opts []Option) options {
	o := options{width: buffer.Native}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.width.Valid() {
		panic(fmt.Sprintf("wire: unsupported width %d", int(o.width)))
	}
	return o
}

// WithSize creates a wire with an owned buffer of n zero bytes, to be filled
// by Serialize or by the other side of the boundary.
func WithSize[T any](c codec.Codec[T], n int, opts ...Option) *Wire[T] {
	o := applyOptions(opts)
	return &Wire[T]{codec: c, buf: buffer.WithSize(n).SetWidth(o.width)}
}

// NewWithBuffer creates a wire over caller memory without copying it.
// The memory must stay valid until the wire is unwired or released.
func NewWithBuffer[T any](c codec.Codec[T], data []byte, opts ...Option) *Wire[T] {
	o := applyOptions(opts)
	return &Wire[T]{codec: c, buf: buffer.FromSlice(data).SetWidth(o.width)}
}

// Of encodes v into a new owned buffer sized exactly for it.
func Of[T any](c codec.Codec[T], v T, opts ...Option) (*Wire[T], error) {
	o := applyOptions(opts)
	size := c.Size(v, o.width)
	buf := buffer.WithSize(size).SetWidth(o.width)
	if err := encodeExact(c, buf, v, size); err != nil {
		return nil, err
	}
	logWire("wire", c, size, true)
	return &Wire[T]{codec: c, buf: buf}, nil
}

// OfWithBuffer encodes v into caller memory. It fails with an invalid input
// error when data is shorter than the encoded size. The resulting wire
// borrows data[:size].
func OfWithBuffer[T any](c codec.Codec[T], v T, data []byte, opts ...Option) (*Wire[T], error) {
	o := applyOptions(opts)
	size := c.Size(v, o.width)
	if size > len(data) {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Type(codec.NameOf(c)).
			Detail("buffer of %d bytes cannot hold %d byte payload", len(data), size).
			Build()
	}
	buf := buffer.FromSlice(data[:size]).SetWidth(o.width)
	if err := encodeExact(c, buf, v, size); err != nil {
		return nil, err
	}
	logWire("wire", c, size, false)
	return &Wire[T]{codec: c, buf: buf}, nil
}

// encodeExact encodes v from offset 0 and checks the written byte count
// against size. A mismatch means the codec's Size disagrees with its Encode,
// which is a bug in the codec, so it panics.
func encodeExact[T any](c codec.Codec[T], buf *buffer.Buffer, v T, size int) error {
	w := buf.Writer()
	if err := c.Encode(w, v); err != nil {
		return err
	}
	if w.Position() != size {
		panic(fmt.Sprintf("wire: %s wrote %d bytes, Size reported %d", codec.NameOf(c), w.Position(), size))
	}
	return nil
}

// Serialize encodes v into the wire's existing buffer starting at offset 0.
// Owned buffers grow as needed; borrowed buffers that are too small fail.
func (w *Wire[T]) Serialize(v T) error {
	if w.consumed || w.buf.Released() {
		return errors.Released(errors.PhaseEncode)
	}
	size := w.codec.Size(v, w.buf.Width())
	if !w.buf.IsOwned() && size > w.buf.Len() {
		return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Type(codec.NameOf(w.codec)).
			Detail("buffer of %d bytes cannot hold %d byte payload", w.buf.Len(), size).
			Build()
	}
	if err := encodeExact(w.codec, w.buf, v, size); err != nil {
		return err
	}
	logWire("serialize", w.codec, size, w.buf.IsOwned())
	return nil
}

// Unwire decodes one T from the start of the buffer. Trailing bytes are
// ignored. The wire is consumed: its buffer is released and any later call
// fails with a released error.
func (w *Wire[T]) Unwire() (T, error) {
	v, _, err := w.UnwireN()
	return v, err
}

// UnwireN is Unwire that also returns the number of bytes the decoder read.
func (w *Wire[T]) UnwireN() (T, int, error) {
	var zero T
	if w.consumed || w.buf.Released() {
		return zero, 0, errors.Released(errors.PhaseDecode)
	}
	r := w.buf.Reader()
	v, err := w.codec.Decode(r)
	w.consumed = true
	owned := w.buf.IsOwned()
	w.buf.Release()
	if err != nil {
		return zero, r.Position(), err
	}
	logWire("unwire", w.codec, r.Position(), owned)
	return v, r.Position(), nil
}

// IsOwned reports whether the wire owns its storage.
func (w *Wire[T]) IsOwned() bool {
	return w.buf.IsOwned()
}

// Len returns the number of bytes in the buffer.
func (w *Wire[T]) Len() int {
	return w.buf.Len()
}

// Bytes returns the buffer contents. The slice aliases borrowed memory.
func (w *Wire[T]) Bytes() []byte {
	return w.buf.Bytes()
}

// Width returns the width the payload is encoded with.
func (w *Wire[T]) Width() buffer.Width {
	return w.buf.Width()
}

// Buffer exposes the underlying buffer.
func (w *Wire[T]) Buffer() *buffer.Buffer {
	return w.buf
}

// Name returns the wire type name of T, e.g. "Vec<String>".
func (w *Wire[T]) Name() string {
	return codec.NameOf(w.codec)
}

// Release detaches the wire from its storage without decoding.
func (w *Wire[T]) Release() {
	w.consumed = true
	w.buf.Release()
}

// Record returns the FFI triple for the wire.
func (w *Wire[T]) Record() Record {
	data := w.buf.Bytes()
	return Record{Data: data, Len: len(data), Cap: w.buf.Cap()}
}

func logWire[T any](op string, c codec.Codec[T], size int, owned bool) {
	if ce := Logger().Check(zapcore.DebugLevel, op); ce != nil {
		ce.Write(
			zap.String("type", codec.NameOf(c)),
			zap.Int("size", size),
			zap.Bool("owned", owned),
		)
	}
}
