package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/errors"
)

// fixed is a primitive whose encoding is always size bytes, little-endian.
type fixed[T any] struct {
	put  func([]byte, T)
	get  func([]byte) T
	name string
	size int
}

func (c fixed[T]) Name() string { return c.name }

func (c fixed[T]) Size(T, buffer.Width) int { return c.size }

func (c fixed[T]) FixedSize(buffer.Width) (int, bool) { return c.size, true }

func (c fixed[T]) Encode(w *buffer.Writer, v T) error {
	b, err := reserve(w, c.size, c.name)
	if err != nil {
		return err
	}
	c.put(b, v)
	return nil
}

func (c fixed[T]) Decode(r *buffer.Reader) (T, error) {
	b, err := take(r, c.size, c.name)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.get(b), nil
}

var (
	u8Codec = fixed[uint8]{
		name: "u8", size: 1,
		put: func(b []byte, v uint8) { b[0] = v },
		get: func(b []byte) uint8 { return b[0] },
	}
	u16Codec = fixed[uint16]{
		name: "u16", size: 2,
		put: binary.LittleEndian.PutUint16,
		get: binary.LittleEndian.Uint16,
	}
	u32Codec = fixed[uint32]{
		name: "u32", size: 4,
		put: binary.LittleEndian.PutUint32,
		get: binary.LittleEndian.Uint32,
	}
	u64Codec = fixed[uint64]{
		name: "u64", size: 8,
		put: binary.LittleEndian.PutUint64,
		get: binary.LittleEndian.Uint64,
	}
	i8Codec = fixed[int8]{
		name: "i8", size: 1,
		put: func(b []byte, v int8) { b[0] = uint8(v) },
		get: func(b []byte) int8 { return int8(b[0]) },
	}
	i16Codec = fixed[int16]{
		name: "i16", size: 2,
		put: func(b []byte, v int16) { binary.LittleEndian.PutUint16(b, uint16(v)) },
		get: func(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) },
	}
	i32Codec = fixed[int32]{
		name: "i32", size: 4,
		put: func(b []byte, v int32) { binary.LittleEndian.PutUint32(b, uint32(v)) },
		get: func(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) },
	}
	i64Codec = fixed[int64]{
		name: "i64", size: 8,
		put: func(b []byte, v int64) { binary.LittleEndian.PutUint64(b, uint64(v)) },
		get: func(b []byte) int64 { return int64(binary.LittleEndian.Uint64(b)) },
	}
	f32Codec = fixed[float32]{
		name: "f32", size: 4,
		put: func(b []byte, v float32) { binary.LittleEndian.PutUint32(b, math.Float32bits(v)) },
		get: func(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) },
	}
	f64Codec = fixed[float64]{
		name: "f64", size: 8,
		put: func(b []byte, v float64) { binary.LittleEndian.PutUint64(b, math.Float64bits(v)) },
		get: func(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) },
	}
)

func U8() Codec[uint8] { return u8Codec }
func U16() Codec[uint16] { return u16Codec }
func U32() Codec[uint32] { return u32Codec }
func U64() Codec[uint64] { return u64Codec }
func I8() Codec[int8] { return i8Codec }
func I16() Codec[int16] { return i16Codec }
func I32() Codec[int32] { return i32Codec }
func I64() Codec[int64] { return i64Codec }
func F32() Codec[float32] { return f32Codec }
func F64() Codec[float64] { return f64Codec }
func Bool() Codec[bool] { return boolCodec{} }
func Unit() Codec[struct{}] { return unitCodec{} }
func Usize() Codec[uint] { return usizeCodec{} }
func Isize() Codec[int] { return isizeCodec{} }

// boolCodec writes 0 or 1 and rejects any other byte on decode.
type boolCodec struct{}

func (boolCodec) Name() string { return "bool" }
func (boolCodec) Size(bool, buffer.Width) int { return 1 }
func (boolCodec) FixedSize(buffer.Width) (int, bool) { return 1, true }

func (boolCodec) Encode(w *buffer.Writer, v bool) error {
	var b uint8
	if v {
		b = 1
	}
	return errors.AtType(w.PutU8(b), "bool")
}

func (boolCodec) Decode(r *buffer.Reader) (bool, error) {
	b, err := take(r, 1, "bool")
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Type("bool").
			Value(b[0]).
			Detail("invalid boolean byte 0x%02x", b[0]).
			Build()
	}
}

type unitCodec struct{}

func (unitCodec) Name() string { return "()" }
func (unitCodec) Size(struct{}, buffer.Width) int { return 0 }
func (unitCodec) FixedSize(buffer.Width) (int, bool) { return 0, true }
func (unitCodec) Encode(*buffer.Writer, struct{}) error { return nil }
func (unitCodec) Decode(*buffer.Reader) (struct{}, error) { return struct{}{}, nil }

// usizeCodec encodes a Go uint with the buffer's width.
type usizeCodec struct{}

func (usizeCodec) Name() string { return "usize" }
func (usizeCodec) Size(_ uint, width buffer.Width) int { return int(width) }
func (usizeCodec) FixedSize(width buffer.Width) (int, bool) { return int(width), true }

func (usizeCodec) Encode(w *buffer.Writer, v uint) error {
	return errors.AtType(w.PutLen(uint64(v)), "usize")
}

func (usizeCodec) Decode(r *buffer.Reader) (uint, error) {
	v, err := r.Len()
	if err != nil {
		return 0, errors.AtType(err, "usize")
	}
	if v > uint64(^uint(0)) {
		return 0, errors.Overflow(errors.PhaseDecode, v, "usize")
	}
	return uint(v), nil
}

// isizeCodec encodes a Go int as two's complement with the buffer's width.
type isizeCodec struct{}

func (isizeCodec) Name() string { return "isize" }
func (isizeCodec) Size(_ int, width buffer.Width) int { return int(width) }
func (isizeCodec) FixedSize(width buffer.Width) (int, bool) { return int(width), true }

func (isizeCodec) Encode(w *buffer.Writer, v int) error {
	if w.Width() == buffer.Width32 {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return errors.Overflow(errors.PhaseEncode, v, "isize ("+w.Width().String()+")")
		}
		return errors.AtType(w.PutU32(uint32(int32(v))), "isize")
	}
	return errors.AtType(w.PutU64(uint64(int64(v))), "isize")
}

func (isizeCodec) Decode(r *buffer.Reader) (int, error) {
	if r.Width() == buffer.Width32 {
		v, err := r.U32()
		if err != nil {
			return 0, errors.AtType(err, "isize")
		}
		return int(int32(v)), nil
	}
	v, err := r.U64()
	if err != nil {
		return 0, errors.AtType(err, "isize")
	}
	s := int64(v)
	if s < math.MinInt || s > math.MaxInt {
		return 0, errors.Overflow(errors.PhaseDecode, s, "isize")
	}
	return int(s), nil
}

// String renders the fixed codec for debugging.
func (c fixed[T]) String() string {
	return fmt.Sprintf("%s(%d bytes)", c.name, c.size)
}
