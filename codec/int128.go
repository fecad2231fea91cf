package codec

import (
	"encoding/binary"
	"math/big"

	"github.com/wippyai/wasm-wire/errors"
)

// Uint128 is an unsigned 128-bit integer split into two 64-bit halves.
type Uint128 struct {
	Lo, Hi uint64
}

// Int128 is a signed 128-bit integer in two's complement. Hi carries the sign.
type Int128 struct {
	Lo uint64
	Hi int64
}

var (
	two128    = new(big.Int).Lsh(big.NewInt(1), 128)
	maxU128   = new(big.Int).Sub(two128, big.NewInt(1))
	minI128   = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxI128   = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	mask64Big = new(big.Int).SetUint64(^uint64(0))
)

// Big returns u as a big.Int.
func (u Uint128) Big() *big.Int {
	v := new(big.Int).SetUint64(u.Hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string {
	return u.Big().String()
}

// Uint128FromBig converts v, failing when it is negative or wider than 128 bits.
func Uint128FromBig(v *big.Int) (Uint128, error) {
	if v.Sign() < 0 || v.Cmp(maxU128) > 0 {
		return Uint128{}, errors.Overflow(errors.PhaseEncode, v, "u128")
	}
	lo := new(big.Int).And(v, mask64Big).Uint64()
	hi := new(big.Int).Rsh(v, 64).Uint64()
	return Uint128{Lo: lo, Hi: hi}, nil
}

// Big returns i as a big.Int.
func (i Int128) Big() *big.Int {
	v := Uint128{Lo: i.Lo, Hi: uint64(i.Hi)}.Big()
	if i.Hi < 0 {
		v.Sub(v, two128)
	}
	return v
}

func (i Int128) String() string {
	return i.Big().String()
}

// Int128FromBig converts v, failing when it does not fit in 128 bits.
func Int128FromBig(v *big.Int) (Int128, error) {
	if v.Cmp(minI128) < 0 || v.Cmp(maxI128) > 0 {
		return Int128{}, errors.Overflow(errors.PhaseEncode, v, "i128")
	}
	u := new(big.Int).Set(v)
	if u.Sign() < 0 {
		u.Add(u, two128)
	}
	lo := new(big.Int).And(u, mask64Big).Uint64()
	hi := new(big.Int).Rsh(u, 64).Uint64()
	return Int128{Lo: lo, Hi: int64(hi)}, nil
}

// Int128From sign-extends a 64-bit value.
func Int128From(v int64) Int128 {
	return Int128{Lo: uint64(v), Hi: v >> 63}
}

var (
	u128Codec = fixed[Uint128]{
		name: "u128", size: 16,
		put: func(b []byte, v Uint128) {
			binary.LittleEndian.PutUint64(b, v.Lo)
			binary.LittleEndian.PutUint64(b[8:], v.Hi)
		},
		get: func(b []byte) Uint128 {
			return Uint128{Lo: binary.LittleEndian.Uint64(b), Hi: binary.LittleEndian.Uint64(b[8:])}
		},
	}
	i128Codec = fixed[Int128]{
		name: "i128", size: 16,
		put: func(b []byte, v Int128) {
			binary.LittleEndian.PutUint64(b, v.Lo)
			binary.LittleEndian.PutUint64(b[8:], uint64(v.Hi))
		},
		get: func(b []byte) Int128 {
			return Int128{Lo: binary.LittleEndian.Uint64(b), Hi: int64(binary.LittleEndian.Uint64(b[8:]))}
		},
	}
)

func U128() Codec[Uint128] { return u128Codec }
func I128() Codec[Int128] { return i128Codec }
