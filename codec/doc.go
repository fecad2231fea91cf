// Package codec provides the typed encoders and decoders of the wire format.
//
// A Codec[T] knows three things about T: the exact encoded size of a value,
// how to write it to a buffer.Writer and how to read it back from a
// buffer.Reader. Compound codecs are built by composition:
//
//	users := codec.Slice(codec.Tuple2(codec.U32(), codec.Option(codec.String())))
//	data, err := codec.Marshal(users, v, buffer.Native)
//
// # Wire Layout
//
// All multi-byte values are little-endian. "W" below is the buffer width
// (4 or 8 bytes):
//
//	Type               Encoding
//	──────────────────────────────────────────────────────────
//	u8..u128, i8..i128 fixed width, two's complement
//	f32, f64           IEEE 754 bits
//	bool               1 byte, 0 or 1
//	usize, isize       W bytes
//	()                 nothing
//	Option<T>          1 byte tag (0 None, 1 Some) [+ T]
//	Vec<T>, String     W byte count + elements / UTF-8 bytes
//	HashMap<K, V>      W byte count + key, value pairs
//	(A, B, ...)        elements back to back
//	variant            W byte case index + payload
//
// # Go Representation
//
//	Option<T>          *T (nil is None)
//	Vec<T>             []T
//	HashMap<K, V>      map[K]V
//	tuples             T2, T3, T4
//	u128, i128         Uint128, Int128
//	variants           VariantValue, or an integer type via Enum
//	structs            types implementing Marshaler and Unmarshaler, via Object
//
// Decoding errors carry a path through the value, for example
// "Vec<Option<u8>>[2]", so a failure deep inside a payload can be located.
package codec
