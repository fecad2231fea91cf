// Package boundary moves wire payloads across a WebAssembly boundary.
//
// Guests and the host exchange payloads through linear memory. A payload is
// described by a 12-byte Record of little-endian u32 values:
//
//	offset  field
//	──────────────
//	0       ptr
//	4       len
//	8       cap   (0 = borrowed, never freed by the receiver)
//
// # Lift and Lower
//
// Lift wraps guest bytes in a borrowed wire without copying. Lower copies a
// host wire into memory obtained from an Allocator and returns an owned
// record. Free releases owned records and ignores borrowed ones:
//
//	rec, err := boundary.Lower(ctx, mem, alloc, w)
//	...
//	err = boundary.Free(ctx, alloc, rec)
//
// # Host Functions
//
// Func turns a Go handler into a host function of type
// (in_ptr, in_len, out_rec_ptr i32) -> i32:
//
//	host := boundary.NewHost("wire").
//		Export(boundary.Func("greet", inCodec, outCodec, handler))
//	_, err := host.Instantiate(ctx, runtime)
//
// The result is a Status. Decode failures are reported as non-zero statuses
// and the handler is not called.
//
// Guests are wasm32, so payloads default to buffer.Width32.
package boundary
