// Package wire moves arbitrarily nested values across a foreign-function
// boundary as one flat byte sequence.
//
// Passing a Vec<String> or a map of records through a C ABI normally means
// hand-written marshaling on both sides. A Wire[T] instead carries T encoded
// with a compact little-endian format whose layout both sides derive from the
// same type, so only a pointer, a length and a capacity cross the boundary.
//
// # Architecture Overview
//
//	wire/              Wire[T], ownership and FFI records
//	├── buffer/        Owned or borrowed byte storage, Reader and Writer cursors
//	├── codec/         Typed encoders and decoders for every wire type
//	├── errors/        Structured error types
//	├── schema/        Runtime type descriptors, YAML registries, WIT import
//	├── boundary/      Lifting and lowering wires through wazero guest memory
//	└── cmd/wiredump/  Inspect and produce payloads from the terminal
//
// # Quick Start
//
//	c := codec.Slice(codec.String())
//
//	w, err := wire.Of(c, []string{"hello", "world"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rec := w.Record() // {Data, Len, Cap} for the other side
//
//	// on the receiving side, over memory it was handed
//	in := wire.NewWithBuffer(c, rec.Data)
//	names, err := in.Unwire()
//
// # Ownership
//
// A wire either owns its buffer (Of, WithSize) or borrows caller memory
// (NewWithBuffer, OfWithBuffer). Record reports Cap == 0 for borrowed
// storage so the receiver knows not to free it. Unwire consumes the wire and
// releases the buffer; decoded values never alias borrowed memory.
//
// # Width
//
// Length prefixes, discriminants and usize values use buffer.Native by
// default. Pass WithWidth(buffer.Width32) when talking to a wasm32 guest or
// any peer whose pointer width differs from the host's.
//
// # Error Handling
//
// Decoding never substitutes defaults. Truncated input, bad discriminants and
// invalid UTF-8 each surface as an *errors.Error that matches the sentinels
// in the errors package:
//
//	if errors.Is(err, wireerrors.ErrUnexpectedEOF) {
//	    // payload was cut short
//	}
package wire
