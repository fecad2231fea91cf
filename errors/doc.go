// Package errors provides structured error types for wire encoding and decoding.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: the path inside a nested value, the wire
// type name, and the cause chain.
//
// The four kinds every decoder can surface are KindUnexpectedEOF,
// KindInvalidDiscriminant, KindInvalidUTF8 and KindIO. Match them with the
// phase-less sentinels:
//
//	if errors.Is(err, wireerrors.ErrUnexpectedEOF) {
//		// payload was truncated
//	}
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Path("user", "active").
//		Type("bool").
//		Detail("invalid boolean byte 0x%02x", b).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnexpectedEOF(errors.PhaseDecode, "u32", 4, 1)
//	err := errors.InvalidDiscriminant(errors.PhaseDecode, "Option<u8>", 7, 1)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
