// Package buffer provides the owned-or-borrowed byte store behind a wire payload.
//
// A Buffer is either owned (its storage was allocated by this process and may
// grow) or borrowed (a zero-copy view of memory supplied by the caller, such as
// a pinned managed array or a region of WebAssembly linear memory):
//
//	owned := buffer.WithSize(64)          // owned.IsOwned() == true
//	borrowed := buffer.FromSlice(callerMem) // borrowed.IsOwned() == false
//
// Reader and Writer are single-owner sequential cursors. Reader implements
// io.Reader with incremental semantics (short reads are not errors, reading at
// the end yields 0, io.EOF) and adds all-or-nothing helpers used by decoders.
//
// # Width
//
// Length prefixes, variant discriminants and usize values are written with the
// buffer's Width. Native matches the pointer width of the running process.
// Producers and consumers must agree on the width; select Width32 or Width64
// explicitly when exchanging payloads with a peer of a different pointer size.
//
// # Borrowed lifetime
//
// Go cannot tie a borrowed Buffer to the lifetime of the caller's memory, so
// the tie is enforced at run time: call Release when the memory is about to be
// reused or freed, and any later access fails with errors.ErrReleased.
//
// No locking is performed. A Buffer and its cursors must not be used from
// multiple goroutines at once.
package buffer
