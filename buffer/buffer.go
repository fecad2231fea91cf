package buffer

import (
	"fmt"
	"strconv"
)

// Width is the byte width of length prefixes, variant discriminants and
// usize/isize values.
type Width int

const (
	Width32 Width = 4
	Width64 Width = 8

	// Native is the pointer width of the running process.
	Native Width = Width(strconv.IntSize / 8)
)

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool {
	return w == Width32 || w == Width64
}

// Max returns the largest count representable in w bytes.
func (w Width) Max() uint64 {
	if w == Width32 {
		return 1<<32 - 1
	}
	return 1<<64 - 1
}

func (w Width) String() string {
	return fmt.Sprintf("%d-byte", int(w))
}

// Buffer is a byte store that either owns its storage or borrows memory
// supplied by the caller.
//
// A borrowed buffer is valid only while the caller's memory is. Call Release
// when that memory goes away; every later access through the buffer, or any
// Reader or Writer derived from it, fails with a released error.
type Buffer struct {
	data     []byte
	width    Width
	owned    bool
	released bool
}

// FromVec creates an owned buffer over data. The buffer takes ownership;
// the caller must not modify data afterwards.
func FromVec(data []byte) *Buffer {
	return &Buffer{data: data, owned: true, width: Native}
}

// FromSlice creates a borrowed buffer over data without copying.
func FromSlice(data []byte) *Buffer {
	return &Buffer{data: data, owned: false, width: Native}
}

// WithSize creates an owned buffer of exactly n zero bytes.
func WithSize(n int) *Buffer {
	if n < 0 {
		panic(fmt.Sprintf("buffer: negative size %d", n))
	}
	return FromVec(make([]byte, n))
}

// IsOwned reports whether the buffer owns its storage.
func (b *Buffer) IsOwned() bool {
	return b.owned
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool {
	return b.released
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap returns the capacity reported across an FFI boundary: the storage
// capacity for owned buffers and 0 for borrowed ones.
func (b *Buffer) Cap() int {
	if !b.owned || b.released {
		return 0
	}
	return cap(b.data)
}

// Bytes returns a view of the buffer contents. It returns nil after Release.
func (b *Buffer) Bytes() []byte {
	if b.released {
		return nil
	}
	return b.data
}

// Width returns the prefix width used by readers and writers of this buffer.
func (b *Buffer) Width() Width {
	return b.width
}

// SetWidth changes the prefix width. It panics on unsupported widths.
func (b *Buffer) SetWidth(w Width) *Buffer {
	if !w.Valid() {
		panic(fmt.Sprintf("buffer: unsupported width %d", int(w)))
	}
	b.width = w
	return b
}

// Clone returns an owned deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &Buffer{data: data, owned: true, width: b.width}
}

// Release detaches the buffer from its storage.
func (b *Buffer) Release() {
	b.data = nil
	b.released = true
}

// Reader returns a sequential reader positioned at offset 0.
func (b *Buffer) Reader() *Reader {
	return &Reader{buf: b}
}

// Writer returns a sequential writer positioned at offset 0.
func (b *Buffer) Writer() *Writer {
	return &Writer{buf: b}
}
