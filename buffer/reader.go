package buffer

import (
	"encoding/binary"
	"io"

	"github.com/wippyai/wasm-wire/errors"
)

// Reader is a sequential cursor over a Buffer.
//
// Read follows io.Reader: a short buffer yields a short count and reading at
// the end returns 0, io.EOF every time. The typed helpers (Next, U8..U64, Len)
// are all-or-nothing and report truncation as an unexpected EOF error.
type Reader struct {
	buf *Buffer
	pos int
}

var (
	_ io.Reader     = (*Reader)(nil)
	_ io.ByteReader = (*Reader)(nil)
	_ io.Seeker     = (*Reader)(nil)
)

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	if r.buf.released || r.pos >= len(r.buf.data) {
		return 0
	}
	return len(r.buf.data) - r.pos
}

// Width returns the prefix width of the underlying buffer.
func (r *Reader) Width() Width {
	return r.buf.width
}

// Read copies up to len(p) bytes and advances the cursor.
func (r *Reader) Read(p []byte) (int, error) {
	if r.buf.released {
		return 0, errors.Released(errors.PhaseBuffer)
	}
	if r.pos >= len(r.buf.data) {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	n := copy(p, r.buf.data[r.pos:])
	r.pos += n
	return n, nil
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.buf.released {
		return 0, errors.Released(errors.PhaseBuffer)
	}
	if r.pos >= len(r.buf.data) {
		return 0, io.EOF
	}
	b := r.buf.data[r.pos]
	r.pos++
	return b, nil
}

// Seek moves the cursor. It exists for inspection and tests; decoders never rewind.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	if r.buf.released {
		return 0, errors.Released(errors.PhaseBuffer)
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(r.pos) + offset
	case io.SeekEnd:
		abs = int64(len(r.buf.data)) + offset
	default:
		return 0, errors.InvalidInput(errors.PhaseBuffer, "invalid whence")
	}
	if abs < 0 {
		return 0, errors.InvalidInput(errors.PhaseBuffer, "negative position")
	}
	r.pos = int(abs)
	return abs, nil
}

// Next returns a view of the next n bytes and advances past them.
// The view aliases the buffer; copy it if it must outlive a borrowed buffer.
func (r *Reader) Next(n int) ([]byte, error) {
	if r.buf.released {
		return nil, errors.Released(errors.PhaseBuffer)
	}
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseBuffer, "negative read length")
	}
	if rem := r.Remaining(); rem < n {
		return nil, errors.UnexpectedEOF(errors.PhaseDecode, "", n, rem)
	}
	b := r.buf.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadFull fills p completely or fails with an unexpected EOF error.
func (r *Reader) ReadFull(p []byte) error {
	b, err := r.Next(len(p))
	if err != nil {
		return err
	}
	copy(p, b)
	return nil
}

// U8 reads one byte.
func (r *Reader) U8() (uint8, error) {
	b, err := r.Next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a little-endian uint16.
func (r *Reader) U16() (uint16, error) {
	b, err := r.Next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	b, err := r.Next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() (uint64, error) {
	b, err := r.Next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Len reads a width-sized little-endian count.
func (r *Reader) Len() (uint64, error) {
	if r.buf.width == Width32 {
		v, err := r.U32()
		return uint64(v), err
	}
	return r.U64()
}
