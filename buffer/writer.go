package buffer

import (
	"encoding/binary"
	"io"

	"github.com/wippyai/wasm-wire/errors"
)

// Writer is a sequential cursor that fills a Buffer from offset 0.
//
// Writers over owned buffers grow the storage when a write runs past the end.
// Writers over borrowed buffers never reallocate caller memory; a write that
// does not fit copies what it can and returns io.ErrShortWrite.
type Writer struct {
	buf *Buffer
	pos int
}

var (
	_ io.Writer       = (*Writer)(nil)
	_ io.ByteWriter   = (*Writer)(nil)
	_ io.StringWriter = (*Writer)(nil)
)

// Position returns the number of bytes written so far.
func (w *Writer) Position() int {
	return w.pos
}

// Width returns the prefix width of the underlying buffer.
func (w *Writer) Width() Width {
	return w.buf.width
}

// Next reserves the next n bytes and returns them for the caller to fill.
func (w *Writer) Next(n int) ([]byte, error) {
	if w.buf.released {
		return nil, errors.Released(errors.PhaseBuffer)
	}
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseBuffer, "negative write length")
	}
	end := w.pos + n
	if end > len(w.buf.data) {
		if !w.buf.owned {
			return nil, errors.IO(errors.PhaseEncode, io.ErrShortWrite)
		}
		w.grow(end)
	}
	b := w.buf.data[w.pos:end]
	w.pos = end
	return b, nil
}

func (w *Writer) grow(end int) {
	if end <= cap(w.buf.data) {
		w.buf.data = w.buf.data[:end]
		return
	}
	data := make([]byte, end, max(end, 2*cap(w.buf.data)))
	copy(data, w.buf.data)
	w.buf.data = data
}

// Write copies p into the buffer.
func (w *Writer) Write(p []byte) (int, error) {
	if w.buf.released {
		return 0, errors.Released(errors.PhaseBuffer)
	}
	if w.buf.owned && w.pos+len(p) > len(w.buf.data) {
		w.grow(w.pos + len(p))
	}
	n := copy(w.buf.data[w.pos:], p)
	w.pos += n
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(c byte) error {
	b, err := w.Next(1)
	if err != nil {
		return err
	}
	b[0] = c
	return nil
}

// WriteString writes the bytes of s.
func (w *Writer) WriteString(s string) (int, error) {
	if w.buf.released {
		return 0, errors.Released(errors.PhaseBuffer)
	}
	if w.buf.owned && w.pos+len(s) > len(w.buf.data) {
		w.grow(w.pos + len(s))
	}
	n := copy(w.buf.data[w.pos:], s)
	w.pos += n
	if n < len(s) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// PutU8 writes one byte.
func (w *Writer) PutU8(v uint8) error {
	return w.WriteByte(v)
}

// PutU16 writes a little-endian uint16.
func (w *Writer) PutU16(v uint16) error {
	b, err := w.Next(2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, v)
	return nil
}

// PutU32 writes a little-endian uint32.
func (w *Writer) PutU32(v uint32) error {
	b, err := w.Next(4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, v)
	return nil
}

// PutU64 writes a little-endian uint64.
func (w *Writer) PutU64(v uint64) error {
	b, err := w.Next(8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, v)
	return nil
}

// PutLen writes a width-sized count.
func (w *Writer) PutLen(n uint64) error {
	if n > w.buf.width.Max() {
		return errors.Overflow(errors.PhaseEncode, n, "usize ("+w.buf.width.String()+")")
	}
	if w.buf.width == Width32 {
		return w.PutU32(uint32(n))
	}
	return w.PutU64(n)
}
