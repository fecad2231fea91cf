package buffer

import (
	"bytes"
	"errors"
	"io"
	"testing"

	wireerrors "github.com/wippyai/wasm-wire/errors"
)

func TestOwnership(t *testing.T) {
	if !WithSize(64).IsOwned() {
		t.Error("WithSize buffer should be owned")
	}
	if !FromVec([]byte{1, 2, 3}).IsOwned() {
		t.Error("FromVec buffer should be owned")
	}
	mem := make([]byte, 64)
	if FromSlice(mem).IsOwned() {
		t.Error("FromSlice buffer should be borrowed")
	}
	if FromSlice(mem).Cap() != 0 {
		t.Error("borrowed buffer should report capacity 0")
	}
	if WithSize(16).Cap() < 16 {
		t.Error("owned buffer should report its capacity")
	}
}

func TestWithSizeZeroed(t *testing.T) {
	b := WithSize(8)
	if b.Len() != 8 {
		t.Fatalf("Len = %d, want 8", b.Len())
	}
	if !bytes.Equal(b.Bytes(), make([]byte, 8)) {
		t.Errorf("contents = %v, want zeros", b.Bytes())
	}
}

func TestFromSliceIsZeroCopy(t *testing.T) {
	mem := make([]byte, 4)
	b := FromSlice(mem)
	if err := b.Writer().PutU32(0xdeadbeef); err != nil {
		t.Fatalf("PutU32: %v", err)
	}
	if !bytes.Equal(mem, []byte{0xef, 0xbe, 0xad, 0xde}) {
		t.Errorf("caller memory = %x, want efbeadde", mem)
	}
}

func TestReaderBorrowedFullRead(t *testing.T) {
	const size = 64
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i)
	}
	r := FromSlice(data).Reader()

	out := make([]byte, size)
	n, err := r.Read(out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != size {
		t.Errorf("Read = %d, want %d", n, size)
	}
	if !bytes.Equal(out, data) {
		t.Error("read data mismatch")
	}

	for i := 0; i < 3; i++ {
		n, err = r.Read(make([]byte, 10))
		if n != 0 {
			t.Errorf("read after EOF #%d = %d, want 0", i, n)
		}
		if err != io.EOF {
			t.Errorf("read after EOF #%d err = %v, want io.EOF", i, err)
		}
	}
}

func TestReaderOwnedPartialRead(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	r := FromVec(append([]byte(nil), data...)).Reader()

	partial := make([]byte, 3)
	n, err := r.Read(partial)
	if err != nil || n != 3 {
		t.Fatalf("Read = %d, %v; want 3, nil", n, err)
	}
	if !bytes.Equal(partial, data[:3]) {
		t.Errorf("partial = %v, want %v", partial, data[:3])
	}

	rest := make([]byte, 5)
	n, err = r.Read(rest)
	if err != nil || n != 2 {
		t.Fatalf("Read = %d, %v; want 2, nil", n, err)
	}
	if !bytes.Equal(rest[:2], data[3:]) {
		t.Errorf("rest = %v, want %v", rest[:2], data[3:])
	}

	n, err = r.Read(rest)
	if n != 0 || err != io.EOF {
		t.Errorf("Read at end = %d, %v; want 0, io.EOF", n, err)
	}
}

func TestReaderWithStdlib(t *testing.T) {
	data := []byte("hello wire")
	got, err := io.ReadAll(FromVec(data).Reader())
	if err != nil {
		t.Fatalf("io.ReadAll: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("ReadAll = %q, want %q", got, data)
	}
}

func TestReaderNext(t *testing.T) {
	r := FromVec([]byte{0x01, 0x02, 0x03}).Reader()

	b, err := r.Next(2)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !bytes.Equal(b, []byte{0x01, 0x02}) {
		t.Errorf("Next = %v", b)
	}
	if r.Position() != 2 || r.Remaining() != 1 {
		t.Errorf("position %d remaining %d, want 2 1", r.Position(), r.Remaining())
	}

	_, err = r.Next(4)
	if !errors.Is(err, wireerrors.ErrUnexpectedEOF) {
		t.Errorf("Next past end err = %v, want unexpected EOF", err)
	}
	if r.Position() != 2 {
		t.Errorf("failed Next must not advance, position = %d", r.Position())
	}
}

func TestReaderTypedHelpers(t *testing.T) {
	data := []byte{
		0x90,
		0x31, 0xef,
		0x89, 0xfe, 0xec, 0xc1,
		0xff, 0x25, 0x5f, 0x1b, 0x35, 0x03, 0xf0, 0xff,
	}
	r := FromVec(data).Reader()

	u8, err := r.U8()
	if err != nil || u8 != 144 {
		t.Errorf("U8 = %d, %v", u8, err)
	}
	u16, err := r.U16()
	if err != nil || u16 != 61233 {
		t.Errorf("U16 = %d, %v", u16, err)
	}
	u32, err := r.U32()
	if err != nil || u32 != 3253534345 {
		t.Errorf("U32 = %d, %v", u32, err)
	}
	u64, err := r.U64()
	if err != nil || u64 != 18442244000709551615 {
		t.Errorf("U64 = %d, %v", u64, err)
	}
	if _, err := r.U8(); !errors.Is(err, wireerrors.ErrUnexpectedEOF) {
		t.Errorf("U8 at end err = %v", err)
	}
}

func TestReaderSeek(t *testing.T) {
	r := FromVec([]byte{10, 20, 30, 40}).Reader()
	if _, err := r.Next(3); err != nil {
		t.Fatal(err)
	}

	pos, err := r.Seek(0, io.SeekStart)
	if err != nil || pos != 0 {
		t.Fatalf("Seek start = %d, %v", pos, err)
	}
	b, _ := r.ReadByte()
	if b != 10 {
		t.Errorf("byte after rewind = %d, want 10", b)
	}

	pos, err = r.Seek(-1, io.SeekEnd)
	if err != nil || pos != 3 {
		t.Fatalf("Seek end = %d, %v", pos, err)
	}
	b, _ = r.ReadByte()
	if b != 40 {
		t.Errorf("last byte = %d, want 40", b)
	}

	if _, err := r.Seek(-10, io.SeekCurrent); err == nil {
		t.Error("expected error for negative position")
	}
	if _, err := r.Seek(0, 42); err == nil {
		t.Error("expected error for invalid whence")
	}
}

func TestLenWidths(t *testing.T) {
	tests := []struct {
		width Width
		want  []byte
	}{
		{Width32, []byte{0x03, 0, 0, 0}},
		{Width64, []byte{0x03, 0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.width.String(), func(t *testing.T) {
			b := WithSize(0).SetWidth(tt.width)
			if err := b.Writer().PutLen(3); err != nil {
				t.Fatalf("PutLen: %v", err)
			}
			if !bytes.Equal(b.Bytes(), tt.want) {
				t.Errorf("bytes = %x, want %x", b.Bytes(), tt.want)
			}
			n, err := b.Reader().Len()
			if err != nil || n != 3 {
				t.Errorf("Len = %d, %v", n, err)
			}
		})
	}
}

func TestPutLenOverflow(t *testing.T) {
	b := WithSize(0).SetWidth(Width32)
	err := b.Writer().PutLen(1 << 32)
	if !errors.Is(err, wireerrors.ErrOverflow) {
		t.Errorf("err = %v, want overflow", err)
	}
}

func TestNativeWidth(t *testing.T) {
	if !Native.Valid() {
		t.Fatalf("Native width %d is not a supported width", Native)
	}
	if WithSize(0).Width() != Native {
		t.Error("new buffers should default to the native width")
	}
}

func TestSetWidthInvalidPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for width 3")
		}
	}()
	WithSize(0).SetWidth(3)
}

func TestWriterOwnedGrows(t *testing.T) {
	b := WithSize(2)
	w := b.Writer()
	n, err := w.Write([]byte{1, 2, 3, 4, 5})
	if err != nil || n != 5 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if _, err := w.WriteString("ab"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if !bytes.Equal(b.Bytes(), []byte{1, 2, 3, 4, 5, 'a', 'b'}) {
		t.Errorf("bytes = %v", b.Bytes())
	}
	if w.Position() != 7 {
		t.Errorf("Position = %d, want 7", w.Position())
	}
}

func TestWriterBorrowedShortWrite(t *testing.T) {
	mem := make([]byte, 3)
	w := FromSlice(mem).Writer()

	n, err := w.Write([]byte{1, 2, 3, 4})
	if n != 3 {
		t.Errorf("Write = %d, want 3", n)
	}
	if err != io.ErrShortWrite {
		t.Errorf("err = %v, want io.ErrShortWrite", err)
	}
	if !bytes.Equal(mem, []byte{1, 2, 3}) {
		t.Errorf("mem = %v", mem)
	}

	if err := w.PutU8(9); !errors.Is(err, wireerrors.ErrIO) {
		t.Errorf("PutU8 on full borrowed buffer err = %v, want io kind", err)
	}
	if !errors.Is(w.PutU8(9), io.ErrShortWrite) {
		t.Error("io error should wrap io.ErrShortWrite")
	}
}

func TestRelease(t *testing.T) {
	mem := []byte{1, 2, 3, 4}
	b := FromSlice(mem)
	r := b.Reader()
	w := b.Writer()

	b.Release()

	if !b.Released() {
		t.Error("Released should report true")
	}
	if b.Bytes() != nil {
		t.Error("Bytes should be nil after release")
	}
	if _, err := r.Read(make([]byte, 1)); !errors.Is(err, wireerrors.ErrReleased) {
		t.Errorf("Read after release err = %v", err)
	}
	if _, err := r.Next(1); !errors.Is(err, wireerrors.ErrReleased) {
		t.Errorf("Next after release err = %v", err)
	}
	if _, err := w.Write([]byte{9}); !errors.Is(err, wireerrors.ErrReleased) {
		t.Errorf("Write after release err = %v", err)
	}
	if !bytes.Equal(mem, []byte{1, 2, 3, 4}) {
		t.Error("release must not touch caller memory")
	}
}

func TestClone(t *testing.T) {
	mem := []byte{1, 2, 3}
	b := FromSlice(mem).SetWidth(Width32)
	c := b.Clone()
	if !c.IsOwned() {
		t.Error("clone should be owned")
	}
	if c.Width() != Width32 {
		t.Error("clone should keep width")
	}
	mem[0] = 99
	if c.Bytes()[0] != 1 {
		t.Error("clone must not alias caller memory")
	}
}
