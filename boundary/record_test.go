package boundary

import (
	"bytes"
	"context"
	"errors"
	"testing"

	wire "github.com/wippyai/wasm-wire"
	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/codec"
	wireerrors "github.com/wippyai/wasm-wire/errors"
)

func TestRecord_ReadWrite(t *testing.T) {
	_, mod := instantiate(t, memoryWASM)
	mem := WrapMemory(mod.ExportedMemory("memory"))

	rec := Record{Ptr: 0x1000, Len: 19, Cap: 32}
	if err := WriteRecord(mem, 64, rec); err != nil {
		t.Fatal(err)
	}
	raw, _ := mem.Read(64, RecordSize)
	want := []byte{0x00, 0x10, 0, 0, 19, 0, 0, 0, 32, 0, 0, 0}
	if !bytes.Equal(raw, want) {
		t.Errorf("record bytes = % x, want % x", raw, want)
	}

	got, err := ReadRecord(mem, 64)
	if err != nil {
		t.Fatal(err)
	}
	if got != rec {
		t.Errorf("ReadRecord = %+v, want %+v", got, rec)
	}

	if _, err := ReadRecord(mem, 65530); !errors.Is(err, wireerrors.ErrOutOfBounds) {
		t.Errorf("record past end err = %v", err)
	}
}

func TestLiftLowerFree(t *testing.T) {
	ctx := context.Background()
	_, mod := instantiate(t, memoryWASM)
	mem := WrapMemory(mod.ExportedMemory("memory"))
	arena := NewArenaAllocator(4096, 1024)

	c := codec.Map(codec.String(), codec.Slice(codec.Bool()))
	v := map[string][]bool{"flags": {true, false, true}}

	w, err := wire.Of(c, v, wire.WithWidth(buffer.Width32))
	if err != nil {
		t.Fatal(err)
	}
	rec, err := Lower(ctx, mem, arena, w)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Borrowed() || rec.Cap != rec.Len || rec.Len != uint32(w.Len()) {
		t.Errorf("lowered record = %+v, want owned with len %d", rec, w.Len())
	}
	if rec.Ptr < 4096 {
		t.Errorf("record outside arena: %+v", rec)
	}

	lifted, err := Lift(mem, rec, c, buffer.Width32)
	if err != nil {
		t.Fatal(err)
	}
	if lifted.IsOwned() {
		t.Error("lifted wire should borrow guest memory")
	}
	got, err := lifted.Unwire()
	if err != nil {
		t.Fatal(err)
	}
	if len(got["flags"]) != 3 || !got["flags"][0] || got["flags"][1] {
		t.Errorf("got %v", got)
	}

	if err := Free(ctx, arena, rec); err != nil {
		t.Errorf("Free: %v", err)
	}
	if err := Free(ctx, arena, Record{Ptr: 1, Len: 1}); err != nil {
		t.Errorf("Free of borrowed record should be a no-op: %v", err)
	}
}

func TestLift_OutOfBounds(t *testing.T) {
	_, mod := instantiate(t, memoryWASM)
	mem := WrapMemory(mod.ExportedMemory("memory"))
	_, err := Lift(mem, Record{Ptr: 65000, Len: 1000}, codec.String(), buffer.Width32)
	if !errors.Is(err, wireerrors.ErrOutOfBounds) {
		t.Errorf("err = %v, want out of bounds", err)
	}
}

func TestLower_Empty(t *testing.T) {
	_, mod := instantiate(t, memoryWASM)
	mem := WrapMemory(mod.ExportedMemory("memory"))
	w, err := wire.Of(codec.Unit(), struct{}{})
	if err != nil {
		t.Fatal(err)
	}
	rec, err := Lower(context.Background(), mem, NewArenaAllocator(0, 0), w)
	if err != nil {
		t.Fatal(err)
	}
	if rec != (Record{}) {
		t.Errorf("empty wire record = %+v", rec)
	}
}

func TestLower_Released(t *testing.T) {
	_, mod := instantiate(t, memoryWASM)
	mem := WrapMemory(mod.ExportedMemory("memory"))
	alloc := NewArenaAllocator(64, 256)

	unwired, err := wire.Of(codec.String(), "gone")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := unwired.Unwire(); err != nil {
		t.Fatal(err)
	}
	released, err := wire.Of(codec.U32(), 7)
	if err != nil {
		t.Fatal(err)
	}
	released.Release()

	if _, err := Lower(context.Background(), mem, alloc, unwired); !errors.Is(err, wireerrors.ErrReleased) {
		t.Errorf("Lower after Unwire err = %v, want released", err)
	}
	if _, err := Lower(context.Background(), mem, alloc, released); !errors.Is(err, wireerrors.ErrReleased) {
		t.Errorf("Lower after Release err = %v, want released", err)
	}
	if alloc.Used() != 0 {
		t.Errorf("arena used %d bytes for released wires", alloc.Used())
	}
}
