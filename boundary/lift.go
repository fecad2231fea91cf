package boundary

import (
	"context"

	wire "github.com/wippyai/wasm-wire"
	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/codec"
	"github.com/wippyai/wasm-wire/errors"
)

// Lift returns a borrowed wire over the guest bytes described by rec.
// The wire aliases guest memory and must be unwired before the guest can
// grow its memory. Lifting does not take ownership; free owned records with
// Free once the value has been decoded.
func Lift[T any](mem *Memory, rec Record, c codec.Codec[T], width buffer.Width) (*wire.Wire[T], error) {
	view, err := mem.View(rec.Ptr, rec.Len)
	if err != nil {
		return nil, err
	}
	return wire.NewWithBuffer(c, view, wire.WithWidth(width)), nil
}

// Lower copies w into guest memory obtained from alloc. The returned record
// is owned by the guest (Cap == Len) unless w is empty. A consumed or
// released wire fails with a released error.
func Lower[T any](ctx context.Context, mem *Memory, alloc Allocator, w *wire.Wire[T]) (Record, error) {
	if w.Buffer().Released() {
		return Record{}, errors.Released(errors.PhaseBoundary)
	}
	host := w.Record()
	if host.Len == 0 {
		return Record{}, nil
	}
	ptr, err := alloc.Alloc(ctx, uint32(host.Len), 1)
	if err != nil {
		return Record{}, err
	}
	if err := mem.Write(ptr, host.Data); err != nil {
		_ = alloc.Free(ctx, ptr, uint32(host.Len), 1)
		return Record{}, err
	}
	return recordOf(ptr, host), nil
}

// Free deallocates the storage of an owned record. Borrowed records are
// ignored.
func Free(ctx context.Context, alloc Allocator, rec Record) error {
	if rec.Borrowed() {
		return nil
	}
	return alloc.Free(ctx, rec.Ptr, rec.Cap, 1)
}
