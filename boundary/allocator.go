package boundary

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-wire/errors"
)

// Allocator allocates memory in a guest's linear memory.
type Allocator interface {
	Alloc(ctx context.Context, size, align uint32) (uint32, error)
	Free(ctx context.Context, ptr, size, align uint32) error
}

// ReallocExport is the guest export GuestAllocator calls by default.
const ReallocExport = "cabi_realloc"

// GuestAllocator allocates through the guest's own
// realloc(old_ptr, old_size, align, new_size) export.
type GuestAllocator struct {
	fn api.Function
}

// NewGuestAllocator looks up ReallocExport in mod.
func NewGuestAllocator(mod api.Module) (*GuestAllocator, error) {
	return NewGuestAllocatorFunc(mod, ReallocExport)
}

// NewGuestAllocatorFunc looks up a realloc-style export by name.
func NewGuestAllocatorFunc(mod api.Module, name string) (*GuestAllocator, error) {
	fn := mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseBoundary, "allocator export", name)
	}
	return &GuestAllocator{fn: fn}, nil
}

// Alloc allocates size bytes.
func (a *GuestAllocator) Alloc(ctx context.Context, size, align uint32) (uint32, error) {
	results, err := a.fn.Call(ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, errors.AllocationFailed(errors.PhaseBoundary, size, align, err)
	}
	if len(results) == 0 {
		return 0, errors.AllocationFailed(errors.PhaseBoundary, size, align, nil)
	}
	ptr := uint32(results[0])
	if ptr == 0 && size > 0 {
		return 0, errors.AllocationFailed(errors.PhaseBoundary, size, align, nil)
	}
	return ptr, nil
}

// Free releases memory by reallocating it to size 0.
func (a *GuestAllocator) Free(ctx context.Context, ptr, size, align uint32) error {
	if _, err := a.fn.Call(ctx, uint64(ptr), uint64(size), uint64(align), 0); err != nil {
		return errors.Wrap(errors.PhaseBoundary, errors.KindAllocation, err, "free failed")
	}
	return nil
}

// ArenaAllocator is a host-managed bump allocator over a region of guest
// memory reserved for the host. Free is a no-op; Reset reclaims everything.
type ArenaAllocator struct {
	base uint32
	end  uint32
	next uint32
}

// NewArenaAllocator manages [base, base+size).
func NewArenaAllocator(base, size uint32) *ArenaAllocator {
	return &ArenaAllocator{base: base, end: base + size, next: base}
}

// Alloc returns the next aligned block of size bytes.
func (a *ArenaAllocator) Alloc(_ context.Context, size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0, errors.InvalidInput(errors.PhaseBoundary, "alignment must be a power of two")
	}
	ptr := alignTo(a.next, align)
	if ptr < a.next || uint64(ptr)+uint64(size) > uint64(a.end) {
		return 0, errors.AllocationFailed(errors.PhaseBoundary, size, align, nil)
	}
	a.next = ptr + size
	return ptr, nil
}

func (a *ArenaAllocator) Free(context.Context, uint32, uint32, uint32) error {
	return nil
}

// Used returns the number of bytes handed out since the last Reset.
func (a *ArenaAllocator) Used() uint32 {
	return a.next - a.base
}

// Reset makes the whole region available again.
func (a *ArenaAllocator) Reset() {
	a.next = a.base
}

func alignTo(offset, align uint32) uint32 {
	return (offset + align - 1) &^ (align - 1)
}
