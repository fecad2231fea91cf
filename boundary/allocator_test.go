package boundary

import (
	"context"
	"errors"
	"testing"

	wireerrors "github.com/wippyai/wasm-wire/errors"
)

func TestArenaAllocator(t *testing.T) {
	ctx := context.Background()
	a := NewArenaAllocator(100, 64)

	p1, err := a.Alloc(ctx, 10, 1)
	if err != nil || p1 != 100 {
		t.Fatalf("first Alloc = %d, %v", p1, err)
	}
	p2, err := a.Alloc(ctx, 8, 8)
	if err != nil || p2 != 112 {
		t.Fatalf("aligned Alloc = %d, %v; want 112", p2, err)
	}
	if a.Used() != 20 {
		t.Errorf("Used = %d, want 20", a.Used())
	}

	_, err = a.Alloc(ctx, 64, 1)
	var e *wireerrors.Error
	if !errors.As(err, &e) || e.Kind != wireerrors.KindAllocation {
		t.Errorf("exhausted arena err = %v, want allocation", err)
	}

	if _, err := a.Alloc(ctx, 1, 3); err == nil {
		t.Error("expected error for non power of two alignment")
	}

	a.Reset()
	if p, _ := a.Alloc(ctx, 1, 1); p != 100 {
		t.Errorf("Alloc after Reset = %d, want 100", p)
	}
}

func TestAlignTo(t *testing.T) {
	tests := []struct {
		offset, align, want uint32
	}{
		{0, 1, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 8, 8},
		{17, 16, 32},
	}
	for _, tt := range tests {
		if got := alignTo(tt.offset, tt.align); got != tt.want {
			t.Errorf("alignTo(%d, %d) = %d, want %d", tt.offset, tt.align, got, tt.want)
		}
	}
}

func TestNewGuestAllocator_MissingExport(t *testing.T) {
	_, mod := instantiate(t, memoryWASM)
	_, err := NewGuestAllocator(mod)
	if k, _ := wireerrors.KindOf(err); k != wireerrors.KindNotFound {
		t.Errorf("err = %v, want not found", err)
	}
}
