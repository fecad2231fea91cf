package boundary

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-wire/errors"
)

// Memory is bounds-checked access to a guest's linear memory.
type Memory struct {
	mem api.Memory
}

// WrapMemory wraps a wazero api.Memory. It returns nil for a nil memory.
func WrapMemory(mem api.Memory) *Memory {
	if mem == nil {
		return nil
	}
	return &Memory{mem: mem}
}

// Size returns the current memory size in bytes.
func (m *Memory) Size() uint32 {
	return m.mem.Size()
}

// View returns the bytes at [offset, offset+length) without copying.
// The view is invalidated when the guest grows its memory.
func (m *Memory) View(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, m.outOfBounds(offset, length)
	}
	return data, nil
}

// Read returns a copy of the bytes at [offset, offset+length).
func (m *Memory) Read(offset, length uint32) ([]byte, error) {
	data, err := m.View(offset, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write copies data into memory at offset.
func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return m.outOfBounds(offset, uint32(len(data)))
	}
	return nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Memory) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, m.outOfBounds(offset, 4)
	}
	return v, nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Memory) WriteU32(offset, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return m.outOfBounds(offset, 4)
	}
	return nil
}

func (m *Memory) outOfBounds(offset, length uint32) error {
	return errors.OutOfBounds(errors.PhaseBoundary, uint64(offset), uint64(length), uint64(m.mem.Size()))
}
