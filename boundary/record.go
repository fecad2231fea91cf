package boundary

import (
	wire "github.com/wippyai/wasm-wire"
	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/codec"
)

// RecordSize is the size of a Record in guest memory.
const RecordSize = 12

// Record is the {pointer, length, capacity} triple a guest and host exchange
// for a wire payload. Cap 0 marks borrowed storage that must not be freed.
type Record struct {
	Ptr uint32
	Len uint32
	Cap uint32
}

var recordCodec = codec.Object[Record]("WireRecord")

// Borrowed reports whether the record points at storage the receiver does not own.
func (r Record) Borrowed() bool {
	return r.Cap == 0
}

func (r *Record) WireSize(buffer.Width) int { return RecordSize }

func (r *Record) MarshalWire(w *buffer.Writer) error {
	for _, v := range [...]uint32{r.Ptr, r.Len, r.Cap} {
		if err := w.PutU32(v); err != nil {
			return err
		}
	}
	return nil
}

func (r *Record) UnmarshalWire(rd *buffer.Reader) error {
	var err error
	if r.Ptr, err = rd.U32(); err != nil {
		return err
	}
	if r.Len, err = rd.U32(); err != nil {
		return err
	}
	r.Cap, err = rd.U32()
	return err
}

// ReadRecord reads a record stored at offset.
func ReadRecord(mem *Memory, offset uint32) (Record, error) {
	data, err := mem.View(offset, RecordSize)
	if err != nil {
		return Record{}, err
	}
	rec, _, err := codec.Unmarshal(recordCodec, data, buffer.Width32)
	return rec, err
}

// WriteRecord stores rec at offset.
func WriteRecord(mem *Memory, offset uint32, rec Record) error {
	data, err := codec.Marshal(recordCodec, rec, buffer.Width32)
	if err != nil {
		return err
	}
	return mem.Write(offset, data)
}

// recordOf converts the host-side record of w into guest terms once it has
// been copied to ptr.
func recordOf(ptr uint32, rec wire.Record) Record {
	n := uint32(rec.Len)
	if n == 0 {
		return Record{}
	}
	return Record{Ptr: ptr, Len: n, Cap: n}
}
