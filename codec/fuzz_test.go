package codec

import (
	"bytes"
	"testing"

	"github.com/wippyai/wasm-wire/buffer"
)

// FuzzDecode checks that arbitrary input never panics and that anything
// that decodes re-encodes to the bytes it was read from.
func FuzzDecode(f *testing.F) {
	c := Tuple2(Slice(Option(String())), Map(U8(), Bool()))
	seed, _ := Marshal(c, T2[[]*string, map[uint8]bool]{
		V0: []*string{Some("x"), nil},
		V1: map[uint8]bool{1: true},
	}, buffer.Width32)
	f.Add(seed)
	f.Add([]byte{})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		v, n, err := Unmarshal(c, data, buffer.Width32)
		if err != nil {
			return
		}
		if len(v.V1) > 0 {
			// map order and duplicate keys make map bytes non-canonical
			return
		}
		out, err := Marshal(c, v, buffer.Width32)
		if err != nil {
			t.Fatalf("re-encode: %v", err)
		}
		if !bytes.Equal(out, data[:n]) {
			t.Fatalf("re-encoded % x, read % x", out, data[:n])
		}
	})
}
