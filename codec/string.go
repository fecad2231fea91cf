package codec

import (
	"unicode/utf8"

	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/errors"
)

type stringCodec struct{}

// String encodes a width-sized byte count followed by the UTF-8 bytes.
// Decoding rejects input that is not valid UTF-8.
func String() Codec[string] {
	return stringCodec{}
}

func (stringCodec) Name() string { return "String" }

func (stringCodec) MinSize(width buffer.Width) int { return int(width) }

func (stringCodec) Size(v string, width buffer.Width) int { return int(width) + len(v) }

func (stringCodec) Encode(w *buffer.Writer, v string) error {
	if err := w.PutLen(uint64(len(v))); err != nil {
		return errors.AtType(err, "String")
	}
	b, err := reserve(w, len(v), "String")
	if err != nil {
		return err
	}
	copy(b, v)
	return nil
}

func (stringCodec) Decode(r *buffer.Reader) (string, error) {
	n, err := readCount(r, "String", 1)
	if err != nil {
		return "", err
	}
	b, err := take(r, n, "String")
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, "String", b)
	}
	return string(b), nil
}
