package codec

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/errors"
)

type mapCodec[K comparable, V any] struct {
	key   Codec[K]
	value Codec[V]
	name  string
	order func(map[K]V) []pair[K, V]
}

type pair[K, V any] struct {
	key   K
	value V
}

// Map encodes a width-sized entry count followed by key/value pairs in Go's
// map iteration order. Decoding keeps the last value for repeated keys.
func Map[K comparable, V any](key Codec[K], value Codec[V]) Codec[map[K]V] {
	return mapCodec[K, V]{key: key, value: value, name: mapName(key, value)}
}

// SortedMap is Map with pairs written in ascending key order, so equal maps
// always produce equal bytes. NaN keys sort first.
func SortedMap[K cmp.Ordered, V any](key Codec[K], value Codec[V]) Codec[map[K]V] {
	return mapCodec[K, V]{
		key:   key,
		value: value,
		name:  mapName(key, value),
		order: func(m map[K]V) []pair[K, V] {
			pairs := make([]pair[K, V], 0, len(m))
			for k, v := range m {
				pairs = append(pairs, pair[K, V]{k, v})
			}
			slices.SortFunc(pairs, func(a, b pair[K, V]) int {
				return cmp.Compare(a.key, b.key)
			})
			return pairs
		},
	}
}

func mapName[K, V any](key Codec[K], value Codec[V]) string {
	return "HashMap<" + NameOf(key) + ", " + NameOf(value) + ">"
}

func (c mapCodec[K, V]) Name() string { return c.name }

func (c mapCodec[K, V]) MinSize(width buffer.Width) int { return int(width) }

func (c mapCodec[K, V]) Size(m map[K]V, width buffer.Width) int {
	size := int(width)
	kn, kfixed := FixedSize(c.key, width)
	vn, vfixed := FixedSize(c.value, width)
	if kfixed && vfixed {
		return size + len(m)*(kn+vn)
	}
	for k, v := range m {
		size += c.key.Size(k, width) + c.value.Size(v, width)
	}
	return size
}

func (c mapCodec[K, V]) Encode(w *buffer.Writer, m map[K]V) error {
	if err := w.PutLen(uint64(len(m))); err != nil {
		return errors.AtType(err, c.name)
	}
	if c.order != nil {
		for i, p := range c.order(m) {
			if err := c.encodePair(w, i, p.key, p.value); err != nil {
				return err
			}
		}
		return nil
	}
	i := 0
	for k, v := range m {
		if err := c.encodePair(w, i, k, v); err != nil {
			return err
		}
		i++
	}
	return nil
}

func (c mapCodec[K, V]) encodePair(w *buffer.Writer, i int, k K, v V) error {
	if err := c.key.Encode(w, k); err != nil {
		return errors.AtPath(err, c.entry(i, "key"))
	}
	if err := c.value.Encode(w, v); err != nil {
		return errors.AtPath(err, c.entry(i, "value"))
	}
	return nil
}

func (c mapCodec[K, V]) Decode(r *buffer.Reader) (map[K]V, error) {
	width := r.Width()
	n, err := readCount(r, c.name, minSize(c.key, width)+minSize(c.value, width))
	if err != nil {
		return nil, err
	}
	m := make(map[K]V, capHint(n, r))
	for i := 0; i < n; i++ {
		k, err := c.key.Decode(r)
		if err != nil {
			return nil, errors.AtPath(err, c.entry(i, "key"))
		}
		v, err := c.value.Decode(r)
		if err != nil {
			return nil, errors.AtPath(err, c.entry(i, "value"))
		}
		m[k] = v
	}
	return m, nil
}

func (c mapCodec[K, V]) entry(i int, part string) string {
	return c.name + "[" + strconv.Itoa(i) + "]." + part
}
