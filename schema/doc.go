// Package schema describes wire types at run time.
//
// A Type mirrors the static codecs in package codec so that tools can
// decode payloads whose layout is only known from a string or a schema
// file:
//
//	t, _ := schema.Parse("Vec<(String, Option<u32>)>", nil)
//	c, _ := t.Codec()
//	v, n, err := codec.Unmarshal(c, payload, buffer.Width32)
//
// Named records and variants live in a Registry, loaded from YAML or
// defined in code, and can also be derived from WIT definitions with
// FromWIT. Export and Import convert dynamic values to and from plain data
// for JSON, YAML and CBOR tooling.
package schema
