// Package cachekey turns a function identity plus call arguments into a
// deterministic, bounded-length cache key.
//
// # Overview
//
// The package is built from four cooperating pieces:
//
//   - ExclusionPolicy: immutable ruleset describing which types never reach
//     the key (timestamps and UUIDs by default)
//   - Serializer: type-directed conversion of one argument into a canonical
//     Value tree
//   - Normalize: maps a call (signature, positional values, keyword values)
//     onto the declared parameter order
//   - Assembler: joins the serialized segments with a prefix and function
//     identity, digesting oversized payloads and repairing charset/length
//     violations
//
// Generator composes all four behind a single operation:
//
//	gen, err := cachekey.NewGenerator(cachekey.Options{})
//	if err != nil {
//		return err
//	}
//
//	sig := cachekey.CallSignature{Function: "users.fetch", Params: []string{"id", "role"}}
//	key, err := gen.GenerateKey(sig, cachekey.CallArguments{Positional: []any{42, "admin"}})
//
// # Serialization strategy
//
// Dispatch is a closed set of value categories, consulted in priority order:
//
//   - excluded types contribute nothing at any nesting depth
//   - scalars render verbatim ([]byte as hex)
//   - values implementing Identifiable render as Type:ID, so distinct
//     instances of the same record share a key segment
//   - values implementing Member render as Type.Member, never as the raw
//     value
//   - structs render field-by-field in declaration order; `cache` tags
//     rename and exclude fields, and the deprecated ExclusionHinter facet
//     switches to alphabetical order with per-instance skips
//   - slices and arrays preserve order; map[T]struct{} sorts elements by
//     canonical form; other maps sort entries by serialized key
//   - anything else (functions, channels, opaque handles) fails with
//     UncachableArgumentError
//
// Reference cycles are detected along the walk path and fail instead of
// looping.
//
// # Key shape
//
// Keys look like prefix:identity:name:value:..., restricted to
// [A-Za-z0-9._:-] and at most MaxKeyLength characters. Argument payloads
// longer than MaxValueLength are replaced by a 16-character SHA-256 prefix;
// an oversized final key keeps a readable head and is folded with an xxhash
// fingerprint. Both repairs are deterministic, so equal calls always map to
// equal keys.
//
// # Concurrency
//
// Everything here is pure computation over immutable configuration. No
// locks, no I/O, no blocking; a Generator may be shared freely.
package cachekey
