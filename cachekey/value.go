package cachekey

import (
	"sort"
	"strings"
)

// Value is the serialized form of a single argument: a closed set of variants
// that renders to a canonical, order-normalized text used for hashing and
// comparison. Logically equal inputs always produce identical Value trees.
type Value interface {
	// Canonical returns the unique textual representation of the value.
	Canonical() string

	appendCanonical(b *strings.Builder)
}

// Scalar holds the verbatim text of a plain value (string, number, bool, nil).
type Scalar struct {
	Text string
}

// Identity stands in for an entity carrying a stable identifier, so two
// distinct in-memory instances of the same record serialize identically.
type Identity struct {
	Type string
	ID   string
}

// EnumMember names an enumeration member by enclosing type and member name.
// The member's raw value never reaches the key to avoid ambiguity across
// enums sharing values.
type EnumMember struct {
	Type   string
	Member string
}

// Field is one named entry of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered field mapping with exclusions already applied.
type Record struct {
	Fields []Field
}

// Sequence preserves element order.
type Sequence struct {
	Elems []Value
}

// UnorderedSet holds elements sorted by their own canonical form, making the
// rendering independent of input iteration order.
type UnorderedSet struct {
	Elems []Value
}

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key Value
	Val Value
}

// Mapping holds entries sorted by serialized key.
type Mapping struct {
	Entries []Entry
}

// Excluded contributes nothing to the key.
type Excluded struct{}

func (v Scalar) Canonical() string       { return render(v) }
func (v Identity) Canonical() string     { return render(v) }
func (v EnumMember) Canonical() string   { return render(v) }
func (v Record) Canonical() string       { return render(v) }
func (v Sequence) Canonical() string     { return render(v) }
func (v UnorderedSet) Canonical() string { return render(v) }
func (v Mapping) Canonical() string      { return render(v) }
func (v Excluded) Canonical() string     { return "" }

func render(v Value) string {
	var b strings.Builder

	v.appendCanonical(&b)

	return b.String()
}

func (v Scalar) appendCanonical(b *strings.Builder) {
	b.WriteString(v.Text)
}

func (v Identity) appendCanonical(b *strings.Builder) {
	b.WriteString(v.Type)
	b.WriteByte(':')
	b.WriteString(v.ID)
}

func (v EnumMember) appendCanonical(b *strings.Builder) {
	b.WriteString(v.Type)
	b.WriteByte('.')
	b.WriteString(v.Member)
}

func (v Record) appendCanonical(b *strings.Builder) {
	b.WriteByte('{')

	for i, f := range v.Fields {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(f.Name)
		b.WriteByte(':')
		f.Value.appendCanonical(b)
	}

	b.WriteByte('}')
}

func (v Sequence) appendCanonical(b *strings.Builder) {
	b.WriteByte('[')

	for i, e := range v.Elems {
		if i > 0 {
			b.WriteByte(',')
		}

		e.appendCanonical(b)
	}

	b.WriteByte(']')
}

func (v UnorderedSet) appendCanonical(b *strings.Builder) {
	b.WriteString("set[")

	for i, e := range v.Elems {
		if i > 0 {
			b.WriteByte(',')
		}

		e.appendCanonical(b)
	}

	b.WriteByte(']')
}

func (v Mapping) appendCanonical(b *strings.Builder) {
	b.WriteString("map{")

	for i, e := range v.Entries {
		if i > 0 {
			b.WriteByte(',')
		}

		e.Key.appendCanonical(b)
		b.WriteByte(':')
		e.Val.appendCanonical(b)
	}

	b.WriteByte('}')
}

func (v Excluded) appendCanonical(*strings.Builder) {}

// newUnorderedSet sorts elems by canonical form so `{1,2,3}` and `{3,2,1}`
// render identically.
func newUnorderedSet(elems []Value) UnorderedSet {
	sort.Slice(elems, func(i, j int) bool {
		return elems[i].Canonical() < elems[j].Canonical()
	})

	return UnorderedSet{Elems: elems}
}

// newMapping sorts entries by serialized key, independent of input iteration
// order.
func newMapping(entries []Entry) Mapping {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key.Canonical() < entries[j].Key.Canonical()
	})

	return Mapping{Entries: entries}
}
