package cachekey

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	hex "github.com/tmthrgd/go-hex"
	"github.com/vmihailenco/tagparser/v2"
)

// Identifiable marks values carrying a stable identifier, typically a primary
// key. Such values serialize as Type:ID instead of structurally, so two
// instances representing the same record produce the same key segment.
type Identifiable interface {
	CacheID() any
}

// Member marks enumeration-style values. Only the member name reaches the
// key, never the underlying raw value.
type Member interface {
	MemberName() string
}

// ExclusionHinter attaches a per-instance list of field names to skip. Types
// implementing it serialize their fields in alphabetical order.
//
// Deprecated: use `cache:"-"` struct tags instead. Kept for compatibility
// with legacy record types and scheduled for removal.
type ExclusionHinter interface {
	CacheExclusions() []string
}

// Serializer converts argument values into canonical Value trees, consulting
// an ExclusionPolicy. It is stateless apart from the immutable policy and
// safe for concurrent use on disjoint inputs.
type Serializer struct {
	policy *ExclusionPolicy
}

// NewSerializer creates a Serializer. A nil policy falls back to
// DefaultExclusionPolicy.
func NewSerializer(policy *ExclusionPolicy) *Serializer {
	if policy == nil {
		policy = DefaultExclusionPolicy()
	}

	return &Serializer{policy: policy}
}

// Serialize maps v to its canonical Value tree. It fails with
// UncachableArgumentError for unsupported kinds and for reference cycles.
func (s *Serializer) Serialize(v any) (Value, error) {
	return s.walk(reflect.ValueOf(v), map[uintptr]struct{}{})
}

// walk dispatches on the value category in priority order: exclusion,
// scalar, identity, enum member, record, sequence, set, mapping. path holds
// the pointers of the containers currently being walked for cycle detection.
func (s *Serializer) walk(rv reflect.Value, path map[uintptr]struct{}) (Value, error) {
	if !rv.IsValid() {
		return Scalar{Text: "nil"}, nil
	}

	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Scalar{Text: "nil"}, nil
		}

		rv = rv.Elem()
	}

	t := rv.Type()

	if s.policy.Excludes(t) {
		return Excluded{}, nil
	}

	if v, ok := s.dispatchMarker(rv, t); ok {
		return v, nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Scalar{Text: strconv.FormatBool(rv.Bool())}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Scalar{Text: strconv.FormatInt(rv.Int(), 10)}, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Scalar{Text: strconv.FormatUint(rv.Uint(), 10)}, nil

	case reflect.Float32, reflect.Float64:
		bits := 64
		if rv.Kind() == reflect.Float32 {
			bits = 32
		}

		return Scalar{Text: strconv.FormatFloat(rv.Float(), 'g', -1, bits)}, nil

	case reflect.String:
		return Scalar{Text: rv.String()}, nil

	case reflect.Ptr:
		if rv.IsNil() {
			return Scalar{Text: "nil"}, nil
		}

		return s.guarded(rv, path, func() (Value, error) {
			return s.walk(rv.Elem(), path)
		})

	case reflect.Struct:
		return s.record(rv, path)

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Scalar{Text: hex.EncodeToString(rv.Bytes())}, nil
		}

		if rv.IsNil() {
			return Sequence{}, nil
		}

		return s.guarded(rv, path, func() (Value, error) {
			return s.sequence(rv, path)
		})

	case reflect.Array:
		return s.sequence(rv, path)

	case reflect.Map:
		if rv.IsNil() {
			return Mapping{}, nil
		}

		return s.guarded(rv, path, func() (Value, error) {
			if isSetType(t) {
				return s.set(rv, path)
			}

			return s.mapping(rv, path)
		})

	default:
		return nil, &UncachableArgumentError{
			Type:   t.String(),
			Reason: "unsupported kind " + rv.Kind().String(),
		}
	}
}

// dispatchMarker handles the Identifiable and Member interfaces. Identity
// takes precedence over enum membership.
func (s *Serializer) dispatchMarker(rv reflect.Value, t reflect.Type) (Value, bool) {
	if !rv.CanInterface() {
		return nil, false
	}

	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil, false
	}

	switch m := rv.Interface().(type) {
	case Identifiable:
		return Identity{Type: typeName(t), ID: fmt.Sprintf("%v", m.CacheID())}, true
	case Member:
		return EnumMember{Type: typeName(t), Member: m.MemberName()}, true
	}

	return nil, false
}

// guarded runs fn with rv's pointer registered on the walk path, failing on
// revisit. Only true cycles fail; sharing the same object on sibling branches
// is fine.
func (s *Serializer) guarded(rv reflect.Value, path map[uintptr]struct{}, fn func() (Value, error)) (Value, error) {
	ptr := rv.Pointer()
	if _, ok := path[ptr]; ok {
		return nil, &UncachableArgumentError{
			Type:   rv.Type().String(),
			Reason: "reference cycle detected",
		}
	}

	path[ptr] = struct{}{}
	defer delete(path, ptr)

	return fn()
}

func (s *Serializer) record(rv reflect.Value, path map[uintptr]struct{}) (Value, error) {
	t := rv.Type()

	var hinted map[string]struct{}

	alphabetical := false

	if rv.CanInterface() {
		if h, ok := rv.Interface().(ExclusionHinter); ok {
			alphabetical = true
			hinted = make(map[string]struct{})

			for _, name := range h.CacheExclusions() {
				hinted[name] = struct{}{}
			}
		}
	}

	fields := make([]Field, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := f.Name

		if tagText, ok := f.Tag.Lookup("cache"); ok {
			tag := tagparser.Parse(tagText)
			if tag.Name == "-" || tag.HasOption("exclude") {
				continue
			}

			if tag.Name != "" {
				name = tag.Name
			}
		}

		if _, skip := hinted[name]; skip {
			continue
		}

		fv, err := s.walk(rv.Field(i), path)
		if err != nil {
			return nil, err
		}

		if _, excluded := fv.(Excluded); excluded {
			continue
		}

		fields = append(fields, Field{Name: name, Value: fv})
	}

	if alphabetical {
		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Name < fields[j].Name
		})
	}

	return Record{Fields: fields}, nil
}

func (s *Serializer) sequence(rv reflect.Value, path map[uintptr]struct{}) (Value, error) {
	elems := make([]Value, 0, rv.Len())

	for i := 0; i < rv.Len(); i++ {
		ev, err := s.walk(rv.Index(i), path)
		if err != nil {
			return nil, err
		}

		if _, excluded := ev.(Excluded); excluded {
			continue
		}

		elems = append(elems, ev)
	}

	return Sequence{Elems: elems}, nil
}

func (s *Serializer) set(rv reflect.Value, path map[uintptr]struct{}) (Value, error) {
	elems := make([]Value, 0, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		ev, err := s.walk(iter.Key(), path)
		if err != nil {
			return nil, err
		}

		if _, excluded := ev.(Excluded); excluded {
			continue
		}

		elems = append(elems, ev)
	}

	return newUnorderedSet(elems), nil
}

func (s *Serializer) mapping(rv reflect.Value, path map[uintptr]struct{}) (Value, error) {
	entries := make([]Entry, 0, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		kv, err := s.walk(iter.Key(), path)
		if err != nil {
			return nil, err
		}

		vv, err := s.walk(iter.Value(), path)
		if err != nil {
			return nil, err
		}

		if _, excluded := kv.(Excluded); excluded {
			continue
		}

		if _, excluded := vv.(Excluded); excluded {
			continue
		}

		entries = append(entries, Entry{Key: kv, Val: vv})
	}

	return newMapping(entries), nil
}

// isSetType reports whether t is the Go set idiom, map[T]struct{}.
func isSetType(t reflect.Type) bool {
	elem := t.Elem()

	return elem.Kind() == reflect.Struct && elem.NumField() == 0
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}
