package cachekey

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Defaults for the recognized configuration surface.
const (
	// DefaultPrefix namespaces every generated key.
	DefaultPrefix = "easy_cache"

	// DefaultMaxValueLength is the canonical-text length beyond which an
	// argument segment is replaced by its digest.
	DefaultMaxValueLength = 100

	// DefaultMaxKeyLength bounds the final key. Memcached-compatible.
	DefaultMaxKeyLength = 220
)

var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)

// Options configures key generation. Zero values take defaults; the struct
// is copied on use and never mutated afterwards.
type Options struct {
	// Prefix namespaces every generated key.
	Prefix string

	// MaxValueLength is the serialization hashing threshold: canonical texts
	// longer than this are replaced by a 16-hex-character digest.
	MaxValueLength int

	// MaxKeyLength bounds the final key length.
	MaxKeyLength int

	// Policy controls type-based exclusion. Nil means
	// DefaultExclusionPolicy.
	Policy *ExclusionPolicy
}

func (o Options) withDefaults() Options {
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}

	if o.MaxValueLength == 0 {
		o.MaxValueLength = DefaultMaxValueLength
	}

	if o.MaxKeyLength == 0 {
		o.MaxKeyLength = DefaultMaxKeyLength
	}

	if o.Policy == nil {
		o.Policy = DefaultExclusionPolicy()
	}

	return o
}

// Validate checks the configuration after defaults are applied. The key
// length ceiling of 250 matches the hard limit of common cache backends.
func (o Options) Validate() error {
	o = o.withDefaults()

	return validation.ValidateStruct(&o,
		validation.Field(&o.Prefix, validation.Match(prefixPattern)),
		validation.Field(&o.MaxValueLength, validation.Min(digestLen+1)),
		validation.Field(&o.MaxKeyLength, validation.Min(2*digestLen), validation.Max(250)),
	)
}
