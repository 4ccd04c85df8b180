package cachekey

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
	hex "github.com/tmthrgd/go-hex"
)

// Separator delimits the prefix, function identity and argument segments.
const Separator = ":"

// digestLen is the hex length of collision-avoidance digests.
const digestLen = 16

// keyCharPattern matches every character a cache backend may reject.
var keyCharPattern = regexp.MustCompile(`[^A-Za-z0-9._:-]`)

// Assembler folds serialized argument segments into a compliant cache key:
// bounded length, restricted charset, deterministic for equal inputs.
type Assembler struct {
	prefix         string
	maxValueLength int
	maxKeyLength   int
}

// NewAssembler creates an Assembler from opts, applying defaults to zero
// values.
func NewAssembler(opts Options) *Assembler {
	opts = opts.withDefaults()

	return &Assembler{
		prefix:         opts.Prefix,
		maxValueLength: opts.MaxValueLength,
		maxKeyLength:   opts.MaxKeyLength,
	}
}

// Digest returns the fixed-length digest that replaces canonical texts
// exceeding the value length threshold. Identical text always yields the
// identical digest; this is the sole mechanism bounding segment size for
// large nested payloads.
func Digest(text string) string {
	sum := sha256.Sum256([]byte(text))

	return hex.EncodeToString(sum[:digestLen/2])
}

// Segment renders one normalized argument as name:text, digesting oversized
// canonical texts.
func (a *Assembler) Segment(name string, v Value) string {
	text := v.Canonical()
	if len(text) > a.maxValueLength {
		text = Digest(text)
	}

	if name == "" {
		return text
	}

	return name + Separator + text
}

// Assemble joins prefix, identity and segments, then repairs charset and
// length violations. Malformed characters become underscores; an oversized
// key keeps a readable head and is folded with a fingerprint of the full
// pre-fold key, preserving determinism. Only an empty function identity is
// unrecoverable.
func (a *Assembler) Assemble(identity string, segments []string) (string, error) {
	if identity == "" {
		return "", &CacheKeyValidationError{Reason: "empty function identity"}
	}

	parts := make([]string, 0, len(segments)+2)
	if a.prefix != "" {
		parts = append(parts, a.prefix)
	}

	parts = append(parts, identity)
	parts = append(parts, segments...)

	key := strings.Join(parts, Separator)
	key = keyCharPattern.ReplaceAllString(key, "_")

	if len(key) > a.maxKeyLength {
		fold := fmt.Sprintf("%016x", xxhash.Sum64String(key))
		key = key[:a.maxKeyLength-digestLen-1] + "." + fold
	}

	return key, nil
}
