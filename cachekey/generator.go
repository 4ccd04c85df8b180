package cachekey

import (
	"errors"
	"fmt"
)

// Generator is the key generation engine facade: it normalizes a call,
// serializes every argument and assembles the final key. Construction
// validates the configuration once; generation is pure and safe for
// concurrent use.
type Generator struct {
	serializer *Serializer
	assembler  *Assembler
}

// NewGenerator validates opts and builds a Generator.
func NewGenerator(opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	opts = opts.withDefaults()

	return &Generator{
		serializer: NewSerializer(opts.Policy),
		assembler:  NewAssembler(opts),
	}, nil
}

// GenerateKey produces the deterministic cache key for one invocation.
// Arguments excluded by policy contribute nothing; everything else is
// serialized in normalized order. Fails with UncachableArgumentError when an
// argument cannot be serialized and CacheKeyValidationError when no
// compliant key can be produced.
func (g *Generator) GenerateKey(sig CallSignature, call CallArguments) (string, error) {
	args := Normalize(sig, call)
	segments := make([]string, 0, len(args))

	for i, arg := range args {
		v, err := g.serializer.Serialize(arg.Value)
		if err != nil {
			var uerr *UncachableArgumentError
			if errors.As(err, &uerr) && uerr.Argument == "" {
				uerr.Argument = fmt.Sprintf("%s (position %d)", arg.Name, i)
			}

			return "", err
		}

		if _, excluded := v.(Excluded); excluded {
			continue
		}

		segments = append(segments, g.assembler.Segment(arg.Name, v))
	}

	return g.assembler.Assemble(sig.Function, segments)
}
