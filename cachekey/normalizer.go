package cachekey

import (
	"sort"
	"strconv"
)

// CallSignature identifies a decorated callable: its qualified name, declared
// parameter names in order, and whether it is a method. Derived once per
// callable and immutable afterwards.
//
// IsMethod means the receiver is passed as the first positional value
// (method-expression calling convention); that value never reaches
// serialization.
type CallSignature struct {
	Function string
	Params   []string
	IsMethod bool
}

// CallArguments captures one invocation: positional values in call order and
// keyword values for named parameters.
type CallArguments struct {
	Positional []any
	Keyword    map[string]any
}

// NormalizedArgument is one named argument in declared-parameter order.
type NormalizedArgument struct {
	Name  string
	Value any
}

// Normalize maps a call onto the declared parameter order. The receiver slot
// is dropped for methods, keyword values merge into their named slots,
// surplus positional values are named by index, and keyword names without a
// declared slot are appended in alphabetical order. The result is stable
// across invocations with an identical signature; no values are sorted here
// (ordering of unordered data happens inside serialization).
func Normalize(sig CallSignature, call CallArguments) []NormalizedArgument {
	params := sig.Params
	positional := call.Positional

	if sig.IsMethod {
		if len(positional) > 0 {
			positional = positional[1:]
		}

		if len(params) > 0 {
			params = params[1:]
		}
	}

	declared := make(map[string]struct{}, len(params))
	for _, p := range params {
		declared[p] = struct{}{}
	}

	out := make([]NormalizedArgument, 0, len(positional)+len(call.Keyword))

	for i, p := range params {
		if i < len(positional) {
			out = append(out, NormalizedArgument{Name: p, Value: positional[i]})

			continue
		}

		if v, ok := call.Keyword[p]; ok {
			out = append(out, NormalizedArgument{Name: p, Value: v})
		}
	}

	// Variadic calls can carry more values than declared names.
	for i := len(params); i < len(positional); i++ {
		out = append(out, NormalizedArgument{Name: "arg" + strconv.Itoa(i), Value: positional[i]})
	}

	extra := make([]string, 0, len(call.Keyword))

	for name := range call.Keyword {
		if _, ok := declared[name]; ok {
			continue
		}

		extra = append(extra, name)
	}

	sort.Strings(extra)

	for _, name := range extra {
		out = append(out, NormalizedArgument{Name: name, Value: call.Keyword[name]})
	}

	return out
}
