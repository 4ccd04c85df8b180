package smartcache

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-smart-cache/cachekey"
)

// signatures caches the resolved identity per function pointer so hot call
// paths skip the runtime symbol lookup after the first call.
var signatures = xsync.NewMapOf[uintptr, cachekey.CallSignature]()

// SignatureFor resolves a stable call signature for fn, a plain function
// value. params names the function's parameters in declaration order.
func SignatureFor(fn any, params ...string) cachekey.CallSignature {
	return signatureFor(fn, params, false)
}

// MethodSignatureFor resolves a stable call signature for fn, a method value
// or method expression. params names only the method's regular parameters;
// the receiver slot is filled in here and dropped during normalization. For
// method expressions pass the receiver as the first positional argument at
// call time.
func MethodSignatureFor(fn any, params ...string) cachekey.CallSignature {
	withReceiver := append([]string{"self"}, params...)

	return signatureFor(fn, withReceiver, true)
}

func signatureFor(fn any, params []string, isMethod bool) cachekey.CallSignature {
	ptr := reflect.ValueOf(fn).Pointer()

	sig, _ := signatures.LoadOrCompute(ptr, func() cachekey.CallSignature {
		return cachekey.CallSignature{
			Function: functionIdentity(ptr),
			Params:   params,
			IsMethod: isMethod,
		}
	})

	return sig
}

// functionIdentity derives the key namespace for a function pointer from its
// runtime symbol name. Identities are build-independent: the module path is
// dropped, method-value suffixes and pointer markers are stripped, and each
// path element is normalized to snake_case.
//
//	github.com/acme/app/users.(*Service).Fetch-fm -> users.service.fetch
func functionIdentity(ptr uintptr) string {
	f := runtime.FuncForPC(ptr)
	if f == nil {
		return "unknown"
	}

	name := strings.TrimSuffix(f.Name(), "-fm")

	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	name = strings.NewReplacer("(", "", ")", "", "*", "").Replace(name)

	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = toSnake(part)
	}

	return strings.Join(parts, ".")
}
