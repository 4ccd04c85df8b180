package cachekey

import "fmt"

// UncachableArgumentError reports an argument that cannot participate in key
// generation. Argument names the parameter and its position in the normalized
// argument list.
type UncachableArgumentError struct {
	Argument string
	Type     string
	Reason   string
}

func (e *UncachableArgumentError) Error() string {
	if e.Argument == "" {
		return fmt.Sprintf("value of type %s is not cachable: %s", e.Type, e.Reason)
	}

	return fmt.Sprintf("argument %s of type %s is not cachable: %s", e.Argument, e.Type, e.Reason)
}

// CacheKeyValidationError reports a key that cannot be repaired into a
// compliant form. Malformed characters and oversized keys are auto-corrected
// and never produce this error.
type CacheKeyValidationError struct {
	Reason string
}

func (e *CacheKeyValidationError) Error() string {
	return "cache key validation failed: " + e.Reason
}
