package schedule

import (
	"math"
	"time"
)

// TTL returns the whole seconds until the rule's next invalidation instant.
// Fractions round up so an entry never outlives the instant.
func TTL(r Rule, now time.Time) int {
	return int(math.Ceil(r.Next(now).Sub(now).Seconds()))
}
