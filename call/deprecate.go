package call

import (
	"sync"

	"github.com/ardnew/tally/log"
)

//nolint:gochecknoglobals
var deprecateOnce sync.Once

// warnDeprecated emits a single per-process notice steering callers from
// the normalizing entry points toward direct construction. The notice is
// diagnostic only and never affects results.
func warnDeprecated() {
	deprecateOnce.Do(func() {
		log.Warn("call.Normalize and call.NormalizeLegacy are deprecated; " +
			"construct entries with call.Defer and collect with call.ListOf")
	})
}
