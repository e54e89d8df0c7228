package cli

import (
	"sync"

	"github.com/jonboulle/clockwork"
)

// appClock supplies "now" for commands that render without an explicit
// instant. Tests swap in a fake clock so default-time renders stay
// deterministic.
var (
	clockMu  sync.RWMutex
	appClock clockwork.Clock = clockwork.NewRealClock()
)

// SetClock replaces the clock used for default instants. Intended for
// tests; pass nil to restore the real clock.
func SetClock(c clockwork.Clock) {
	clockMu.Lock()
	defer clockMu.Unlock()
	if c == nil {
		c = clockwork.NewRealClock()
	}
	appClock = c
}

func currentClock() clockwork.Clock {
	clockMu.RLock()
	defer clockMu.RUnlock()
	return appClock
}
