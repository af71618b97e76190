// Package clock provides an injectable time source so deadline logic
// can be tested deterministically. Production code takes a Clock and
// calls Now through it instead of time.Now.
package clock

import "time"

// Clock supplies the current wall-clock time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Real returns a Clock backed by time.Now.
func Real() Clock { return realClock{} }
