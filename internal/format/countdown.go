// Package format holds pure display projections. Nothing here reads or
// writes state; presentation layers call these as often as they like.
package format

import (
	"fmt"
	"time"
)

// SecondsLeft returns the whole seconds remaining until deadline,
// clamped to zero once the deadline has passed.
func SecondsLeft(deadline, now time.Time) int {
	left := int(deadline.Sub(now) / time.Second)
	if left < 0 {
		return 0
	}
	return left
}

// Countdown renders seconds as minutes:seconds with zero-padded
// seconds, e.g. 359 -> "5:59".
func Countdown(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
