package reveal

import "time"

// Timer is a pending delayed call. Stop prevents the call from firing and
// reports whether it was still pending.
// An alias, so Clock implementations do not need to import this package.
type Timer = interface {
	Stop() bool
}

// Clock schedules delayed calls. Implementations must never invoke f
// synchronously from within AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// RealClock returns a Clock backed by time.AfterFunc.
func RealClock() Clock {
	return realClock{}
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
