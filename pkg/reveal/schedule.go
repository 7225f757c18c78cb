package reveal

import "time"

// Schedule describes the timing of a roll.
type Schedule struct {
	Ticks        int           // number of intermediate picks
	InitialDelay time.Duration // before the first tick
	BaseDelay    time.Duration // between ticks up to SlowAfter
	SlowAfter    int           // ticks after which SlowStep is added
	SlowStep     time.Duration
	SlowerAfter  int // ticks after which SlowerStep is added as well
	SlowerStep   time.Duration
}

// DefaultSchedule: 25 ticks, 300ms lead in, then 50ms, 70ms after tick 15
// and 110ms after tick 20.
var DefaultSchedule = Schedule{
	Ticks:        25,
	InitialDelay: 300 * time.Millisecond,
	BaseDelay:    50 * time.Millisecond,
	SlowAfter:    15,
	SlowStep:     20 * time.Millisecond,
	SlowerAfter:  20,
	SlowerStep:   40 * time.Millisecond,
}

// Delay returns the tier delay of tick (1-based). The delay between tick k
// and tick k+1 is Delay(k).
func (s Schedule) Delay(tick int) time.Duration {
	d := s.BaseDelay
	if tick > s.SlowAfter {
		d += s.SlowStep
	}
	if tick > s.SlowerAfter {
		d += s.SlowerStep
	}
	return d
}

// Total returns the time from starting a roll until it is done.
func (s Schedule) Total() time.Duration {
	total := s.InitialDelay
	for k := 1; k < s.Ticks; k++ {
		total += s.Delay(k)
	}
	return total
}
