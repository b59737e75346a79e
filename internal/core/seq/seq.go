package seq

import "strconv"

// Number is a visit sequence number which is never zero once advanced.
// Zero is reserved for "never visited", so a freshly created stamp never
// equals any live generation.
//
// Incremented once per simulation step, the uint32 space wraps after
// ~2.1 years at 64 steps/s; only equality is ever meaningful.
type Number uint32

// None is the zero value: never visited.
const None Number = 0

// Next returns the number following n, skipping None on wraparound.
func (n Number) Next() Number {
	n++
	if n == None {
		n = 1
	}
	return n
}

// IsNone reports whether n is the reserved "never visited" value.
func (n Number) IsNone() bool { return n == None }

// IsStepOf reports whether n falls on the given step of a period, for
// work that only needs to run every period-th step.
func (n Number) IsStepOf(step, period uint32) bool {
	return step == uint32(n)%period
}

func (n Number) String() string { return strconv.FormatUint(uint64(n), 10) }

// Counter hands out successive generations.
type Counter struct {
	current Number
}

// Advance moves to the next generation and returns it.
func (c *Counter) Advance() Number {
	c.current = c.current.Next()
	return c.current
}

// Current returns the last generation handed out, or None before the
// first Advance.
func (c *Counter) Current() Number { return c.current }
