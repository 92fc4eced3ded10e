package schedule

import "fmt"

// Recency is how many games ago something last happened, or Unknown if it
// has not happened yet in the schedule. Unknown compares greater than any
// known distance.
type Recency struct {
	known bool
	ago   int
}

// UnknownRecency returns the recency of something never observed.
func UnknownRecency() Recency { return Recency{} }

// KnownRecency returns a recency of ago games. The most recent game is 1.
func KnownRecency(ago int) Recency { return Recency{known: true, ago: ago} }

// Less reports whether r is more recent than o.
func (r Recency) Less(o Recency) bool {
	if !r.known {
		return false
	}
	if !o.known {
		return true
	}
	return r.ago < o.ago
}

func (r Recency) String() string {
	if !r.known {
		return "unknown"
	}
	return fmt.Sprintf("%d ago", r.ago)
}

// MaxRecency returns the staler of a and b.
func MaxRecency(a, b Recency) Recency {
	if a.Less(b) {
		return b
	}
	return a
}

// MinRecency returns the more recent of a and b.
func MinRecency(a, b Recency) Recency {
	if b.Less(a) {
		return b
	}
	return a
}
