package solver

import (
	"errors"
	"fmt"
)

// ErrNoPatterns reports that a day's evidence eliminates every candidate
// pattern. Nothing is written to the accumulator when this is returned.
var ErrNoPatterns = errors.New("no weather patterns match the recorded evidence")

// StarConflictError reports a "no star" assertion colliding with a star
// previously recorded at the same minute. Hour and Minute locate the
// conflict in clock time so callers can point at the offending evidence.
type StarConflictError struct {
	Hour   int
	Minute int
}

func (e *StarConflictError) Error() string {
	return fmt.Sprintf("star conflict at %02d:%02d: minute is already recorded as having a star", e.Hour, e.Minute)
}
