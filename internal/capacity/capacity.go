// Package capacity guards operations that would otherwise materialize an
// unbounded number of names against a caller-supplied bound.
package capacity

import "fmt"

// ExceededError reports that an operation would produce more elements than
// the caller's limit allows. A limit of 0 means unbounded; Guard never
// returns an error in that case.
type ExceededError struct {
	Limit     uint64
	Attempted uint64
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("capacity exceeded: attempted %d elements, limit is %d", e.Attempted, e.Limit)
}

// Guard reports an *ExceededError once attempted exceeds limit. limit == 0
// disables the check.
func Guard(limit, attempted uint64) error {
	if limit == 0 {
		return nil
	}
	if attempted > limit {
		return &ExceededError{Limit: limit, Attempted: attempted}
	}
	return nil
}
