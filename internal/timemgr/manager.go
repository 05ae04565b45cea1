// Package timemgr turns a move budget into a deadline, grounded on the
// teacher's pkg/search/time.Manager: a small interface with
// GetDeadline/Expired instead of a bare time.Sleep computed inline, so
// the graceful-stop sequencing of a search reads the same way the
// teacher's iterative-deepening loop checks limits.Time.Expired().
package timemgr

import "time"

// Manager reports whether a search's time budget has run out.
type Manager interface {
	// GetDeadline fixes the internal deadline from now.
	GetDeadline()

	// Expired reports whether the deadline has passed.
	Expired() bool

	// Remaining returns the time left until the deadline, clamped to
	// zero once it has passed.
	Remaining() time.Duration
}

// MoveManager is the time manager used when a caller supplies a single
// fixed move-time budget (spec.md's max_time_ms), mirroring the
// teacher's MoveManager: the deadline is fixed and never extended.
type MoveManager struct {
	Duration time.Duration
	deadline time.Time
}

var _ Manager = (*MoveManager)(nil)

func (m *MoveManager) GetDeadline() {
	m.deadline = time.Now().Add(m.Duration)
}

func (m *MoveManager) Expired() bool {
	return !time.Now().Before(m.deadline)
}

func (m *MoveManager) Remaining() time.Duration {
	d := time.Until(m.deadline)
	if d < 0 {
		return 0
	}
	return d
}
