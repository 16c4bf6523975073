package scheduler

import (
	"time"

	"github.com/aretw0/reactless/pkg/ports"
)

// Manual is a scheduler driven explicitly by the caller.
// It is not safe for concurrent use.
type Manual struct {
	queue  []ports.Callback
	grants int
}

var _ ports.Scheduler = (*Manual)(nil)

// NewManual creates a scheduler with an empty queue.
func NewManual() *Manual {
	return &Manual{}
}

// RequestCallback queues cb until the next Step.
func (m *Manual) RequestCallback(cb ports.Callback) {
	m.queue = append(m.queue, cb)
}

// Pending returns the number of queued callbacks.
func (m *Manual) Pending() int {
	return len(m.queue)
}

// Grants returns how many callbacks have been run so far.
func (m *Manual) Grants() int {
	return m.grants
}

// Step runs the oldest queued callback with a budget of units units of work.
// It returns false when nothing was queued.
func (m *Manual) Step(units int) bool {
	if len(m.queue) == 0 {
		return false
	}
	cb := m.queue[0]
	m.queue = m.queue[1:]
	m.grants++
	cb(NewUnitDeadline(units))
	return true
}

// RunUntil steps with the given budget until done reports true, the queue is
// empty, or maxSteps callbacks have run. It returns the number of steps taken.
func (m *Manual) RunUntil(units int, done func() bool, maxSteps int) int {
	steps := 0
	for steps < maxSteps && !done() {
		if !m.Step(units) {
			break
		}
		steps++
	}
	return steps
}

// UnitDeadline is a budget counted in units of work instead of time.
// Every query that finds budget left consumes one unit, so a work loop that
// checks the deadline once per unit performs exactly the granted number of units.
type UnitDeadline struct {
	left int
}

// NewUnitDeadline creates a budget of n units.
func NewUnitDeadline(n int) *UnitDeadline {
	return &UnitDeadline{left: n}
}

// TimeRemaining reports a generous budget while units are left, zero afterwards.
func (d *UnitDeadline) TimeRemaining() time.Duration {
	if d.left <= 0 {
		return 0
	}
	d.left--
	return time.Second
}
