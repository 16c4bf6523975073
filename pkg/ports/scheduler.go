package ports

import "time"

// Deadline reports how much of a granted time budget is left.
type Deadline interface {
	TimeRemaining() time.Duration
}

// Callback is invoked by a Scheduler with the budget granted for this invocation.
type Callback func(Deadline)

// Scheduler grants cooperative time slices.
// RequestCallback schedules cb to run once, later, on the scheduler's single thread.
// Implementations must never run cb re-entrantly from inside RequestCallback.
type Scheduler interface {
	RequestCallback(cb Callback)
}
