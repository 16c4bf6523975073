// Package scheduler provides ports.Scheduler implementations.
//
// Manual grants budgets measured in units of work and only runs when told to,
// which makes time slicing deterministic in tests. Loop grants wall-clock
// frame budgets from a single goroutine and doubles as the thread that owns
// the engine: other goroutines hand work to it with Submit and Do.
package scheduler
