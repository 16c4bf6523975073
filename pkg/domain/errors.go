package domain

import "errors"

// ErrRenderInFlight is returned by Render under the reject policy when a pass has not committed yet.
var ErrRenderInFlight = errors.New("render pass in flight")

// ErrSnapshotNotFound is returned when a snapshot ID cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrNoContainer is returned when Render is called without a host container.
var ErrNoContainer = errors.New("no host container")

// ErrEngineStopped is returned when work is submitted to a scheduler that is no longer running.
var ErrEngineStopped = errors.New("engine stopped")
