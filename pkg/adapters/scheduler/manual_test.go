package scheduler_test

import (
	"testing"
	"time"

	"github.com/aretw0/reactless/pkg/adapters/scheduler"
	"github.com/aretw0/reactless/pkg/ports"
	"github.com/stretchr/testify/assert"
)

func TestUnitDeadline(t *testing.T) {
	d := scheduler.NewUnitDeadline(2)
	assert.Positive(t, d.TimeRemaining())
	assert.Positive(t, d.TimeRemaining())
	assert.Equal(t, time.Duration(0), d.TimeRemaining())
	assert.Equal(t, time.Duration(0), d.TimeRemaining())
}

func TestManual_StepRunsInOrder(t *testing.T) {
	m := scheduler.NewManual()
	assert.False(t, m.Step(1), "empty queue")

	var got []string
	m.RequestCallback(func(ports.Deadline) { got = append(got, "a") })
	m.RequestCallback(func(ports.Deadline) { got = append(got, "b") })
	assert.Equal(t, 2, m.Pending())

	assert.True(t, m.Step(1))
	assert.Equal(t, []string{"a"}, got)
	assert.True(t, m.Step(1))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, m.Grants())
}

func TestManual_RunUntil(t *testing.T) {
	m := scheduler.NewManual()
	units := 0

	var loop ports.Callback
	loop = func(d ports.Deadline) {
		for d.TimeRemaining() > 0 {
			units++
		}
		m.RequestCallback(loop)
	}
	m.RequestCallback(loop)

	steps := m.RunUntil(3, func() bool { return units >= 7 }, 100)
	assert.Equal(t, 3, steps)
	assert.Equal(t, 9, units)

	// maxSteps bounds a loop that never finishes.
	steps = m.RunUntil(1, func() bool { return false }, 5)
	assert.Equal(t, 5, steps)
}
