package decoder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockStateQuarterCycle(t *testing.T) {
	var s ClockState
	for i := 1; i < PulsesPerQuarter; i++ {
		assert.False(t, s.Tick(), "pulse %d", i)
	}
	assert.Equal(t, ClockState{Pulse: 23, Delta: 23}, s)

	assert.True(t, s.Tick())
	assert.Equal(t, ClockState{}, s)
}

func TestClockStateStart(t *testing.T) {
	s := ClockState{Pulse: 10, Delta: 7}
	s.Start()
	assert.Equal(t, ClockState{}, s)
}

func TestClockStateTakeDelta(t *testing.T) {
	var s ClockState
	s.Tick()
	s.Tick()
	assert.EqualValues(t, 2, s.TakeDelta())
	assert.EqualValues(t, 0, s.TakeDelta())
	assert.EqualValues(t, 2, s.Pulse)
}

func TestClockStateDeltaSaturates(t *testing.T) {
	s := ClockState{Delta: math.MaxUint32}
	s.Tick()
	assert.EqualValues(t, uint32(math.MaxUint32), s.Delta)
}
