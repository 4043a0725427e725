package decoder

import "math"

// PulsesPerQuarter is the number of timing clock pulses in one quarter note.
const PulsesPerQuarter = 24

// ClockState counts clock pulses for one source.
//
// Pulse counts pulses since the last quarter-note boundary and is always below PulsesPerQuarter.
// Delta counts pulses since the last emitted note event. Both restart at a quarter-note boundary
// and on Start, so a delta never spans more than one quarter note.
type ClockState struct {
	Pulse uint8
	Delta uint32
}

// Tick records one timing clock pulse and reports whether it completed a quarter note.
func (s *ClockState) Tick() bool {
	s.Pulse++
	if s.Delta < math.MaxUint32 {
		s.Delta++
	}
	if s.Pulse >= PulsesPerQuarter {
		s.Pulse = 0
		s.Delta = 0
		return true
	}
	return false
}

// Start discards any accumulated pulses.
func (s *ClockState) Start() {
	s.Pulse = 0
	s.Delta = 0
}

// TakeDelta returns the pulses accumulated since the previous note event and clears them.
func (s *ClockState) TakeDelta() uint32 {
	d := s.Delta
	s.Delta = 0
	return d
}
