package sender

import (
	"errors"
	"sync"
	"testing"

	"github.com/leandrodaf/midimon/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOut struct {
	mu     sync.Mutex
	sent   [][]byte
	err    error
	closed int
}

func (f *fakeOut) Port() contracts.DeviceInfo { return contracts.DeviceInfo{Name: "Synth"} }

func (f *fakeOut) Send(raw []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, append([]byte(nil), raw...))
	return nil
}

func (f *fakeOut) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func TestHandleClockForwardsRealtime(t *testing.T) {
	out := &fakeOut{}
	s := New(out, 1, nil)

	for _, b := range []byte{0xFA, 0xF8, 0xF8, 0xFE, 0x90, 0xFB, 0xFC} {
		require.NoError(t, s.HandleClock(b))
	}

	assert.Equal(t, [][]byte{{0xFA}, {0xF8}, {0xF8}, {0xFB}, {0xFC}}, out.sent)
	assert.EqualValues(t, 2, s.Ticks())
}

func TestHandleClockWithoutOutput(t *testing.T) {
	s := New(nil, 3, nil)
	require.NoError(t, s.HandleClock(0xF8))
	assert.EqualValues(t, 1, s.Ticks())
	assert.EqualValues(t, 3, s.Channel())

	_, ok := s.Output()
	assert.False(t, ok)
}

func TestHandleClockSendError(t *testing.T) {
	boom := errors.New("port gone")
	s := New(&fakeOut{err: boom}, 1, nil)
	err := s.HandleClock(0xF8)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Synth")
}

func TestChannelFallsBack(t *testing.T) {
	assert.Equal(t, DefaultChannel, New(nil, 0, nil).Channel())
	assert.Equal(t, DefaultChannel, New(nil, 17, nil).Channel())
	assert.EqualValues(t, 16, New(nil, 16, nil).Channel())
}

func TestClockRefDetach(t *testing.T) {
	s := New(nil, 1, nil)
	_, ok := s.ClockInput()
	assert.False(t, ok, "no clock input set")

	ref := NewClockRef("Clock In")
	s.SetClockInput(ref)
	name, ok := s.ClockInput()
	require.True(t, ok)
	assert.Equal(t, "Clock In", name)

	ref.Detach()
	ref.Detach()
	_, ok = s.ClockInput()
	assert.False(t, ok)

	// the hook keeps working after the clock connection is gone
	assert.NoError(t, s.HandleClock(0xF8))
}

func TestCloseOwnsOnlyOutput(t *testing.T) {
	out := &fakeOut{}
	s := New(out, 1, nil)
	ref := NewClockRef("Clock In")
	s.SetClockInput(ref)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, out.closed)

	_, ok := s.ClockInput()
	assert.True(t, ok, "closing the sender must not detach the clock")
	assert.ErrorIs(t, s.HandleClock(0xF8), ErrClosed)
}
