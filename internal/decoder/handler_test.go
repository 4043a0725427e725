package decoder

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	clock   = []byte{0xF8}
	start   = []byte{0xFA}
	stop    = []byte{0xFC}
	noteOn  = []byte{0x90, 0x3C, 0x64}
	noteOff = []byte{0x80, 0x3C, 0x00}
)

func feed(h *Handler, msgs ...[]byte) []string {
	var tokens []string
	for _, m := range msgs {
		if tok, ok := h.Handle(m); ok {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func repeat(msg []byte, n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = msg
	}
	return out
}

func TestHandlerTerminalCategoriesAreIgnored(t *testing.T) {
	h := NewHandler("in")
	feed(h, clock, clock, clock)
	before := h.Clock()

	for _, raw := range [][]byte{{}, {0xF0, 0x01, 0x02}, {0xB3, 0x40, 0x7F}, {0xFE}} {
		tok, ok := h.Handle(raw)
		assert.False(t, ok)
		assert.Empty(t, tok)
	}

	assert.Equal(t, before, h.Clock())
	assert.Zero(t, h.Len())
}

func TestHandlerQuarterNote(t *testing.T) {
	h := NewHandler("in")
	assert.Empty(t, feed(h, repeat(clock, 23)...))
	assert.EqualValues(t, 23, h.Clock().Pulse)

	assert.Equal(t, []string{"Q "}, feed(h, clock))
	assert.EqualValues(t, 0, h.Clock().Pulse)
	assert.Equal(t, []string{"Q "}, h.History())
}

func TestHandlerStartResetsMidCycle(t *testing.T) {
	h := NewHandler("in")
	feed(h, repeat(clock, 10)...)

	assert.Equal(t, []string{"Start "}, feed(h, start))
	assert.Equal(t, ClockState{}, h.Clock())

	assert.Empty(t, feed(h, repeat(clock, 14)...))
	assert.Empty(t, feed(h, repeat(clock, 9)...))
	assert.Equal(t, []string{"Q "}, feed(h, clock))
}

func TestHandlerDeltaTime(t *testing.T) {
	h := NewHandler("in")
	msgs := append(repeat(clock, 5), noteOn)
	assert.Equal(t, []string{"P05 N3c v64 "}, feed(h, msgs...))
	assert.Equal(t, []string{"N3c v64 "}, feed(h, noteOn))

	assert.Equal(t, []string{"P02 O3c "}, feed(h, clock, clock, noteOff))
}

func TestHandlerQuarterBoundaryRestartsDelta(t *testing.T) {
	h := NewHandler("in")
	msgs := append(repeat(clock, 26), noteOn)
	assert.Equal(t, []string{"Q ", "P02 N3c v64 "}, feed(h, msgs...))
}

func TestHandlerStartDiscardsDelta(t *testing.T) {
	h := NewHandler("in")
	msgs := append(repeat(clock, 7), start, noteOn)
	assert.Equal(t, []string{"Start ", "N3c v64 "}, feed(h, msgs...))
}

func TestHandlerEndKeepsClock(t *testing.T) {
	h := NewHandler("in")
	feed(h, clock, clock, clock)
	assert.Equal(t, []string{"End "}, feed(h, stop))
	assert.Equal(t, ClockState{Pulse: 3, Delta: 3}, h.Clock())
}

func TestHandlerRawFallback(t *testing.T) {
	h := NewHandler("in")
	assert.Equal(t, []string{"Ma1020304 "}, feed(h, []byte{0xA1, 0x02, 0x03, 0x04}))
}

func TestHandlerHistoryIsACopy(t *testing.T) {
	h := NewHandler("in")
	feed(h, stop)
	hist := h.History()
	hist[0] = "changed"
	assert.Equal(t, []string{"End "}, h.History())
	assert.Equal(t, "in", h.Source())
}

// Two sources fed concurrently keep independent histories whose content depends only on their
// own input.
func TestHandlerIndependentSources(t *testing.T) {
	seqA := append(repeat(clock, 5), noteOn)
	seqA = append(seqA, repeat(clock, 24)...)
	seqA = append(seqA, noteOff)
	seqB := append([][]byte{start}, repeat(clock, 3)...)
	seqB = append(seqB, noteOn, stop)

	const rounds = 50
	a, b := NewHandler("a"), NewHandler("b")
	var wg sync.WaitGroup
	for _, job := range []struct {
		h   *Handler
		seq [][]byte
	}{{a, seqA}, {b, seqB}} {
		wg.Add(1)
		go func(h *Handler, seq [][]byte) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				feed(h, seq...)
			}
		}(job.h, job.seq)
	}
	wg.Wait()

	refA, refB := NewHandler("a"), NewHandler("b")
	for i := 0; i < rounds; i++ {
		feed(refA, seqA...)
		feed(refB, seqB...)
	}
	require.Equal(t, refA.History(), a.History())
	require.Equal(t, refB.History(), b.History())
	assert.Equal(t, "Start P03 N3c v64 End ", strings.Join(b.History()[:3], ""))
}
