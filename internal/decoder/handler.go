package decoder

import "sync"

// Handler decodes the messages of one source. It owns the source's clock state and token history;
// Handle is atomic, so no caller can observe a half-updated clock.
type Handler struct {
	mu      sync.Mutex
	source  string
	clock   ClockState
	history []string
	buf     []byte
}

// NewHandler creates a handler for the named source.
func NewHandler(source string) *Handler {
	return &Handler{source: source, buf: make([]byte, 0, 32)}
}

// Source returns the display name the handler was created with.
func (h *Handler) Source() string {
	return h.source
}

// Handle decodes one raw message. It returns the emitted token and true, or false when the message
// produced no token (terminal categories and clock pulses inside a quarter note).
func (h *Handler) Handle(raw []byte) (string, bool) {
	ev := Classify(raw)
	if ev.Category.Terminal() {
		return "", false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var delta uint32
	switch ev.Category {
	case CategoryTimingClock:
		if !h.clock.Tick() {
			return "", false
		}
	case CategoryStart:
		h.clock.Start()
	case CategoryNoteOff, CategoryNoteOn:
		delta = h.clock.TakeDelta()
	}

	h.buf = AppendToken(h.buf[:0], ev, delta)
	token := string(h.buf)
	h.history = append(h.history, token)
	return token, true
}

// History returns a copy of the tokens emitted so far, oldest first.
func (h *Handler) History() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.history...)
}

// Len returns the number of tokens emitted so far.
func (h *Handler) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.history)
}

// Clock returns a snapshot of the clock state.
func (h *Handler) Clock() ClockState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clock
}
