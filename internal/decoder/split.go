package decoder

import "github.com/leandrodaf/midimon/sdk/contracts"

// MessageLength returns the total length in bytes, status included, of a message starting with
// status. It returns 0 for SysEx, whose length is only known from its terminator, and 1 for bytes
// that are not status bytes.
func MessageLength(status byte) int {
	switch {
	case status < 0x80:
		return 1
	case status < 0xC0, status >= 0xE0 && status < 0xF0:
		return 3
	case status < 0xE0:
		return 2
	}
	switch status {
	case byte(contracts.SysEx):
		return 0
	case 0xF1, 0xF3:
		return 2
	case 0xF2:
		return 3
	}
	return 1
}

// Split cuts a buffer that may hold several messages into single messages. Realtime bytes are
// returned on their own wherever they appear, including inside SysEx. Running status is expanded
// so every returned message starts with its status byte. A trailing incomplete message and data
// bytes with no status to attach to are returned as they are, so nothing is dropped.
func Split(data []byte) [][]byte {
	s := splitter{}
	for _, b := range data {
		s.feed(b)
	}
	s.flush()
	return s.out
}

type splitter struct {
	out     [][]byte
	cur     []byte
	want    int
	running byte
	sysex   bool
	stray   bool
}

func (s *splitter) flush() {
	if len(s.cur) > 0 {
		s.out = append(s.out, s.cur)
	}
	s.cur, s.want, s.stray = nil, 0, false
}

func (s *splitter) feed(b byte) {
	switch {
	case b >= byte(contracts.TimingClock):
		s.out = append(s.out, []byte{b})
		return
	case b == byte(contracts.SysEx):
		s.flush()
		s.cur, s.sysex, s.running = []byte{b}, true, 0
		return
	case s.sysex && b == byte(contracts.SysExEnd):
		s.cur = append(s.cur, b)
		s.sysex = false
		s.flush()
		return
	case s.sysex && b < 0x80:
		s.cur = append(s.cur, b)
		return
	}

	if b >= 0x80 {
		// any other status byte also ends an unterminated SysEx
		s.sysex = false
		s.flush()
		s.cur, s.want = []byte{b}, MessageLength(b)
		if b < 0xF0 {
			s.running = b
		} else {
			s.running = 0
		}
		s.complete()
		return
	}

	switch {
	case len(s.cur) > 0 && !s.stray:
		s.cur = append(s.cur, b)
	case s.running != 0:
		s.flush()
		s.cur, s.want = []byte{s.running, b}, MessageLength(s.running)
	default:
		s.cur = append(s.cur, b)
		s.stray = true
		return
	}
	s.complete()
}

func (s *splitter) complete() {
	if len(s.cur) >= s.want && s.want > 0 {
		s.flush()
	}
}
