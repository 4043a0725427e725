package decoder

import (
	"encoding/hex"
	"strconv"
)

const (
	tokenQuarter = "Q "
	tokenStart   = "Start "
	tokenEnd     = "End "
)

// AppendToken appends the textual form of ev to dst. A non-zero delta is rendered as a P prefix in
// front of note events and ignored for every other category. Quarter markers are rendered for
// CategoryTimingClock; callers only pass clock events that closed a quarter note.
// Terminal categories append nothing.
func AppendToken(dst []byte, ev Event, delta uint32) []byte {
	switch ev.Category {
	case CategoryTimingClock:
		return append(dst, tokenQuarter...)
	case CategoryStart:
		return append(dst, tokenStart...)
	case CategoryEnd:
		return append(dst, tokenEnd...)
	case CategoryNoteOff:
		dst = appendDelta(dst, delta)
		dst = append(dst, 'O')
		dst = appendHex2(dst, uint32(ev.Note))
		return append(dst, ' ')
	case CategoryNoteOn:
		dst = appendDelta(dst, delta)
		dst = append(dst, 'N')
		dst = appendHex2(dst, uint32(ev.Note))
		dst = append(dst, ' ', 'v')
		dst = appendHex2(dst, uint32(ev.Velocity))
		return append(dst, ' ')
	case CategoryRaw:
		dst = append(dst, 'M')
		dst = append(dst, hex.EncodeToString(ev.Raw)...)
		return append(dst, ' ')
	}
	return dst
}

// Format is AppendToken into a fresh string.
func Format(ev Event, delta uint32) string {
	return string(AppendToken(make([]byte, 0, 16), ev, delta))
}

func appendDelta(dst []byte, delta uint32) []byte {
	if delta == 0 {
		return dst
	}
	dst = append(dst, 'P')
	dst = appendHex2(dst, delta)
	return append(dst, ' ')
}

// appendHex2 writes v as lowercase hex, zero padded to two digits and widened past 0xff.
func appendHex2(dst []byte, v uint32) []byte {
	if v < 0x10 {
		dst = append(dst, '0')
	}
	return strconv.AppendUint(dst, uint64(v), 16)
}
