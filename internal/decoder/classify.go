// Package decoder classifies raw MIDI messages, tracks clock timing per source and renders the
// resulting events as compact text tokens.
package decoder

import "github.com/leandrodaf/midimon/sdk/contracts"

// Category is the kind of a classified message.
type Category int

const (
	CategoryEmpty Category = iota
	CategorySysEx
	CategoryControlChange
	CategoryTimingClock
	CategoryStart
	CategoryEnd
	CategoryOtherRealtime
	CategoryNoteOff
	CategoryNoteOn
	CategoryRaw
)

var categoryNames = [...]string{
	CategoryEmpty:         "Empty",
	CategorySysEx:         "SysEx",
	CategoryControlChange: "ControlChange",
	CategoryTimingClock:   "TimingClock",
	CategoryStart:         "Start",
	CategoryEnd:           "End",
	CategoryOtherRealtime: "OtherRealtime",
	CategoryNoteOff:       "NoteOff",
	CategoryNoteOn:        "NoteOn",
	CategoryRaw:           "Raw",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// Terminal reports whether messages of this category are suppressed: they produce no token and
// leave clock state and history untouched.
func (c Category) Terminal() bool {
	switch c {
	case CategoryEmpty, CategorySysEx, CategoryControlChange, CategoryOtherRealtime:
		return true
	}
	return false
}

// Event is a classified message. Note and Velocity are set for note events only; Raw holds a copy
// of the message bytes for CategoryRaw.
type Event struct {
	Category Category
	Note     uint8
	Velocity uint8
	Raw      []byte
}

type rule struct {
	category Category
	match    func(raw []byte) bool
}

func statusIs(raw []byte, cmd contracts.MIDICommand) bool {
	return len(raw) > 0 && raw[0]&contracts.StatusMask == byte(cmd)
}

func single(raw []byte, cmd contracts.MIDICommand) bool {
	return len(raw) == 1 && raw[0] == byte(cmd)
}

// rules is evaluated top to bottom and the first match wins. Several leading bytes are ambiguous
// (0xF8 also matches the system mask, 0x90 with velocity 0 is a note off), so order matters.
// Every predicate is safe on empty input. The last rule matches everything.
var rules = []rule{
	{CategoryEmpty, func(raw []byte) bool { return len(raw) == 0 }},
	{CategorySysEx, func(raw []byte) bool { return len(raw) > 0 && raw[0] == byte(contracts.SysEx) }},
	// Some synths (Juno 106) send a burst of these when all keys are released.
	{CategoryControlChange, func(raw []byte) bool { return statusIs(raw, contracts.ControlChange) }},
	{CategoryTimingClock, func(raw []byte) bool { return single(raw, contracts.TimingClock) }},
	{CategoryStart, func(raw []byte) bool { return single(raw, contracts.Start) }},
	{CategoryEnd, func(raw []byte) bool { return single(raw, contracts.Stop) }},
	{CategoryOtherRealtime, func(raw []byte) bool { return statusIs(raw, 0xF0) }},
	{CategoryNoteOff, func(raw []byte) bool {
		return len(raw) == 3 && (statusIs(raw, contracts.NoteOn) && raw[2] == 0 || statusIs(raw, contracts.NoteOff))
	}},
	{CategoryNoteOn, func(raw []byte) bool { return len(raw) == 3 && statusIs(raw, contracts.NoteOn) }},
	{CategoryRaw, func([]byte) bool { return true }},
}

// Classify maps a raw message to exactly one event. It never fails and never retains raw.
func Classify(raw []byte) Event {
	for _, r := range rules {
		if !r.match(raw) {
			continue
		}
		switch r.category {
		case CategoryNoteOff:
			return Event{Category: CategoryNoteOff, Note: raw[1]}
		case CategoryNoteOn:
			return Event{Category: CategoryNoteOn, Note: raw[1], Velocity: raw[2]}
		case CategoryRaw:
			return Event{Category: CategoryRaw, Raw: append([]byte(nil), raw...)}
		default:
			return Event{Category: r.category}
		}
	}
	// unreachable: the last rule always matches
	return Event{Category: CategoryRaw, Raw: append([]byte(nil), raw...)}
}
