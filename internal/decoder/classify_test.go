package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want Event
	}{
		{"empty", []byte{}, Event{Category: CategoryEmpty}},
		{"nil", nil, Event{Category: CategoryEmpty}},
		{"sysex unterminated", []byte{0xF0, 0x7E, 0x00}, Event{Category: CategorySysEx}},
		{"sysex alone", []byte{0xF0}, Event{Category: CategorySysEx}},
		{"control change", []byte{0xB3, 0x40, 0x7F}, Event{Category: CategoryControlChange}},
		{"control change short", []byte{0xB0}, Event{Category: CategoryControlChange}},
		{"timing clock", []byte{0xF8}, Event{Category: CategoryTimingClock}},
		{"start", []byte{0xFA}, Event{Category: CategoryStart}},
		{"stop", []byte{0xFC}, Event{Category: CategoryEnd}},
		{"continue", []byte{0xFB}, Event{Category: CategoryOtherRealtime}},
		{"active sensing", []byte{0xFE}, Event{Category: CategoryOtherRealtime}},
		{"clock with trailing bytes", []byte{0xF8, 0x00}, Event{Category: CategoryOtherRealtime}},
		{"song position", []byte{0xF2, 0x10, 0x20}, Event{Category: CategoryOtherRealtime}},
		{"note off", []byte{0x80, 0x3C, 0x00}, Event{Category: CategoryNoteOff, Note: 0x3C}},
		{"note off with release velocity", []byte{0x8F, 0x3C, 0x40}, Event{Category: CategoryNoteOff, Note: 0x3C}},
		{"note on velocity zero", []byte{0x90, 0x3C, 0x00}, Event{Category: CategoryNoteOff, Note: 0x3C}},
		{"note on", []byte{0x90, 0x3C, 0x64}, Event{Category: CategoryNoteOn, Note: 0x3C, Velocity: 0x64}},
		{"note on channel 16", []byte{0x9F, 0x40, 0x01}, Event{Category: CategoryNoteOn, Note: 0x40, Velocity: 0x01}},
		{"note on short", []byte{0x90, 0x3C}, Event{Category: CategoryRaw, Raw: []byte{0x90, 0x3C}}},
		{"aftertouch", []byte{0xA1, 0x02, 0x03, 0x04}, Event{Category: CategoryRaw, Raw: []byte{0xA1, 0x02, 0x03, 0x04}}},
		{"program change", []byte{0xC0, 0x05}, Event{Category: CategoryRaw, Raw: []byte{0xC0, 0x05}}},
		{"data byte", []byte{0x12}, Event{Category: CategoryRaw, Raw: []byte{0x12}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw))
		})
	}
}

func TestClassifyNoteOffAliasing(t *testing.T) {
	a := Classify([]byte{0x80, 0x3C, 0x00})
	b := Classify([]byte{0x90, 0x3C, 0x00})
	assert.Equal(t, a, b)
	assert.Equal(t, "O3c ", Format(a, 0))
}

func TestClassifyCopiesRaw(t *testing.T) {
	raw := []byte{0xA1, 0x02, 0x03}
	ev := Classify(raw)
	raw[0] = 0x00
	assert.Equal(t, []byte{0xA1, 0x02, 0x03}, ev.Raw)
}

// Every message of up to three bytes lands in exactly one category, and the fallback only
// catches what no earlier rule claims.
func TestClassifyIsTotal(t *testing.T) {
	check := func(raw []byte) {
		var matched []Category
		for _, r := range rules {
			if r.match(raw) {
				matched = append(matched, r.category)
			}
		}
		require.NotEmpty(t, matched, "% x", raw)

		ev := Classify(raw)
		require.Equal(t, matched[0], ev.Category, "% x", raw)
		if ev.Category == CategoryRaw {
			require.Len(t, matched, 1, "% x", raw)
		}
	}

	check(nil)
	for a := 0; a < 256; a++ {
		check([]byte{byte(a)})
		for b := 0; b < 256; b += 17 {
			check([]byte{byte(a), byte(b)})
			for c := 0; c < 256; c += 51 {
				check([]byte{byte(a), byte(b), byte(c)})
			}
		}
	}
}

func TestCategoryTerminal(t *testing.T) {
	terminal := map[Category]bool{
		CategoryEmpty:         true,
		CategorySysEx:         true,
		CategoryControlChange: true,
		CategoryOtherRealtime: true,
	}
	for c := CategoryEmpty; c <= CategoryRaw; c++ {
		assert.Equal(t, terminal[c], c.Terminal(), c.String())
	}
	assert.Equal(t, "Unknown", Category(99).String())
}
