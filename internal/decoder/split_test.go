package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageLength(t *testing.T) {
	cases := map[byte]int{
		0x3C: 1,
		0x80: 3, 0x9F: 3, 0xA0: 3, 0xB5: 3, 0xE0: 3,
		0xC0: 2, 0xDF: 2,
		0xF0: 0,
		0xF1: 2, 0xF2: 3, 0xF3: 2, 0xF6: 1, 0xF7: 1,
		0xF8: 1, 0xFA: 1, 0xFE: 1,
	}
	for status, want := range cases {
		assert.Equal(t, want, MessageLength(status), "%#x", status)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want [][]byte
	}{
		{"empty", nil, nil},
		{"single note", []byte{0x90, 0x3C, 0x64}, [][]byte{{0x90, 0x3C, 0x64}}},
		{"two notes", []byte{0x90, 0x3C, 0x64, 0x80, 0x3C, 0x00}, [][]byte{{0x90, 0x3C, 0x64}, {0x80, 0x3C, 0x00}}},
		{"running status", []byte{0x90, 0x3C, 0x64, 0x3E, 0x00}, [][]byte{{0x90, 0x3C, 0x64}, {0x90, 0x3E, 0x00}}},
		{"clocks", []byte{0xF8, 0xF8, 0xFA}, [][]byte{{0xF8}, {0xF8}, {0xFA}}},
		{"realtime inside note", []byte{0x90, 0xF8, 0x3C, 0x64}, [][]byte{{0xF8}, {0x90, 0x3C, 0x64}}},
		{"program change", []byte{0xC1, 0x05, 0x06}, [][]byte{{0xC1, 0x05}, {0xC1, 0x06}}},
		{"sysex", []byte{0xF0, 0x7E, 0x7F, 0xF7, 0xF8}, [][]byte{{0xF0, 0x7E, 0x7F, 0xF7}, {0xF8}}},
		{"clock inside sysex", []byte{0xF0, 0x01, 0xF8, 0x02, 0xF7}, [][]byte{{0xF8}, {0xF0, 0x01, 0x02, 0xF7}}},
		{"unterminated sysex", []byte{0xF0, 0x01, 0x02}, [][]byte{{0xF0, 0x01, 0x02}}},
		{"sysex cut by status", []byte{0xF0, 0x01, 0x90, 0x3C, 0x64}, [][]byte{{0xF0, 0x01}, {0x90, 0x3C, 0x64}}},
		{"incomplete tail", []byte{0x90, 0x3C}, [][]byte{{0x90, 0x3C}}},
		{"stray data", []byte{0x01, 0x02, 0xF8}, [][]byte{{0xF8}, {0x01, 0x02}}},
		{"system common clears running status", []byte{0x90, 0x3C, 0x64, 0xF6, 0x3C}, [][]byte{{0x90, 0x3C, 0x64}, {0xF6}, {0x3C}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.in))
		})
	}
}
