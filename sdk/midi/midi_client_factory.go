package midi

import (
	"errors"
	"fmt"
	"sort"

	"github.com/leandrodaf/midimon/internal/midi/gomididrv"
	"github.com/leandrodaf/midimon/internal/midi/mididarwin"
	"github.com/leandrodaf/midimon/internal/midi/midiwindows"
	"github.com/leandrodaf/midimon/sdk/contracts"
)

// ErrUnsupportedDriver is returned when no backend is registered under the requested name.
var ErrUnsupportedDriver = errors.New("unsupported MIDI driver")

// driverInitializers maps backend names to their constructors. The native backends fall back to
// stand-ins that report no ports on other operating systems.
var driverInitializers = map[string]func(*contracts.ClientOptions) (contracts.Driver, error){
	gomididrv.Name:   gomididrv.NewDriver,   // rtmidi via gomidi, every OS.
	mididarwin.Name:  mididarwin.NewDriver,  // CoreMIDI, macOS.
	midiwindows.Name: midiwindows.NewDriver, // winmm, Windows.
}

// Drivers returns the registered backend names, sorted.
func Drivers() []string {
	names := make([]string, 0, len(driverInitializers))
	for name := range driverInitializers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDriver initializes the backend named in opts.Driver.
//
// opts *contracts.ClientOptions: Configuration options, with defaults already applied.
//
// Returns:
//   - contracts.Driver: The backend, ready to enumerate ports.
//   - error: ErrUnsupportedDriver for an unknown name, or the backend's initialization error.
func NewDriver(opts *contracts.ClientOptions) (contracts.Driver, error) {
	if initializer, exists := driverInitializers[opts.Driver]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, opts.Driver)
}
