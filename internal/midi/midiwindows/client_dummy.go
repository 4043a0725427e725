//go:build !windows
// +build !windows

package midiwindows

import (
	"errors"

	"github.com/leandrodaf/midimon/sdk/contracts"
)

// ErrUnavailable is returned by every operation of the winmm backend off Windows.
var ErrUnavailable = errors.New("winmm is not available on this platform")

type dummyDriver struct {
	logger contracts.Logger
}

// NewDriver initializes a winmm stand-in for non-Windows systems that reports no ports.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	options.Logger.Warn("Using dummy winmm driver for non-Windows system")
	return &dummyDriver{logger: options.Logger}, nil
}

func (d *dummyDriver) Name() string {
	return Name
}

// Inputs logs a warning and reports no ports.
func (d *dummyDriver) Inputs() ([]contracts.DeviceInfo, error) {
	d.logger.Warn("Inputs called on dummy winmm driver")
	return nil, nil
}

func (d *dummyDriver) Outputs() ([]contracts.DeviceInfo, error) {
	return nil, nil
}

func (d *dummyDriver) ListenTo(contracts.DeviceInfo, contracts.Receiver) (contracts.InputConnection, error) {
	return nil, ErrUnavailable
}

func (d *dummyDriver) SendTo(contracts.DeviceInfo) (contracts.OutputConnection, error) {
	return nil, ErrUnavailable
}

func (d *dummyDriver) Close() error {
	return nil
}
