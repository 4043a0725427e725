//go:build !darwin
// +build !darwin

package mididarwin

import (
	"errors"

	"github.com/leandrodaf/midimon/sdk/contracts"
)

// ErrUnavailable is returned by every operation of the CoreMIDI backend off macOS.
var ErrUnavailable = errors.New("CoreMIDI is not available on this platform")

type dummyDriver struct {
	logger contracts.Logger
}

// NewDriver returns a CoreMIDI stand-in that reports no ports.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	options.Logger.Warn("Using dummy CoreMIDI driver for non-macOS system")
	return &dummyDriver{logger: options.Logger}, nil
}

func (d *dummyDriver) Name() string {
	return Name
}

func (d *dummyDriver) Inputs() ([]contracts.DeviceInfo, error) {
	d.logger.Warn("Inputs called on dummy CoreMIDI driver")
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
