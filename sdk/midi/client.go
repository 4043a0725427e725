package midi

import (
	"github.com/leandrodaf/midimon/internal/fanout"
	"github.com/leandrodaf/midimon/sdk/contracts"
)

// ErrNoInputPorts is returned by Start when the backend reports no input port.
var ErrNoInputPorts = fanout.ErrNoInputPorts

// NewMonitor creates a monitor with the specified options.
// It applies default options and initializes the selected backend; no port is opened until Start.
//
// opts ...contracts.Option: A variadic list of option functions to customize the monitor.
//
// Returns:
//   - contracts.Monitor: The monitor.
//   - error: An error, if the backend could not be created.
func NewMonitor(opts ...contracts.Option) (contracts.Monitor, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	driver, err := NewDriver(&options)
	if err != nil {
		return nil, err
	}
	return NewMonitorWithDriver(driver, &options), nil
}

// NewMonitorWithDriver creates a monitor on an already initialized backend.
func NewMonitorWithDriver(driver contracts.Driver, options *contracts.ClientOptions) contracts.Monitor {
	return fanout.New(fanout.Config{
		Driver:        driver,
		Logger:        options.Logger,
		TokenWriter:   options.TokenWriter,
		OutputPort:    options.OutputPort,
		ClockPort:     options.ClockPort,
		OutputChannel: options.OutputChannel,
	})
}

// NewOptions applies opts over the defaults, for callers that drive NewDriver and
// NewMonitorWithDriver themselves.
func NewOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	return applyDefaultOptions(opts...)
}
