package midi

import (
	"os"

	"github.com/leandrodaf/midimon/internal/logger"
	"github.com/leandrodaf/midimon/internal/midi/gomididrv"
	"github.com/leandrodaf/midimon/internal/sender"
	"github.com/leandrodaf/midimon/sdk/contracts"
)

// unsetLogLevel marks LogLevel as not chosen by the caller; InfoLevel is the zero value.
const unsetLogLevel contracts.LogLevel = -1

// applyDefaultOptions sets default values for ClientOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify ClientOptions.
//
// Returns:
//   - contracts.ClientOptions: A structure containing the finalized client options with defaults applied.
//   - error: An error if there was an issue applying the options.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{LogLevel: unsetLogLevel}
	for _, opt := range opts {
		opt(options)
	}

	// Set defaults if options are not provided
	levelSet := options.LogLevel != unsetLogLevel
	if !levelSet {
		options.LogLevel = contracts.InfoLevel
	}
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
		levelSet = true
	}
	if options.Driver == "" {
		options.Driver = gomididrv.Name
	}
	if options.OutputChannel == 0 {
		options.OutputChannel = sender.DefaultChannel
	}
	if options.TokenWriter == nil {
		options.TokenWriter = os.Stdout
	}
	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: "midimon"}
	}

	// A caller-supplied logger keeps its own level unless WithLogLevel was given.
	if levelSet {
		options.Logger.SetLevel(options.LogLevel)
	}
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	return *options, nil
}
