package main

import (
	"fmt"
	"io"
	"time"

	"github.com/leandrodaf/midimon/internal/logger"
	"github.com/leandrodaf/midimon/sdk/contracts"
	"github.com/leandrodaf/midimon/sdk/midi"
)

func main() {
	log := logger.NewDevelopmentLogger()

	monitor, err := midi.NewMonitor(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithOutputPort(contracts.NoOutputPort),
		contracts.WithTokenWriter(io.Discard),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI monitor", log.Field().Error("error", err))
		return
	}
	defer monitor.Stop()

	tokenChannel := make(chan contracts.Token, 100)
	monitor.StartCapture(tokenChannel)

	if err = monitor.Start(); err != nil {
		log.Error("Failed to start MIDI monitor", log.Field().Error("error", err))
		return
	}
	fmt.Println("Monitoring:", monitor.Sources())

	timeout := time.After(10 * time.Second)
	for {
		select {
		case token := <-tokenChannel:
			log.Info("MIDI token",
				log.Field().Uint64("timestamp", token.Timestamp),
				log.Field().String("source", token.Source),
				log.Field().String("token", token.Text),
			)
		case <-timeout:
			for _, source := range monitor.Sources() {
				fmt.Printf("%s: %d tokens\n", source, len(monitor.History(source)))
			}
			return
		}
	}
}
