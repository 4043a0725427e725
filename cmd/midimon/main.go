package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leandrodaf/midimon/internal/console"
	"github.com/leandrodaf/midimon/internal/tui"
	"github.com/leandrodaf/midimon/sdk/contracts"
	"github.com/leandrodaf/midimon/sdk/midi"
)

func main() {
	os.Exit(run())
}

func run() int {
	output := flag.String("output", "", `Output port for forwarded clock (empty: first output port, "none": disabled)`)
	clock := flag.String("clock", "", "Input port whose timing clock is forwarded to the output")
	driverName := flag.String("driver", "rtmidi", "MIDI backend: "+strings.Join(midi.Drivers(), ", "))
	channel := flag.Uint("channel", 1, "Output MIDI channel (1-16)")
	useTUI := flag.Bool("tui", false, "Show a live per-source view instead of the raw token stream")
	debug := flag.Bool("debug", false, "Enable debug logging")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stderr")
	flag.Parse()

	if *channel < 1 || *channel > 16 {
		fmt.Fprintf(os.Stderr, "invalid channel %d (must be 1-16)\n", *channel)
		return 2
	}

	level := contracts.InfoLevel
	switch {
	case *debug:
		level = contracts.DebugLevel
	case *useTUI && *logFile == "":
		// stderr shares the terminal with the live view
		level = contracts.ErrorLevel
	}

	stdout := bufio.NewWriter(os.Stdout)
	var tokens io.Writer = stdout
	if *useTUI {
		tokens = io.Discard
	}

	opts, err := midi.NewOptions(
		contracts.WithLogLevel(level),
		contracts.WithLogFile(*logFile),
		contracts.WithDriver(*driverName),
		contracts.WithOutputPort(*output),
		contracts.WithClockPort(*clock),
		contracts.WithOutputChannel(uint8(*channel)),
		contracts.WithTokenWriter(tokens),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid options: %v\n", err)
		return 1
	}
	log := opts.Logger

	driver, err := midi.NewDriver(&opts)
	if err != nil {
		log.Error("Failed to initialize MIDI driver", log.Field().Error("error", err))
		return 1
	}

	inputs, err := driver.Inputs()
	if err != nil {
		log.Error("Failed to list input ports", log.Field().Error("error", err))
		driver.Close()
		return 1
	}

	out := console.New(os.Stdout)
	if len(inputs) == 0 {
		out.NoPorts()
		driver.Close()
		return 0
	}
	out.Ports(inputs)
	for _, port := range inputs {
		if *clock != "" && port.Name == *clock {
			continue
		}
		out.Connecting(port.Name)
	}

	mon := midi.NewMonitorWithDriver(driver, &opts)
	if err := mon.Start(); err != nil {
		code := 1
		if errors.Is(err, midi.ErrNoInputPorts) {
			out.NoPorts()
			code = 0
		} else {
			log.Error("Failed to start MIDI monitor", log.Field().Error("error", err))
		}
		if err := mon.Stop(); err != nil {
			log.Error("Failed to stop MIDI monitor", log.Field().Error("error", err))
		}
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *useTUI {
		err = runTUI(ctx, mon)
	} else {
		out.Listening()
		err = waitForExit(ctx, mon.Err())
	}
	// a second interrupt during shutdown terminates the process
	stop()

	code := 0
	if err != nil {
		log.Error("MIDI output failed", log.Field().Error("error", err))
		code = 1
	}
	if err := mon.Stop(); err != nil {
		log.Error("Failed to stop MIDI monitor", log.Field().Error("error", err))
		code = 1
	}
	return code
}

// waitForExit blocks until a line (or EOF) on stdin, a termination signal, or an I/O error.
func waitForExit(ctx context.Context, errs <-chan error) error {
	enter := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		close(enter)
	}()

	select {
	case <-enter:
		return nil
	case <-ctx.Done():
		return nil
	case err := <-errs:
		return err
	}
}

func runTUI(ctx context.Context, mon contracts.Monitor) error {
	tokens := make(chan contracts.Token, 1024)
	mon.StartCapture(tokens)

	p := tea.NewProgram(tui.NewModel(mon.Sources(), tokens, mon.Err()),
		tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	if m, ok := final.(tui.Model); ok {
		return m.Err()
	}
	return nil
}
