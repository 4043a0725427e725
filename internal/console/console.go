// Package console prints the human-oriented diagnostics around the token stream.
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/leandrodaf/midimon/sdk/contracts"
)

// Printer writes styled diagnostics. Styling is dropped automatically when w is not a terminal.
type Printer struct {
	w      io.Writer
	header lipgloss.Style
	item   lipgloss.Style
	notice lipgloss.Style
}

// New creates a printer for w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		header: r.NewStyle().Bold(true),
		item:   r.NewStyle().Foreground(lipgloss.Color("6")),
		notice: r.NewStyle().Faint(true),
	}
}

// Ports lists the enumerated input ports.
func (p *Printer) Ports(ports []contracts.DeviceInfo) {
	fmt.Fprintln(p.w, p.header.Render(fmt.Sprintf("Found %d MIDI ports:", len(ports))))
	for _, port := range ports {
		fmt.Fprintln(p.w, " - "+p.item.Render(port.Name))
	}
}

// NoPorts reports that there is nothing to monitor.
func (p *Printer) NoPorts() {
	fmt.Fprintln(p.w, "No MIDI input ports found.")
}

// Connecting announces an input port about to be opened.
func (p *Printer) Connecting(name string) {
	fmt.Fprintln(p.w, p.notice.Render(fmt.Sprintf("Connecting to '%s'...", name)))
}

// Listening announces that tokens follow.
func (p *Printer) Listening() {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.header.Render("Listening for MIDI events... Press Enter to exit."))
}
