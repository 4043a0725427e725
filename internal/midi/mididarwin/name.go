// Package mididarwin is the native macOS backend built on CoreMIDI.
package mididarwin

// Name is the backend name used for selection.
const Name = "coremidi"
