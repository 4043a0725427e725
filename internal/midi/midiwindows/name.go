// Package midiwindows is the native Windows backend built on winmm.
package midiwindows

// Name is the backend name used for selection.
const Name = "winmm"
