package contracts

// DeviceInfo contains information about a MIDI port.
type DeviceInfo struct {
	Number       int    // Driver-assigned port index.
	Name         string // Port display name, used for exact-match selection.
	Manufacturer string // Device manufacturer, when the backend reports one.
	EntityName   string // Name of the entity to which the port belongs, when the backend reports one.
}
