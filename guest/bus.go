// Package guest implements the guest side of the zxprobe test protocol:
// a blocking handshake with the host over a debug port, a hex transmitter,
// and samplers for the keyboard matrix, Kempston joystick and Kempston
// mouse, plus an incremental sprite cursor driven by the mouse.
//
// Everything in this package is synchronous and total. The only point at
// which the guest can block is Channel.WaitForRelease.
package guest

// Bus provides byte-wide access to the I/O ports of the machine the guest
// runs on.
type Bus interface {
	In(port uint16) (value byte)
	Out(port uint16, value byte)
}

// Idler may be implemented by a Bus whose host would rather park the guest
// than have it spin while polling the debug port. Idle is called between
// polls that observed no release; it may block.
type Idler interface {
	Idle()
}

// Ports is the fixed table of device addresses used by the samplers.
// The high byte of a port is the selector that a Z80 "in a,(n)" places on
// the upper half of the address bus.
type Ports struct {
	Debug       uint16    // shared channel register pair
	Keyboard    [8]uint16 // one per half-row, in frame order
	Joystick    uint16
	MouseX      uint16
	MouseY      uint16
	MouseStatus uint16 // buttons in bits 0-3, wheel in bits 4-7
}

// DefaultPorts describes a 48K Spectrum with Kempston interfaces and the
// zxprobe debug port.
var DefaultPorts = Ports{
	Debug: 0xcccc,
	Keyboard: [8]uint16{
		0xfefe, 0xfdfe, 0xfbfe, 0xf7fe,
		0xeffe, 0xdffe, 0xbffe, 0x7ffe,
	},
	Joystick:    0x001f,
	MouseX:      0xfbdf,
	MouseY:      0xffdf,
	MouseStatus: 0xfadf,
}
