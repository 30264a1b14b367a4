package guest

// Channel is the guest end of the handshake with the host.
type Channel struct {
	bus  Bus
	port uint16
}

func NewChannel(bus Bus, port uint16) *Channel {
	return &Channel{bus: bus, port: port}
}

// WaitForRelease polls the channel until the host writes a nonzero value,
// then acknowledges it by writing 1. If the host never releases the guest,
// WaitForRelease never returns.
func (c *Channel) WaitForRelease() {
	idler, _ := c.bus.(Idler)
	for c.bus.In(c.port) == 0 {
		if idler != nil {
			idler.Idle()
		}
	}
	c.bus.Out(c.port, 1)
}

const hexAlphabet = "0123456789ABCDEF"

// Encoder transmits characters to the host, one per port write.
type Encoder struct {
	bus  Bus
	port uint16
}

func NewEncoder(bus Bus, port uint16) *Encoder {
	return &Encoder{bus: bus, port: port}
}

// WriteHex writes b as two upper case hex digits, high nibble first.
func (e *Encoder) WriteHex(b byte) {
	e.bus.Out(e.port, hexAlphabet[b>>4])
	e.bus.Out(e.port, hexAlphabet[b&0xf])
}

func (e *Encoder) WriteChar(c byte) { e.bus.Out(e.port, c) }

func (e *Encoder) WriteString(s string) {
	for i := 0; i < len(s); i++ {
		e.WriteChar(s[i])
	}
}

// WriteByte implements io.ByteWriter; it writes c verbatim and never fails.
func (e *Encoder) WriteByte(c byte) error {
	e.WriteChar(c)
	return nil
}
