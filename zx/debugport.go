package zx

// DebugPort is the host end of the channel. Bytes queued by the host are
// returned one per guest read, and reads of an empty queue return 0.
// Guest writes go to a separate output buffer, so the guest never reads
// back its own acknowledgements.
type DebugPort struct {
	in, out  []byte
	consumed int // bytes read by the guest

	ready chan bool // signalled when input is queued
}

func newDebugPort() DebugPort {
	return DebugPort{ready: make(chan bool, 1)}
}

func (d *DebugPort) In() byte {
	if len(d.in) == 0 {
		return 0
	}
	b := d.in[0]
	d.in = d.in[1:]
	d.consumed++
	return b
}

func (d *DebugPort) Out(b byte) { d.out = append(d.out, b) }

func (d *DebugPort) Put(b byte) {
	d.in = append(d.in, b)
	select {
	case d.ready <- true:
	default:
	}
}

func (d *DebugPort) Take() []byte {
	b := d.out
	d.out = nil
	return b
}

func (d *DebugPort) TakeByte() (byte, bool) {
	if len(d.out) == 0 {
		return 0, false
	}
	b := d.out[0]
	d.out = d.out[1:]
	return b, true
}
