package guest

import "fmt"

// access is one port operation seen by a testBus.
type access struct {
	Out   bool
	Port  uint16
	Value byte
}

func (a access) String() string {
	dir := "in"
	if a.Out {
		dir = "out"
	}
	return fmt.Sprintf("%s %.4x %.2x", dir, a.Port, a.Value)
}

// testBus is a scripted Bus. Reads of a port pop from its queue in reads;
// once the queue is empty they return the value in regs (zero by default).
// Writes are recorded in out per port and never affect reads.
type testBus struct {
	reads map[uint16][]byte
	regs  map[uint16]byte
	out   map[uint16][]byte
	log   []access

	idles    int
	maxIdles int // Idle panics with errStop after this many calls, if > 0
}

type stopSignal struct{}

var errStop = stopSignal{}

func newTestBus() *testBus {
	return &testBus{
		reads: map[uint16][]byte{},
		regs:  map[uint16]byte{},
		out:   map[uint16][]byte{},
	}
}

func (b *testBus) queue(port uint16, v ...byte) *testBus {
	b.reads[port] = append(b.reads[port], v...)
	return b
}

func (b *testBus) set(port uint16, v byte) *testBus {
	b.regs[port] = v
	return b
}

func (b *testBus) In(port uint16) byte {
	v := b.regs[port]
	if q := b.reads[port]; len(q) > 0 {
		v, b.reads[port] = q[0], q[1:]
	}
	b.log = append(b.log, access{Port: port, Value: v})
	return v
}

func (b *testBus) Out(port uint16, v byte) {
	b.out[port] = append(b.out[port], v)
	b.log = append(b.log, access{Out: true, Port: port, Value: v})
}

func (b *testBus) text(port uint16) string { return string(b.out[port]) }

// idleBus adds Idler to a testBus.
type idleBus struct{ *testBus }

func (b idleBus) Idle() {
	b.idles++
	if b.maxIdles > 0 && b.idles >= b.maxIdles {
		panic(errStop)
	}
}

// runUntilStopped calls f and swallows the errStop panic raised by an
// idleBus that ran out of releases.
func runUntilStopped(f func()) (stopped bool) {
	defer func() {
		if e := recover(); e != nil {
			if e != errStop {
				panic(e)
			}
			stopped = true
		}
	}()
	f()
	return false
}
