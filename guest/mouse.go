package guest

// MouseStatus is the Kempston mouse buttons/wheel register.
type MouseStatus byte

func (s MouseStatus) Left() bool   { return s&0x01 != 0 }
func (s MouseStatus) Right() bool  { return s&0x02 != 0 }
func (s MouseStatus) Middle() bool { return s&0x04 != 0 }
func (s MouseStatus) Extra() bool  { return s&0x08 != 0 }
func (s MouseStatus) Wheel() byte  { return byte(s) >> 4 }

// Button reports bit i (0-3) of the status register.
func (s MouseStatus) Button(i int) bool { return s&(1<<uint(i)) != 0 }

// MouseState is one snapshot of the mouse registers. Y grows downwards:
// it holds 255 minus the raw register value.
type MouseState struct {
	X, Y   byte
	Status MouseStatus
}

// MouseSampler samples the mouse and keeps the previous snapshot so that
// per-poll deltas can be computed.
type MouseSampler struct {
	bus        Bus
	x, y, stat uint16

	cur, prev MouseState
}

func NewMouseSampler(bus Bus, ports Ports) *MouseSampler {
	return &MouseSampler{
		bus:  bus,
		x:    ports.MouseX,
		y:    ports.MouseY,
		stat: ports.MouseStatus,
	}
}

func (m *MouseSampler) read() MouseState {
	return MouseState{
		X:      m.bus.In(m.x),
		Y:      255 - m.bus.In(m.y),
		Status: MouseStatus(m.bus.In(m.stat)),
	}
}

// Init takes a baseline sample; the deltas that follow it are all zero.
func (m *MouseSampler) Init() MouseState {
	m.cur = m.read()
	m.prev = m.cur
	return m.cur
}

// Sample retires the current snapshot to Previous and reads a new one.
func (m *MouseSampler) Sample() MouseState {
	m.prev = m.cur
	m.cur = m.read()
	return m.cur
}

func (m *MouseSampler) Current() MouseState  { return m.cur }
func (m *MouseSampler) Previous() MouseState { return m.prev }

// XDiff returns the horizontal movement since the previous sample,
// treating the register as a wrapping 8-bit counter.
func (m *MouseSampler) XDiff() int8 { return int8(m.cur.X - m.prev.X) }

func (m *MouseSampler) YDiff() int8 { return int8(m.cur.Y - m.prev.Y) }

// WheelDiff returns the number of wheel steps since the previous sample.
func (m *MouseSampler) WheelDiff() int8 {
	cur, prev := byte(m.cur.Status)&0xf0, byte(m.prev.Status)&0xf0
	return int8(cur-prev) / 16
}
