package guest

// KeyboardTest reports the keyboard matrix each time the host releases the
// guest: eight hex pairs, one per half-row, followed by a newline.
// It never returns.
func KeyboardTest(bus Bus, ports Ports) {
	var (
		ch  = NewChannel(bus, ports.Debug)
		enc = NewEncoder(bus, ports.Debug)
		kbd = NewKeyboardSampler(bus, ports.Keyboard)
	)
	for {
		ch.WaitForRelease()
		for _, b := range kbd.Sample() {
			enc.WriteHex(b)
		}
		enc.WriteChar('\n')
	}
}

// JoystickSamples is the number of synchronized samples JoystickTest takes.
const JoystickSamples = 16

// JoystickTest reports the joystick register once immediately and then
// once per release, separating the synchronized samples with '>'.
// It waits for one last release before returning.
func JoystickTest(bus Bus, ports Ports) {
	var (
		ch  = NewChannel(bus, ports.Debug)
		enc = NewEncoder(bus, ports.Debug)
		joy = NewJoystickSampler(bus, ports.Joystick)
	)
	enc.WriteHex(joy.Sample())
	for i := 0; i < JoystickSamples; i++ {
		ch.WaitForRelease()
		state := joy.Sample()
		if i != 0 {
			enc.WriteChar('>')
		}
		enc.WriteHex(state)
	}
	ch.WaitForRelease()
}

// DemoState is the state of the MouseDemo loop.
type DemoState int

const (
	DemoInit DemoState = iota
	DemoPoll
	DemoRender
)

func (s DemoState) String() string {
	switch s {
	case DemoInit:
		return "init"
	case DemoPoll:
		return "poll"
	case DemoRender:
		return "render"
	}
	return "unknown"
}

// Screen limits used by the mouse demo.
const (
	ScreenHeight = 192
	maxWheel     = ScreenHeight - 1
)

// MouseDemo moves a cursor around the canvas following the mouse, shows
// the state of the four buttons, and tracks the wheel with a box on the
// left edge.
type MouseDemo struct {
	mouse  *MouseSampler
	cursor *CursorRenderer

	state     DemoState
	pos, prev Point
	wheel     int
}

func NewMouseDemo(bus Bus, ports Ports, c Canvas) *MouseDemo {
	return &MouseDemo{
		mouse:  NewMouseSampler(bus, ports),
		cursor: NewCursorRenderer(c, DefaultCursor),
	}
}

func (d *MouseDemo) State() DemoState  { return d.state }
func (d *MouseDemo) Position() Point   { return d.pos }
func (d *MouseDemo) Wheel() int        { return d.wheel }
func (d *MouseDemo) Mouse() MouseState { return d.mouse.Current() }

// Init takes the baseline mouse sample. It is called by the first Step if
// it has not been called already.
func (d *MouseDemo) Init() {
	d.mouse.Init()
	d.state = DemoPoll
}

// Step runs one poll and render cycle.
func (d *MouseDemo) Step() {
	if d.state == DemoInit {
		d.Init()
	}
	d.poll()
	d.render()
}

// Run steps the demo forever.
func (d *MouseDemo) Run() {
	for {
		d.Step()
	}
}

func (d *MouseDemo) poll() {
	d.mouse.Sample()
	x := d.pos.X + int(d.mouse.XDiff())
	y := WrapY(d.pos.Y + int(d.mouse.YDiff()))
	d.prev = d.pos
	d.pos = Point{int(byte(x)), int(byte(y))}
	d.state = DemoRender
}

func (d *MouseDemo) render() {
	d.cursor.Render(d.pos, d.prev)

	if diff := int(d.mouse.WheelDiff()); diff != 0 {
		prev := d.wheel
		d.wheel = ClampWheel(d.wheel + diff)
		d.cursor.PaintScrollBox(prev, d.wheel)
	}

	s := d.mouse.Current().Status
	d.cursor.PaintButtonBox(1, s.Left())
	d.cursor.PaintButtonBox(2, s.Right())
	d.cursor.PaintButtonBox(3, s.Middle())
	d.cursor.PaintButtonBox(4, s.Extra())
	d.state = DemoPoll
}

// WrapY wraps a vertical cursor position that has left the screen.
// The wrap is not symmetric: leaving the bottom lands on row 1, leaving
// the top lands on row 192.
func WrapY(y int) int {
	if y > ScreenHeight-1 {
		y = 1
	}
	if y < 0 {
		y = ScreenHeight
	}
	return y
}

// ClampWheel limits the wheel indicator position to the screen rows.
func ClampWheel(w int) int {
	switch {
	case w < 0:
		return 0
	case w > maxWheel:
		return maxWheel
	default:
		return w
	}
}
