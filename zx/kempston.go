package zx

import (
	"fmt"
	"strings"
)

// JoyKey is a Kempston joystick line; its value is the register bit.
type JoyKey byte

const (
	JoyRight JoyKey = 0x01
	JoyLeft  JoyKey = 0x02
	JoyDown  JoyKey = 0x04
	JoyUp    JoyKey = 0x08
	JoyFire  JoyKey = 0x10
	JoyExt1  JoyKey = 0x20 // undocumented extra buttons
	JoyExt2  JoyKey = 0x40
	JoyExt3  JoyKey = 0x80
)

// JoyKeys lists the joystick lines in bit order.
var JoyKeys = []JoyKey{JoyRight, JoyLeft, JoyDown, JoyUp, JoyFire, JoyExt1, JoyExt2, JoyExt3}

var joyNames = map[JoyKey]string{
	JoyRight: "right",
	JoyLeft:  "left",
	JoyDown:  "down",
	JoyUp:    "up",
	JoyFire:  "fire",
	JoyExt1:  "ext1",
	JoyExt2:  "ext2",
	JoyExt3:  "ext3",
}

func (k JoyKey) String() string {
	if s, ok := joyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("JoyKey(%.2x)", byte(k))
}

func ParseJoyKey(s string) (JoyKey, error) {
	s = strings.ToLower(s)
	for k, n := range joyNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown joystick key %q", s)
}

// KempstonJoy is the Kempston joystick interface. Lines are active high.
type KempstonJoy struct {
	state byte
}

func (j *KempstonJoy) Send(k JoyKey, pressed bool) {
	if pressed {
		j.state |= byte(k)
	} else {
		j.state &^= byte(k)
	}
}

func (j *KempstonJoy) Read() byte { return j.state }

// MouseButton is a Kempston mouse button; its value is the status bit.
type MouseButton byte

const (
	MouseLeft   MouseButton = 0x01
	MouseRight  MouseButton = 0x02
	MouseMiddle MouseButton = 0x04
	MouseExtra  MouseButton = 0x08
)

var MouseButtons = []MouseButton{MouseLeft, MouseRight, MouseMiddle, MouseExtra}

var mouseButtonNames = map[MouseButton]string{
	MouseLeft:   "left",
	MouseRight:  "right",
	MouseMiddle: "middle",
	MouseExtra:  "extra",
}

func (b MouseButton) String() string {
	if s, ok := mouseButtonNames[b]; ok {
		return s
	}
	return fmt.Sprintf("MouseButton(%.2x)", byte(b))
}

func ParseMouseButton(s string) (MouseButton, error) {
	s = strings.ToLower(s)
	for b, n := range mouseButtonNames {
		if n == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown mouse button %q", s)
}

type WheelDirection int8

const (
	WheelUp   WheelDirection = 1
	WheelDown WheelDirection = -1
)

const (
	wheelMask  = 0xf0
	wheelShift = 4
)

// KempstonMouse holds the three Kempston mouse registers. Buttons are
// active low; the wheel is a 4-bit counter in the top of the status
// register. The Y register counts upwards as the mouse moves up the
// screen.
type KempstonMouse struct {
	x, y, status byte
}

func newKempstonMouse() KempstonMouse {
	return KempstonMouse{x: 0xff, y: 0xff, status: 0xff}
}

func (m *KempstonMouse) Button(b MouseButton, pressed bool) {
	if pressed {
		m.status &^= byte(b)
	} else {
		m.status |= byte(b)
	}
}

func (m *KempstonMouse) Scroll(dir WheelDirection) {
	w := (m.status & wheelMask) >> wheelShift
	w = byte(int8(w) + int8(dir))
	m.status = m.status&^wheelMask | w<<wheelShift&wheelMask
}

// MoveBy moves the mouse by (dx, dy) screen pixels, with y growing
// downwards.
func (m *KempstonMouse) MoveBy(dx, dy int8) {
	m.x += byte(dx)
	m.y -= byte(dy)
}
