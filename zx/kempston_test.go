package zx

import "testing"

func TestKempstonJoy(t *testing.T) {
	var j KempstonJoy
	j.Send(JoyUp, true)
	j.Send(JoyFire, true)
	if g, w := j.Read(), byte(0x18); g != w {
		t.Errorf("Read() == %.2x, want %.2x", g, w)
	}
	j.Send(JoyUp, false)
	if g, w := j.Read(), byte(0x10); g != w {
		t.Errorf("Read() == %.2x, want %.2x", g, w)
	}
	for _, k := range JoyKeys {
		g, err := ParseJoyKey(k.String())
		if err != nil || g != k {
			t.Errorf("ParseJoyKey(%q) == %v, %v", k.String(), g, err)
		}
	}
}

func TestKempstonMouseButtons(t *testing.T) {
	m := newKempstonMouse()
	m.Button(MouseLeft, true)
	m.Button(MouseMiddle, true)
	if g, w := m.status, byte(0xfa); g != w {
		t.Errorf("status == %.2x, want %.2x", g, w)
	}
	m.Button(MouseLeft, false)
	if g, w := m.status, byte(0xfb); g != w {
		t.Errorf("status == %.2x, want %.2x", g, w)
	}
	if b, err := ParseMouseButton("Extra"); err != nil || b != MouseExtra {
		t.Errorf("ParseMouseButton(%q) == %v, %v", "Extra", b, err)
	}
}

func TestKempstonMouseWheel(t *testing.T) {
	for _, c := range []struct {
		steps []WheelDirection
		want  byte
	}{
		{nil, 0xff},
		{[]WheelDirection{WheelUp}, 0x0f},
		{[]WheelDirection{WheelUp, WheelUp}, 0x1f},
		{[]WheelDirection{WheelDown}, 0xef},
		{[]WheelDirection{WheelUp, WheelDown}, 0xff},
	} {
		m := newKempstonMouse()
		for _, s := range c.steps {
			m.Scroll(s)
		}
		if m.status != c.want {
			t.Errorf("after %v status == %.2x, want %.2x", c.steps, m.status, c.want)
		}
	}
}

func TestKempstonMouseMove(t *testing.T) {
	m := newKempstonMouse()
	m.MoveBy(10, 5)
	if m.x != 0x09 || m.y != 0xfa {
		t.Errorf("after MoveBy(10, 5) x, y == %.2x, %.2x, want 09, fa", m.x, m.y)
	}
	m.MoveBy(-20, -10)
	if m.x != 0xf5 || m.y != 0x04 {
		t.Errorf("after MoveBy(-20, -10) x, y == %.2x, %.2x, want f5, 04", m.x, m.y)
	}
}
