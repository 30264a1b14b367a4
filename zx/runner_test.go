package zx

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nf/zxprobe/guest"
)

func keyboardProgram(b guest.Bus) { guest.KeyboardTest(b, guest.DefaultPorts) }
func joystickProgram(b guest.Bus) { guest.JoystickTest(b, guest.DefaultPorts) }

func TestRunnerKeyboard(t *testing.T) {
	m := NewMachine(DefaultConfig())
	r := NewRunner(m)
	r.Start(keyboardProgram)
	defer r.Halt()

	sync := func(want string) {
		t.Helper()
		if err := r.Sync(); err != nil {
			t.Fatalf("Sync: %v", err)
		}
		if g := m.TakeText(); g != want {
			t.Errorf("frame == %q, want %q", g, want)
		}
	}

	sync("FFFFFFFFFFFFFFFF\n")

	m.SendKey(KeyZ, true)
	m.SendKey(KeyEnter, true)
	sync("FDFFFFFFFFFFFEFF\n")

	m.SendKey(KeyZ, false)
	m.SendCompoundKey(ArrowUp, true)
	sync("FEFFFFFFF7FFFEFF\n")

	m.SendCompoundKey(ArrowUp, false)
	m.SendKey(KeyEnter, false)
	sync("FFFFFFFFFFFFFFFF\n")
}

func TestRunnerJoystick(t *testing.T) {
	m := NewMachine(Config{Kempston: true})
	r := NewRunner(m)
	r.Start(joystickProgram)

	if err := r.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if g := m.TakeText(); g != "00" {
		t.Errorf("unsynced sample == %q, want %q", g, "00")
	}

	var text strings.Builder
	for _, pressed := range []bool{true, false} {
		for _, k := range JoyKeys {
			m.SendJoy(k, pressed)
			if err := r.Sync(); err != nil {
				t.Fatalf("Sync after %v: %v", k, err)
			}
			text.WriteString(m.TakeText())
		}
	}
	want := "01>03>07>0F>1F>3F>7F>FF>FE>FC>F8>F0>E0>C0>80>00"
	if g := text.String(); g != want {
		t.Errorf("samples:\n got %s\nwant %s", g, want)
	}

	if err := r.Sync(); err != nil {
		t.Fatalf("final Sync: %v", err)
	}
	if r.Running() {
		t.Error("guest still running after final sync")
	}
	if err := r.Wait(); !errors.Is(err, ErrExited) {
		t.Errorf("Wait after exit == %v, want %v", err, ErrExited)
	}
}

func TestRunnerUnprocessed(t *testing.T) {
	m := NewMachine(DefaultConfig())
	r := NewRunner(m)
	r.Start(func(b guest.Bus) {
		b.Out(DebugPortAddr, 'x')
		guest.NewChannel(b, DebugPortAddr).WaitForRelease()
	})
	defer r.Halt()

	if err := r.Sync(); err != ErrUnprocessed {
		t.Errorf("Sync == %v, want %v", err, ErrUnprocessed)
	}
	if g := m.TakeText(); g != "x" {
		t.Errorf("TakeText() == %q, want %q", g, "x")
	}
	if err := r.Sync(); err != nil {
		t.Errorf("Sync after TakeText: %v", err)
	}
}

func TestRunnerBadAck(t *testing.T) {
	m := NewMachine(DefaultConfig())
	r := NewRunner(m)
	r.Start(func(b guest.Bus) {
		for b.In(DebugPortAddr) == 0 {
			b.(guest.Idler).Idle()
		}
		b.Out(DebugPortAddr, 2)
	})

	err := r.Sync()
	var ack AckError
	if !errors.As(err, &ack) {
		t.Fatalf("Sync == %v, want AckError", err)
	}
	if ack.Got != 2 {
		t.Errorf("AckError.Got == %.2x, want 02", ack.Got)
	}
}

func TestRunnerTimeout(t *testing.T) {
	m := NewMachine(Config{SyncTimeout: 20 * time.Millisecond, Trace: true})
	r := NewRunner(m)
	block := make(chan bool)
	r.Start(func(b guest.Bus) {
		b.In(0xfefe)
		<-block
	})

	if err := r.Wait(); !errors.Is(err, ErrSyncTimeout) {
		t.Errorf("Wait == %v, want %v", err, ErrSyncTimeout)
	}
	if err := r.Sync(); !errors.Is(err, ErrSyncTimeout) {
		t.Errorf("Sync == %v, want %v", err, ErrSyncTimeout)
	}
	close(block)
	if err := r.Wait(); !errors.Is(err, ErrExited) {
		t.Errorf("Wait after unblocking == %v, want %v", err, ErrExited)
	}
}

func TestRunnerHalt(t *testing.T) {
	m := NewMachine(DefaultConfig())
	r := NewRunner(m)
	r.Start(keyboardProgram)
	if err := r.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := r.Halt(); err != nil {
		t.Fatalf("Halt: %v", err)
	}
	if r.Running() {
		t.Error("guest running after Halt")
	}
	if err := r.Halt(); err != nil {
		t.Errorf("second Halt: %v", err)
	}
	if err := r.Sync(); !errors.Is(err, ErrExited) {
		t.Errorf("Sync after Halt == %v, want %v", err, ErrExited)
	}
}

func TestMouseDemoOnMachine(t *testing.T) {
	m := NewMachine(Config{Mouse: true})
	scr := m.Screen()
	d := guest.NewMouseDemo(m, guest.DefaultPorts, scr)

	d.Step()
	if g := d.Position(); g != (guest.Point{}) {
		t.Fatalf("initial position %v, want origin", g)
	}
	// Released buttons read as set bits.
	if g := scr.ColorAt(32, 0); g != guest.Red {
		t.Errorf("button 1 box color %d, want red", g)
	}

	m.MoveMouse(10, 5)
	m.SendMouseButton(MouseLeft, true)
	d.Step()
	if g, w := d.Position(), (guest.Point{X: 10, Y: 5}); g != w {
		t.Errorf("position %v, want %v", g, w)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p := guest.Point{X: 10 + x, Y: 5 + y}
			want := guest.DefaultCursor.Covers(guest.Point{X: 10, Y: 5}, p)
			if g := scr.IsSet(p.X, p.Y); g != want {
				t.Errorf("pixel %v set == %v, want %v", p, g, want)
			}
		}
	}
	if scr.IsSet(0, 0) {
		t.Error("old cursor pixel (0, 0) not cleared")
	}
	if g := scr.ColorAt(32, 0); g != guest.White {
		t.Errorf("button 1 box color %d after press, want white", g)
	}

	m.ScrollMouse(WheelUp)
	m.ScrollMouse(WheelUp)
	d.Step()
	if g := d.Wheel(); g != 2 {
		t.Errorf("Wheel() == %d, want 2", g)
	}
	if g := scr.ColorAt(0, 2); g != guest.Red {
		t.Errorf("scroll box color %d, want red", g)
	}
}
