package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nf/zxprobe/guest"
	"github.com/nf/zxprobe/zx"
)

var programNames = []string{"joystick", "keyboard", "mouse"}

// session is one run of a guest program on a fresh Machine.
type session struct {
	name string
	m    *zx.Machine
	r    *zx.Runner       // nil for the mouse demo
	demo *guest.MouseDemo // nil unless the mouse demo

	out  io.Writer       // destination of print
	text strings.Builder // guest output collected by sync
	last string          // last frame shown by frame
}

func newSession(name string, cfg zx.Config, out io.Writer) (*session, error) {
	var p zx.Program
	switch name {
	case "keyboard":
		p = func(b guest.Bus) { guest.KeyboardTest(b, guest.DefaultPorts) }
	case "joystick":
		cfg.Kempston = true
		p = func(b guest.Bus) { guest.JoystickTest(b, guest.DefaultPorts) }
	case "mouse":
		cfg.Mouse = true
	default:
		return nil, fmt.Errorf("unknown program %q (want one of %s)",
			name, strings.Join(programNames, ", "))
	}
	s := &session{name: name, m: zx.NewMachine(cfg), out: out}
	if p != nil {
		s.r = zx.NewRunner(s.m)
		s.r.Start(p)
	} else {
		s.demo = guest.NewMouseDemo(s.m, guest.DefaultPorts, s.m.Screen())
		s.demo.Init()
	}
	return s, nil
}

func (s *session) close() {
	if s.r != nil {
		if err := s.r.Halt(); err != nil {
			fmt.Fprintf(s.out, "%s: %v\n", s.name, err)
		}
	}
}

var (
	errNoChannel = errors.New("program has no host channel")
	errNotDemo   = errors.New("program is not the mouse demo")
)

func (s *session) sync() error {
	if s.r == nil {
		return errNoChannel
	}
	if err := s.collect(); err != nil {
		return err
	}
	if err := s.r.Sync(); err != nil {
		return err
	}
	s.text.WriteString(s.m.TakeText())
	return nil
}

// collect moves everything the guest has written so far into s.text.
func (s *session) collect() error {
	if s.r.Running() {
		if err := s.r.Wait(); err != nil && !errors.Is(err, zx.ErrExited) {
			return err
		}
	}
	s.text.WriteString(s.m.TakeText())
	return nil
}

func (s *session) step(n int) error {
	if s.demo == nil {
		return errNotDemo
	}
	for i := 0; i < n; i++ {
		s.demo.Step()
	}
	return nil
}

// take returns the guest output not yet consumed by print or expect.
func (s *session) take() (string, error) {
	if s.r == nil {
		return "", errNoChannel
	}
	if err := s.collect(); err != nil {
		return "", err
	}
	t := s.text.String()
	s.text.Reset()
	return t, nil
}

func (s *session) print() error {
	if s.demo != nil {
		p := s.demo.Position()
		_, err := fmt.Fprintf(s.out, "cursor %d %d wheel %d\n", p.X, p.Y, s.demo.Wheel())
		return err
	}
	t, err := s.take()
	if err != nil {
		return err
	}
	_, err = io.WriteString(s.out, t)
	return err
}

func (s *session) expect(want string) error {
	got, err := s.take()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("guest wrote %q, want %q", got, want)
	}
	return nil
}

func (s *session) expectCursor(x, y int) error {
	if s.demo == nil {
		return errNotDemo
	}
	if p := s.demo.Position(); p != (guest.Point{X: x, Y: y}) {
		return fmt.Errorf("cursor at %d %d, want %d %d", p.X, p.Y, x, y)
	}
	return nil
}

func (s *session) expectScreen(fingerprint string) error {
	if g := s.m.Screen().Fingerprint(); g != fingerprint {
		return fmt.Errorf("screen fingerprint %s, want %s", g, fingerprint)
	}
	return nil
}

// frame advances the program by one display frame: the mouse demo takes
// one step, the other programs are released once and any new frame of
// output is printed.
func (s *session) frame() error {
	if s.demo != nil {
		s.demo.Step()
		return nil
	}
	if err := s.sync(); err != nil {
		return err
	}
	t, err := s.take()
	if err != nil {
		return err
	}
	if t != s.last {
		s.last = t
		_, err = io.WriteString(s.out, t)
	}
	return err
}
