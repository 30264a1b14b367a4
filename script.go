package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nf/zxprobe/zx"
)

// A host script drives a session one line at a time:
//
//	key <key> down|up
//	compound <key> down|up
//	joy <key> down|up
//	mouse move <dx> <dy>
//	mouse button <button> down|up
//	mouse wheel up|down [n]
//	ear on|off
//	sync
//	step [n]
//	print
//	expect <text>
//	cursor <x> <y>
//	screen <fingerprint>
//
// Blank lines and lines starting with # are ignored. The expect text is
// taken literally unless it is a Go quoted string.

type command struct {
	line int
	text string
	run  func(*session) error
}

type ScriptError struct {
	Line int
	Err  error
}

func (e *ScriptError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *ScriptError) Unwrap() error { return e.Err }

func readScript(name string) ([]command, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cmds, err := parseScript(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cmds, nil
}

func parseScript(r io.Reader) ([]command, error) {
	var (
		cmds []command
		sc   = bufio.NewScanner(r)
		line = 0
	)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		run, err := parseCommand(text)
		if err != nil {
			return nil, &ScriptError{Line: line, Err: err}
		}
		cmds = append(cmds, command{line: line, text: text, run: run})
	}
	return cmds, sc.Err()
}

func runScript(s *session, cmds []command) error {
	for _, c := range cmds {
		if err := c.run(s); err != nil {
			return &ScriptError{Line: c.line, Err: fmt.Errorf("%s: %w", c.text, err)}
		}
	}
	return nil
}

var errUsage = errors.New("wrong number of arguments")

func parseCommand(text string) (func(*session) error, error) {
	f := strings.Fields(text)
	if len(f) == 0 {
		return nil, errors.New("empty command")
	}
	name, args := f[0], f[1:]
	nargs := func(n ...int) error {
		for _, n := range n {
			if len(args) == n {
				return nil
			}
		}
		return fmt.Errorf("%s: %w", name, errUsage)
	}

	switch name {
	case "key", "compound", "joy":
		if err := nargs(2); err != nil {
			return nil, err
		}
		pressed, err := parseDirection(args[1])
		if err != nil {
			return nil, err
		}
		switch name {
		case "key":
			k, err := zx.ParseKey(args[0])
			if err != nil {
				return nil, err
			}
			return func(s *session) error { s.m.SendKey(k, pressed); return nil }, nil
		case "compound":
			k, err := zx.ParseCompoundKey(args[0])
			if err != nil {
				return nil, err
			}
			return func(s *session) error { s.m.SendCompoundKey(k, pressed); return nil }, nil
		default:
			k, err := zx.ParseJoyKey(args[0])
			if err != nil {
				return nil, err
			}
			return func(s *session) error { s.m.SendJoy(k, pressed); return nil }, nil
		}

	case "mouse":
		if len(args) == 0 {
			return nil, fmt.Errorf("mouse: %w", errUsage)
		}
		return parseMouse(args[0], args[1:])

	case "ear":
		if err := nargs(1); err != nil {
			return nil, err
		}
		var high bool
		switch args[0] {
		case "on":
			high = true
		case "off":
		default:
			return nil, fmt.Errorf("ear: want on or off, got %q", args[0])
		}
		return func(s *session) error { s.m.SetEar(high); return nil }, nil

	case "sync":
		if err := nargs(0); err != nil {
			return nil, err
		}
		return (*session).sync, nil

	case "step":
		if err := nargs(0, 1); err != nil {
			return nil, err
		}
		n := 1
		if len(args) == 1 {
			var err error
			if n, err = strconv.Atoi(args[0]); err != nil || n < 1 {
				return nil, fmt.Errorf("step: invalid count %q", args[0])
			}
		}
		return func(s *session) error { return s.step(n) }, nil

	case "print":
		if err := nargs(0); err != nil {
			return nil, err
		}
		return (*session).print, nil

	case "expect":
		want := strings.TrimSpace(strings.TrimPrefix(text, name))
		if strings.HasPrefix(want, `"`) {
			var err error
			if want, err = strconv.Unquote(want); err != nil {
				return nil, fmt.Errorf("expect: %v", err)
			}
		}
		return func(s *session) error { return s.expect(want) }, nil

	case "cursor":
		if err := nargs(2); err != nil {
			return nil, err
		}
		x, err1 := strconv.Atoi(args[0])
		y, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("cursor: invalid position %q %q", args[0], args[1])
		}
		return func(s *session) error { return s.expectCursor(x, y) }, nil

	case "screen":
		if err := nargs(1); err != nil {
			return nil, err
		}
		fp := args[0]
		return func(s *session) error { return s.expectScreen(fp) }, nil
	}
	return nil, fmt.Errorf("unknown command %q", name)
}

func parseMouse(sub string, args []string) (func(*session) error, error) {
	switch sub {
	case "move":
		if len(args) != 2 {
			return nil, fmt.Errorf("mouse move: %w", errUsage)
		}
		dx, err1 := strconv.ParseInt(args[0], 10, 8)
		dy, err2 := strconv.ParseInt(args[1], 10, 8)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("mouse move: invalid delta %q %q", args[0], args[1])
		}
		return func(s *session) error {
			s.m.MoveMouse(int8(dx), int8(dy))
			return nil
		}, nil

	case "button":
		if len(args) != 2 {
			return nil, fmt.Errorf("mouse button: %w", errUsage)
		}
		b, err := zx.ParseMouseButton(args[0])
		if err != nil {
			return nil, err
		}
		pressed, err := parseDirection(args[1])
		if err != nil {
			return nil, err
		}
		return func(s *session) error { s.m.SendMouseButton(b, pressed); return nil }, nil

	case "wheel":
		if len(args) != 1 && len(args) != 2 {
			return nil, fmt.Errorf("mouse wheel: %w", errUsage)
		}
		var dir zx.WheelDirection
		switch args[0] {
		case "up":
			dir = zx.WheelUp
		case "down":
			dir = zx.WheelDown
		default:
			return nil, fmt.Errorf("mouse wheel: want up or down, got %q", args[0])
		}
		n := 1
		if len(args) == 2 {
			var err error
			if n, err = strconv.Atoi(args[1]); err != nil || n < 1 {
				return nil, fmt.Errorf("mouse wheel: invalid count %q", args[1])
			}
		}
		return func(s *session) error {
			for i := 0; i < n; i++ {
				s.m.ScrollMouse(dir)
			}
			return nil
		}, nil
	}
	return nil, fmt.Errorf("unknown mouse command %q", sub)
}

func parseDirection(s string) (pressed bool, err error) {
	switch s {
	case "down":
		return true, nil
	case "up":
		return false, nil
	}
	return false, fmt.Errorf("want down or up, got %q", s)
}

// defaultScripts are run when no script is named on the command line.
var defaultScripts = map[string]string{
	"keyboard": `# Report the idle matrix, then a few presses.
sync
print
key a down
sync
print
key a up
compound up down
sync
print
compound up up
sync
print
`,
	"joystick": `# Press each line in turn, then release them in the same order.
expect 00
joy right down
sync
joy left down
sync
joy down down
sync
joy up down
sync
joy fire down
sync
joy ext1 down
sync
joy ext2 down
sync
joy ext3 down
sync
joy right up
sync
joy left up
sync
joy down up
sync
joy up up
sync
joy fire up
sync
joy ext1 up
sync
joy ext2 up
sync
joy ext3 up
sync
expect 01>03>07>0F>1F>3F>7F>FF>FE>FC>F8>F0>E0>C0>80>00
sync
`,
	"mouse": `step
mouse move 10 5
mouse button left down
step
cursor 10 5
mouse move 0 127
step
mouse move 0 64
step
cursor 10 1
mouse wheel up 3
step
print
`,
}
