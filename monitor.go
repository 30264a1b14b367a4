package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// monitor is the dev mode terminal UI: guest output, the log, a device
// state line, and a command input that accepts script commands.
type monitor struct {
	out   *tview.TextView // guest output
	log   *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	cmds  chan string
	reset chan bool
}

func newMonitor() *monitor {
	m := &monitor{
		out: tview.NewTextView().
			SetMaxLines(1000).
			SetWrap(false),
		log: tview.NewTextView().
			SetMaxLines(1000),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),

		cmds:  make(chan string, 16),
		reset: make(chan bool, 1),
	}
	m.out.SetChangedFunc(func() { m.app.Draw() })
	m.log.SetChangedFunc(func() { m.app.Draw() })
	m.out.SetBackgroundColor(tcell.ColorDarkBlue)
	m.state.SetBackgroundColor(tcell.ColorDarkGrey)
	m.cols.
		AddItem(m.out, 0, 1, false).
		AddItem(m.log, 0, 2, false)
	m.rows.
		AddItem(m.cols, 0, 1, false).
		AddItem(m.state, 3, 0, false).
		AddItem(m.input, 1, 0, true)
	m.app.SetRoot(m.rows, true)

	m.input.SetAutocompleteFunc(complete)
	m.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			m.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	m.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := strings.TrimSpace(m.input.GetText())
		if cmd == "" {
			return
		}
		m.input.SetText("")
		switch cmd {
		case "exit":
			m.app.Stop()
		case "reset":
			select {
			case m.reset <- true:
			default:
			}
		default:
			if _, err := parseCommand(cmd); err != nil {
				log.Printf("%v", err)
				return
			}
			m.cmds <- cmd
		}
	})
	return m
}

func (m *monitor) Run() error { return m.app.Run() }

// update shows the state of s, which may be nil before the first run.
func (m *monitor) update(s *session, err error) {
	var (
		msg    string
		exited bool
	)
	if s != nil {
		msg = stateMsg(s)
		exited = s.r != nil && !s.r.Running()
	}
	m.app.QueueUpdateDraw(func() {
		switch {
		case err != nil:
			m.state.SetTextColor(tcell.ColorWhite)
			m.state.SetBackgroundColor(tcell.ColorDarkRed)
		case exited:
			m.state.SetTextColor(tcell.ColorYellow)
			m.state.SetBackgroundColor(tcell.ColorDarkBlue)
		default:
			m.state.SetTextColor(tcell.ColorBlack)
			m.state.SetBackgroundColor(tcell.ColorDarkGrey)
		}
		m.state.SetText(msg)
	})
}

func stateMsg(s *session) string {
	var (
		st   = s.m.State()
		kind = "[run]"
		b    strings.Builder
	)
	switch {
	case s.demo != nil:
		p := s.demo.Position()
		kind = fmt.Sprintf("[%s] cursor %d,%d wheel %d", s.demo.State(), p.X, p.Y, s.demo.Wheel())
	case !s.r.Running():
		kind = "[exit]"
	}
	fmt.Fprintf(&b, "%s %s\n", s.name, kind)
	fmt.Fprintf(&b, "kbd: % x  joy: %.2x  ear: %v  border: %d\n",
		st.Keyboard[:], st.Joystick, st.Ear, st.Border)
	fmt.Fprintf(&b, "mouse: x %.2x y %.2x status %.2x", st.MouseX, st.MouseY, st.MouseStatus)
	return b.String()
}
