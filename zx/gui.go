package zx

import (
	"fmt"
	"image"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// FrameRate is the number of frames per second the GUI steps the guest.
const FrameRate = 50

const guiScale = 3

// GUI shows the Machine's screen in a window and feeds the window's mouse
// and keyboard events into the Kempston mouse and the keyboard matrix.
type GUI struct {
	m     *Machine
	frame func() // called once per frame, e.g. to step a guest

	mouseX, mouseY float32
	mouseValid     bool

	buf   screen.Buffer
	tex   screen.Texture
	ops   int // matches m.scr.Ops() after the last upload
	dirty bool
}

func NewGUI(m *Machine, frame func()) *GUI {
	return &GUI{m: m, frame: frame}
}

// Run drives the window until it is closed or exit is closed.
func (g *GUI) Run(exit <-chan bool) error {
	var runErr error
	driver.Main(func(s screen.Screen) {
		w, err := s.NewWindow(&screen.NewWindowOptions{
			Title:  "zxprobe",
			Width:  ScreenWidth * guiScale,
			Height: ScreenHeight * guiScale,
		})
		if err != nil {
			runErr = err
			return
		}
		defer w.Release()
		defer g.release()

		type update struct{}
		stop := make(chan bool)
		defer close(stop)
		go func() {
			t := time.NewTicker(time.Second / FrameRate)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					w.Send(update{})
				case <-exit:
					w.Send(update{}) // wake the event loop
					return
				case <-stop:
					return
				}
			}
		}()

		var sz size.Event
		for {
			e := w.NextEvent()

			select {
			case <-exit:
				return
			default:
			}

			switch e := e.(type) {
			case size.Event:
				sz = e
				if sz.WidthPx+sz.HeightPx == 0 {
					return
				}

			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case paint.Event:
				g.dirty = true

			case mouse.Event:
				g.mouseEvent(e, sz)

			case key.Event:
				g.keyEvent(e)

			case update:
				if g.frame != nil {
					g.frame()
				}
				if err := g.update(s); err != nil {
					runErr = fmt.Errorf("update: %v", err)
					return
				}
				if g.dirty {
					w.Scale(sz.Bounds(), g.tex, g.tex.Bounds(), draw.Src, nil)
					w.Publish()
					g.dirty = false
				}

			case error:
				log.Print(e)
			}
		}
	})
	return runErr
}

func (g *GUI) mouseEvent(e mouse.Event, sz size.Event) {
	if sz.WidthPx == 0 || sz.HeightPx == 0 {
		return
	}
	x := float32(ScreenWidth) / float32(sz.WidthPx) * e.X
	y := float32(ScreenHeight) / float32(sz.HeightPx) * e.Y
	if g.mouseValid {
		dx, dy := int(x)-int(g.mouseX), int(y)-int(g.mouseY)
		if dx != 0 || dy != 0 {
			g.m.MoveMouse(clampInt8(dx), clampInt8(dy))
		}
	}
	g.mouseX, g.mouseY, g.mouseValid = x, y, true

	switch e.Button {
	case mouse.ButtonLeft:
		g.m.SendMouseButton(MouseLeft, e.Direction == mouse.DirPress)
	case mouse.ButtonRight:
		g.m.SendMouseButton(MouseRight, e.Direction == mouse.DirPress)
	case mouse.ButtonMiddle:
		g.m.SendMouseButton(MouseMiddle, e.Direction == mouse.DirPress)
	case mouse.ButtonWheelUp:
		g.m.ScrollMouse(WheelUp)
	case mouse.ButtonWheelDown:
		g.m.ScrollMouse(WheelDown)
	}
}

var keyCodes = map[key.Code]Key{
	key.CodeLeftShift:   KeyShift,
	key.CodeRightShift:  KeySymShift,
	key.CodeReturnEnter: KeyEnter,
	key.CodeSpacebar:    KeySpace,
}

var compoundCodes = map[key.Code]CompoundKey{
	key.CodeLeftArrow:       ArrowLeft,
	key.CodeRightArrow:      ArrowRight,
	key.CodeUpArrow:         ArrowUp,
	key.CodeDownArrow:       ArrowDown,
	key.CodeDeleteBackspace: Delete,
	key.CodeEscape:          Break,
}

func (g *GUI) keyEvent(e key.Event) {
	if e.Direction == key.DirNone {
		return
	}
	pressed := e.Direction == key.DirPress
	if k, ok := compoundCodes[e.Code]; ok {
		g.m.SendCompoundKey(k, pressed)
		return
	}
	if k, ok := keyCodes[e.Code]; ok {
		g.m.SendKey(k, pressed)
		return
	}
	if e.Rune > 0 && e.Rune < 0x80 {
		if k, err := ParseKey(string(e.Rune)); err == nil {
			g.m.SendKey(k, pressed)
		}
	}
}

func (g *GUI) update(s screen.Screen) (err error) {
	dim := image.Point{ScreenWidth * guiScale, ScreenHeight * guiScale}
	if g.tex == nil {
		g.buf, err = s.NewBuffer(dim)
		if err != nil {
			return
		}
		g.tex, err = s.NewTexture(dim)
		if err != nil {
			return
		}
		g.ops = -1
	}
	if o := g.m.scr.Ops(); g.ops != o {
		g.ops = o
		g.m.scr.Scaled(g.buf.RGBA(), guiScale)
		g.tex.Upload(image.Point{}, g.buf, g.buf.Bounds())
		g.dirty = true
	}
	return
}

func (g *GUI) release() {
	if g.tex != nil {
		g.tex.Release()
	}
	if g.buf != nil {
		g.buf.Release()
	}
}

func clampInt8(v int) int8 {
	const max, min = 127, -128
	switch {
	case v > max:
		return max
	case v < min:
		return min
	default:
		return int8(v)
	}
}
