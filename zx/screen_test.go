package zx

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/nf/zxprobe/guest"
)

func TestScreenPlot(t *testing.T) {
	s := NewScreen()
	s.SetColor(guest.Blue)
	s.Plot(3, 4)
	s.Plot(-1, 0)
	s.Plot(ScreenWidth, 0)
	if !s.IsSet(3, 4) || s.ColorAt(3, 4) != guest.Blue {
		t.Errorf("pixel (3, 4) == %v, %d; want set, blue", s.IsSet(3, 4), s.ColorAt(3, 4))
	}
	s.Unplot(3, 4)
	if s.IsSet(3, 4) || s.ColorAt(3, 4) != paper {
		t.Errorf("pixel (3, 4) not cleared")
	}
	if g := s.Ops(); g != 5 {
		t.Errorf("Ops() == %d, want 5", g)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen()
	s.SetColor(guest.Red)
	s.DrawBox(10, 20, 3, 3)
	for y := 19; y <= 23; y++ {
		for x := 9; x <= 13; x++ {
			edge := x >= 10 && x <= 12 && y >= 20 && y <= 22 && !(x == 11 && y == 21)
			if g := s.IsSet(x, y); g != edge {
				t.Errorf("pixel (%d, %d) set == %v, want %v", x, y, g, edge)
			}
			if edge && s.ColorAt(x, y) != guest.Red {
				t.Errorf("pixel (%d, %d) color %d, want red", x, y, s.ColorAt(x, y))
			}
		}
	}
}

func TestScreenScaled(t *testing.T) {
	s := NewScreen()
	s.SetColor(guest.Green)
	s.Plot(1, 1)
	dst := image.NewRGBA(image.Rect(0, 0, ScreenWidth*2, ScreenHeight*2))
	s.Scaled(dst, 2)
	for _, c := range []struct {
		x, y int
		want guest.Color
	}{
		{0, 0, paper},
		{1, 1, paper},
		{2, 2, guest.Green},
		{3, 3, guest.Green},
		{4, 4, paper},
	} {
		if g, w := dst.At(c.x, c.y), Palette[c.want]; g != w {
			t.Errorf("At(%d, %d) == %v, want %v", c.x, c.y, g, w)
		}
	}
}

func TestScreenFingerprint(t *testing.T) {
	a, b := NewScreen(), NewScreen()
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("blank screens have different fingerprints")
	}
	a.Plot(100, 100)
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("fingerprint unchanged by Plot")
	}
	a.Unplot(100, 100)
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprint differs after Unplot restored the screen")
	}

	var buf bytes.Buffer
	if err := a.WritePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if g := img.Bounds().Size(); g != (image.Point{ScreenWidth, ScreenHeight}) {
		t.Errorf("PNG size %v", g)
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen()
	s.SetColor(guest.Cyan)
	s.DrawBox(0, 0, 8, 8)
	s.Clear()
	if s.IsSet(0, 0) {
		t.Error("pixel set after Clear")
	}
	s.Plot(1, 1)
	if g := s.ColorAt(1, 1); g != guest.Black {
		t.Errorf("ink after Clear is %d, want black", g)
	}
}
