package zx

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"golang.org/x/image/draw"

	"github.com/nf/zxprobe/guest"
)

const (
	ScreenWidth  = 256
	ScreenHeight = 192
)

// Palette holds the eight Spectrum colors at normal brightness, indexed
// by guest.Color.
var Palette = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xff},
	color.RGBA{0x00, 0x00, 0xd7, 0xff},
	color.RGBA{0xd7, 0x00, 0x00, 0xff},
	color.RGBA{0xd7, 0x00, 0xd7, 0xff},
	color.RGBA{0x00, 0xd7, 0x00, 0xff},
	color.RGBA{0x00, 0xd7, 0xd7, 0xff},
	color.RGBA{0xd7, 0xd7, 0x00, 0xff},
	color.RGBA{0xd7, 0xd7, 0xd7, 0xff},
}

// Screen is the Spectrum display as a guest.Canvas: a bitmap of set
// pixels plus the color each pixel was last drawn in. Paper is white.
// Drawing outside the screen is ignored.
type Screen struct {
	mu   sync.Mutex
	ink  guest.Color
	bits [ScreenWidth * ScreenHeight]bool
	img  *image.Paletted
	ops  int // total count of draw operations
}

const paper = guest.White

func NewScreen() *Screen {
	s := &Screen{img: image.NewPaletted(image.Rect(0, 0, ScreenWidth, ScreenHeight), Palette)}
	s.Clear()
	return s
}

// Clear resets every pixel to paper and the ink to black.
func (s *Screen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bits {
		s.bits[i] = false
	}
	for i := range s.img.Pix {
		s.img.Pix[i] = uint8(paper)
	}
	s.ink = guest.Black
	s.ops++
}

func inside(x, y int) bool {
	return 0 <= x && x < ScreenWidth && 0 <= y && y < ScreenHeight
}

func (s *Screen) set(x, y int, on bool, c guest.Color) {
	if !inside(x, y) {
		return
	}
	s.bits[y*ScreenWidth+x] = on
	s.img.SetColorIndex(x, y, uint8(c))
}

func (s *Screen) Plot(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(x, y, true, s.ink)
	s.ops++
}

func (s *Screen) Unplot(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(x, y, false, paper)
	s.ops++
}

func (s *Screen) SetColor(c guest.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ink = c & 7
}

// DrawBox draws the outline of a w by h box with its top left corner at
// (x, y).
func (s *Screen) DrawBox(x, y, w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w <= 0 || h <= 0 {
		return
	}
	for i := 0; i < w; i++ {
		s.set(x+i, y, true, s.ink)
		s.set(x+i, y+h-1, true, s.ink)
	}
	for j := 0; j < h; j++ {
		s.set(x, y+j, true, s.ink)
		s.set(x+w-1, y+j, true, s.ink)
	}
	s.ops++
}

// IsSet reports whether the pixel at (x, y) is set.
func (s *Screen) IsSet(x, y int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return inside(x, y) && s.bits[y*ScreenWidth+x]
}

// ColorAt returns the color of the pixel at (x, y).
func (s *Screen) ColorAt(x, y int) guest.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !inside(x, y) {
		return paper
	}
	return guest.Color(s.img.ColorIndexAt(x, y))
}

// Ops returns the number of draw operations performed so far.
func (s *Screen) Ops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops
}

// Image returns a copy of the screen.
func (s *Screen) Image() *image.Paletted {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := image.NewPaletted(s.img.Rect, s.img.Palette)
	copy(m.Pix, s.img.Pix)
	return m
}

// Scaled draws the screen, enlarged n times, into dst at the origin.
func (s *Screen) Scaled(dst draw.Image, n int) {
	src := s.Image()
	r := image.Rect(0, 0, ScreenWidth*n, ScreenHeight*n)
	draw.NearestNeighbor.Scale(dst, r, src, src.Bounds(), draw.Src, nil)
}

func (s *Screen) WritePNG(w io.Writer) error {
	return png.Encode(w, s.Image())
}

// Fingerprint returns the base64 encoded SHA-256 of the screen's PNG
// encoding.
func (s *Screen) Fingerprint() string {
	var b bytes.Buffer
	if err := s.WritePNG(&b); err != nil {
		// Encoding an in-memory paletted image cannot fail.
		panic(err)
	}
	sum := sha256.Sum256(b.Bytes())
	return base64.StdEncoding.EncodeToString(sum[:])
}
