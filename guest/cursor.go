package guest

// Color is a Spectrum ink color.
type Color byte

const (
	Black Color = iota
	Blue
	Red
	Magenta
	Green
	Cyan
	Yellow
	White
)

// Canvas is the drawing surface the cursor is rendered on.
// Plot and DrawBox use the color last passed to SetColor.
type Canvas interface {
	Plot(x, y int)
	Unplot(x, y int)
	SetColor(c Color)
	DrawBox(x, y, w, h int)
}

type Point struct{ X, Y int }

// Sprite is an 8x8 monochrome bitmap, one byte per row, most significant
// bit leftmost.
type Sprite [8]byte

// DefaultCursor is an arrow pointing up and to the left.
var DefaultCursor = Sprite{0xe0, 0xf8, 0xfe, 0x7f, 0x7c, 0x3e, 0x37, 0x13}

// Covers reports whether the sprite, anchored at pos, has its pixel at
// screen cell p set.
func (s *Sprite) Covers(pos, p Point) bool {
	if p.X < pos.X || p.X >= pos.X+8 || p.Y < pos.Y || p.Y >= pos.Y+8 {
		return false
	}
	return s[p.Y-pos.Y]&(0x80>>uint(p.X-pos.X)) != 0
}

// CursorRenderer moves a sprite around a canvas without redrawing
// anything outside the old and new sprite footprints.
type CursorRenderer struct {
	c      Canvas
	sprite Sprite
}

func NewCursorRenderer(c Canvas, s Sprite) *CursorRenderer {
	return &CursorRenderer{c: c, sprite: s}
}

// Render moves the cursor from prev to pos. Pixels of the old shape that
// the new shape does not cover are cleared, then the new shape is plotted.
// Cells of either footprint outside the shapes are left alone.
func (r *CursorRenderer) Render(pos, prev Point) {
	r.c.SetColor(Black)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p := Point{prev.X + x, prev.Y + y}
			if r.sprite.Covers(prev, p) && !r.sprite.Covers(pos, p) {
				r.c.Unplot(p.X, p.Y)
			}
		}
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p := Point{pos.X + x, pos.Y + y}
			if r.sprite.Covers(pos, p) {
				r.c.Plot(p.X, p.Y)
			}
		}
	}
}

const indicatorSize = 3

// PaintButtonBox paints the indicator for button index along the top edge
// of the screen: red when pressed, white otherwise.
func (r *CursorRenderer) PaintButtonBox(index int, pressed bool) {
	if pressed {
		r.c.SetColor(Red)
	} else {
		r.c.SetColor(White)
	}
	r.c.DrawBox(32*index, 0, indicatorSize, indicatorSize)
}

// PaintScrollBox moves the wheel indicator on the left edge of the screen
// from row prev to row y.
func (r *CursorRenderer) PaintScrollBox(prev, y int) {
	r.c.SetColor(White)
	r.c.DrawBox(0, prev, indicatorSize, indicatorSize)
	r.c.SetColor(Red)
	r.c.DrawBox(0, y, indicatorSize, indicatorSize)
}
