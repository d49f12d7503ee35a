package sketch

import (
	"fmt"
	"image/color"

	"github.com/google/uuid"
)

// Command is an entry of the drawing log. The set of implementations is
// closed: *Stroke and *Sticker.
type Command interface {
	ID() uuid.UUID
	Render(s Surface)
	isCommand()
}

// Draggable commands change shape while their gesture is open.
type Draggable interface {
	Command
	Extend(p Point)
}

// Stroke is a freehand polyline with a fixed thickness and colour.
type Stroke struct {
	id        uuid.UUID
	points    []Point
	thickness float64
	color     color.RGBA
}

var _ Draggable = (*Stroke)(nil)

// NewStroke starts a stroke at p.
func NewStroke(p Point, thickness float64, c color.RGBA) *Stroke {
	return &Stroke{id: uuid.New(), points: []Point{p}, thickness: thickness, color: c}
}

func (s *Stroke) isCommand() {}

func (s *Stroke) ID() uuid.UUID { return s.id }

// Points returns a copy of the recorded points.
func (s *Stroke) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

func (s *Stroke) Thickness() float64 { return s.thickness }

func (s *Stroke) Color() color.RGBA { return s.color }

// Extend appends p to the stroke.
func (s *Stroke) Extend(p Point) { s.points = append(s.points, p) }

// Render draws the stroke. A single point is drawn as a dot of the stroke's
// thickness so a tap still leaves a mark.
func (s *Stroke) Render(dst Surface) {
	if len(s.points) == 1 {
		dst.Disc(s.points[0], s.thickness/2, s.color)
		return
	}
	dst.Polyline(s.points, LineStyle{Width: s.thickness, Color: s.color})
}

func (s *Stroke) String() string {
	return fmt.Sprintf("stroke %s points=%d thickness=%g", s.id, len(s.points), s.thickness)
}

// stickerInk is the colour stickers are stamped with.
var stickerInk = color.RGBA{0, 0, 0, 255}

// Sticker is a glyph stamped at an anchor. Dragging moves the anchor.
type Sticker struct {
	id     uuid.UUID
	anchor Point
	glyph  string
	size   float64
}

var _ Draggable = (*Sticker)(nil)

// NewSticker places glyph at p.
func NewSticker(p Point, glyph string, size float64) *Sticker {
	return &Sticker{id: uuid.New(), anchor: p, glyph: glyph, size: size}
}

func (s *Sticker) isCommand() {}

func (s *Sticker) ID() uuid.UUID { return s.id }

func (s *Sticker) Anchor() Point { return s.anchor }

func (s *Sticker) Glyph() string { return s.glyph }

func (s *Sticker) Size() float64 { return s.size }

// Extend moves the sticker to p.
func (s *Sticker) Extend(p Point) { s.anchor = p }

func (s *Sticker) Render(dst Surface) {
	dst.Text(s.glyph, s.anchor, s.size, stickerInk)
}

func (s *Sticker) String() string {
	return fmt.Sprintf("sticker %s %q at (%g,%g) size=%g", s.id, s.glyph, s.anchor.X, s.anchor.Y, s.size)
}
