// Package render draws sketch commands into an in-memory RGBA image.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/Smoopi/D2-Assignment/internal/sketch"
	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// ErrNoSurface is returned when a drawing surface cannot be created.
var ErrNoSurface = errors.New("no usable drawing surface")

// Raster is a sketch.Surface backed by an RGBA image.
type Raster struct {
	img        *image.RGBA
	dc         *gg.Context
	background color.Color
	fontData   []byte
	font       *opentype.Font
	faces      map[float64]font.Face
	logger     *log.Logger
}

var _ sketch.Surface = (*Raster)(nil)

// Option configures a Raster.
type Option func(*Raster)

// WithBackground sets the colour Clear fills with.
func WithBackground(c color.Color) Option { return func(r *Raster) { r.background = c } }

// WithLogger sets the logger used to report text that cannot be drawn.
func WithLogger(l *log.Logger) Option {
	return func(r *Raster) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithFontData uses the given TrueType or OpenType font for text.
func WithFontData(b []byte) Option { return func(r *Raster) { r.fontData = b } }

// NewRaster allocates a width×height surface cleared to the background.
func NewRaster(width, height int, opts ...Option) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrNoSurface, width, height)
	}
	r := &Raster{
		background: color.White,
		fontData:   goregular.TTF,
		faces:      map[float64]font.Face{},
		logger:     log.New(io.Discard),
	}
	for _, o := range opts {
		o(r)
	}
	f, err := opentype.Parse(r.fontData)
	if err != nil {
		return nil, fmt.Errorf("%w: parse font: %v", ErrNoSurface, err)
	}
	r.font = f
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	r.dc = gg.NewContextForRGBA(r.img)
	r.dc.SetLineCap(gg.LineCapRound)
	r.dc.SetLineJoin(gg.LineJoinRound)
	r.Clear()
	return r, nil
}

// Image returns the backing image. It is redrawn in place.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Bounds() image.Rectangle { return r.img.Bounds() }

func (r *Raster) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }

func (r *Raster) SavePNG(path string) error {
	if err := r.dc.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// SetBackground changes the colour used by the next Clear.
func (r *Raster) SetBackground(c color.Color) { r.background = c }

// Clear fills the whole surface with the background.
func (r *Raster) Clear() {
	r.dc.ClearPath()
	r.dc.SetColor(r.background)
	r.dc.Clear()
}

func (r *Raster) applyStyle(style sketch.LineStyle) {
	r.dc.SetLineWidth(style.Width)
	r.dc.SetColor(style.Color)
	r.dc.SetDash(style.Dash...)
}

// Polyline strokes pts as one connected path.
func (r *Raster) Polyline(pts []sketch.Point, style sketch.LineStyle) {
	if len(pts) == 0 {
		return
	}
	r.applyStyle(style)
	r.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		r.dc.LineTo(p.X, p.Y)
	}
	r.dc.Stroke()
}

func (r *Raster) Disc(center sketch.Point, radius float64, c color.Color) {
	r.dc.SetColor(c)
	r.dc.DrawCircle(center.X, center.Y, radius)
	r.dc.Fill()
}

func (r *Raster) Circle(center sketch.Point, radius float64, style sketch.LineStyle) {
	r.applyStyle(style)
	r.dc.DrawCircle(center.X, center.Y, radius)
	r.dc.Stroke()
}

// Text draws s centred on at. Glyphs missing from the font, such as emoji
// with the default Go font, are drawn as a badge instead.
func (r *Raster) Text(s string, at sketch.Point, size float64, c color.Color) {
	if s == "" {
		return
	}
	if size <= 0 {
		r.logger.Warn("text not drawn", "text", s, "size", size)
		return
	}
	if ch, ok := r.missingGlyph(s); ok {
		r.logger.Debug("no glyph in font, drawing badge", "text", s, "rune", fmt.Sprintf("%U", ch))
		r.badge(ch, at, size, c)
		return
	}
	face, err := r.face(size)
	if err != nil {
		r.logger.Warn("text not drawn", "text", s, "size", size, "err", err)
		return
	}
	r.dc.SetFontFace(face)
	r.dc.SetColor(c)
	r.dc.DrawStringAnchored(s, at.X, at.Y, 0.5, 0.5)
}

// missingGlyph returns the first rune of s the font has no glyph for.
// Joiners and variation selectors are skipped.
func (r *Raster) missingGlyph(s string) (rune, bool) {
	for _, ch := range s {
		if ch == '\u200d' || (ch >= '\ufe00' && ch <= '\ufe0f') {
			continue
		}
		idx, err := r.font.GlyphIndex(nil, ch)
		if err != nil || idx == 0 {
			return ch, true
		}
	}
	return 0, false
}

// badge is a disc tinted by the code point and outlined in c, about as large
// as the glyph would be. It takes its opacity from c.
func (r *Raster) badge(ch rune, at sketch.Point, size float64, c color.Color) {
	radius := size * 0.4
	_, _, _, a := c.RGBA()
	red, green, blue := colorful.Hsv(float64((int64(ch)*137)%360), 0.65, 0.95).RGB255()
	r.dc.SetColor(color.NRGBA{red, green, blue, uint8(a >> 8)})
	r.dc.DrawCircle(at.X, at.Y, radius)
	r.dc.Fill()
	r.dc.SetDash()
	r.dc.SetLineWidth(math.Max(1, size/16))
	r.dc.SetColor(c)
	r.dc.DrawCircle(at.X, at.Y, radius)
	r.dc.Stroke()
}

func (r *Raster) face(size float64) (font.Face, error) {
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	r.faces[size] = f
	return f, nil
}

// Snapshot replays h onto a new raster of the same size, background and font.
// Tool previews drawn on r are not carried over, so the result is what gets
// exported.
func (r *Raster) Snapshot(h *sketch.History) *Raster {
	img := image.NewRGBA(r.img.Bounds())
	cp := &Raster{
		img:        img,
		dc:         gg.NewContextForRGBA(img),
		background: r.background,
		fontData:   r.fontData,
		font:       r.font,
		faces:      r.faces,
		logger:     r.logger,
	}
	cp.dc.SetLineCap(gg.LineCapRound)
	cp.dc.SetLineJoin(gg.LineJoinRound)
	cp.Clear()
	h.Replay(cp)
	return cp
}
