package sketch

import "image/color"

// Preview is the ghost of the next command, drawn at the pointer. It is
// never part of the drawing log.
type Preview interface {
	SetPosition(p Point)
	Position() Point
	SetVisible(v bool)
	Visible() bool
	Render(s Surface)
}

type cursor struct {
	pos     Point
	visible bool
}

func (c *cursor) SetPosition(p Point) { c.pos = p }
func (c *cursor) Position() Point     { return c.pos }
func (c *cursor) SetVisible(v bool)   { c.visible = v }
func (c *cursor) Visible() bool       { return c.visible }

var previewDash = []float64{4, 4}

// translucent returns c with its alpha scaled to roughly half.
func translucent(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A / 2}
}

// MarkerPreview outlines the marker tip.
type MarkerPreview struct {
	cursor
	thickness float64
	color     color.RGBA
}

var _ Preview = (*MarkerPreview)(nil)

func NewMarkerPreview(thickness float64, c color.RGBA) *MarkerPreview {
	return &MarkerPreview{thickness: thickness, color: c}
}

func (m *MarkerPreview) SetThickness(t float64) { m.thickness = t }
func (m *MarkerPreview) Thickness() float64     { return m.thickness }
func (m *MarkerPreview) SetColor(c color.RGBA)  { m.color = c }

// Render draws a dashed circle whose diameter matches the stroke thickness.
func (m *MarkerPreview) Render(s Surface) {
	if !m.visible {
		return
	}
	s.Circle(m.pos, m.thickness/2, LineStyle{Width: 1, Color: translucent(m.color), Dash: previewDash})
}

// StickerPreview shows a faded copy of the sticker glyph.
type StickerPreview struct {
	cursor
	glyph string
	size  float64
}

var _ Preview = (*StickerPreview)(nil)

func NewStickerPreview(glyph string, size float64) *StickerPreview {
	return &StickerPreview{glyph: glyph, size: size}
}

func (p *StickerPreview) SetGlyph(g string)  { p.glyph = g }
func (p *StickerPreview) Glyph() string      { return p.glyph }
func (p *StickerPreview) SetSize(sz float64) { p.size = sz }

func (p *StickerPreview) Render(s Surface) {
	if !p.visible || p.glyph == "" {
		return
	}
	s.Text(p.glyph, p.pos, p.size, translucent(stickerInk))
}
