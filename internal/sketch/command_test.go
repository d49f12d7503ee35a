package sketch

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrokeSinglePointRendersDisc(t *testing.T) {
	ink := color.RGBA{0x22, 0x22, 0x22, 0xff}
	s := NewStroke(Point{10, 10}, 8, ink)
	var r recorder
	s.Render(&r)
	require.Len(t, r.ops, 1)
	assert.Equal(t, "disc", r.ops[0].kind)
	assert.Equal(t, 4.0, r.ops[0].radius)
	assert.Equal(t, Point{10, 10}, r.ops[0].pts[0])
	assert.Equal(t, ink, r.ops[0].color)
}

func TestStrokePolyline(t *testing.T) {
	s := NewStroke(Point{0, 0}, 3, color.RGBA{A: 255})
	s.Extend(Point{5, 0})
	s.Extend(Point{5, 5})
	var r recorder
	s.Render(&r)
	require.Len(t, r.ops, 1)
	assert.Equal(t, "polyline", r.ops[0].kind)
	assert.Equal(t, []Point{{0, 0}, {5, 0}, {5, 5}}, r.ops[0].pts)
	assert.Equal(t, 3.0, r.ops[0].style.Width)
	assert.Nil(t, r.ops[0].style.Dash)
}

func TestStrokePointsIsACopy(t *testing.T) {
	s := NewStroke(Point{1, 1}, 3, color.RGBA{A: 255})
	pts := s.Points()
	pts[0] = Point{9, 9}
	assert.Equal(t, Point{1, 1}, s.Points()[0])
}

func TestStickerExtendMovesAnchor(t *testing.T) {
	s := NewSticker(Point{50, 50}, "🚀", 32)
	s.Extend(Point{60, 70})
	s.Extend(Point{61, 71})
	assert.Equal(t, Point{61, 71}, s.Anchor())

	var r recorder
	s.Render(&r)
	require.Len(t, r.ops, 1)
	assert.Equal(t, "text", r.ops[0].kind)
	assert.Equal(t, "🚀", r.ops[0].text)
	assert.Equal(t, 32.0, r.ops[0].size)
	assert.Equal(t, Point{61, 71}, r.ops[0].pts[0])
}

func TestCommandIDsAreUnique(t *testing.T) {
	a := NewStroke(Point{}, 1, color.RGBA{})
	b := NewStroke(Point{}, 1, color.RGBA{})
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestPreviewHiddenDrawsNothing(t *testing.T) {
	var r recorder
	m := NewMarkerPreview(8, color.RGBA{A: 255})
	m.Render(&r)
	s := NewStickerPreview("⭐", 24)
	s.Render(&r)
	assert.Empty(t, r.ops)
}

func TestMarkerPreviewIsDashedCircle(t *testing.T) {
	var r recorder
	m := NewMarkerPreview(8, color.RGBA{0x22, 0x22, 0x22, 0xff})
	m.SetPosition(Point{3, 4})
	m.SetVisible(true)
	m.Render(&r)
	require.Len(t, r.ops, 1)
	assert.Equal(t, "circle", r.ops[0].kind)
	assert.Equal(t, 4.0, r.ops[0].radius)
	assert.NotEmpty(t, r.ops[0].style.Dash)
	_, _, _, a := r.ops[0].style.Color.RGBA()
	assert.Less(t, a, uint32(0xffff))
}
