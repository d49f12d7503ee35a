package sketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController() (*Controller, *recorder) {
	r := &recorder{}
	return NewController(r), r
}

func TestControllerStrokeUndoRedoScenario(t *testing.T) {
	c, _ := newTestController()
	c.SelectThinMarker()
	c.PointerDown(Point{10, 10})
	c.PointerMove(Point{20, 10})
	c.PointerUp(Point{20, 10})
	require.True(t, c.Undo())
	require.True(t, c.Redo())

	cmds := c.History().Commands()
	require.Len(t, cmds, 1)
	s, ok := cmds[0].(*Stroke)
	require.True(t, ok)
	assert.Equal(t, []Point{{10, 10}, {20, 10}}, s.Points())
	assert.Equal(t, 0, c.History().RedoLen())
	assert.Equal(t, Affordances{Undo: true, Redo: false, Clear: true}, c.Affordances())
}

func TestControllerStickerScenario(t *testing.T) {
	c, _ := newTestController()
	c.SelectSticker("🚀")
	c.PointerDown(Point{50, 50})
	c.PointerUp(Point{50, 50})
	cmds := c.History().Commands()
	require.Len(t, cmds, 1)
	s, ok := cmds[0].(*Sticker)
	require.True(t, ok)
	assert.Equal(t, Point{50, 50}, s.Anchor())

	c.PointerDown(Point{10, 10})
	c.PointerMove(Point{30, 40})
	c.PointerUp(Point{30, 40})
	moved := c.History().Commands()[1].(*Sticker)
	assert.Equal(t, Point{30, 40}, moved.Anchor())
}

func TestControllerTapRendersDisc(t *testing.T) {
	c, r := newTestController()
	c.PointerDown(Point{5, 5})
	c.PointerUp(Point{5, 5})
	c.PointerLeave()
	assert.Equal(t, []string{"disc"}, r.kinds())
}

func TestControllerRenderSkipsPreviewDuringGesture(t *testing.T) {
	c, r := newTestController()
	c.PointerEnter(Point{1, 1})
	assert.Equal(t, []string{"circle"}, r.kinds())

	c.PointerDown(Point{1, 1})
	c.PointerMove(Point{2, 2})
	assert.Equal(t, []string{"polyline"}, r.kinds())

	c.PointerUp(Point{2, 2})
	assert.Equal(t, []string{"polyline", "circle"}, r.kinds())
}

func TestControllerLeaveEndsGesture(t *testing.T) {
	c, r := newTestController()
	c.PointerDown(Point{1, 1})
	c.PointerMove(Point{2, 2})
	c.PointerLeave()
	assert.False(t, c.History().GestureOpen())
	assert.False(t, c.Inside())
	assert.False(t, c.Preview().Visible())
	assert.Equal(t, []string{"polyline"}, r.kinds())

	c.PointerMove(Point{3, 3})
	s := c.History().Commands()[0].(*Stroke)
	assert.Len(t, s.Points(), 2)
}

func TestControllerHoverMovesPreviewOnly(t *testing.T) {
	c, r := newTestController()
	moved := 0
	c.OnToolMoved(func() { moved++ })
	changed := 0
	c.OnChange(func() { changed++ })

	c.PointerEnter(Point{1, 1})
	c.PointerMove(Point{7, 8})
	assert.Equal(t, 2, moved)
	assert.Equal(t, 0, changed)
	assert.Equal(t, Point{7, 8}, c.Preview().Position())
	require.Len(t, r.ops, 1)
	assert.Equal(t, Point{7, 8}, r.ops[0].pts[0])
}

func TestControllerMoveOutsideIgnored(t *testing.T) {
	c, r := newTestController()
	moved := 0
	c.OnToolMoved(func() { moved++ })
	c.PointerMove(Point{7, 8})
	assert.Equal(t, 0, moved)
	assert.Equal(t, 0, r.clears)
}

func TestControllerToolSwitchKeepsLog(t *testing.T) {
	c, r := newTestController()
	c.PointerDown(Point{1, 1})
	c.PointerMove(Point{4, 4})
	c.PointerUp(Point{4, 4})
	s := c.History().Commands()[0].(*Stroke)

	c.SelectThickMarker()
	assert.Equal(t, DefaultPresets().Thin, s.Thickness())
	assert.Equal(t, DefaultPresets().Thick, c.Preview().(*MarkerPreview).Thickness())

	c.SelectSticker("⭐")
	assert.IsType(t, &StickerPreview{}, c.Preview())
	assert.True(t, c.Preview().Visible())
	assert.Equal(t, Point{4, 4}, c.Preview().Position())
	assert.Equal(t, []string{"polyline", "text"}, r.kinds())
	assert.Equal(t, 1, c.History().Len())
}

func TestControllerUndoDisabledDuringGesture(t *testing.T) {
	c, _ := newTestController()
	c.PointerDown(Point{1, 1})
	assert.Equal(t, Affordances{Undo: false, Redo: false, Clear: true}, c.Affordances())
	assert.False(t, c.Undo())
	c.PointerUp(Point{1, 1})
	assert.True(t, c.Affordances().Undo)
}

func TestControllerListenerCannotMutate(t *testing.T) {
	c, _ := newTestController()
	c.OnChange(func() { c.Clear() })
	c.PointerDown(Point{1, 1})
	c.PointerUp(Point{1, 1})
	assert.Equal(t, 1, c.History().Len())
}

func TestControllerSetPresetsKeepsSelection(t *testing.T) {
	c, _ := newTestController()
	c.SelectThickMarker()
	p := DefaultPresets()
	p.Thick = 12
	c.SetPresets(p)
	mt, ok := c.Tool().(MarkerTool)
	require.True(t, ok)
	assert.Equal(t, 12.0, mt.Thickness)
}

func TestControllerPreviewHiddenWhileGestureOpen(t *testing.T) {
	c, _ := newTestController()
	c.PointerDown(Point{5, 5})
	assert.False(t, c.Preview().Visible())
	c.PointerEnter(Point{6, 6})
	assert.False(t, c.Preview().Visible())
	assert.Equal(t, Point{6, 6}, c.Preview().Position())
	c.PointerUp(Point{6, 6})
	assert.True(t, c.Preview().Visible())
}

func TestControllerSelectedPreset(t *testing.T) {
	p := DefaultPresets()
	p.Thick = p.Thin
	c := NewController(&recorder{}, WithPresets(p))
	assert.Equal(t, PresetThin, c.Selected())

	c.SelectThickMarker()
	assert.Equal(t, PresetThick, c.Selected())

	c.SelectSticker("⭐")
	assert.Equal(t, PresetSticker, c.Selected())

	custom := MarkerTool{Thickness: 20, Color: p.Color}
	c.SelectTool(custom)
	assert.Equal(t, PresetCustom, c.Selected())
	c.SetPresets(DefaultPresets())
	assert.Equal(t, custom, c.Tool())
}
