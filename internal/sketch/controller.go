package sketch

import (
	"io"

	"github.com/charmbracelet/log"
)

// Preset names which of the configured tools is selected.
type Preset int

const (
	PresetThin Preset = iota
	PresetThick
	PresetSticker
	// PresetCustom is a tool passed to SelectTool directly.
	PresetCustom
)

// Affordances reports which history actions are currently available.
type Affordances struct {
	Undo  bool
	Redo  bool
	Clear bool
}

// Controller maps pointer events and tool actions onto a History and
// redraws the surface whenever the history or the preview changes.
type Controller struct {
	history *History
	surface Surface
	presets Presets
	logger  *log.Logger

	tool    Tool
	kind    Preset
	marker  *MarkerPreview
	sticker *StickerPreview
	inside  bool

	moved listeners
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithPresets sets the tool presets. The thin marker is selected initially.
func WithPresets(p Presets) ControllerOption { return func(c *Controller) { c.presets = p } }

// WithHistory uses h instead of a fresh history.
func WithHistory(h *History) ControllerOption { return func(c *Controller) { c.history = h } }

// WithLogger sets the controller logger. It is also handed to the history
// when the controller creates one.
func WithLogger(l *log.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController binds a controller to surface.
func NewController(surface Surface, opts ...ControllerOption) *Controller {
	c := &Controller{
		surface: surface,
		presets: DefaultPresets(),
		logger:  log.New(io.Discard),
	}
	for _, o := range opts {
		o(c)
	}
	if c.history == nil {
		c.history = NewHistory(WithHistoryLogger(c.logger))
	}
	thin := c.presets.ThinMarker()
	c.tool = thin
	c.kind = PresetThin
	c.marker = NewMarkerPreview(thin.Thickness, thin.Color)
	c.sticker = NewStickerPreview(c.firstSticker(), c.presets.StickerSize)
	c.history.OnChange(c.Render)
	c.moved.add(c.Render)
	return c
}

func (c *Controller) firstSticker() string {
	if len(c.presets.Stickers) == 0 {
		return ""
	}
	return c.presets.Stickers[0]
}

func (c *Controller) History() *History { return c.history }
func (c *Controller) Tool() Tool        { return c.tool }
func (c *Controller) Presets() Presets  { return c.presets }
func (c *Controller) Inside() bool      { return c.inside }

// Selected reports which preset the active tool came from.
func (c *Controller) Selected() Preset { return c.kind }

// Preview returns the preview matching the active tool.
func (c *Controller) Preview() Preview {
	if _, ok := c.tool.(StickerTool); ok {
		return c.sticker
	}
	return c.marker
}

// OnChange registers fn for history changes.
func (c *Controller) OnChange(fn func()) func() { return c.history.OnChange(fn) }

// OnToolMoved registers fn for preview and tool changes that leave the log
// untouched.
func (c *Controller) OnToolMoved(fn func()) func() { return c.moved.add(fn) }

func (c *Controller) busy(op string) bool {
	if c.moved.firing || c.history.changed.firing {
		c.logger.Warn("controller call from listener ignored", "op", op)
		return true
	}
	return false
}

func (c *Controller) toolMoved() { c.moved.fire() }

// PointerDown starts a gesture with the active tool.
func (c *Controller) PointerDown(p Point) {
	if c.busy("down") {
		return
	}
	c.inside = true
	pv := c.Preview()
	pv.SetPosition(p)
	// Hidden until the gesture ends.
	pv.SetVisible(false)
	c.history.Begin(c.tool, p)
}

// PointerMove extends the open gesture, or moves the preview when the
// pointer is hovering over the surface.
func (c *Controller) PointerMove(p Point) {
	if c.busy("move") {
		return
	}
	if c.history.GestureOpen() {
		c.Preview().SetPosition(p)
		c.history.Extend(p)
		return
	}
	if !c.inside {
		return
	}
	c.Preview().SetPosition(p)
	c.toolMoved()
}

// PointerUp ends the open gesture.
func (c *Controller) PointerUp(p Point) {
	if c.busy("up") {
		return
	}
	pv := c.Preview()
	pv.SetPosition(p)
	pv.SetVisible(c.inside)
	if !c.history.End() {
		c.toolMoved()
	}
}

// PointerEnter marks the pointer as over the surface.
func (c *Controller) PointerEnter(p Point) {
	if c.busy("enter") {
		return
	}
	c.inside = true
	pv := c.Preview()
	pv.SetPosition(p)
	pv.SetVisible(!c.history.GestureOpen())
	c.toolMoved()
}

// PointerLeave hides the preview and ends any open gesture as if the
// pointer had been released.
func (c *Controller) PointerLeave() {
	if c.busy("leave") {
		return
	}
	c.inside = false
	c.Preview().SetVisible(false)
	if !c.history.End() {
		c.toolMoved()
	}
}

// SelectTool makes t the active tool. The committed log is unaffected.
func (c *Controller) SelectTool(t Tool) {
	if t == nil || c.busy("select") {
		return
	}
	c.kind = PresetCustom
	c.selectTool(t)
}

func (c *Controller) selectTool(t Tool) {
	prev := c.Preview()
	c.tool = t
	switch t := t.(type) {
	case MarkerTool:
		c.marker.SetThickness(t.Thickness)
		c.marker.SetColor(t.Color)
	case StickerTool:
		c.sticker.SetGlyph(t.Glyph)
		c.sticker.SetSize(t.Size)
	}
	next := c.Preview()
	next.SetPosition(prev.Position())
	next.SetVisible(prev.Visible())
	c.logger.Debug("tool selected", "tool", t)
	c.toolMoved()
}

func (c *Controller) selectPreset(kind Preset, t Tool) {
	if c.busy("select") {
		return
	}
	c.kind = kind
	c.selectTool(t)
}

func (c *Controller) SelectThinMarker() { c.selectPreset(PresetThin, c.presets.ThinMarker()) }

func (c *Controller) SelectThickMarker() { c.selectPreset(PresetThick, c.presets.ThickMarker()) }

func (c *Controller) SelectSticker(glyph string) {
	c.selectPreset(PresetSticker, c.presets.Sticker(glyph))
}

// SetPresets replaces the presets and reapplies the selected preset. Commands
// already drawn keep their style.
func (c *Controller) SetPresets(p Presets) {
	c.presets = p
	switch c.kind {
	case PresetCustom:
		// a tool chosen directly does not follow the presets
	case PresetThick:
		c.SelectThickMarker()
	case PresetSticker:
		glyph := c.sticker.Glyph()
		if glyph == "" {
			glyph = c.firstSticker()
		}
		c.SelectSticker(glyph)
	default:
		c.SelectThinMarker()
	}
}

func (c *Controller) Undo() bool {
	if c.busy("undo") {
		return false
	}
	return c.history.Undo()
}

func (c *Controller) Redo() bool {
	if c.busy("redo") {
		return false
	}
	return c.history.Redo()
}

func (c *Controller) Clear() bool {
	if c.busy("clear") {
		return false
	}
	return c.history.Clear()
}

// Affordances derives the enabled state of undo, redo and clear.
func (c *Controller) Affordances() Affordances {
	return Affordances{
		Undo:  c.history.CanUndo(),
		Redo:  c.history.CanRedo(),
		Clear: c.history.CanClear(),
	}
}

// Render clears the surface, replays the log and draws the preview unless a
// gesture is open.
func (c *Controller) Render() {
	if c.surface == nil {
		return
	}
	c.surface.Clear()
	c.history.Replay(c.surface)
	if !c.history.GestureOpen() {
		c.Preview().Render(c.surface)
	}
}
