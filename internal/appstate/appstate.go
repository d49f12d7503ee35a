package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/Smoopi/D2-Assignment/internal/theme"
)

const (
	bottomHeight = 24
	buttonHeight = 24
	titleHeight  = 24
	minToolbar   = 72
	margin       = 8
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code is set.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// keymap resolves key events to action names.
type keymap map[KeyShortcut]string

func (k keymap) bind(name string, keys KeyboardShortcuts) {
	if keys == nil {
		return
	}
	for _, sc := range keys.KeyboardShortcuts() {
		k[sc] = name
	}
}

// lookup matches by rune first and then by key code.
func (k keymap) lookup(e key.Event) (string, bool) {
	mods := e.Modifiers &^ key.ModShift
	if e.Rune > 0 {
		r := e.Rune
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if name, ok := k[KeyShortcut{Rune: r, Modifiers: e.Modifiers}]; ok {
			return name, true
		}
		if name, ok := k[KeyShortcut{Rune: r, Modifiers: mods}]; ok {
			return name, true
		}
	}
	name, ok := k[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]
	return name, ok
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateDisabled
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [4]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [4]*image.RGBA{}
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

// Invalidate drops cached renderings, for instance after a theme change.
func (cb *CacheButton) Invalidate() { cb.cache = [4]*image.RGBA{} }

// toolbarButton is a labelled toolbar entry. enabled and selected are
// evaluated on every frame so the button never stores derived state.
type toolbarButton struct {
	label    string
	rect     image.Rectangle
	th       *theme.Theme
	action   func()
	enabled  func() bool
	selected func() bool
}

func (b *toolbarButton) Draw(dst *image.RGBA, state ButtonState) {
	bg, fg := b.th.ButtonBackground, b.th.ButtonText
	switch state {
	case StateHover:
		bg = b.th.ButtonBackgroundHover
	case StatePressed:
		bg = b.th.ButtonBackgroundPress
	case StateDisabled:
		fg = b.th.ButtonTextDisabled
	}
	draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	drawRect(dst, b.rect, b.th.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: basicfont.Face7x13,
		Dot: fixed.P(b.rect.Min.X+4, b.rect.Min.Y+16)}
	d.DrawString(b.label)
}

func (b *toolbarButton) Rect() image.Rectangle     { return b.rect }
func (b *toolbarButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *toolbarButton) Activate() {
	if b.isEnabled() && b.action != nil {
		b.action()
	}
}

func (b *toolbarButton) isEnabled() bool  { return b.enabled == nil || b.enabled() }
func (b *toolbarButton) isSelected() bool { return b.selected != nil && b.selected() }

// state picks how b is drawn given the hovered button index.
func (b *toolbarButton) state(hovered bool) ButtonState {
	switch {
	case !b.isEnabled():
		return StateDisabled
	case b.isSelected():
		return StatePressed
	case hovered:
		return StateHover
	}
	return StateDefault
}

// Shortcut is a clickable hint in the status bar.
type Shortcut struct {
	label  string
	action func()
	rect   image.Rectangle
}

func (s *Shortcut) Draw(dst *image.RGBA, th *theme.Theme, hovered bool) {
	col := th.ButtonBackground
	if hovered {
		col = th.ButtonBackgroundHover
	}
	draw.Draw(dst, s.rect, &image.Uniform{col}, image.Point{}, draw.Src)
	drawRect(dst, s.rect, th.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+2, s.rect.Min.Y+14)}
	d.DrawString(s.label)
}

func (s *Shortcut) Activate() {
	if s.action != nil {
		s.action()
	}
}

// layout places the toolbar, canvas and status bar inside the window.
type layout struct {
	toolbarWidth int
	canvas       image.Rectangle
	width        int
	height       int
}

func newLayout(labels []string, canvas image.Point) layout {
	d := &font.Drawer{Face: basicfont.Face7x13}
	tw := minToolbar
	for _, lbl := range labels {
		if w := d.MeasureString(lbl).Ceil() + 8; w > tw {
			tw = w
		}
	}
	origin := image.Pt(tw+margin, margin)
	l := layout{
		toolbarWidth: tw,
		canvas:       image.Rectangle{Min: origin, Max: origin.Add(canvas)},
	}
	l.width = l.canvas.Max.X + margin
	l.height = l.canvas.Max.Y + margin + bottomHeight
	if need := titleHeight + len(labels)*buttonHeight + bottomHeight + margin; need > l.height {
		l.height = need
	}
	return l
}

// toLocal converts window coordinates to canvas coordinates.
func (l layout) toLocal(x, y float32) (float64, float64, bool) {
	p := image.Pt(int(x), int(y))
	return float64(x) - float64(l.canvas.Min.X), float64(y) - float64(l.canvas.Min.Y), p.In(l.canvas)
}

func (l layout) toolbarRect(i int) image.Rectangle {
	y := titleHeight + i*buttonHeight
	return image.Rect(0, y, l.toolbarWidth, y+buttonHeight)
}

// placeShortcuts lays the status bar hints out left to right.
func placeShortcuts(shortcuts []*Shortcut, height int) {
	x := 4
	y := height - bottomHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for _, sc := range shortcuts {
		w := meas.MeasureString(sc.label).Ceil()
		sc.rect = image.Rect(x-2, y-14, x+w+2, y+4)
		x = sc.rect.Max.X + 8
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color) {
	if rect.Empty() {
		return
	}
	u := &image.Uniform{col}
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-1, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+1, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-1, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

type paintState struct {
	width, height int
	layout        layout
	theme         *theme.Theme
	canvas        *image.RGBA
	buttons       []*CacheButton
	buttonStates  []ButtonState
	shortcuts     []*Shortcut
	hoverShortcut int
	status        string
	message       string
	messageUntil  time.Time
}

func drawToolbar(dst *image.RGBA, st paintState) {
	th := st.theme
	draw.Draw(dst, image.Rect(0, 0, st.layout.toolbarWidth, st.height), &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	title := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13, Dot: fixed.P(4, 16)}
	title.DrawString("Sketchpad")
	for i, cb := range st.buttons {
		cb.Draw(dst, st.buttonStates[i])
	}
}

func drawStatus(dst *image.RGBA, st paintState) {
	th := st.theme
	rect := image.Rect(0, st.height-bottomHeight, st.width, st.height)
	draw.Draw(dst, rect, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)
	x := 4
	y := st.height - bottomHeight + 16
	for i, sc := range st.shortcuts {
		sc.Draw(dst, th, i == st.hoverShortcut)
		x = sc.rect.Max.X + 8
	}
	text := st.status
	if st.message != "" && time.Now().Before(st.messageUntil) {
		text = st.message
	}
	if text != "" {
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: basicfont.Face7x13}
		w := d.MeasureString(text).Ceil()
		if px := st.width - w - 6; px > x {
			x = px
		}
		d.Dot = fixed.P(x, y)
		d.DrawString(text)
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState, logf func(string, ...interface{})) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		logf("new buffer: %v", err)
		return
	}
	defer b.Release()

	dst := b.RGBA()
	draw.Draw(dst, dst.Bounds(), &image.Uniform{st.theme.Background}, image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	draw.Draw(dst, st.layout.canvas, st.canvas, st.canvas.Bounds().Min, draw.Src)
	drawRect(dst, st.layout.canvas.Inset(-1), st.theme.ButtonBorder)
	if ctx.Err() != nil {
		return
	}

	drawToolbar(dst, st)
	drawStatus(dst, st)
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
