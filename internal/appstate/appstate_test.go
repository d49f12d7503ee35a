package appstate

import (
	"image"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/Smoopi/D2-Assignment/internal/render"
	"github.com/Smoopi/D2-Assignment/internal/sketch"
	"github.com/Smoopi/D2-Assignment/internal/theme"
)

func TestKeymapLookup(t *testing.T) {
	k := keymap{}
	k.bind("undo", shortcutList{{Code: key.CodeZ, Modifiers: key.ModControl}})
	k.bind("redo", shortcutList{{Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift}})
	k.bind("quit", shortcutList{{Rune: 'q'}})

	cases := []struct {
		ev   key.Event
		want string
	}{
		{key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl}, "undo"},
		{key.Event{Rune: 'Z', Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift}, "redo"},
		{key.Event{Rune: 'q', Code: key.CodeQ}, "quit"},
		{key.Event{Rune: 'Q', Code: key.CodeQ, Modifiers: key.ModShift}, "quit"},
	}
	for _, c := range cases {
		got, ok := k.lookup(c.ev)
		if !ok || got != c.want {
			t.Errorf("lookup(%v) = %q, %v; want %q", c.ev, got, ok, c.want)
		}
	}
	if _, ok := k.lookup(key.Event{Rune: 'x', Code: key.CodeX}); ok {
		t.Error("unexpected match for x")
	}
}

func TestLayoutFitsLabels(t *testing.T) {
	l := newLayout([]string{"Undo", "a much longer toolbar label"}, image.Pt(256, 256))
	if l.toolbarWidth <= minToolbar {
		t.Fatalf("toolbar not widened: %d", l.toolbarWidth)
	}
	if l.canvas.Dx() != 256 || l.canvas.Dy() != 256 {
		t.Fatalf("canvas %v", l.canvas)
	}
	if l.canvas.Min.X < l.toolbarWidth {
		t.Fatalf("canvas overlaps toolbar: %v", l.canvas)
	}
	x, y, in := l.toLocal(float32(l.canvas.Min.X+10), float32(l.canvas.Min.Y+20))
	if !in || x != 10 || y != 20 {
		t.Fatalf("toLocal = %v,%v,%v", x, y, in)
	}
	if _, _, in := l.toLocal(1, 1); in {
		t.Fatal("toolbar point reported inside canvas")
	}
}

func newTestPointer(t *testing.T) (*pointer, *sketch.Controller) {
	t.Helper()
	r, err := render.NewRaster(64, 64)
	if err != nil {
		t.Fatalf("raster: %v", err)
	}
	ctrl := sketch.NewController(r)
	return &pointer{ctrl: ctrl, layout: newLayout([]string{"Undo"}, image.Pt(64, 64))}, ctrl
}

func at(p *pointer, x, y float64, b mouse.Button, d mouse.Direction) mouse.Event {
	return mouse.Event{
		X:         float32(x) + float32(p.layout.canvas.Min.X),
		Y:         float32(y) + float32(p.layout.canvas.Min.Y),
		Button:    b,
		Direction: d,
	}
}

func TestPointerStroke(t *testing.T) {
	p, ctrl := newTestPointer(t)
	p.handle(at(p, 5, 5, mouse.ButtonNone, mouse.DirNone))
	if !ctrl.Inside() || !ctrl.Preview().Visible() {
		t.Fatal("expected preview after entering the canvas")
	}
	p.handle(at(p, 5, 5, mouse.ButtonLeft, mouse.DirPress))
	p.handle(at(p, 9, 5, mouse.ButtonNone, mouse.DirNone))
	p.handle(at(p, 9, 5, mouse.ButtonLeft, mouse.DirRelease))

	cmds := ctrl.History().Commands()
	if len(cmds) != 1 {
		t.Fatalf("expected one command, got %d", len(cmds))
	}
	pts := cmds[0].(*sketch.Stroke).Points()
	if len(pts) != 2 || pts[1] != (sketch.Point{X: 9, Y: 5}) {
		t.Fatalf("unexpected points %v", pts)
	}
}

func TestPointerLeavingEndsGesture(t *testing.T) {
	p, ctrl := newTestPointer(t)
	p.handle(at(p, 5, 5, mouse.ButtonLeft, mouse.DirPress))
	if !ctrl.History().GestureOpen() {
		t.Fatal("expected open gesture")
	}
	if !p.handle(mouse.Event{X: 1, Y: 1, Direction: mouse.DirNone}) {
		t.Fatal("leaving should be handled")
	}
	if ctrl.History().GestureOpen() || ctrl.Inside() {
		t.Fatal("leaving the canvas must end the gesture")
	}
	if p.handle(mouse.Event{X: 2, Y: 2, Direction: mouse.DirNone}) {
		t.Fatal("toolbar events must fall through")
	}
}

func TestToolbarButtonState(t *testing.T) {
	enabled, selected := false, false
	b := &toolbarButton{
		th:       theme.Default(),
		enabled:  func() bool { return enabled },
		selected: func() bool { return selected },
		action:   func() { selected = true },
	}
	if b.state(true) != StateDisabled {
		t.Fatal("disabled button should draw disabled")
	}
	b.Activate()
	if selected {
		t.Fatal("disabled button activated")
	}
	enabled = true
	if b.state(true) != StateHover {
		t.Fatal("expected hover")
	}
	b.Activate()
	if b.state(false) != StatePressed {
		t.Fatal("expected pressed for selected tool")
	}
}

func TestCacheButtonDraw(t *testing.T) {
	b := &toolbarButton{label: "Undo", th: theme.Default()}
	cb := &CacheButton{Button: b}
	cb.SetRect(image.Rect(0, 0, 40, 24))
	dst := image.NewRGBA(image.Rect(0, 0, 40, 24))
	cb.Draw(dst, StateDefault)
	if got := dst.RGBAAt(20, 2); got != theme.Default().ButtonBackground {
		t.Fatalf("unexpected button fill %v", got)
	}
	if cb.cache[StateDefault] == nil {
		t.Fatal("expected cached rendering")
	}
	cb.SetRect(image.Rect(0, 24, 40, 48))
	if cb.cache[StateDefault] != nil {
		t.Fatal("moving the button must drop the cache")
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	a := New(WithSaveDir("/tmp/pads"))
	if got := a.outputPath(now); got != filepath.Join("/tmp/pads", "sketch-20240506-070809.png") {
		t.Fatalf("outputPath = %q", got)
	}
	a = New(WithOutput("out.png"), WithSaveDir("/ignored"))
	if got := a.outputPath(now); got != "out.png" {
		t.Fatalf("outputPath = %q", got)
	}
}

func TestSaveWritesPNG(t *testing.T) {
	r, err := render.NewRaster(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "nested", "x.png")
	a := New(WithRaster(r), WithController(sketch.NewController(r)), WithOutput(out))
	path, err := a.save()
	if err != nil || path != out {
		t.Fatalf("save = %q, %v", path, err)
	}
}

func TestToolbarSelectsOnePresetWhenWidthsMatch(t *testing.T) {
	r, err := render.NewRaster(16, 16)
	if err != nil {
		t.Fatal(err)
	}
	p := sketch.DefaultPresets()
	p.Thick = p.Thin
	ctrl := sketch.NewController(r, sketch.WithPresets(p))
	btns := toolbarButtons(ctrl, map[string]func(){}, func(int, string) func() { return func() {} })

	selected := func() []string {
		var out []string
		for _, b := range btns {
			if b.selected != nil && b.selected() {
				out = append(out, b.label)
			}
		}
		return out
	}
	if got := selected(); len(got) != 1 || got[0] != "1:Thin 3" {
		t.Fatalf("selected = %v", got)
	}
	ctrl.SelectThickMarker()
	if got := selected(); len(got) != 1 || got[0] != "2:Thick 3" {
		t.Fatalf("selected = %v", got)
	}
}

func TestPlaceButtonsAllocatesFreshSlice(t *testing.T) {
	r, err := render.NewRaster(16, 16)
	if err != nil {
		t.Fatal(err)
	}
	ctrl := sketch.NewController(r)
	noop := func(int, string) func() { return func() {} }
	first, _ := placeButtons(toolbarButtons(ctrl, map[string]func(){}, noop), theme.Default(), image.Pt(16, 16))
	kept := append([]*CacheButton(nil), first...)

	ctrl.SetPresets(sketch.Presets{Thin: 1, Thick: 2, Stickers: []string{"A"}, StickerSize: 12})
	second, _ := placeButtons(toolbarButtons(ctrl, map[string]func(){}, noop), theme.Default(), image.Pt(16, 16))
	if len(second) == 0 {
		t.Fatal("expected buttons")
	}
	for i := range first {
		if first[i] != kept[i] {
			t.Fatalf("button %d of the earlier toolbar was overwritten", i)
		}
	}
	if &first[0] == &second[0] {
		t.Fatal("toolbars share a backing array")
	}
}
