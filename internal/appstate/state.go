// Package appstate hosts a drawing session in a desktop window.
package appstate

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/Smoopi/D2-Assignment/internal/clipboard"
	"github.com/Smoopi/D2-Assignment/internal/notify"
	"github.com/Smoopi/D2-Assignment/internal/render"
	"github.com/Smoopi/D2-Assignment/internal/sketch"
	"github.com/Smoopi/D2-Assignment/internal/theme"
)

const messageDuration = 2 * time.Second

// AppState wires a sketch controller to a shiny window.
type AppState struct {
	Controller *sketch.Controller
	Raster     *render.Raster
	Theme      *theme.Theme
	Output     string
	SaveDir    string

	notifier *notify.Notifier
	logger   *log.Logger

	updateCh    chan struct{}
	controlMu   sync.Mutex
	sendControl func(controlEvent)

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithController sets the controller driven by the window. Its surface must
// be the raster passed with WithRaster.
func WithController(c *sketch.Controller) Option { return func(a *AppState) { a.Controller = c } }

// WithRaster sets the image the window displays.
func WithRaster(r *render.Raster) Option { return func(a *AppState) { a.Raster = r } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithOutput sets the file Ctrl+S writes to.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithSaveDir sets the directory for generated file names when no output is set.
func WithSaveDir(dir string) Option { return func(a *AppState) { a.SaveDir = dir } }

// WithNotifier sets the desktop notifier used for save and copy.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(a *AppState) { a.logger = l } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Theme:    theme.Default(),
		logger:   log.New(io.Discard),
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// controlEvent carries changes from other goroutines into the event loop.
type controlEvent struct {
	Presets *sketch.Presets
	Theme   *theme.Theme
}

// NotifyChanged requests a repaint.
func (a *AppState) NotifyChanged() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

// Reconfigure hands new presets and theme to the running window. It is safe
// to call from any goroutine; calls made while no window is open are dropped.
func (a *AppState) Reconfigure(p sketch.Presets, th *theme.Theme) {
	a.controlMu.Lock()
	sender := a.sendControl
	a.controlMu.Unlock()
	if sender == nil {
		return
	}
	sender(controlEvent{Presets: &p, Theme: th})
}

func (a *AppState) setControlSender(fn func(controlEvent)) {
	a.controlMu.Lock()
	a.sendControl = fn
	a.controlMu.Unlock()
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		a.setControlSender(nil)
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// outputPath returns where the next save goes.
func (a *AppState) outputPath(now time.Time) string {
	if a.Output != "" {
		return a.Output
	}
	name := fmt.Sprintf("sketch-%s.png", now.Format("20060102-150405"))
	if a.SaveDir == "" {
		return name
	}
	return filepath.Join(a.SaveDir, name)
}

// save writes the current drawing and returns the path written.
func (a *AppState) save() (string, error) {
	path := a.outputPath(time.Now())
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("save: %w", err)
		}
	}
	if err := a.Raster.Snapshot(a.Controller.History()).SavePNG(path); err != nil {
		return "", err
	}
	a.notifier.Save(path)
	return path, nil
}

func (a *AppState) copyImage() error {
	img := a.Raster.Snapshot(a.Controller.History()).Image()
	if err := clipboard.WriteImage(img); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	a.notifier.Copy("drawing", img)
	return nil
}

// pointer turns window mouse events into controller pointer calls.
type pointer struct {
	ctrl   *sketch.Controller
	layout layout
	inside bool
}

// handle reports whether the event fell on the canvas or changed the
// pointer's inside state.
func (p *pointer) handle(e mouse.Event) bool {
	x, y, in := p.layout.toLocal(e.X, e.Y)
	pt := sketch.Point{X: x, Y: y}
	if in != p.inside {
		p.inside = in
		if in {
			p.ctrl.PointerEnter(pt)
		} else {
			p.ctrl.PointerLeave()
			return true
		}
	}
	if !in {
		return false
	}
	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		p.ctrl.PointerDown(pt)
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		p.ctrl.PointerUp(pt)
	case e.Direction == mouse.DirNone:
		p.ctrl.PointerMove(pt)
	}
	return true
}

func (a *AppState) Main(s screen.Screen) {
	ctrl := a.Controller
	if ctrl == nil || a.Raster == nil {
		a.logger.Error("window needs a controller and a raster")
		return
	}
	th := a.Theme
	canvasSize := a.Raster.Bounds().Size()

	var (
		buttons       []*CacheButton
		shortcuts     []*Shortcut
		lay           layout
		hoverButton   = -1
		hoverShortcut = -1
		message       string
		messageUntil  time.Time
		width, height int
	)

	showMessage := func(msg string) {
		message = msg
		messageUntil = time.Now().Add(messageDuration)
		a.logger.Info(msg)
	}

	keys := keymap{}
	actions := map[string]func(){}
	register := func(name string, sc KeyboardShortcuts, fn func()) {
		actions[name] = fn
		keys.bind(name, sc)
	}

	quit := make(chan struct{})
	var quitOnce sync.Once
	requestQuit := func() { quitOnce.Do(func() { close(quit) }) }

	register("undo", shortcutList{{Code: key.CodeZ, Modifiers: key.ModControl}}, func() { ctrl.Undo() })
	register("redo", shortcutList{
		{Code: key.CodeY, Modifiers: key.ModControl},
		{Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift},
	}, func() { ctrl.Redo() })
	register("clear", shortcutList{{Code: key.CodeDeleteForward, Modifiers: key.ModControl}}, func() { ctrl.Clear() })
	register("thin", shortcutList{{Rune: '1'}}, ctrl.SelectThinMarker)
	register("thick", shortcutList{{Rune: '2'}}, ctrl.SelectThickMarker)
	register("save", shortcutList{{Code: key.CodeS, Modifiers: key.ModControl}}, func() {
		path, err := a.save()
		if err != nil {
			a.logger.Error("save failed", "err", err)
			showMessage("save failed")
			return
		}
		showMessage("saved " + path)
	})
	register("copy", shortcutList{{Code: key.CodeC, Modifiers: key.ModControl}}, func() {
		if err := a.copyImage(); err != nil {
			a.logger.Error("copy failed", "err", err)
			showMessage("copy failed")
			return
		}
		showMessage("drawing copied to clipboard")
	})
	register("quit", shortcutList{{Rune: 'q'}}, requestQuit)

	shortcuts = []*Shortcut{
		{label: "^Z:undo", action: actions["undo"]},
		{label: "^Y:redo", action: actions["redo"]},
		{label: "^Del:clear", action: actions["clear"]},
		{label: "^S:save", action: actions["save"]},
		{label: "^C:copy", action: actions["copy"]},
		{label: "Q:quit", action: requestQuit},
	}

	// buildToolbar recreates the toolbar for the current presets and theme.
	var stickerKeys []string
	buildToolbar := func() {
		for _, name := range stickerKeys {
			delete(actions, name)
		}
		for sc, name := range keys {
			if len(name) > 8 && name[:8] == "sticker:" {
				delete(keys, sc)
			}
		}
		stickerKeys = stickerKeys[:0]

		btns := toolbarButtons(ctrl, actions, func(i int, glyph string) func() {
			name := "sticker:" + glyph
			fn := func() { ctrl.SelectSticker(glyph) }
			if i < 7 {
				register(name, shortcutList{{Rune: rune('3' + i)}}, fn)
				stickerKeys = append(stickerKeys, name)
			}
			return fn
		})
		buttons, lay = placeButtons(btns, th, canvasSize)
	}
	buildToolbar()
	width, height = lay.width, lay.height
	placeShortcuts(shortcuts, height)

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Sketchpad"})
	if err != nil {
		a.logger.Error("new window", "err", err)
		return
	}
	defer w.Release()
	defer a.notifyClose()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-quit:
				w.Send(lifecycle.Event{To: lifecycle.StageDead})
				return
			case <-done:
				return
			}
		}
	}()

	unsubChange := ctrl.OnChange(a.NotifyChanged)
	unsubMoved := ctrl.OnToolMoved(a.NotifyChanged)
	defer unsubChange()
	defer unsubMoved()

	a.setControlSender(func(ev controlEvent) { w.Send(ev) })

	ptr := &pointer{ctrl: ctrl, layout: lay}

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st, a.logger.Errorf)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	ctrl.Render()

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case controlEvent:
			if e.Theme != nil {
				th = e.Theme
				a.Raster.SetBackground(th.Canvas)
			}
			if e.Presets != nil {
				ctrl.SetPresets(*e.Presets)
			}
			buildToolbar()
			ptr.layout = lay
			placeShortcuts(shortcuts, height)
			ctrl.Render()
			showMessage("configuration reloaded")
			w.Send(paint.Event{})
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			placeShortcuts(shortcuts, height)
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			snapshot := image.NewRGBA(a.Raster.Bounds())
			draw.Draw(snapshot, snapshot.Bounds(), a.Raster.Image(), image.Point{}, draw.Src)
			states := make([]ButtonState, len(buttons))
			for i, cb := range buttons {
				states[i] = cb.Button.(*toolbarButton).state(i == hoverButton)
			}
			st := paintState{
				width:         width,
				height:        height,
				layout:        lay,
				theme:         th,
				canvas:        snapshot,
				buttons:       buttons,
				buttonStates:  states,
				shortcuts:     shortcuts,
				hoverShortcut: hoverShortcut,
				status:        fmt.Sprintf("%s  %d/%d", ctrl.Tool(), ctrl.History().Len(), ctrl.History().RedoLen()),
				message:       message,
				messageUntil:  messageUntil,
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if ptr.handle(e) {
				continue
			}
			pt := image.Pt(int(e.X), int(e.Y))
			prevButton, prevShortcut := hoverButton, hoverShortcut
			hoverButton, hoverShortcut = -1, -1
			for i, cb := range buttons {
				if pt.In(cb.Rect()) {
					hoverButton = i
					if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
						cb.Activate()
					}
					break
				}
			}
			for i, sc := range shortcuts {
				if pt.In(sc.rect) {
					hoverShortcut = i
					if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
						sc.Activate()
					}
					break
				}
			}
			if hoverButton != prevButton || hoverShortcut != prevShortcut || e.Direction == mouse.DirPress {
				w.Send(paint.Event{})
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if name, ok := keys.lookup(e); ok {
				if fn := actions[name]; fn != nil {
					fn()
				}
				w.Send(paint.Event{})
			}
		case error:
			a.logger.Error("window", "err", e)
		}
	}
}

// toolbarButtons builds the toolbar for ctrl's presets. sticker returns the
// action for the i-th sticker preset.
func toolbarButtons(ctrl *sketch.Controller, actions map[string]func(), sticker func(i int, glyph string) func()) []*toolbarButton {
	p := ctrl.Presets()
	aff := func() sketch.Affordances { return ctrl.Affordances() }
	isPreset := func(k sketch.Preset) func() bool {
		return func() bool { return ctrl.Selected() == k }
	}
	btns := []*toolbarButton{
		{label: "Undo", action: actions["undo"], enabled: func() bool { return aff().Undo }},
		{label: "Redo", action: actions["redo"], enabled: func() bool { return aff().Redo }},
		{label: "Clear", action: actions["clear"], enabled: func() bool { return aff().Clear }},
		{label: fmt.Sprintf("1:Thin %g", p.Thin), action: ctrl.SelectThinMarker, selected: isPreset(sketch.PresetThin)},
		{label: fmt.Sprintf("2:Thick %g", p.Thick), action: ctrl.SelectThickMarker, selected: isPreset(sketch.PresetThick)},
	}
	for i, g := range p.Stickers {
		glyph := g
		btns = append(btns, &toolbarButton{
			label:  fmt.Sprintf("%d:%s", i+3, glyph),
			action: sticker(i, glyph),
			selected: func() bool {
				st, ok := ctrl.Tool().(sketch.StickerTool)
				return ok && ctrl.Selected() == sketch.PresetSticker && st.Glyph == glyph
			},
		})
	}
	return btns
}

// placeButtons lays btns out beside the canvas. The returned slice is always
// new: frames already queued for painting keep reading the previous one.
func placeButtons(btns []*toolbarButton, th *theme.Theme, canvas image.Point) ([]*CacheButton, layout) {
	labels := make([]string, len(btns))
	for i, b := range btns {
		labels[i] = b.label
	}
	lay := newLayout(labels, canvas)
	buttons := make([]*CacheButton, 0, len(btns))
	for i, b := range btns {
		b.th = th
		b.rect = lay.toolbarRect(i)
		buttons = append(buttons, &CacheButton{Button: b})
	}
	return buttons, lay
}
