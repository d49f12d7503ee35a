package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Smoopi/D2-Assignment/internal/clipboard"
	"github.com/Smoopi/D2-Assignment/internal/render"
	"github.com/Smoopi/D2-Assignment/internal/sketch"
)

var errUnknownCommand = errors.New("unknown command")

// session is a drawing driven by text commands instead of a mouse.
type session struct {
	r      *root
	raster *render.Raster
	ctrl   *sketch.Controller
	out    io.Writer
}

// newRaster builds the drawing surface described by the config and theme.
func (r *root) newRaster() (*render.Raster, error) {
	opts := []render.Option{render.WithBackground(r.theme().Canvas), render.WithLogger(r.logger)}
	if path := r.config.Canvas.Font; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read font: %v", render.ErrNoSurface, err)
		}
		opts = append(opts, render.WithFontData(data))
	}
	return render.NewRaster(r.config.Canvas.Width, r.config.Canvas.Height, opts...)
}

func (r *root) newSession(out io.Writer) (*session, error) {
	raster, err := r.newRaster()
	if err != nil {
		return nil, err
	}
	ctrl := sketch.NewController(raster,
		sketch.WithPresets(r.config.Presets()),
		sketch.WithLogger(r.logger),
	)
	ctrl.Render()
	return &session{r: r, raster: raster, ctrl: ctrl, out: out}, nil
}

func expectPoint(name string, args []string) (sketch.Point, error) {
	if len(args) != 2 {
		return sketch.Point{}, fmt.Errorf("%s: expected X Y", name)
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return sketch.Point{}, fmt.Errorf("%s: invalid X %q", name, args[0])
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return sketch.Point{}, fmt.Errorf("%s: invalid Y %q", name, args[1])
	}
	return sketch.Point{X: x, Y: y}, nil
}

func expectNone(name string, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%s: unexpected arguments %q", name, strings.Join(args, " "))
	}
	return nil
}

// executeLine runs one command. done reports that the session should end.
func (s *session) executeLine(line string) (done bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "down", "move", "enter":
		p, err := expectPoint(name, args)
		if err != nil {
			return false, err
		}
		switch name {
		case "down":
			s.ctrl.PointerDown(p)
		case "move":
			s.ctrl.PointerMove(p)
		default:
			s.ctrl.PointerEnter(p)
		}
	case "up":
		p := s.ctrl.Preview().Position()
		if len(args) > 0 {
			if p, err = expectPoint(name, args); err != nil {
				return false, err
			}
		}
		s.ctrl.PointerUp(p)
	case "leave":
		if err := expectNone(name, args); err != nil {
			return false, err
		}
		s.ctrl.PointerLeave()
	case "thin":
		s.ctrl.SelectThinMarker()
	case "thick":
		s.ctrl.SelectThickMarker()
	case "sticker":
		if len(args) != 1 {
			return false, fmt.Errorf("sticker: expected GLYPH")
		}
		s.ctrl.SelectSticker(args[0])
	case "undo":
		s.report(name, s.ctrl.Undo())
	case "redo":
		s.report(name, s.ctrl.Redo())
	case "clear":
		s.report(name, s.ctrl.Clear())
	case "list":
		s.list()
	case "status":
		s.status()
	case "save":
		if len(args) != 1 {
			return false, fmt.Errorf("save: expected PATH")
		}
		path, err := s.save(args[0])
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "saved %s\n", path)
	case "copy":
		if err := s.copy(); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "copied drawing to clipboard")
	case "help":
		fmt.Fprint(s.out, commandHelp)
	case "exit", "quit":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s", errUnknownCommand, name)
	}
	return false, nil
}

// report prints when an undo, redo or clear had nothing to act on.
func (s *session) report(name string, ok bool) {
	if !ok {
		fmt.Fprintf(s.out, "%s: nothing to do\n", name)
	}
}

func (s *session) list() {
	h := s.ctrl.History()
	for i, c := range h.Commands() {
		fmt.Fprintf(s.out, "%d. %v\n", i+1, c)
	}
	if n := h.RedoLen(); n > 0 {
		fmt.Fprintf(s.out, "(%d redoable)\n", n)
	}
}

func (s *session) status() {
	h := s.ctrl.History()
	a := s.ctrl.Affordances()
	fmt.Fprintf(s.out, "tool: %v\n", s.ctrl.Tool())
	fmt.Fprintf(s.out, "commands: %d redo: %d gesture: %t inside: %t\n", h.Len(), h.RedoLen(), h.GestureOpen(), s.ctrl.Inside())
	fmt.Fprintf(s.out, "undo: %t redo: %t clear: %t\n", a.Undo, a.Redo, a.Clear)
}

// save writes the drawing without the tool preview.
func (s *session) save(path string) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("save: %w", err)
		}
	}
	if err := s.raster.Snapshot(s.ctrl.History()).SavePNG(path); err != nil {
		return "", err
	}
	s.r.notifySave(path)
	return path, nil
}

func (s *session) copy() error {
	img := s.raster.Snapshot(s.ctrl.History()).Image()
	if err := clipboard.WriteImage(img); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	s.r.notifyCopy("drawing", img)
	return nil
}

const commandHelp = `Commands:
  down X Y | move X Y | up [X Y] | enter X Y | leave
  thin | thick | sticker GLYPH
  undo | redo | clear
  list | status | save PATH | copy
  help | exit
`
