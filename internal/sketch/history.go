package sketch

import (
	"io"

	"github.com/charmbracelet/log"
)

// History owns the drawing log and the redo stack. Mutators report whether
// they changed anything; a call that changes nothing is not an error and
// emits no change notification.
type History struct {
	log  []Command
	redo []Command
	open bool

	changed listeners
	logger  *log.Logger
}

// HistoryOption configures a History.
type HistoryOption func(*History)

// WithHistoryLogger sets the logger used for debug and warning output.
func WithHistoryLogger(l *log.Logger) HistoryOption {
	return func(h *History) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHistory returns an empty history.
func NewHistory(opts ...HistoryOption) *History {
	h := &History{logger: log.New(io.Discard)}
	for _, o := range opts {
		o(h)
	}
	return h
}

// OnChange registers fn to run after every successful mutation. The
// returned function unregisters it.
func (h *History) OnChange(fn func()) func() { return h.changed.add(fn) }

// busy rejects mutations made from inside a change listener.
func (h *History) busy(op string) bool {
	if h.changed.firing {
		h.logger.Warn("mutation from change listener ignored", "op", op)
		return true
	}
	return false
}

// Begin appends the command tool builds at p and opens a gesture on it.
// The redo stack is always discarded. A gesture that is still open is
// closed first.
func (h *History) Begin(tool Tool, p Point) bool {
	if tool == nil || h.busy("begin") {
		return false
	}
	cmd := tool.NewCommand(p)
	if h.open {
		h.logger.Debug("begin closed a dangling gesture")
	}
	h.log = append(h.log, cmd)
	h.redo = nil
	h.open = true
	h.logger.Debug("begin", "id", cmd.ID(), "tool", tool, "x", p.X, "y", p.Y)
	h.changed.fire()
	return true
}

// Extend forwards p to the command under construction. Outside a gesture
// it does nothing.
func (h *History) Extend(p Point) bool {
	if !h.open || len(h.log) == 0 || h.busy("extend") {
		return false
	}
	d, ok := h.log[len(h.log)-1].(Draggable)
	if !ok {
		return false
	}
	d.Extend(p)
	h.changed.fire()
	return true
}

// End closes the open gesture.
func (h *History) End() bool {
	if !h.open || h.busy("end") {
		return false
	}
	h.open = false
	h.logger.Debug("end", "commands", len(h.log))
	h.changed.fire()
	return true
}

// Undo moves the newest command onto the redo stack. It is refused while a
// gesture is open.
func (h *History) Undo() bool {
	if h.open || len(h.log) == 0 || h.busy("undo") {
		return false
	}
	last := len(h.log) - 1
	cmd := h.log[last]
	h.log[last] = nil
	h.log = h.log[:last]
	h.redo = append(h.redo, cmd)
	h.logger.Debug("undo", "id", cmd.ID())
	h.changed.fire()
	return true
}

// Redo moves the most recently undone command back to the top of the log.
func (h *History) Redo() bool {
	if len(h.redo) == 0 || h.busy("redo") {
		return false
	}
	last := len(h.redo) - 1
	cmd := h.redo[last]
	h.redo[last] = nil
	h.redo = h.redo[:last]
	h.log = append(h.log, cmd)
	h.logger.Debug("redo", "id", cmd.ID())
	h.changed.fire()
	return true
}

// Clear discards the log and the redo stack. It cannot be undone.
func (h *History) Clear() bool {
	if (len(h.log) == 0 && len(h.redo) == 0) || h.busy("clear") {
		return false
	}
	h.logger.Debug("clear", "commands", len(h.log), "redo", len(h.redo))
	h.log = nil
	h.redo = nil
	h.open = false
	h.changed.fire()
	return true
}

// Commands returns the log in paint order. The commands are shared and must
// not be extended by the caller.
func (h *History) Commands() []Command {
	out := make([]Command, len(h.log))
	copy(out, h.log)
	return out
}

// Redoable returns the redo stack, most recently undone last.
func (h *History) Redoable() []Command {
	out := make([]Command, len(h.redo))
	copy(out, h.redo)
	return out
}

func (h *History) Len() int          { return len(h.log) }
func (h *History) RedoLen() int      { return len(h.redo) }
func (h *History) GestureOpen() bool { return h.open }

func (h *History) CanUndo() bool  { return !h.open && len(h.log) > 0 }
func (h *History) CanRedo() bool  { return len(h.redo) > 0 }
func (h *History) CanClear() bool { return len(h.log) > 0 || len(h.redo) > 0 }

// Replay renders every command in paint order.
func (h *History) Replay(s Surface) {
	for _, c := range h.log {
		c.Render(s)
	}
}
