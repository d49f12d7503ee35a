package sketch

import (
	"fmt"
	"image/color"
)

// Tool builds the command a gesture starts. Implementations are MarkerTool
// and StickerTool.
type Tool interface {
	NewCommand(at Point) Command
	isTool()
}

// MarkerTool draws strokes.
type MarkerTool struct {
	Thickness float64
	Color     color.RGBA
}

func (MarkerTool) isTool() {}

func (t MarkerTool) NewCommand(at Point) Command { return NewStroke(at, t.Thickness, t.Color) }

func (t MarkerTool) String() string { return fmt.Sprintf("marker(%g)", t.Thickness) }

// StickerTool stamps a glyph.
type StickerTool struct {
	Glyph string
	Size  float64
}

func (StickerTool) isTool() {}

func (t StickerTool) NewCommand(at Point) Command { return NewSticker(at, t.Glyph, t.Size) }

func (t StickerTool) String() string { return fmt.Sprintf("sticker(%s)", t.Glyph) }

// Presets are the named tool configurations offered to the user.
type Presets struct {
	Thin        float64
	Thick       float64
	Color       color.RGBA
	Stickers    []string
	StickerSize float64
}

// DefaultPresets returns the built in tool configuration.
func DefaultPresets() Presets {
	return Presets{
		Thin:        3,
		Thick:       8,
		Color:       color.RGBA{0x22, 0x22, 0x22, 0xff},
		Stickers:    []string{"🚀", "⭐", "🎨"},
		StickerSize: 32,
	}
}

func (p Presets) ThinMarker() MarkerTool { return MarkerTool{Thickness: p.Thin, Color: p.Color} }

func (p Presets) ThickMarker() MarkerTool { return MarkerTool{Thickness: p.Thick, Color: p.Color} }

func (p Presets) Sticker(glyph string) StickerTool {
	return StickerTool{Glyph: glyph, Size: p.StickerSize}
}
