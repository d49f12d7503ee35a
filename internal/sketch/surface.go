// Package sketch implements the drawing engine: renderable commands, the
// undo/redo history that owns them, tool state, cursor previews and the
// controller that turns pointer events into history mutations.
package sketch

import "image/color"

// Point is a surface-local coordinate.
type Point struct {
	X, Y float64
}

// LineStyle describes how outlines are stroked. A nil Dash draws a solid line.
type LineStyle struct {
	Width float64
	Color color.Color
	Dash  []float64
}

// Surface is the set of primitives a render pass may draw with.
// Polylines are stroked with round caps and joins.
type Surface interface {
	Clear()
	Polyline(pts []Point, style LineStyle)
	Disc(center Point, radius float64, c color.Color)
	Circle(center Point, radius float64, style LineStyle)
	// Text draws s centred on at.
	Text(s string, at Point, size float64, c color.Color)
}
