package sketch

import (
	"fmt"
	"image/color"
)

type op struct {
	kind   string
	pts    []Point
	radius float64
	style  LineStyle
	text   string
	size   float64
	color  color.Color
}

// recorder is a Surface that remembers every call since the last Clear.
type recorder struct {
	clears int
	ops    []op
}

func (r *recorder) Clear() {
	r.clears++
	r.ops = nil
}

func (r *recorder) Polyline(pts []Point, style LineStyle) {
	r.ops = append(r.ops, op{kind: "polyline", pts: append([]Point(nil), pts...), style: style})
}

func (r *recorder) Disc(center Point, radius float64, c color.Color) {
	r.ops = append(r.ops, op{kind: "disc", pts: []Point{center}, radius: radius, color: c})
}

func (r *recorder) Circle(center Point, radius float64, style LineStyle) {
	r.ops = append(r.ops, op{kind: "circle", pts: []Point{center}, radius: radius, style: style})
}

func (r *recorder) Text(s string, at Point, size float64, c color.Color) {
	r.ops = append(r.ops, op{kind: "text", pts: []Point{at}, text: s, size: size, color: c})
}

func (r *recorder) kinds() []string {
	out := make([]string, len(r.ops))
	for i, o := range r.ops {
		out[i] = o.kind
	}
	return out
}

func (o op) String() string { return fmt.Sprintf("%s%v", o.kind, o.pts) }
