package render

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Smoopi/D2-Assignment/internal/sketch"
)

var ink = color.RGBA{0x22, 0x22, 0x22, 0xff}

func isInk(c color.RGBA) bool { return c.R < 0x80 && c.A == 0xff }

func TestNewRasterRejectsEmptySize(t *testing.T) {
	if _, err := NewRaster(0, 10); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("expected ErrNoSurface, got %v", err)
	}
	if _, err := NewRaster(10, 10, WithFontData([]byte("not a font"))); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("expected ErrNoSurface for bad font, got %v", err)
	}
}

func TestClearFillsBackground(t *testing.T) {
	r, err := NewRaster(8, 8, WithBackground(color.RGBA{10, 20, 30, 255}))
	if err != nil {
		t.Fatalf("new raster: %v", err)
	}
	if got := r.Image().RGBAAt(4, 4); got != (color.RGBA{10, 20, 30, 255}) {
		t.Fatalf("unexpected background %v", got)
	}
}

func TestSinglePointStrokePaintsDisc(t *testing.T) {
	r, err := NewRaster(32, 32)
	if err != nil {
		t.Fatalf("new raster: %v", err)
	}
	sketch.NewStroke(sketch.Point{X: 16, Y: 16}, 8, ink).Render(r)
	if !isInk(r.Image().RGBAAt(16, 16)) {
		t.Fatalf("centre not painted: %v", r.Image().RGBAAt(16, 16))
	}
	if !isInk(r.Image().RGBAAt(18, 16)) {
		t.Fatalf("disc radius not painted: %v", r.Image().RGBAAt(18, 16))
	}
	if isInk(r.Image().RGBAAt(24, 16)) {
		t.Fatal("disc larger than thickness")
	}
}

func TestPolylinePaintsAlongPath(t *testing.T) {
	r, err := NewRaster(32, 32)
	if err != nil {
		t.Fatalf("new raster: %v", err)
	}
	s := sketch.NewStroke(sketch.Point{X: 4, Y: 16}, 4, ink)
	s.Extend(sketch.Point{X: 28, Y: 16})
	s.Render(r)
	for _, x := range []int{6, 16, 26} {
		if !isInk(r.Image().RGBAAt(x, 16)) {
			t.Fatalf("pixel %d not painted", x)
		}
	}
	if isInk(r.Image().RGBAAt(16, 4)) {
		t.Fatal("unexpected paint away from the line")
	}
}

func TestTextPaintsNearAnchor(t *testing.T) {
	r, err := NewRaster(64, 64)
	if err != nil {
		t.Fatalf("new raster: %v", err)
	}
	sketch.NewSticker(sketch.Point{X: 32, Y: 32}, "W", 32).Render(r)
	img := r.Image()
	painted := false
	for y := 20; y < 44 && !painted; y++ {
		for x := 20; x < 44; x++ {
			if img.RGBAAt(x, y).R < 0x80 {
				painted = true
				break
			}
		}
	}
	if !painted {
		t.Fatal("expected glyph pixels around the anchor")
	}
	if img.RGBAAt(1, 1) != (color.RGBA{255, 255, 255, 255}) {
		t.Fatal("glyph drawn far from anchor")
	}
}

func TestEncodePNG(t *testing.T) {
	r, err := NewRaster(4, 3)
	if err != nil {
		t.Fatalf("new raster: %v", err)
	}
	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestSnapshotLeavesOutPreview(t *testing.T) {
	r, err := NewRaster(40, 40)
	if err != nil {
		t.Fatalf("new raster: %v", err)
	}
	ctrl := sketch.NewController(r)
	ctrl.PointerDown(sketch.Point{X: 10, Y: 10})
	ctrl.PointerUp(sketch.Point{X: 10, Y: 10})
	ctrl.SelectThickMarker()
	ctrl.PointerEnter(sketch.Point{X: 28, Y: 28})

	white := color.RGBA{255, 255, 255, 255}
	marked := func(r *Raster) bool {
		for y := 20; y < 37; y++ {
			for x := 20; x < 37; x++ {
				if r.Image().RGBAAt(x, y) != white {
					return true
				}
			}
		}
		return false
	}
	if !marked(r) {
		t.Fatal("expected the live surface to show the preview")
	}
	snap := r.Snapshot(ctrl.History())
	if marked(snap) {
		t.Fatal("preview leaked into the snapshot")
	}
	if !isInk(snap.Image().RGBAAt(10, 10)) {
		t.Fatalf("committed stroke missing from snapshot: %v", snap.Image().RGBAAt(10, 10))
	}
}

func TestDefaultStickersPaintNearAnchor(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	var images [][]byte
	for _, glyph := range sketch.DefaultPresets().Stickers {
		r, err := NewRaster(64, 64)
		if err != nil {
			t.Fatalf("new raster: %v", err)
		}
		sketch.NewSticker(sketch.Point{X: 32, Y: 32}, glyph, 32).Render(r)
		painted := 0
		for y := 28; y <= 36; y++ {
			for x := 28; x <= 36; x++ {
				if r.Image().RGBAAt(x, y) != white {
					painted++
				}
			}
		}
		if painted == 0 {
			t.Fatalf("sticker %q painted nothing near its anchor", glyph)
		}
		if r.Image().RGBAAt(2, 2) != white {
			t.Fatalf("sticker %q painted far from its anchor", glyph)
		}
		images = append(images, r.Image().Pix)
	}
	for i := 1; i < len(images); i++ {
		if bytes.Equal(images[i-1], images[i]) {
			t.Fatalf("stickers %d and %d look identical", i-1, i)
		}
	}
}

func TestTextWithoutSizeIsLogged(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRaster(16, 16, WithLogger(log.New(&buf)))
	if err != nil {
		t.Fatalf("new raster: %v", err)
	}
	r.Text("W", sketch.Point{X: 8, Y: 8}, 0, ink)
	if !strings.Contains(buf.String(), "text not drawn") {
		t.Fatalf("expected a warning, got %q", buf.String())
	}
}
