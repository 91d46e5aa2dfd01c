package lights

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/leslieo2/status-lights/internal/constants"
	"github.com/leslieo2/status-lights/internal/statuspage"
)

// Icon geometry, in pixels.
const (
	IconWidth    = 52
	IconHeight   = 18
	DotSize      = 6
	DotSpacing   = 4
	CornerRadius = 4
)

var (
	background = color.NRGBA{R: 0, G: 0, B: 0, A: 26}
	highlight  = color.NRGBA{R: 255, G: 255, B: 255, A: 77}
)

// gridOrigin centers the dot grid on the canvas.
var gridOrigin = image.Point{
	X: (IconWidth - (constants.IconColumns*DotSize + (constants.IconColumns-1)*DotSpacing)) / 2,
	Y: (IconHeight - (constants.IconRows*DotSize + (constants.IconRows-1)*DotSpacing)) / 2,
}

// DotOrigin returns the top-left corner of the dot at grid position index.
// Positions run row-major, left to right, top to bottom.
func DotOrigin(index int) image.Point {
	row, col := index/constants.IconColumns, index%constants.IconColumns
	return gridOrigin.Add(image.Pt(col*(DotSize+DotSpacing), row*(DotSize+DotSpacing)))
}

// RenderIcon draws one dot per service in the given order. Services beyond
// the grid capacity are not drawn.
func RenderIcon(services []statuspage.Service) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, IconWidth, IconHeight))

	fill(img, background, roundedRect{r: img.Bounds(), radius: CornerRadius})

	for i, service := range services {
		if i >= constants.IconColumns*constants.IconRows {
			break
		}
		origin := DotOrigin(i)
		dot := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(DotSize, DotSize))}
		fill(img, ColorForStatus(service.Status), circle{r: dot})
		fill(img, highlight, diamond{r: dot.Inset(1)})
	}

	return img
}

// EncodePNG encodes an icon for the menu bar.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}
	return buf.Bytes(), nil
}

func fill(dst draw.Image, c color.Color, mask image.Image) {
	draw.DrawMask(dst, mask.Bounds(), image.NewUniform(c), image.Point{}, mask, mask.Bounds().Min, draw.Over)
}

// Shape masks sample each pixel at its center.

type circle struct{ r image.Rectangle }

func (c circle) ColorModel() color.Model { return color.AlphaModel }
func (c circle) Bounds() image.Rectangle { return c.r }
func (c circle) At(x, y int) color.Color {
	radius := float64(c.r.Dx()) / 2
	cx, cy := float64(c.r.Min.X)+radius, float64(c.r.Min.Y)+radius
	dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
	return alpha(dx*dx+dy*dy <= radius*radius)
}

type diamond struct{ r image.Rectangle }

func (d diamond) ColorModel() color.Model { return color.AlphaModel }
func (d diamond) Bounds() image.Rectangle { return d.r }
func (d diamond) At(x, y int) color.Color {
	half := float64(d.r.Dx()) / 2
	cx, cy := float64(d.r.Min.X)+half, float64(d.r.Min.Y)+half
	return alpha(abs(float64(x)+0.5-cx)+abs(float64(y)+0.5-cy) <= half)
}

type roundedRect struct {
	r      image.Rectangle
	radius int
}

func (rr roundedRect) ColorModel() color.Model { return color.AlphaModel }
func (rr roundedRect) Bounds() image.Rectangle { return rr.r }
func (rr roundedRect) At(x, y int) color.Color {
	r := float64(rr.radius)
	px, py := float64(x)+0.5, float64(y)+0.5
	cx := clamp(px, float64(rr.r.Min.X)+r, float64(rr.r.Max.X)-r)
	cy := clamp(py, float64(rr.r.Min.Y)+r, float64(rr.r.Max.Y)-r)
	dx, dy := px-cx, py-cy
	return alpha(dx*dx+dy*dy <= r*r)
}

func alpha(inside bool) color.Alpha {
	if inside {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
