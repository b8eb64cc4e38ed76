package gtkdriver

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/diamondburned/gotk4/pkg/cairo"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/pangocairo"
	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/driver"
	"github.com/lucasb-eyer/go-colorful"
)

var ErrForeignImage = errors.New("gtkdriver: image was not loaded by this driver")

type canvas struct {
	cr *cairo.Context
}

var _ driver.Canvas = &canvas{}

// rgba splits c into straight cairo components.
func rgba(c color.Color) (r, g, b, a float64) {
	v, ok := colorful.MakeColor(c)
	if !ok {
		return 0, 0, 0, 0
	}
	_, _, _, alpha := c.RGBA()
	return v.R, v.G, v.B, float64(alpha) / 0xffff
}

func (c *canvas) source(col color.Color) {
	c.cr.SetSourceRGBA(rgba(col))
}

func (c *canvas) FillRect(r image.Rectangle, col color.Color) {
	c.source(col)
	c.cr.Rectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	c.cr.Fill()
}

func (c *canvas) FillRoundedRect(r image.Rectangle, radius int, col color.Color) {
	rad := math.Min(float64(radius), float64(min(r.Dx(), r.Dy()))/2)
	if rad <= 0 {
		c.FillRect(r, col)
		return
	}
	x0, y0 := float64(r.Min.X), float64(r.Min.Y)
	x1, y1 := float64(r.Max.X), float64(r.Max.Y)
	c.source(col)
	c.cr.NewSubPath()
	c.cr.Arc(x1-rad, y0+rad, rad, -math.Pi/2, 0)
	c.cr.Arc(x1-rad, y1-rad, rad, 0, math.Pi/2)
	c.cr.Arc(x0+rad, y1-rad, rad, math.Pi/2, math.Pi)
	c.cr.Arc(x0+rad, y0+rad, rad, math.Pi, 3*math.Pi/2)
	c.cr.ClosePath()
	c.cr.Fill()
}

func (c *canvas) Line(from, to image.Point, width int, col color.Color) {
	// half pixel offset keeps odd widths crisp
	off := 0.0
	if width%2 == 1 {
		off = 0.5
	}
	c.source(col)
	c.cr.SetLineWidth(float64(width))
	c.cr.MoveTo(float64(from.X), float64(from.Y)+off)
	c.cr.LineTo(float64(to.X), float64(to.Y)+off)
	c.cr.Stroke()
}

func (c *canvas) Text(r image.Rectangle, text string, font api.Font, align driver.Align, col color.Color) error {
	layout := pangocairo.CreateLayout(c.cr)
	layout.SetFontDescription(fontDescription(font))
	layout.SetText(text, -1)
	w, h := layout.PixelSize()

	x := r.Min.X
	switch align {
	case driver.AlignCenter:
		x += (r.Dx() - w) / 2
	case driver.AlignEnd:
		x = r.Max.X - w
	}
	y := r.Min.Y + (r.Dy()-h)/2

	c.cr.Save()
	defer c.cr.Restore()
	c.cr.Rectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	c.cr.Clip()
	c.source(col)
	c.cr.MoveTo(float64(x), float64(y))
	pangocairo.ShowLayout(c.cr, layout)
	return nil
}

func (c *canvas) DrawImage(r image.Rectangle, img driver.Image) error {
	p, ok := img.(*pixbufImage)
	if !ok {
		return ErrForeignImage
	}
	c.cr.Save()
	defer c.cr.Restore()
	gdk.CairoSetSourcePixbuf(c.cr, p.pixbuf, float64(r.Min.X), float64(r.Min.Y))
	c.cr.Rectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	c.cr.Fill()
	return nil
}
