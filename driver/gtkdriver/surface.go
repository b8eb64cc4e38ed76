package gtkdriver

import (
	"image"

	"github.com/diamondburned/gotk4/pkg/cairo"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/getseabird/ctxmenu/driver"
	"github.com/getseabird/ctxmenu/internal/style"
)

type surface struct {
	drv     *Driver
	handle  driver.Handle
	owner   driver.Handle
	handler driver.Handler
	popover *gtk.Popover
	area    *gtk.DrawingArea
	bounds  image.Rectangle
	visible bool
}

var _ driver.Surface = &surface{}

func newSurface(d *Driver, handle driver.Handle, parent gtk.Widgetter, opts driver.SurfaceOptions) *surface {
	s := &surface{
		drv:     d,
		handle:  handle,
		owner:   d.TopLevel(opts.Owner),
		handler: opts.Handler,
		popover: gtk.NewPopover(),
		area:    gtk.NewDrawingArea(),
	}
	s.popover.AddCSSClass(style.SurfaceClass)
	s.popover.SetHasArrow(false)
	s.popover.SetAutohide(false)
	s.popover.SetPosition(gtk.PosBottom)
	s.popover.SetChild(s.area)
	s.popover.SetParent(parent)

	s.area.SetDrawFunc(func(_ *gtk.DrawingArea, cr *cairo.Context, width, height int) {
		s.handler.Paint(&canvas{cr: cr}, image.Rect(0, 0, width, height))
	})

	motion := gtk.NewEventControllerMotion()
	motion.ConnectMotion(func(x, y float64) {
		s.deliver(driver.Event{Type: driver.PointerMove, Pos: s.toScreen(x, y)})
	})
	s.area.AddController(motion)

	click := gtk.NewGestureClick()
	click.SetButton(0)
	click.ConnectPressed(func(_ int, x, y float64) {
		s.deliver(driver.Event{Type: driver.PointerDown, Pos: s.toScreen(x, y), Button: translateButton(click.CurrentButton())})
	})
	click.ConnectReleased(func(_ int, x, y float64) {
		s.deliver(driver.Event{Type: driver.PointerUp, Pos: s.toScreen(x, y), Button: translateButton(click.CurrentButton())})
	})
	s.area.AddController(click)

	scroll := gtk.NewEventControllerScroll(gtk.EventControllerScrollBothAxes)
	scroll.ConnectScroll(func(dx, dy float64) bool {
		s.deliver(driver.Event{Type: driver.Scroll, Pos: s.bounds.Min, Delta: image.Pt(int(dx), int(dy))})
		return true
	})
	s.area.AddController(scroll)

	return s
}

func (s *surface) toScreen(x, y float64) image.Point {
	return s.bounds.Min.Add(image.Pt(int(x), int(y)))
}

func (s *surface) deliver(ev driver.Event) {
	h, target, ok := s.drv.route(ev.Pos)
	if !ok {
		h, target = s.handler, s.handle
	}
	ev.Target = target
	h.HandleEvent(ev)
}

func (s *surface) Handle() driver.Handle {
	return s.handle
}

func (s *surface) SetBounds(r image.Rectangle) error {
	s.bounds = r
	s.area.SetContentWidth(r.Dx())
	s.area.SetContentHeight(r.Dy())
	s.area.SetSizeRequest(r.Dx(), r.Dy())
	// PosBottom centers the popover on the pointing rectangle.
	rect := gdk.NewRectangle(r.Min.X, r.Min.Y, 1, 1)
	s.popover.SetPointingTo(&rect)
	s.popover.SetOffset(r.Dx()/2, 0)
	if s.visible {
		s.popover.Present()
	}
	return nil
}

func (s *surface) Bounds() image.Rectangle {
	return s.bounds
}

// Show fades the popover in when animate is set. The class is dropped on
// hide so the animation starts again on the next show.
func (s *surface) Show(animate bool) error {
	s.visible = true
	if animate {
		s.popover.AddCSSClass(style.AnimatedClass)
	}
	s.popover.Popup()
	return nil
}

func (s *surface) Hide() error {
	s.visible = false
	if s.drv.captured == s {
		s.drv.captured = nil
	}
	s.popover.Popdown()
	s.popover.RemoveCSSClass(style.AnimatedClass)
	return nil
}

func (s *surface) Visible() bool {
	return s.visible
}

// Invalidate queues a redraw. GTK 4 always repaints the whole drawing area,
// so r only decides whether to draw at all.
func (s *surface) Invalidate(r image.Rectangle) {
	if s.visible && !r.Empty() {
		s.area.QueueDraw()
	}
}

func (s *surface) Capture() error {
	s.drv.captured = s
	return nil
}

func (s *surface) Release() error {
	if s.drv.captured == s {
		s.drv.captured = nil
	}
	return nil
}

func (s *surface) ApplyTheme(dark bool) error {
	if dark {
		s.popover.RemoveCSSClass("light")
		s.popover.AddCSSClass("dark")
	} else {
		s.popover.RemoveCSSClass("dark")
		s.popover.AddCSSClass("light")
	}
	return nil
}

func (s *surface) Destroy() {
	_ = s.Hide()
	s.popover.Unparent()
	delete(s.drv.surfaces, s.handle)
}
