package gtkdriver

import (
	"image"

	coreglib "github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/getseabird/ctxmenu/driver"
)

// hook watches a window in the capture phase without claiming events, so
// the widgets beneath still receive them.
type hook struct {
	drv     *Driver
	window  *gtk.Window
	content *gtk.Widget
	handle  driver.Handle
	handler driver.Handler

	pointer []gtk.EventControllerer
	key     *gtk.EventControllerKey
	active  coreglib.SignalHandle
}

func newHook(d *Driver, w *gtk.Window, content gtk.Widgetter, handle driver.Handle, h driver.Handler) *hook {
	hk := &hook{
		drv:     d,
		window:  w,
		content: gtk.BaseWidget(content),
		handle:  handle,
		handler: h,
	}

	motion := gtk.NewEventControllerMotion()
	motion.ConnectMotion(func(x, y float64) {
		hk.pointerEvent(driver.Event{Type: driver.PointerMove, Pos: image.Pt(int(x), int(y))})
	})

	click := gtk.NewGestureClick()
	click.SetButton(0)
	click.ConnectPressed(func(_ int, x, y float64) {
		hk.pointerEvent(driver.Event{Type: driver.PointerDown, Pos: image.Pt(int(x), int(y)), Button: translateButton(click.CurrentButton())})
	})
	click.ConnectReleased(func(_ int, x, y float64) {
		hk.pointerEvent(driver.Event{Type: driver.PointerUp, Pos: image.Pt(int(x), int(y)), Button: translateButton(click.CurrentButton())})
	})

	scroll := gtk.NewEventControllerScroll(gtk.EventControllerScrollBothAxes)
	scroll.ConnectScroll(func(dx, dy float64) bool {
		hk.pointerEvent(driver.Event{Type: driver.Scroll, Delta: image.Pt(int(dx), int(dy))})
		return false
	})

	for _, c := range []gtk.EventControllerer{motion, click, scroll} {
		gtk.BaseEventController(c).SetPropagationPhase(gtk.PhaseCapture)
		hk.content.AddController(c)
		hk.pointer = append(hk.pointer, c)
	}

	hk.key = gtk.NewEventControllerKey()
	hk.key.SetPropagationPhase(gtk.PhaseCapture)
	hk.key.ConnectKeyPressed(func(keyval, _ uint, _ gdk.ModifierType) bool {
		key := translateKey(keyval)
		if key == driver.KeyNone {
			return false
		}
		if target, ok := hk.drv.keyTarget(); ok {
			target.HandleEvent(driver.Event{Type: driver.KeyDown, Key: key, Target: hk.handle})
		}
		return true
	})
	w.AddController(hk.key)

	hk.active = w.NotifyProperty("is-active", func() {
		if !w.IsActive() {
			hk.handler.HandleEvent(driver.Event{Type: driver.Deactivate, Target: hk.handle})
		}
	})

	return hk
}

// pointerEvent handles input outside of menu surfaces; surfaces deliver
// their own.
func (hk *hook) pointerEvent(ev driver.Event) {
	if ev.Type != driver.Scroll && hk.drv.surfaceAt(ev.Pos) != nil {
		return
	}
	h, target, ok := hk.drv.route(ev.Pos)
	if !ok {
		h, target = hk.handler, hk.handle
	}
	ev.Target = target
	h.HandleEvent(ev)
}

func (hk *hook) Uninstall() error {
	for _, c := range hk.pointer {
		hk.content.RemoveController(c)
	}
	hk.window.RemoveController(hk.key)
	hk.window.HandlerDisconnect(hk.active)
	hk.drv.removeHook(hk)
	return nil
}
