// Package gtkdriver renders menus as GTK 4 popovers. Menu coordinates are
// relative to the content widget of the owner window, which also stands in
// for the monitor since GTK does not expose global positions on Wayland.
package gtkdriver

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	coreglib "github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gdkpixbuf/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/diamondburned/gotk4/pkg/pango"
	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/driver"
	"github.com/getseabird/ctxmenu/internal/style"
	"github.com/go-logr/logr"
	"github.com/zmwangx/debounce"
	"golang.org/x/exp/slices"
)

var (
	ErrUnknownWindow = errors.New("gtkdriver: unknown window")
	ErrNoContent     = errors.New("gtkdriver: window has no content")
)

type Driver struct {
	log      logr.Logger
	measurer *gtk.DrawingArea
	metrics  driver.Metrics

	windows  map[driver.Handle]*gtk.Window
	surfaces map[driver.Handle]*surface
	captured *surface
	hooks    []*hook
}

var _ driver.Driver = &Driver{}

type Option func(*Driver)

func WithMetrics(m driver.Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// New must be called on the GTK thread after gtk.Init.
func New(log logr.Logger, opts ...Option) *Driver {
	style.Load()
	d := &Driver{
		log:      log,
		measurer: gtk.NewDrawingArea(),
		metrics: driver.Metrics{
			MenuBarItemHeight: 24,
			MenuShowDelay:     400 * time.Millisecond,
			RoundedCorners:    true,
		},
		windows:  map[driver.Handle]*gtk.Window{},
		surfaces: map[driver.Handle]*surface{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddWindow registers a top-level window that menus can be owned by.
func (d *Driver) AddWindow(w *gtk.Window) driver.Handle {
	for h, win := range d.windows {
		if win == w {
			return h
		}
	}
	h := driver.NextHandle()
	d.windows[h] = w
	w.ConnectDestroy(func() {
		delete(d.windows, h)
	})
	return h
}

func (d *Driver) content(window driver.Handle) (gtk.Widgetter, error) {
	w, ok := d.windows[window]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWindow, window)
	}
	child := w.Child()
	if child == nil {
		return nil, fmt.Errorf("%w: %d", ErrNoContent, window)
	}
	return child, nil
}

func (d *Driver) NewSurface(opts driver.SurfaceOptions) (driver.Surface, error) {
	parent, err := d.content(d.TopLevel(opts.Owner))
	if err != nil {
		return nil, err
	}
	s := newSurface(d, driver.NextHandle(), parent, opts)
	d.surfaces[s.handle] = s
	return s, nil
}

// Monitors reports one monitor per registered window covering its content.
func (d *Driver) Monitors() []driver.Monitor {
	var monitors []driver.Monitor
	for h := range d.windows {
		if r, ok := d.WindowBounds(h); ok {
			monitors = append(monitors, driver.Monitor{Bounds: r, WorkArea: r})
		}
	}
	return monitors
}

func (d *Driver) WindowBounds(window driver.Handle) (image.Rectangle, bool) {
	content, err := d.content(window)
	if err != nil {
		return image.Rectangle{}, false
	}
	w := gtk.BaseWidget(content)
	return image.Rect(0, 0, w.Width(), w.Height()), true
}

func (d *Driver) TopLevel(window driver.Handle) driver.Handle {
	if s, ok := d.surfaces[window]; ok {
		return s.owner
	}
	return window
}

func (d *Driver) Metrics() driver.Metrics {
	return d.metrics
}

func fontDescription(f api.Font) *pango.FontDescription {
	desc := pango.NewFontDescription()
	desc.SetFamily(f.Family)
	desc.SetSize(int(f.Size * pango.SCALE))
	desc.SetWeight(pango.Weight(f.Weight))
	return desc
}

func (d *Driver) MeasureText(text string, font api.Font) (image.Point, error) {
	layout := d.measurer.CreatePangoLayout(text)
	layout.SetFontDescription(fontDescription(font))
	w, h := layout.PixelSize()
	return image.Pt(w, h), nil
}

type pixbufImage struct {
	pixbuf *gdkpixbuf.Pixbuf
}

func (i *pixbufImage) Size() image.Point {
	return image.Pt(i.pixbuf.Width(), i.pixbuf.Height())
}

func (d *Driver) LoadImage(path string, size int) (driver.Image, error) {
	pixbuf, err := gdkpixbuf.NewPixbufFromFileAtSize(path, size, size)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return &pixbufImage{pixbuf: pixbuf}, nil
}

func (d *Driver) PrefersDark() bool {
	return adw.StyleManagerGetDefault().Dark()
}

// WatchSystemTheme calls fn on the GTK thread when the style manager flips
// between dark and light. Bursts of notifications are coalesced.
func (d *Driver) WatchSystemTheme(window driver.Handle, fn func()) (func(), error) {
	if _, ok := d.windows[window]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWindow, window)
	}
	sm := adw.StyleManagerGetDefault()
	changed, ctrl := debounce.Debounce(func() {
		glib.IdleAdd(fn)
	}, 50*time.Millisecond, debounce.WithMaxWait(time.Second))
	h := sm.NotifyProperty("dark", changed)
	return func() {
		sm.HandlerDisconnect(h)
		ctrl.Cancel()
	}, nil
}

func (d *Driver) InstallHook(window driver.Handle, h driver.Handler) (driver.Hook, error) {
	w, ok := d.windows[window]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWindow, window)
	}
	content, err := d.content(window)
	if err != nil {
		return nil, err
	}
	hk := newHook(d, w, content, window, h)
	d.hooks = append(d.hooks, hk)
	return hk, nil
}

// Forward is a no-op: hooks observe in the capture phase without claiming
// events, so GTK already delivers them to the widget beneath the pointer.
func (d *Driver) Forward(ev driver.Event) {
	d.log.V(4).Info("forwarded", "event", ev)
}

type timer struct {
	source coreglib.SourceHandle
	fired  bool
	active bool
}

func (t *timer) Stop() bool {
	if !t.active || t.fired {
		return false
	}
	t.active = false
	glib.SourceRemove(uint(t.source))
	return true
}

func (d *Driver) AfterFunc(delay time.Duration, fn func()) driver.Timer {
	t := &timer{active: true}
	t.source = coreglib.TimeoutAdd(uint(delay.Milliseconds()), func() bool {
		t.fired = true
		if t.active {
			fn()
		}
		return false
	})
	return t
}

func (d *Driver) Invoke(fn func()) {
	glib.IdleAdd(fn)
}

// RunModal spins a nested main loop until done is closed.
func (d *Driver) RunModal(done <-chan struct{}) {
	loop := glib.NewMainLoop(nil, false)
	go func() {
		<-done
		glib.IdleAdd(loop.Quit)
	}()
	loop.Run()
}

// route returns the handler that should see pointer input at pos: the
// capturing surface, else the visible surface under the pointer.
func (d *Driver) route(pos image.Point) (driver.Handler, driver.Handle, bool) {
	if d.captured != nil {
		return d.captured.handler, d.captured.handle, true
	}
	if s := d.surfaceAt(pos); s != nil {
		return s.handler, s.handle, true
	}
	return nil, 0, false
}

func (d *Driver) surfaceAt(pos image.Point) *surface {
	var hit *surface
	for _, s := range d.surfaces {
		if s.visible && pos.In(s.bounds) && (hit == nil || s.handle > hit.handle) {
			hit = s
		}
	}
	return hit
}

// keyTarget is the innermost hook, else the capturing surface.
func (d *Driver) keyTarget() (driver.Handler, bool) {
	if n := len(d.hooks); n > 0 {
		return d.hooks[n-1].handler, true
	}
	if d.captured != nil {
		return d.captured.handler, true
	}
	return nil, false
}

func (d *Driver) removeHook(h *hook) {
	if i := slices.Index(d.hooks, h); i >= 0 {
		d.hooks = slices.Delete(d.hooks, i, i+1)
	}
}

func translateKey(keyval uint) driver.Key {
	switch keyval {
	case gdk.KEY_Escape:
		return driver.KeyEscape
	case gdk.KEY_Return, gdk.KEY_KP_Enter, gdk.KEY_ISO_Enter:
		return driver.KeyReturn
	case gdk.KEY_space, gdk.KEY_KP_Space:
		return driver.KeySpace
	case gdk.KEY_Up, gdk.KEY_KP_Up:
		return driver.KeyArrowUp
	case gdk.KEY_Down, gdk.KEY_KP_Down:
		return driver.KeyArrowDown
	case gdk.KEY_Left, gdk.KEY_KP_Left:
		return driver.KeyArrowLeft
	case gdk.KEY_Right, gdk.KEY_KP_Right:
		return driver.KeyArrowRight
	case gdk.KEY_Super_L, gdk.KEY_Super_R, gdk.KEY_Meta_L, gdk.KEY_Meta_R:
		return driver.KeyMeta
	}
	return driver.KeyNone
}

func translateButton(button uint) int {
	switch button {
	case gdk.BUTTON_PRIMARY:
		return driver.ButtonPrimary
	case gdk.BUTTON_MIDDLE:
		return driver.ButtonMiddle
	case gdk.BUTTON_SECONDARY:
		return driver.ButtonSecondary
	}
	return int(button)
}
