// Package offscreen is a headless driver with a virtual clock and scripted
// input. Surfaces record what they paint instead of drawing to a screen.
package offscreen

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"
	"time"

	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/driver"
	"golang.org/x/exp/maps"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var (
	ErrSurface = errors.New("offscreen: surface creation failed")
	ErrHook    = errors.New("offscreen: hook installation failed")
	ErrCapture = errors.New("offscreen: capture failed")
	ErrMeasure = errors.New("offscreen: text measurement failed")
	ErrImage   = errors.New("offscreen: image not found")
)

// Forwarded is an event delivered to the window beneath the pointer.
type Forwarded struct {
	Window driver.Handle
	Event  driver.Event
}

type window struct {
	handle driver.Handle
	parent driver.Handle
	bounds image.Rectangle
}

type Driver struct {
	// Failure toggles for exercising error paths.
	FailSurface   bool
	FailHooks     bool
	FailCapture   bool
	FailRelease   bool
	FailUninstall bool
	FailMeasure   bool
	FailText      bool

	mutex sync.Mutex
	calls []func()
	wake  chan struct{}

	script []func()
	now    time.Duration
	timers []*timer

	monitors []driver.Monitor
	metrics  driver.Metrics
	dark     bool

	windows  map[driver.Handle]*window
	order    []driver.Handle
	surfaces map[driver.Handle]*Surface
	captured *Surface
	hooks    []*hook
	watchers map[int]func()
	watchID  int

	forwarded []Forwarded
	missing   map[string]bool
}

var _ driver.Driver = &Driver{}

type Option func(d *Driver)

func WithMonitors(monitors ...driver.Monitor) Option {
	return func(d *Driver) { d.monitors = monitors }
}

func WithDark(dark bool) Option {
	return func(d *Driver) { d.dark = dark }
}

func WithMetrics(m driver.Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

func New(opts ...Option) *Driver {
	d := &Driver{
		wake: make(chan struct{}, 1),
		monitors: []driver.Monitor{{
			Bounds:   image.Rect(0, 0, 1920, 1080),
			WorkArea: image.Rect(0, 0, 1920, 1040),
		}},
		metrics: driver.Metrics{
			MenuBarItemHeight: 20,
			MenuShowDelay:     400 * time.Millisecond,
			RoundedCorners:    true,
		},
		windows:  map[driver.Handle]*window{},
		surfaces: map[driver.Handle]*Surface{},
		watchers: map[int]func(){},
		missing:  map[string]bool{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddWindow registers a top-level window.
func (d *Driver) AddWindow(bounds image.Rectangle) driver.Handle {
	return d.AddChildWindow(0, bounds)
}

// AddChildWindow registers a window nested in parent.
func (d *Driver) AddChildWindow(parent driver.Handle, bounds image.Rectangle) driver.Handle {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	h := driver.NextHandle()
	d.windows[h] = &window{handle: h, parent: parent, bounds: bounds}
	d.order = append(d.order, h)
	return h
}

// MissingImage makes LoadImage fail for path.
func (d *Driver) MissingImage(path string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.missing[path] = true
}

func (d *Driver) NewSurface(opts driver.SurfaceOptions) (driver.Surface, error) {
	if d.FailSurface {
		return nil, ErrSurface
	}
	s := &Surface{
		drv:     d,
		handle:  driver.NextHandle(),
		owner:   opts.Owner,
		parent:  opts.Parent,
		submenu: opts.Submenu,
		handler: opts.Handler,
	}
	d.mutex.Lock()
	d.surfaces[s.handle] = s
	d.mutex.Unlock()
	return s, nil
}

// Surface returns a live surface by handle.
func (d *Driver) Surface(h driver.Handle) *Surface {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.surfaces[h]
}

// Surfaces returns every live surface ordered by creation.
func (d *Driver) Surfaces() []*Surface {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	keys := maps.Keys(d.surfaces)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]*Surface, 0, len(keys))
	for _, k := range keys {
		out = append(out, d.surfaces[k])
	}
	return out
}

func (d *Driver) Monitors() []driver.Monitor {
	return append([]driver.Monitor(nil), d.monitors...)
}

func (d *Driver) WindowBounds(h driver.Handle) (image.Rectangle, bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if w, ok := d.windows[h]; ok {
		return w.bounds, true
	}
	if s, ok := d.surfaces[h]; ok {
		return s.bounds, true
	}
	return image.Rectangle{}, false
}

func (d *Driver) TopLevel(h driver.Handle) driver.Handle {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if s, ok := d.surfaces[h]; ok {
		h = s.owner
	}
	for {
		w, ok := d.windows[h]
		if !ok || w.parent == 0 {
			return h
		}
		h = w.parent
	}
}

func (d *Driver) Metrics() driver.Metrics {
	return d.metrics
}

func (d *Driver) MeasureText(text string, f api.Font) (image.Point, error) {
	if d.FailMeasure {
		return image.Point{}, ErrMeasure
	}
	face := basicfont.Face7x13
	scale := 1.0
	if f.Size > 0 {
		scale = f.Size / 10
	}
	w := float64(font.MeasureString(face, text).Ceil()) * scale
	h := float64(face.Metrics().Height.Ceil()) * scale
	return image.Pt(int(w+0.5), int(h+0.5)), nil
}

type offscreenImage struct {
	path string
	size image.Point
}

func (i *offscreenImage) Size() image.Point { return i.size }

func (d *Driver) LoadImage(path string, size int) (driver.Image, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if path == "" || d.missing[path] {
		return nil, fmt.Errorf("%w: %q", ErrImage, path)
	}
	return &offscreenImage{path: path, size: image.Pt(size, size)}, nil
}

func (d *Driver) PrefersDark() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.dark
}

func (d *Driver) WatchSystemTheme(window driver.Handle, fn func()) (func(), error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.watchID++
	id := d.watchID
	d.watchers[id] = fn
	return func() {
		d.mutex.Lock()
		defer d.mutex.Unlock()
		delete(d.watchers, id)
	}, nil
}

// Watchers reports the number of active system theme watches.
func (d *Driver) Watchers() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.watchers)
}

type hook struct {
	drv       *Driver
	window    driver.Handle
	handler   driver.Handler
	installed bool
}

func (h *hook) Uninstall() error {
	if h.drv.FailUninstall {
		return errors.New("offscreen: uninstall failed")
	}
	h.drv.mutex.Lock()
	defer h.drv.mutex.Unlock()
	h.installed = false
	for i, x := range h.drv.hooks {
		if x == h {
			h.drv.hooks = append(h.drv.hooks[:i], h.drv.hooks[i+1:]...)
			break
		}
	}
	return nil
}

func (d *Driver) InstallHook(window driver.Handle, h driver.Handler) (driver.Hook, error) {
	if d.FailHooks {
		return nil, ErrHook
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	hk := &hook{drv: d, window: window, handler: h, installed: true}
	d.hooks = append(d.hooks, hk)
	return hk, nil
}

// Hooks returns the windows that currently have a hook installed.
func (d *Driver) Hooks() []driver.Handle {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	var out []driver.Handle
	for _, h := range d.hooks {
		out = append(out, h.window)
	}
	return out
}

// Captured returns the surface holding capture, or nil.
func (d *Driver) Captured() *Surface {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.captured
}

func (d *Driver) Forward(ev driver.Event) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	var target driver.Handle
	for i := len(d.order) - 1; i >= 0; i-- {
		if w := d.windows[d.order[i]]; w != nil && ev.Pos.In(w.bounds) {
			target = w.handle
			break
		}
	}
	ev.Target = target
	d.forwarded = append(d.forwarded, Forwarded{Window: target, Event: ev})
}

// Forwarded returns every event passed through Forward.
func (d *Driver) Forwarded() []Forwarded {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return append([]Forwarded(nil), d.forwarded...)
}

type timer struct {
	drv     *Driver
	due     time.Duration
	fn      func()
	pending bool
}

func (t *timer) Stop() bool {
	t.drv.mutex.Lock()
	defer t.drv.mutex.Unlock()
	was := t.pending
	t.pending = false
	return was
}

func (d *Driver) AfterFunc(delay time.Duration, fn func()) driver.Timer {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	t := &timer{drv: d, due: d.now + delay, fn: fn, pending: true}
	d.timers = append(d.timers, t)
	return t
}

// Now returns the virtual clock.
func (d *Driver) Now() time.Duration {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.now
}

func (d *Driver) Invoke(fn func()) {
	d.mutex.Lock()
	d.calls = append(d.calls, fn)
	d.mutex.Unlock()
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Flush runs pending invoked calls and repaints damaged surfaces.
func (d *Driver) Flush() {
	for d.runCall() {
	}
	d.paint()
}

func (d *Driver) RunModal(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}
		if !d.step() {
			return
		}
	}
}

// Run processes calls and scripted input until ctx is done, waiting for
// Invoke when idle.
func (d *Driver) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if d.step() {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-d.wake:
		}
	}
}

// step runs one unit of work. Scripted input only advances while a popup
// holds capture or a hook.
func (d *Driver) step() bool {
	if d.runCall() {
		d.paint()
		return true
	}
	d.mutex.Lock()
	active := d.captured != nil || len(d.hooks) > 0
	if !active || len(d.script) == 0 {
		d.mutex.Unlock()
		return false
	}
	next := d.script[0]
	d.script = d.script[1:]
	d.mutex.Unlock()

	next()
	d.paint()
	return true
}

func (d *Driver) runCall() bool {
	d.mutex.Lock()
	if len(d.calls) == 0 {
		d.mutex.Unlock()
		return false
	}
	fn := d.calls[0]
	d.calls = d.calls[1:]
	d.mutex.Unlock()
	fn()
	return true
}

func (d *Driver) paint() {
	for _, s := range d.Surfaces() {
		s.flush()
	}
}

// advance moves the virtual clock forward, firing due timers in order.
func (d *Driver) advance(delta time.Duration) {
	d.mutex.Lock()
	end := d.now + delta
	d.mutex.Unlock()
	for {
		d.mutex.Lock()
		var next *timer
		for _, t := range d.timers {
			if t.pending && t.due <= end && (next == nil || t.due < next.due) {
				next = t
			}
		}
		if next == nil {
			d.now = end
			d.timers = pruneTimers(d.timers)
			d.mutex.Unlock()
			return
		}
		next.pending = false
		d.now = next.due
		d.mutex.Unlock()
		next.fn()
	}
}

func pruneTimers(timers []*timer) []*timer {
	out := timers[:0]
	for _, t := range timers {
		if t.pending {
			out = append(out, t)
		}
	}
	return out
}

// Send delivers ev immediately. Pointer events go to the capturing surface or
// the surface under the pointer, keyboard and focus events to the most
// recent hook.
func (d *Driver) Send(ev driver.Event) {
	d.mutex.Lock()
	var target driver.Handler
	switch ev.Type {
	case driver.KeyDown, driver.Deactivate:
		if n := len(d.hooks); n > 0 {
			target = d.hooks[n-1].handler
			ev.Target = d.hooks[n-1].window
		} else if d.captured != nil {
			target = d.captured.handler
			ev.Target = d.captured.handle
		}
	default:
		if d.captured != nil {
			target = d.captured.handler
			ev.Target = d.captured.handle
		} else {
			var top *Surface
			for _, s := range d.surfaces {
				if s.visible && ev.Pos.In(s.bounds) && (top == nil || s.handle > top.handle) {
					top = s
				}
			}
			if top != nil {
				target = top.handler
				ev.Target = top.handle
			}
		}
	}
	d.mutex.Unlock()
	if target != nil {
		target.HandleEvent(ev)
	}
}
