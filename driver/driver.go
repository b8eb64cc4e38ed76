// Package driver defines the platform contract the menu runtime is written
// against. A driver owns native surfaces, the GUI thread, timers, input hooks
// and the drawing primitives.
package driver

import (
	"image"
	"image/color"
	"sync/atomic"
	"time"

	"github.com/getseabird/ctxmenu/api"
)

// Handle identifies a native window or surface.
type Handle uintptr

var handles atomic.Uintptr

func init() {
	handles.Store(0x1000)
}

// NextHandle returns a handle that is unique within the process. Drivers
// whose platform has no native handles allocate theirs here, so surfaces of
// different drivers never collide.
func NextHandle() Handle {
	return Handle(handles.Add(1))
}

type Driver interface {
	NewSurface(opts SurfaceOptions) (Surface, error)

	// Monitors returns every monitor in screen coordinates.
	Monitors() []Monitor
	WindowBounds(window Handle) (image.Rectangle, bool)
	// TopLevel returns the top-level ancestor of window.
	TopLevel(window Handle) Handle

	Metrics() Metrics
	MeasureText(text string, font api.Font) (image.Point, error)
	LoadImage(path string, size int) (Image, error)

	PrefersDark() bool
	// WatchSystemTheme calls fn on the GUI thread when the OS dark
	// preference changes.
	WatchSystemTheme(window Handle, fn func()) (cancel func(), err error)

	// InstallHook routes keyboard and focus events of window to h until
	// the hook is uninstalled.
	InstallHook(window Handle, h Handler) (Hook, error)
	// Forward delivers ev to whatever window is beneath ev.Pos.
	Forward(ev Event)

	AfterFunc(d time.Duration, fn func()) Timer
	// Invoke schedules fn on the GUI thread.
	Invoke(fn func())
	// RunModal pumps events on the GUI thread until done is closed or
	// there is nothing left to process.
	RunModal(done <-chan struct{})
}

type SurfaceOptions struct {
	Owner   Handle
	Parent  Handle
	Submenu bool
	Handler Handler
}

type Surface interface {
	Handle() Handle
	SetBounds(r image.Rectangle) error
	Bounds() image.Rectangle
	Show(animate bool) error
	Hide() error
	Visible() bool
	// Invalidate schedules a repaint of r in surface coordinates.
	Invalidate(r image.Rectangle)
	Capture() error
	Release() error
	ApplyTheme(dark bool) error
	Destroy()
}

type Handler interface {
	HandleEvent(ev Event)
	Paint(c Canvas, dirty image.Rectangle)
}

type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

type Canvas interface {
	FillRect(r image.Rectangle, c color.Color)
	FillRoundedRect(r image.Rectangle, radius int, c color.Color)
	Line(from, to image.Point, width int, c color.Color)
	Text(r image.Rectangle, text string, font api.Font, align Align, c color.Color) error
	DrawImage(r image.Rectangle, img Image) error
}

type Image interface {
	Size() image.Point
}

type Metrics struct {
	// MenuBarItemHeight is the platform's single-line menu bar item height.
	MenuBarItemHeight int
	MenuShowDelay     time.Duration
	RoundedCorners    bool
}

type Monitor struct {
	Bounds   image.Rectangle
	WorkArea image.Rectangle
}

type Timer interface {
	Stop() bool
}

type Hook interface {
	Uninstall() error
}
