package offscreen

import (
	"errors"
	"image"
	"image/color"

	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/driver"
)

var ErrDestroyed = errors.New("offscreen: surface destroyed")

type Surface struct {
	drv     *Driver
	handle  driver.Handle
	owner   driver.Handle
	parent  driver.Handle
	submenu bool
	handler driver.Handler

	bounds    image.Rectangle
	visible   bool
	destroyed bool
	damage    image.Rectangle

	// Recorded state, read by tests.
	Paints       []Paint
	Shows        int
	Hides        int
	Animated     int
	ThemeApplied int
	Dark         bool
}

var _ driver.Surface = &Surface{}

func (s *Surface) Handle() driver.Handle { return s.handle }

func (s *Surface) Parent() driver.Handle { return s.parent }

func (s *Surface) IsSubmenu() bool { return s.submenu }

func (s *Surface) SetBounds(r image.Rectangle) error {
	s.drv.mutex.Lock()
	defer s.drv.mutex.Unlock()
	if s.destroyed {
		return ErrDestroyed
	}
	if r.Size() != s.bounds.Size() {
		s.damage = image.Rectangle{Max: r.Size()}
	}
	s.bounds = r
	return nil
}

func (s *Surface) Bounds() image.Rectangle {
	s.drv.mutex.Lock()
	defer s.drv.mutex.Unlock()
	return s.bounds
}

func (s *Surface) Show(animate bool) error {
	s.drv.mutex.Lock()
	defer s.drv.mutex.Unlock()
	if s.destroyed {
		return ErrDestroyed
	}
	s.visible = true
	s.Shows++
	if animate {
		s.Animated++
	}
	s.damage = image.Rectangle{Max: s.bounds.Size()}
	return nil
}

func (s *Surface) Hide() error {
	s.drv.mutex.Lock()
	defer s.drv.mutex.Unlock()
	if s.destroyed {
		return ErrDestroyed
	}
	s.visible = false
	s.Hides++
	s.damage = image.Rectangle{}
	return nil
}

func (s *Surface) Visible() bool {
	s.drv.mutex.Lock()
	defer s.drv.mutex.Unlock()
	return s.visible
}

func (s *Surface) Invalidate(r image.Rectangle) {
	s.drv.mutex.Lock()
	defer s.drv.mutex.Unlock()
	r = r.Intersect(image.Rectangle{Max: s.bounds.Size()})
	if r.Empty() {
		return
	}
	s.damage = s.damage.Union(r)
}

func (s *Surface) Capture() error {
	if s.drv.FailCapture {
		return ErrCapture
	}
	s.drv.mutex.Lock()
	defer s.drv.mutex.Unlock()
	s.drv.captured = s
	return nil
}

func (s *Surface) Release() error {
	if s.drv.FailRelease {
		return errors.New("offscreen: release failed")
	}
	s.drv.mutex.Lock()
	defer s.drv.mutex.Unlock()
	if s.drv.captured == s {
		s.drv.captured = nil
	}
	return nil
}

func (s *Surface) ApplyTheme(dark bool) error {
	s.drv.mutex.Lock()
	defer s.drv.mutex.Unlock()
	s.Dark = dark
	s.ThemeApplied++
	return nil
}

func (s *Surface) Destroy() {
	s.drv.mutex.Lock()
	defer s.drv.mutex.Unlock()
	s.destroyed = true
	s.visible = false
	if s.drv.captured == s {
		s.drv.captured = nil
	}
	delete(s.drv.surfaces, s.handle)
}

// LastPaint returns the most recent frame, or nil.
func (s *Surface) LastPaint() *Paint {
	s.drv.mutex.Lock()
	defer s.drv.mutex.Unlock()
	if len(s.Paints) == 0 {
		return nil
	}
	return &s.Paints[len(s.Paints)-1]
}

func (s *Surface) flush() {
	s.drv.mutex.Lock()
	dirty := s.damage
	if !s.visible || dirty.Empty() || s.handler == nil {
		s.drv.mutex.Unlock()
		return
	}
	s.damage = image.Rectangle{}
	s.drv.mutex.Unlock()

	c := &Canvas{failText: s.drv.FailText}
	s.handler.Paint(c, dirty)

	s.drv.mutex.Lock()
	s.Paints = append(s.Paints, Paint{Dirty: dirty, Ops: c.Ops})
	s.drv.mutex.Unlock()
}

// Paint is one repaint of a surface.
type Paint struct {
	Dirty image.Rectangle
	Ops   []Op
}

// Texts returns the strings drawn in this frame, in order.
func (p Paint) Texts() []string {
	var out []string
	for _, op := range p.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

type OpKind int

const (
	OpFill OpKind = iota
	OpRoundedFill
	OpLine
	OpText
	OpImage
)

type Op struct {
	Kind   OpKind
	Rect   image.Rectangle
	Text   string
	Align  driver.Align
	Color  color.Color
	Radius int
	Width  int
}

// Canvas records drawing operations.
type Canvas struct {
	Ops      []Op
	failText bool
}

var _ driver.Canvas = &Canvas{}

func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	c.Ops = append(c.Ops, Op{Kind: OpFill, Rect: r, Color: col})
}

func (c *Canvas) FillRoundedRect(r image.Rectangle, radius int, col color.Color) {
	c.Ops = append(c.Ops, Op{Kind: OpRoundedFill, Rect: r, Radius: radius, Color: col})
}

func (c *Canvas) Line(from, to image.Point, width int, col color.Color) {
	c.Ops = append(c.Ops, Op{Kind: OpLine, Rect: image.Rectangle{Min: from, Max: to}, Width: width, Color: col})
}

func (c *Canvas) Text(r image.Rectangle, text string, f api.Font, align driver.Align, col color.Color) error {
	if c.failText {
		return errors.New("offscreen: text drawing failed")
	}
	c.Ops = append(c.Ops, Op{Kind: OpText, Rect: r, Text: text, Align: align, Color: col})
	return nil
}

func (c *Canvas) DrawImage(r image.Rectangle, img driver.Image) error {
	c.Ops = append(c.Ops, Op{Kind: OpImage, Rect: r})
	return nil
}
