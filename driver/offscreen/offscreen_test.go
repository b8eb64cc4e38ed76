package offscreen

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []driver.Event
	paints []image.Rectangle
}

func (r *recorder) HandleEvent(ev driver.Event) { r.events = append(r.events, ev) }

func (r *recorder) Paint(c driver.Canvas, dirty image.Rectangle) {
	r.paints = append(r.paints, dirty)
	c.FillRect(dirty, color.Black)
}

func TestTimersFireInOrder(t *testing.T) {
	d := New()
	var fired []string
	d.AfterFunc(200*time.Millisecond, func() { fired = append(fired, "b") })
	d.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "a") })
	stopped := d.AfterFunc(150*time.Millisecond, func() { fired = append(fired, "x") })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	d.Advance(150 * time.Millisecond)
	assert.Equal(t, []string{"a"}, fired)
	d.Advance(time.Second)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, 1150*time.Millisecond, d.Now())
}

func TestScriptWaitsForCapture(t *testing.T) {
	d := New()
	rec := &recorder{}
	s, err := d.NewSurface(driver.SurfaceOptions{Handler: rec})
	require.NoError(t, err)
	require.NoError(t, s.SetBounds(image.Rect(10, 10, 110, 60)))

	d.Move(image.Pt(20, 20))
	done := make(chan struct{})
	d.RunModal(done)
	assert.Empty(t, rec.events)
	assert.Equal(t, 1, d.Pending())

	require.NoError(t, s.Capture())
	require.NoError(t, s.Show(false))
	d.RunModal(done)
	require.Len(t, rec.events, 1)
	assert.Equal(t, s.Handle(), rec.events[0].Target)
	assert.Equal(t, []image.Rectangle{image.Rect(0, 0, 100, 50)}, rec.paints)
}

func TestInvalidateIsClipped(t *testing.T) {
	d := New()
	rec := &recorder{}
	s, _ := d.NewSurface(driver.SurfaceOptions{Handler: rec})
	require.NoError(t, s.SetBounds(image.Rect(0, 0, 50, 50)))
	require.NoError(t, s.Show(true))
	d.Flush()

	s.Invalidate(image.Rect(40, 40, 90, 90))
	d.Flush()
	assert.Equal(t, image.Rect(40, 40, 50, 50), rec.paints[len(rec.paints)-1])
	assert.Equal(t, 1, s.(*Surface).Animated)
}

func TestForwardFindsTopmostWindow(t *testing.T) {
	d := New()
	back := d.AddWindow(image.Rect(0, 0, 800, 600))
	front := d.AddWindow(image.Rect(100, 100, 300, 300))

	d.Forward(driver.Event{Type: driver.PointerDown, Pos: image.Pt(150, 150)})
	d.Forward(driver.Event{Type: driver.PointerDown, Pos: image.Pt(500, 500)})

	fw := d.Forwarded()
	require.Len(t, fw, 2)
	assert.Equal(t, front, fw[0].Window)
	assert.Equal(t, back, fw[1].Window)
	assert.Equal(t, back, fw[1].Event.Target)
}

func TestTopLevel(t *testing.T) {
	d := New()
	top := d.AddWindow(image.Rect(0, 0, 800, 600))
	child := d.AddChildWindow(top, image.Rect(0, 0, 100, 100))
	s, _ := d.NewSurface(driver.SurfaceOptions{Owner: child})

	assert.Equal(t, top, d.TopLevel(child))
	assert.Equal(t, top, d.TopLevel(s.Handle()))
	assert.Equal(t, top, d.TopLevel(top))
}

func TestMeasureTextScalesWithFont(t *testing.T) {
	d := New()
	small, err := d.MeasureText("hello", api.Font{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, image.Pt(35, 13), small)

	big, err := d.MeasureText("hello", api.Font{Size: 20})
	require.NoError(t, err)
	assert.Equal(t, image.Pt(70, 26), big)

	d.FailMeasure = true
	_, err = d.MeasureText("hello", api.Font{})
	assert.ErrorIs(t, err, ErrMeasure)
}

func TestSystemThemeWatch(t *testing.T) {
	d := New()
	calls := 0
	cancel, err := d.WatchSystemTheme(0, func() { calls++ })
	require.NoError(t, err)

	d.SetDark(true)
	d.SetDark(true)
	assert.True(t, d.PrefersDark())
	assert.Equal(t, 1, calls)

	cancel()
	d.SetDark(false)
	assert.Equal(t, 1, calls)
	assert.Zero(t, d.Watchers())
}

func TestRunStopsOnContext(t *testing.T) {
	d := New()
	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{})
	go d.Invoke(func() {
		close(ran)
		cancel()
	})
	d.Run(ctx)
	<-ran
}
