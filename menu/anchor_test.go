package menu

import (
	"image"
	"testing"

	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/driver"
	"github.com/getseabird/ctxmenu/driver/offscreen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	screen = image.Rect(0, 0, 1920, 1080)
	work   = image.Rect(0, 0, 1920, 1040)
)

func TestAnchorFlipsBothAxes(t *testing.T) {
	r, rtl, reverse := anchor(image.Pt(work.Max.X-10, work.Max.Y-10), image.Pt(200, 300), work)
	assert.True(t, rtl)
	assert.True(t, reverse)
	assert.Equal(t, image.Rect(1710, 730, 1910, 1030), r)
	assert.True(t, r.In(screen))
	assert.True(t, r.In(work))
}

func TestAnchor(t *testing.T) {
	size := image.Pt(200, 300)
	for name, tt := range map[string]struct {
		pt      image.Point
		want    image.Rectangle
		rtl     bool
		reverse bool
	}{
		"fits":         {pt: image.Pt(100, 100), want: image.Rect(100, 100, 300, 400)},
		"above top":    {pt: image.Pt(100, -50), want: image.Rect(100, 0, 300, 300)},
		"left of edge": {pt: image.Pt(-40, 100), want: image.Rect(0, 100, 200, 400)},
		"bottom":       {pt: image.Pt(100, 900), want: image.Rect(100, 600, 300, 900), reverse: true},
		"right":        {pt: image.Pt(1850, 100), want: image.Rect(1650, 100, 1850, 400), rtl: true},
	} {
		t.Run(name, func(t *testing.T) {
			r, rtl, reverse := anchor(tt.pt, size, work)
			assert.Equal(t, tt.want, r)
			assert.Equal(t, tt.rtl, rtl)
			assert.Equal(t, tt.reverse, reverse)
		})
	}
}

func TestAnchorClampsTallMenu(t *testing.T) {
	r, _, reverse := anchor(image.Pt(100, 200), image.Pt(100, 1000), work)
	assert.True(t, reverse)
	assert.Equal(t, 0, r.Min.Y)
	assert.Equal(t, 1000, r.Dy())
}

func TestAnchorSubmenu(t *testing.T) {
	size := image.Pt(100, 80)
	row := image.Rect(100, 200, 250, 220)

	r, rtl, reverse := anchorSubmenu(row, size, work, false, -3)
	assert.Equal(t, image.Rect(247, 200, 347, 280), r)
	assert.False(t, rtl)
	assert.False(t, reverse)

	r, rtl, _ = anchorSubmenu(row, size, work, true, -3)
	assert.Equal(t, image.Rect(3, 200, 103, 280), r)
	assert.True(t, rtl)

	edge := image.Rect(1750, 200, 1900, 220)
	r, rtl, _ = anchorSubmenu(edge, size, work, false, -3)
	assert.True(t, rtl)
	assert.Equal(t, 1653, r.Min.X)

	low := image.Rect(100, 1000, 250, 1020)
	r, _, reverse = anchorSubmenu(low, size, work, false, -3)
	assert.True(t, reverse)
	assert.Equal(t, 1020, r.Max.Y)

	// No room on the left either: stay on the right.
	left := image.Rect(0, 200, 50, 220)
	r, rtl, _ = anchorSubmenu(left, size, work, true, -3)
	assert.False(t, rtl)
	assert.Equal(t, 47, r.Min.X)
}

func TestWorkAreaPicksMonitor(t *testing.T) {
	left := driver.Monitor{Bounds: image.Rect(0, 0, 1920, 1080), WorkArea: image.Rect(0, 0, 1920, 1040)}
	right := driver.Monitor{Bounds: image.Rect(1920, 0, 3840, 1080), WorkArea: image.Rect(1920, 30, 3840, 1080)}
	d := offscreen.New(offscreen.WithMonitors(left, right))
	owner := d.AddWindow(image.Rect(2000, 100, 2800, 700))
	tr, err := newTree(d, owner, api.DefaultConfig())
	require.NoError(t, err)

	w, err := tr.workArea(image.Pt(2500, 500))
	require.NoError(t, err)
	assert.Equal(t, right.WorkArea, w)

	w, err = tr.workArea(image.Pt(10, 10))
	require.NoError(t, err)
	assert.Equal(t, left.WorkArea, w)

	// Off-screen points use the monitor nearest to the owner window.
	w, err = tr.workArea(image.Pt(-500, -500))
	require.NoError(t, err)
	assert.Equal(t, right.WorkArea, w)
}

func TestPopupOffscreenPointIsClamped(t *testing.T) {
	d, owner := newDriver(t)
	m := nested(t, d, owner)

	d.Then(func() {
		r := d.Surface(m.Handle()).Bounds()
		assert.True(t, r.In(work), r)
	}).Key(driver.KeyEscape)
	_, err := m.Popup(-300, 5000)
	require.NoError(t, err)
}
