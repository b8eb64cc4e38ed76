package gtkdriver

import (
	"image/color"
	"testing"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/getseabird/ctxmenu/driver"
	"github.com/stretchr/testify/assert"
)

func TestTranslateKey(t *testing.T) {
	for keyval, want := range map[uint]driver.Key{
		gdk.KEY_Escape:   driver.KeyEscape,
		gdk.KEY_Return:   driver.KeyReturn,
		gdk.KEY_KP_Enter: driver.KeyReturn,
		gdk.KEY_space:    driver.KeySpace,
		gdk.KEY_Up:       driver.KeyArrowUp,
		gdk.KEY_Down:     driver.KeyArrowDown,
		gdk.KEY_Left:     driver.KeyArrowLeft,
		gdk.KEY_Right:    driver.KeyArrowRight,
		gdk.KEY_Super_L:  driver.KeyMeta,
		gdk.KEY_a:        driver.KeyNone,
	} {
		assert.Equal(t, want, translateKey(keyval), keyval)
	}
}

func TestTranslateButton(t *testing.T) {
	assert.Equal(t, driver.ButtonPrimary, translateButton(gdk.BUTTON_PRIMARY))
	assert.Equal(t, driver.ButtonMiddle, translateButton(gdk.BUTTON_MIDDLE))
	assert.Equal(t, driver.ButtonSecondary, translateButton(gdk.BUTTON_SECONDARY))
	assert.Equal(t, 8, translateButton(8))
}

func TestRGBA(t *testing.T) {
	r, g, b, a := rgba(color.RGBA{R: 0xff, G: 0x80, B: 0, A: 0xff})
	assert.InDelta(t, 1.0, r, 1e-9)
	assert.InDelta(t, 128.0/255, g, 1e-9)
	assert.Zero(t, b)
	assert.InDelta(t, 1.0, a, 1e-9)

	_, _, _, a = rgba(color.Transparent)
	assert.Zero(t, a)
}
