// Package style installs the CSS that strips popover chrome so menu surfaces
// paint their own frame.
package style

import (
	"embed"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

//go:embed *.css
var fs embed.FS

const (
	// SurfaceClass marks popovers that host a menu surface.
	SurfaceClass = "ctxmenu"
	// AnimatedClass fades a surface in while it is being shown.
	AnimatedClass = "ctxmenu-animated"
)

var once sync.Once

// Load registers the stylesheet on the default display once.
func Load() {
	once.Do(func() {
		provider := gtk.NewCSSProvider()
		style, _ := fs.ReadFile("menu.css")
		provider.LoadFromData(string(style))
		gtk.StyleContextAddProviderForDisplay(gdk.DisplayGetDefault(), provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	})
}
