package menu

import (
	"context"
	"image"

	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/pubsub"
)

// SetTheme sets and applies the configured theme of the whole tree. Any
// theme other than ThemeSystem pins it against app and system changes.
func (m *Menu) SetTheme(theme api.Theme) error {
	md, err := m.data()
	if err != nil {
		return err
	}
	t := md.tree
	t.config.Theme = theme
	t.apply(theme)
	return nil
}

// Theme returns the configured theme.
func (m *Menu) Theme() api.Theme {
	md, err := m.data()
	if err != nil {
		return api.ThemeSystem
	}
	return md.tree.config.Theme
}

// NotifyAppTheme applies a theme chosen by the host application unless the
// menu theme is pinned.
func (m *Menu) NotifyAppTheme(theme api.Theme) error {
	md, err := m.data()
	if err != nil {
		return err
	}
	t := md.tree
	if t.config.Theme != api.ThemeSystem {
		t.log.V(4).Info("ignoring app theme", "theme", theme, "pinned", t.config.Theme)
		return nil
	}
	t.apply(theme)
	return nil
}

// WatchAppTheme follows an application theme property until ctx is done.
func (m *Menu) WatchAppTheme(ctx context.Context, theme pubsub.Property[api.Theme]) error {
	md, err := m.data()
	if err != nil {
		return err
	}
	drv := md.tree.drv
	theme.Sub(ctx, func(v api.Theme) {
		drv.Invoke(func() {
			if err := m.NotifyAppTheme(v); err != nil {
				md.tree.log.V(4).Info("app theme not applied", "err", err)
			}
		})
	})
	return nil
}

func (t *tree) systemThemeChanged() {
	if t.root == nil || t.root.destroyed || t.config.Theme != api.ThemeSystem {
		return
	}
	t.apply(api.ThemeSystem)
}

// apply resolves theme and re-themes every menu of the tree once.
func (t *tree) apply(theme api.Theme) {
	resolved := theme.Resolve(t.drv.PrefersDark())
	t.effective = resolved
	t.log.V(4).Info("applying theme", "theme", theme, "resolved", resolved)
	t.root.walk(func(md *menuData) { md.applyTheme(resolved) })
}

func (md *menuData) applyTheme(theme api.Theme) {
	log := md.tree.log
	md.theme = theme
	if err := md.surface.ApplyTheme(theme == api.ThemeDark); err != nil {
		log.Error(err, "failed to apply theme", "menu", md.handle)
	}
	if err := md.layout(); err != nil {
		log.Error(err, "failed to lay out menu", "menu", md.handle)
		return
	}
	if md.state != stateOpen {
		return
	}
	r := image.Rectangle{Min: md.bounds.Min, Max: md.bounds.Min.Add(md.size)}
	if r != md.bounds {
		if err := md.surface.SetBounds(r); err != nil {
			log.Error(err, "failed to resize menu", "menu", md.handle)
		} else {
			md.bounds = r
		}
	}
	md.surface.Invalidate(image.Rectangle{Max: md.size})
}
