package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/driver"
	"github.com/getseabird/ctxmenu/driver/gtkdriver"
	"github.com/getseabird/ctxmenu/internal/ctxt"
	"github.com/getseabird/ctxmenu/menu"
	"github.com/getseabird/ctxmenu/pubsub"
	"k8s.io/klog/v2"
)

var version = "dev"

const applicationID = "dev.skynomads.CtxMenu"

func main() {
	klog.InitFlags(nil)
	configFile := flag.String("config", api.DefaultConfigPath(), "menu configuration file")
	flag.Parse()

	config, err := api.LoadConfig(*configFile)
	if err != nil {
		klog.Fatalf("load config: %s", err)
	}

	gtk.Init()
	if runtime.GOOS == "windows" {
		os.Setenv("GTK_CSD", "0")
	}

	app := adw.NewApplication(applicationID, gio.ApplicationFlagsNone)
	app.ConnectActivate(func() {
		if err := activate(context.Background(), app, *config); err != nil {
			klog.Errorf("activate: %s", err)
			app.Quit()
		}
	})

	if code := app.Run(append([]string{os.Args[0]}, flag.Args()...)); code > 0 {
		os.Exit(code)
	}
}

func activate(ctx context.Context, app *adw.Application, config api.Config) error {
	drv := gtkdriver.New(klog.Background().WithName("gtk"))

	status := adw.NewStatusPage()
	status.SetIconName("open-menu-symbolic")
	status.SetTitle("Right-click anywhere")
	status.SetDescription(fmt.Sprintf("ctxmenu %s", version))

	win := adw.NewApplicationWindow(&app.Application)
	win.SetTitle("ctxmenu")
	win.SetDefaultSize(800, 600)
	win.SetContent(status)
	owner := drv.AddWindow(&win.ApplicationWindow.Window)

	m, err := buildMenu(drv, owner, config)
	if err != nil {
		return err
	}

	// The app theme follows the radio group; the menu follows the app unless
	// the config pins it.
	appTheme := pubsub.NewProperty(api.ThemeSystem, drv.Invoke)
	appTheme.Sub(ctx, func(theme api.Theme) {
		adw.StyleManagerGetDefault().SetColorScheme(colorScheme(theme))
	})
	if err := m.WatchAppTheme(ctx, appTheme); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	ctx = ctxt.With(ctx, app)
	ctx = ctxt.With(ctx, m)
	ctx = ctxt.With(ctx, status)
	ctx = ctxt.With(ctx, appTheme)

	if err := m.Subscribe(ctx, func(item api.SelectedItem) { onSelected(ctx, item) }); err != nil {
		cancel()
		return err
	}

	gesture := gtk.NewGestureClick()
	gesture.SetButton(gdk.BUTTON_SECONDARY)
	gesture.ConnectPressed(func(_ int, x, y float64) {
		go popup(ctx, int(x), int(y))
	})
	status.AddController(gesture)

	win.ConnectCloseRequest(func() bool {
		cancel()
		if err := m.Destroy(); err != nil {
			klog.Warningf("destroy menu: %s", err)
		}
		return false
	})
	win.Present()
	return nil
}

func buildMenu(drv *gtkdriver.Driver, owner driver.Handle, config api.Config) (*menu.Menu, error) {
	b := menu.NewBuilderFromConfig(drv, owner, config)
	b.TextWithAccelerator("open", "Open", false, "Ctrl+O")
	b.TextWithAccelerator("save", "Save", false, "Ctrl+S")
	b.Text("revert", "Revert", true)
	b.Separator()
	b.CheckWithAccelerator("hidden", "Show Hidden Files", false, false, "Ctrl+H")

	view := b.Submenu("view", "View", false)
	view.Radio("view-icons", "Icons", "view", true, false)
	view.Radio("view-list", "List", "view", false, false)
	view.Radio("view-details", "Details", "view", false, false)

	theme := b.Submenu("theme", "Theme", false)
	theme.Radio(api.ThemeSystem.String(), "Follow System", "theme", true, false)
	theme.Radio(api.ThemeLight.String(), "Light", "theme", false, false)
	theme.Radio(api.ThemeDark.String(), "Dark", "theme", false, false)

	b.Separator()
	b.TextWithAccelerator("quit", "Quit", false, "Ctrl+Q")
	return b.Build()
}

func popup(ctx context.Context, x, y int) {
	m := ctxt.MustFrom[*menu.Menu](ctx)
	item, err := m.PopupAsync(ctx, x, y)
	if err != nil {
		klog.Warningf("popup: %s", err)
		return
	}
	if item == nil {
		klog.V(2).Info("menu dismissed")
	}
}

func onSelected(ctx context.Context, item api.SelectedItem) {
	status := ctxt.MustFrom[*adw.StatusPage](ctx)
	klog.Infof("selected %q (checked=%t)", item.ID, item.Checked)

	if item.Kind == api.KindRadio {
		if theme, err := api.ParseTheme(item.ID); err == nil {
			ctxt.MustFrom[pubsub.Property[api.Theme]](ctx).Pub(theme)
		}
	}
	if item.ID == "quit" {
		ctxt.MustFrom[*adw.Application](ctx).Quit()
		return
	}
	status.SetDescription(fmt.Sprintf("Last selected: %s", item.Label))
}

func colorScheme(theme api.Theme) adw.ColorScheme {
	switch theme {
	case api.ThemeLight:
		return adw.ColorSchemeForceLight
	case api.ThemeDark:
		return adw.ColorSchemeForceDark
	}
	return adw.ColorSchemeDefault
}
