// Package menu implements owner-drawn context menus on top of a driver.
//
// A menu tree is created with a Builder and shown with Popup or PopupAsync.
// Every method that touches menu state must run on the driver's GUI thread,
// except PopupAsync, which hands off to it.
package menu

import (
	"context"
	"fmt"
	"image"

	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/driver"
	"github.com/getseabird/ctxmenu/pubsub"
	"github.com/go-logr/logr"
	"golang.org/x/exp/slices"
	"k8s.io/klog/v2"
)

type MenuType int

const (
	TypeMain MenuType = iota
	TypeSubmenu
)

func (t MenuType) String() string {
	if t == TypeSubmenu {
		return "submenu"
	}
	return "main"
}

// Menu is a handle to a built menu surface.
type Menu struct {
	handle driver.Handle
}

// tree is shared by a main menu and all of its submenus.
type tree struct {
	drv      driver.Driver
	owner    driver.Handle
	config   api.Config
	palettes map[api.Theme]api.Palette
	// effective is the resolved theme currently applied.
	effective api.Theme
	root      *menuData
	captured  *menuData
	events    pubsub.Topic[api.SelectedItem]
	unwatch   func()
	log       logr.Logger
}

type menuData struct {
	tree    *tree
	handle  driver.Handle
	surface driver.Surface
	typ     MenuType
	parent  *menuData

	items          []*item
	selected       int
	visibleSubmenu int
	size           image.Point
	theme          api.Theme
	font           api.Font
	res            reservations

	state        popupState
	rtl, reverse bool
	// bounds is the on-screen rectangle while open.
	bounds image.Rectangle

	showTimer driver.Timer
	showIndex int
	hideTimer driver.Timer

	popup     *popupInfo
	icons     map[uint32]driver.Image
	destroyed bool
}

func newTree(drv driver.Driver, owner driver.Handle, config api.Config) (*tree, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	dark, _ := config.Colors.Dark.Palette()
	light, _ := config.Colors.Light.Palette()
	return &tree{
		drv:       drv,
		owner:     owner,
		config:    config,
		palettes:  map[api.Theme]api.Palette{api.ThemeDark: dark, api.ThemeLight: light},
		effective: config.Theme.Resolve(drv.PrefersDark()),
		events:    pubsub.NewTopic[api.SelectedItem](drv.Invoke),
		log:       klog.Background().WithName("ctxmenu").WithValues("owner", owner),
	}, nil
}

func (t *tree) newMenu(parent *menuData, items []MenuItem) (*menuData, error) {
	md := &menuData{
		tree:           t,
		parent:         parent,
		selected:       -1,
		visibleSubmenu: -1,
		showIndex:      -1,
		theme:          t.effective,
		icons:          map[uint32]driver.Image{},
	}
	opts := driver.SurfaceOptions{Owner: t.owner, Handler: md}
	if parent != nil {
		md.typ = TypeSubmenu
		opts.Parent = parent.handle
		opts.Submenu = true
	}
	s, err := t.drv.NewSurface(opts)
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	md.surface = s
	md.handle = s.Handle()
	if err := s.ApplyTheme(md.theme == api.ThemeDark); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("apply theme: %w", err)
	}
	register(md)

	for _, mi := range items {
		it, err := md.attach(mi)
		if err != nil {
			md.destroy()
			return nil, err
		}
		md.items = append(md.items, it)
	}
	if err := md.layout(); err != nil {
		md.destroy()
		return nil, err
	}
	return md, nil
}

func (md *menuData) destroy() {
	for _, it := range md.items {
		if it.submenu != nil {
			it.submenu.destroy()
		}
	}
	md.stopTimers()
	if md.tree.captured == md {
		md.tree.captured = nil
	}
	md.surface.Destroy()
	unregister(md.handle)
	md.destroyed = true
}

// walk calls fn for md and every submenu below it.
func (md *menuData) walk(fn func(*menuData)) {
	fn(md)
	for _, it := range md.items {
		if it.submenu != nil {
			it.submenu.walk(fn)
		}
	}
}

// interactive reports whether md has a row that can be hovered.
func (md *menuData) interactive() bool {
	for _, it := range md.items {
		if it.hittable() {
			return true
		}
	}
	return false
}

func (md *menuData) openable(idx int) bool {
	if idx < 0 || idx >= len(md.items) {
		return false
	}
	it := md.items[idx]
	return it.kind == api.KindSubmenu && !it.hidden && !it.inert()
}

func (m *Menu) data() (*menuData, error) {
	if m == nil {
		return nil, ErrDestroyed
	}
	md, ok := lookup(m.handle)
	if !ok {
		return nil, ErrDestroyed
	}
	return md, nil
}

func (m *Menu) Handle() driver.Handle {
	return m.handle
}

func (m *Menu) Type() MenuType {
	md, err := m.data()
	if err != nil {
		return TypeMain
	}
	return md.typ
}

// Interactive reports whether the menu has anything to show. An empty
// submenu is never opened.
func (m *Menu) Interactive() bool {
	md, err := m.data()
	if err != nil {
		return false
	}
	return md.interactive()
}

func (m *Menu) IsOpen() bool {
	md, err := m.data()
	if err != nil {
		return false
	}
	return md.state != stateClosed
}

func (m *Menu) Size() image.Point {
	md, err := m.data()
	if err != nil {
		return image.Point{}
	}
	return md.size
}

func (m *Menu) Config() api.Config {
	md, err := m.data()
	if err != nil {
		return api.Config{}
	}
	return md.tree.config
}

func (m *Menu) Items() []MenuItem {
	md, err := m.data()
	if err != nil {
		return nil
	}
	items := make([]MenuItem, len(md.items))
	for i, it := range md.items {
		items[i] = it.snapshot(md.handle)
	}
	return items
}

// Item finds an item of this menu by ID.
func (m *Menu) Item(id string) (MenuItem, bool) {
	md, err := m.data()
	if err != nil {
		return MenuItem{}, false
	}
	for _, it := range md.items {
		if it.id == id {
			return it.snapshot(md.handle), true
		}
	}
	return MenuItem{}, false
}

// MenuItemByID finds an item by ID in this menu or any submenu below it.
func (m *Menu) MenuItemByID(id string) (MenuItem, bool) {
	md, err := m.data()
	if err != nil {
		return MenuItem{}, false
	}
	var (
		found MenuItem
		ok    bool
	)
	md.walk(func(sub *menuData) {
		if ok {
			return
		}
		for _, it := range sub.items {
			if it.id == id {
				found, ok = it.snapshot(sub.handle), true
				return
			}
		}
	})
	return found, ok
}

func (m *Menu) Append(mi MenuItem) error {
	md, err := m.data()
	if err != nil {
		return err
	}
	return m.Insert(mi, len(md.items))
}

func (m *Menu) Insert(mi MenuItem, index int) error {
	md, err := m.data()
	if err != nil {
		return err
	}
	if index < 0 || index > len(md.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	it, err := md.attach(mi)
	if err != nil {
		return err
	}
	md.resetInteraction()
	md.items = slices.Insert(md.items, index, it)
	if err := md.relayout(); err != nil {
		return err
	}
	md.settle()
	return nil
}

// Remove removes the item with the same handle, or the same ID when item was
// never attached.
func (m *Menu) Remove(mi MenuItem) error {
	md, err := m.data()
	if err != nil {
		return err
	}
	var idx int
	if mi.Handle != 0 {
		idx = md.indexOf(mi.Handle)
	} else {
		idx = slices.IndexFunc(md.items, func(it *item) bool { return it.id == mi.ID })
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrItemNotFound, mi.ID)
	}
	return m.RemoveAt(idx)
}

func (m *Menu) RemoveAt(index int) error {
	md, err := m.data()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(md.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	md.resetInteraction()
	it := md.items[index]
	if it.submenu != nil {
		it.submenu.destroy()
	}
	delete(md.icons, it.handle)
	md.items = slices.Delete(md.items, index, index+1)
	if err := md.relayout(); err != nil {
		return err
	}
	md.settle()
	return nil
}

// Subscribe calls fn on the GUI thread with every item committed from this
// menu tree until ctx is done.
func (m *Menu) Subscribe(ctx context.Context, fn func(api.SelectedItem)) error {
	md, err := m.data()
	if err != nil {
		return err
	}
	md.tree.events.Sub(ctx, fn)
	return nil
}

// Destroy closes the menu if open and releases every surface of the tree.
func (m *Menu) Destroy() error {
	md, err := m.data()
	if err != nil {
		return err
	}
	if md.typ != TypeMain {
		return ErrSubmenu
	}
	t := md.tree
	t.closeChain(nil)
	if t.unwatch != nil {
		t.unwatch()
		t.unwatch = nil
	}
	md.destroy()
	t.log.V(4).Info("destroyed menu", "menu", md.handle)
	return nil
}

// settle updates the parent row of md after its items changed: the row is
// repainted and md is closed when nothing in it can be picked anymore.
func (md *menuData) settle() {
	p := md.parent
	if p == nil {
		return
	}
	idx := slices.IndexFunc(p.items, func(it *item) bool { return it.submenu == md })
	if idx < 0 {
		return
	}
	if p.visibleSubmenu == idx && !p.openable(idx) {
		md.tree.closeSubmenu(p)
	}
	p.invalidateItem(idx)
}

// resetInteraction drops selection and submenus before the item list changes.
func (md *menuData) resetInteraction() {
	if md.state == stateClosed {
		return
	}
	md.tree.closeSubmenu(md)
	md.stopTimers()
	md.setSelected(-1)
}
