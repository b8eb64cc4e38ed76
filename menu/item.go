package menu

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/driver"
	"github.com/google/uuid"
)

// MenuItem is a snapshot of one menu entry. Before it is attached it
// describes the item to create; afterwards the setters write through to the
// menu that owns it and refresh the snapshot.
type MenuItem struct {
	ID          string
	Label       string
	Accelerator string
	Kind        api.ItemKind
	Checked     bool
	Disabled    bool
	Hidden      bool
	// Group is the radio group name.
	Group string
	// Icon is an image path.
	Icon string
	// Children are the items of a submenu that has not been built yet.
	Children []MenuItem

	Handle  uint32
	Submenu *Menu
	// Bounds is the item rectangle in menu coordinates.
	Bounds image.Rectangle

	menu driver.Handle
}

func TextItem(id, label string) MenuItem {
	return MenuItem{ID: id, Label: label, Kind: api.KindText}
}

func CheckItem(id, label string, checked bool) MenuItem {
	return MenuItem{ID: id, Label: label, Kind: api.KindCheckbox, Checked: checked}
}

func RadioItem(id, label, group string, checked bool) MenuItem {
	return MenuItem{ID: id, Label: label, Kind: api.KindRadio, Group: group, Checked: checked}
}

func SeparatorItem() MenuItem {
	return MenuItem{Kind: api.KindSeparator}
}

func SubmenuItem(id, label string, children ...MenuItem) MenuItem {
	return MenuItem{ID: id, Label: label, Kind: api.KindSubmenu, Children: children}
}

func (i *MenuItem) SetChecked(checked bool) error {
	return i.update(func(md *menuData, idx int) error {
		it := md.items[idx]
		switch it.kind {
		case api.KindCheckbox:
			it.checked = checked
			md.invalidateItem(idx)
		case api.KindRadio:
			if checked {
				md.checkRadio(idx)
			} else {
				it.checked = false
				md.invalidateItem(idx)
			}
		default:
			return fmt.Errorf("%w: %s item %q cannot be checked", ErrInvalidItem, it.kind, it.id)
		}
		return nil
	})
}

func (i *MenuItem) SetDisabled(disabled bool) error {
	return i.update(func(md *menuData, idx int) error {
		md.items[idx].disabled = disabled
		if disabled && md.visibleSubmenu == idx {
			md.tree.closeSubmenu(md)
		}
		md.invalidateItem(idx)
		return nil
	})
}

func (i *MenuItem) SetLabel(label string) error {
	return i.update(func(md *menuData, idx int) error {
		md.items[idx].label = label
		return md.relayout()
	})
}

func (i *MenuItem) SetVisible(visible bool) error {
	return i.update(func(md *menuData, idx int) error {
		md.items[idx].hidden = !visible
		if !visible {
			if md.visibleSubmenu == idx {
				md.tree.closeSubmenu(md)
			}
			if md.selected == idx {
				md.selected = -1
			}
		}
		if err := md.relayout(); err != nil {
			return err
		}
		md.settle()
		return nil
	})
}

// Refresh reloads the snapshot from the owning menu.
func (i *MenuItem) Refresh() error {
	return i.update(func(*menuData, int) error { return nil })
}

func (i *MenuItem) update(fn func(md *menuData, idx int) error) error {
	if i.Handle == 0 {
		return fmt.Errorf("%w: %q is not attached", ErrItemNotFound, i.ID)
	}
	md, ok := lookup(i.menu)
	if !ok {
		return ErrDestroyed
	}
	idx := md.indexOf(i.Handle)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrItemNotFound, i.ID)
	}
	if err := fn(md, idx); err != nil {
		return err
	}
	*i = md.items[idx].snapshot(md.handle)
	return nil
}

var itemHandles atomic.Uint32

// item is the authoritative record of an attached entry.
type item struct {
	id          string
	label       string
	accelerator string
	kind        api.ItemKind
	checked     bool
	disabled    bool
	hidden      bool
	group       string
	icon        string
	handle      uint32
	submenu     *menuData
	bounds      image.Rectangle
}

func (it *item) snapshot(menu driver.Handle) MenuItem {
	mi := MenuItem{
		ID:          it.id,
		Label:       it.label,
		Accelerator: it.accelerator,
		Kind:        it.kind,
		Checked:     it.checked,
		Disabled:    it.disabled,
		Hidden:      it.hidden,
		Group:       it.group,
		Icon:        it.icon,
		Handle:      it.handle,
		Bounds:      it.bounds,
		menu:        menu,
	}
	if it.submenu != nil {
		mi.Submenu = &Menu{handle: it.submenu.handle}
	}
	return mi
}

func (it *item) selected() api.SelectedItem {
	return api.SelectedItem{
		ID:       it.id,
		Label:    it.label,
		Value:    it.group,
		Kind:     it.kind,
		Checked:  it.checked,
		Disabled: it.disabled,
	}
}

// hittable items take space and can be hovered.
func (it *item) hittable() bool {
	return !it.hidden && it.kind != api.KindSeparator
}

// inert items are painted disabled and never activate.
func (it *item) inert() bool {
	if it.disabled {
		return true
	}
	return it.kind == api.KindSubmenu && (it.submenu == nil || !it.submenu.interactive())
}

func (md *menuData) attach(mi MenuItem) (*item, error) {
	if mi.Handle != 0 {
		return nil, fmt.Errorf("%w: %q is already attached", ErrInvalidItem, mi.ID)
	}
	switch mi.Kind {
	case api.KindText, api.KindCheckbox, api.KindRadio, api.KindSeparator, api.KindSubmenu:
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidItem, mi.Kind)
	}
	if mi.Kind != api.KindSubmenu && len(mi.Children) > 0 {
		return nil, fmt.Errorf("%w: %s item %q has children", ErrInvalidItem, mi.Kind, mi.ID)
	}

	it := &item{
		id:          mi.ID,
		label:       mi.Label,
		accelerator: mi.Accelerator,
		kind:        mi.Kind,
		checked:     mi.Checked,
		disabled:    mi.Disabled,
		hidden:      mi.Hidden,
		group:       mi.Group,
		icon:        mi.Icon,
		handle:      itemHandles.Add(1),
	}
	if it.id == "" {
		it.id = uuid.NewString()
	}
	if it.kind == api.KindSubmenu {
		sub, err := md.tree.newMenu(md, mi.Children)
		if err != nil {
			return nil, fmt.Errorf("submenu %q: %w", it.id, err)
		}
		it.submenu = sub
	}
	return it, nil
}

func (md *menuData) indexOf(handle uint32) int {
	for i, it := range md.items {
		if it.handle == handle {
			return i
		}
	}
	return -1
}

// checkRadio checks items[idx] and unchecks its group siblings.
func (md *menuData) checkRadio(idx int) {
	group := md.items[idx].group
	for i, it := range md.items {
		if it.kind != api.KindRadio || it.group != group {
			continue
		}
		if it.checked != (i == idx) {
			it.checked = i == idx
			md.invalidateItem(i)
		}
	}
}
