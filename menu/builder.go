package menu

import (
	"fmt"

	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/driver"
)

// Builder collects items for a menu tree. Submenu returns a nested builder;
// Build on any builder of the tree builds the whole tree.
type Builder struct {
	drv    driver.Driver
	owner  driver.Handle
	config api.Config
	root   *Builder
	items  []MenuItem
	subs   map[int]*Builder
}

func NewBuilder(drv driver.Driver, owner driver.Handle) *Builder {
	return NewBuilderFromConfig(drv, owner, api.DefaultConfig())
}

func NewBuilderWithTheme(drv driver.Driver, owner driver.Handle, theme api.Theme) *Builder {
	config := api.DefaultConfig()
	config.Theme = theme
	return NewBuilderFromConfig(drv, owner, config)
}

func NewBuilderFromConfig(drv driver.Driver, owner driver.Handle, config api.Config) *Builder {
	config.Defaults()
	b := &Builder{drv: drv, owner: owner, config: config, subs: map[int]*Builder{}}
	b.root = b
	return b
}

func (b *Builder) Append(mi MenuItem) *Builder {
	b.items = append(b.items, mi)
	return b
}

func (b *Builder) Text(id, label string, disabled bool) *Builder {
	return b.Append(MenuItem{ID: id, Label: label, Kind: api.KindText, Disabled: disabled})
}

func (b *Builder) TextWithAccelerator(id, label string, disabled bool, accelerator string) *Builder {
	return b.Append(MenuItem{ID: id, Label: label, Kind: api.KindText, Disabled: disabled, Accelerator: accelerator})
}

func (b *Builder) TextWithIcon(id, label string, disabled bool, icon string) *Builder {
	return b.Append(MenuItem{ID: id, Label: label, Kind: api.KindText, Disabled: disabled, Icon: icon})
}

func (b *Builder) Check(id, label string, checked, disabled bool) *Builder {
	return b.Append(MenuItem{ID: id, Label: label, Kind: api.KindCheckbox, Checked: checked, Disabled: disabled})
}

func (b *Builder) CheckWithAccelerator(id, label string, checked, disabled bool, accelerator string) *Builder {
	return b.Append(MenuItem{ID: id, Label: label, Kind: api.KindCheckbox, Checked: checked, Disabled: disabled, Accelerator: accelerator})
}

func (b *Builder) CheckWithIcon(id, label string, checked, disabled bool, icon string) *Builder {
	return b.Append(MenuItem{ID: id, Label: label, Kind: api.KindCheckbox, Checked: checked, Disabled: disabled, Icon: icon})
}

func (b *Builder) Radio(id, label, group string, checked, disabled bool) *Builder {
	return b.Append(MenuItem{ID: id, Label: label, Kind: api.KindRadio, Group: group, Checked: checked, Disabled: disabled})
}

func (b *Builder) RadioWithAccelerator(id, label, group string, checked, disabled bool, accelerator string) *Builder {
	return b.Append(MenuItem{ID: id, Label: label, Kind: api.KindRadio, Group: group, Checked: checked, Disabled: disabled, Accelerator: accelerator})
}

func (b *Builder) RadioWithIcon(id, label, group string, checked, disabled bool, icon string) *Builder {
	return b.Append(MenuItem{ID: id, Label: label, Kind: api.KindRadio, Group: group, Checked: checked, Disabled: disabled, Icon: icon})
}

func (b *Builder) Separator() *Builder {
	return b.Append(SeparatorItem())
}

// Submenu adds a submenu item and returns the builder for its children.
func (b *Builder) Submenu(id, label string, disabled bool) *Builder {
	b.Append(MenuItem{ID: id, Label: label, Kind: api.KindSubmenu, Disabled: disabled})
	sub := &Builder{drv: b.drv, owner: b.owner, config: b.config, root: b.root, subs: map[int]*Builder{}}
	b.subs[len(b.items)-1] = sub
	return sub
}

func (b *Builder) collect() []MenuItem {
	items := make([]MenuItem, len(b.items))
	copy(items, b.items)
	for i, sub := range b.subs {
		items[i].Children = append(items[i].Children, sub.collect()...)
	}
	return items
}

// Build lays out and creates the whole tree. On error nothing stays
// registered.
func (b *Builder) Build() (*Menu, error) {
	root := b.root
	t, err := newTree(root.drv, root.owner, root.config)
	if err != nil {
		return nil, err
	}
	md, err := t.newMenu(nil, root.collect())
	if err != nil {
		return nil, err
	}
	t.root = md

	cancel, err := t.drv.WatchSystemTheme(t.drv.TopLevel(t.owner), t.systemThemeChanged)
	if err != nil {
		md.destroy()
		return nil, fmt.Errorf("watch system theme: %w", err)
	}
	t.unwatch = cancel

	t.log.V(4).Info("built menu", "menu", md.handle, "items", len(md.items), "size", md.size)
	return &Menu{handle: md.handle}, nil
}
