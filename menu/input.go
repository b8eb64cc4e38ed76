package menu

import (
	"image"
	"time"

	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/driver"
)

func (md *menuData) HandleEvent(ev driver.Event) {
	md.tree.dispatch(ev)
}

// dispatch handles input for the whole open chain. Every surface and the
// hook route here, positions are in screen coordinates.
func (t *tree) dispatch(ev driver.Event) {
	if t.root == nil || t.root.state != stateOpen {
		return
	}
	switch ev.Type {
	case driver.PointerMove:
		t.pointerMove(ev.Pos)
	case driver.PointerDown:
		if t.menuAt(ev.Pos) == nil {
			t.log.V(4).Info("pointer down outside menu", "pos", ev.Pos)
			t.closeChain(nil)
			t.drv.Forward(ev)
		}
	case driver.PointerUp:
		if md := t.menuAt(ev.Pos); md != nil {
			if idx := md.hit(ev.Pos); idx >= 0 {
				t.activate(md, idx)
			}
		}
	case driver.Scroll, driver.Deactivate:
		t.closeChain(nil)
	case driver.KeyDown:
		t.key(ev.Key)
	}
}

// chain returns the open menus from the root to the deepest submenu.
func (t *tree) chain() []*menuData {
	var out []*menuData
	for md := t.root; md != nil; {
		out = append(out, md)
		if md.visibleSubmenu < 0 {
			break
		}
		md = md.items[md.visibleSubmenu].submenu
	}
	return out
}

func (t *tree) deepest() *menuData {
	c := t.chain()
	return c[len(c)-1]
}

// menuAt returns the deepest open menu containing pt.
func (t *tree) menuAt(pt image.Point) *menuData {
	c := t.chain()
	for i := len(c) - 1; i >= 0; i-- {
		if pt.In(c[i].bounds) {
			return c[i]
		}
	}
	return nil
}

// hit returns the index of the row under pt, or -1.
func (md *menuData) hit(pt image.Point) int {
	local := pt.Sub(md.bounds.Min)
	for i, it := range md.items {
		if it.hittable() && local.In(it.bounds) {
			return i
		}
	}
	return -1
}

func (t *tree) delay() time.Duration {
	if t.config.SubmenuDelay > 0 {
		return t.config.SubmenuDelay
	}
	return t.drv.Metrics().MenuShowDelay
}

func (t *tree) pointerMove(pt image.Point) {
	md := t.menuAt(pt)
	if md == nil {
		t.deepest().unhover()
		return
	}
	// Keep the rows leading to md selected.
	for child := md; child.parent != nil; child = child.parent {
		p := child.parent
		p.stopHide()
		p.setSelected(p.visibleSubmenu)
	}

	idx := md.hit(pt)
	if idx < 0 {
		md.unhover()
		return
	}
	md.setSelected(idx)

	if md.visibleSubmenu >= 0 {
		md.stopShow()
		if idx == md.visibleSubmenu {
			md.stopHide()
		} else if md.hideTimer == nil {
			md.hideTimer = t.drv.AfterFunc(t.delay(), func() { t.hideElapsed(md) })
		}
		return
	}

	if !md.openable(idx) {
		md.stopShow()
		return
	}
	if md.showTimer != nil && md.showIndex == idx {
		return
	}
	md.stopShow()
	md.showIndex = idx
	md.showTimer = t.drv.AfterFunc(t.delay(), func() { t.showElapsed(md, idx) })
}

// unhover drops the selection when the pointer is over no row of md. The
// row of a visible submenu stays selected.
func (md *menuData) unhover() {
	md.stopShow()
	md.setSelected(md.visibleSubmenu)
}

func (t *tree) showElapsed(md *menuData, idx int) {
	md.showTimer = nil
	md.showIndex = -1
	if t.root.state != stateOpen || md.state != stateOpen || md.selected != idx {
		return
	}
	t.openSubmenu(md, idx)
}

func (t *tree) hideElapsed(md *menuData) {
	md.hideTimer = nil
	if t.root.state != stateOpen || md.state != stateOpen || md.selected == md.visibleSubmenu {
		return
	}
	t.closeSubmenu(md)
	if md.openable(md.selected) {
		t.openSubmenu(md, md.selected)
	}
}

// activate commits a row. Submenu rows open on hover and never commit.
func (t *tree) activate(md *menuData, idx int) {
	it := md.items[idx]
	if !it.hittable() || it.inert() || it.kind == api.KindSubmenu {
		return
	}
	switch it.kind {
	case api.KindCheckbox:
		it.checked = !it.checked
	case api.KindRadio:
		md.checkRadio(idx)
	}
	result := it.selected()
	t.closeChain(&result)
}

func (t *tree) key(k driver.Key) {
	md := t.deepest()
	switch k {
	case driver.KeyEscape, driver.KeyMeta:
		t.closeChain(nil)
	case driver.KeyArrowUp:
		md.step(-1)
	case driver.KeyArrowDown:
		md.step(1)
	case driver.KeyArrowRight:
		t.enter(md)
	case driver.KeyArrowLeft:
		if md.parent != nil {
			t.closeSubmenu(md.parent)
		}
	case driver.KeyReturn, driver.KeySpace:
		if md.selected < 0 {
			return
		}
		if md.items[md.selected].kind == api.KindSubmenu {
			t.enter(md)
			return
		}
		t.activate(md, md.selected)
	}
}

// enter opens the selected submenu and selects its first row.
func (t *tree) enter(md *menuData) {
	idx := md.selected
	if !md.openable(idx) {
		return
	}
	md.stopShow()
	t.openSubmenu(md, idx)
	if child := md.items[idx].submenu; child.state == stateOpen {
		child.step(1)
	}
}

// step moves the selection to the next enabled row in dir, wrapping.
func (md *menuData) step(dir int) {
	n := len(md.items)
	start := md.selected
	if start < 0 && dir < 0 {
		start = n
	}
	for i := 1; i <= n; i++ {
		j := ((start+dir*i)%n + n) % n
		if it := md.items[j]; it.hittable() && !it.inert() {
			md.stopShow()
			md.setSelected(j)
			return
		}
	}
}
