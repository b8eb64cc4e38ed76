package menu

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/driver"
)

type popupState int

const (
	stateClosed popupState = iota
	stateOpening
	stateOpen
	stateClosing
)

func (s popupState) String() string {
	switch s {
	case stateOpening:
		return "opening"
	case stateOpen:
		return "open"
	case stateClosing:
		return "closing"
	default:
		return "closed"
	}
}

// session is one popup invocation. It completes exactly once.
type session struct {
	once   sync.Once
	done   chan struct{}
	result *api.SelectedItem
	// async receives the result when the popup was started by PopupAsync.
	async chan *api.SelectedItem
}

func newSession(async bool) *session {
	s := &session{done: make(chan struct{})}
	if async {
		s.async = make(chan *api.SelectedItem, 1)
	}
	return s
}

func (s *session) finish(result *api.SelectedItem) {
	s.once.Do(func() {
		s.result = result
		if s.async != nil {
			s.async <- result
		}
		close(s.done)
	})
}

type popupInfo struct {
	async   bool
	hook    driver.Hook
	session *session
}

func (md *menuData) setState(st popupState) {
	md.state = st
	md.tree.log.V(4).Info("menu state", "menu", md.handle, "type", md.typ, "state", st)
}

// Popup shows the menu at the screen point and blocks until an item is
// committed or the menu is dismissed, in which case it returns nil. It must
// be called on the GUI thread.
func (m *Menu) Popup(x, y int) (*api.SelectedItem, error) {
	md, err := m.data()
	if err != nil {
		return nil, err
	}
	if md.typ != TypeMain {
		return nil, ErrSubmenu
	}
	t := md.tree
	s := newSession(false)
	if err := t.open(s, image.Pt(x, y)); err != nil {
		return nil, err
	}
	t.drv.RunModal(s.done)
	// The loop may run dry without a commit.
	t.closeChain(nil)
	return s.result, nil
}

// PopupAsync is Popup for callers off the GUI thread. Cancelling ctx closes
// the menu and returns ctx.Err().
func (m *Menu) PopupAsync(ctx context.Context, x, y int) (*api.SelectedItem, error) {
	md, err := m.data()
	if err != nil {
		return nil, err
	}
	if md.typ != TypeMain {
		return nil, ErrSubmenu
	}
	t := md.tree
	s := newSession(true)
	opened := make(chan error, 1)
	t.drv.Invoke(func() {
		opened <- t.open(s, image.Pt(x, y))
	})

	select {
	case err := <-opened:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		t.drv.Invoke(func() { t.cancel(s) })
		return nil, ctx.Err()
	}

	select {
	case result := <-s.async:
		return result, nil
	case <-ctx.Done():
		t.drv.Invoke(func() { t.cancel(s) })
		return nil, ctx.Err()
	}
}

func (t *tree) cancel(s *session) {
	if p := t.root.popup; p != nil && p.session == s {
		t.closeChain(nil)
		return
	}
	s.finish(nil)
}

// open anchors the main menu at pt, installs the hook, takes capture and
// shows it.
func (t *tree) open(s *session, pt image.Point) error {
	root := t.root
	if root.destroyed {
		return ErrDestroyed
	}
	if root.state != stateClosed {
		return ErrAlreadyOpen
	}

	work, err := t.workArea(pt)
	if err != nil {
		return err
	}
	r, rtl, reverse := anchor(pt, root.size, work)
	if err := root.surface.SetBounds(r); err != nil {
		return fmt.Errorf("place menu: %w", err)
	}
	root.bounds, root.rtl, root.reverse = r, rtl, reverse
	root.selected = -1
	root.setState(stateOpening)

	hook, err := t.drv.InstallHook(t.drv.TopLevel(t.owner), root)
	if err != nil {
		root.setState(stateClosed)
		return fmt.Errorf("install input hook: %w", err)
	}
	if err := t.capture(root); err != nil {
		t.uninstall(hook)
		root.setState(stateClosed)
		return fmt.Errorf("capture input: %w", err)
	}
	if err := root.surface.Show(t.config.Animate); err != nil {
		t.release()
		t.uninstall(hook)
		root.setState(stateClosed)
		return fmt.Errorf("show menu: %w", err)
	}
	root.popup = &popupInfo{async: s.async != nil, hook: hook, session: s}
	root.setState(stateOpen)
	return nil
}

// capture moves input capture to md.
func (t *tree) capture(md *menuData) error {
	if t.captured == md {
		return nil
	}
	if err := md.surface.Capture(); err != nil {
		return err
	}
	t.captured = md
	return nil
}

func (t *tree) release() {
	if t.captured == nil {
		return
	}
	if err := t.captured.surface.Release(); err != nil {
		t.log.Error(err, "failed to release capture", "menu", t.captured.handle)
	}
	t.captured = nil
}

func (t *tree) uninstall(hook driver.Hook) {
	if err := hook.Uninstall(); err != nil {
		t.log.Error(err, "failed to uninstall input hook")
	}
}

// openSubmenu shows the submenu of parent.items[idx] and moves capture to it.
func (t *tree) openSubmenu(parent *menuData, idx int) {
	if !parent.openable(idx) || parent.visibleSubmenu == idx {
		return
	}
	t.closeSubmenu(parent)
	child := parent.items[idx].submenu

	row := parent.items[idx].bounds.Add(parent.bounds.Min)
	row.Min.X, row.Max.X = parent.bounds.Min.X, parent.bounds.Max.X
	work, err := t.workArea(row.Min)
	if err != nil {
		t.log.Error(err, "failed to place submenu", "menu", child.handle)
		return
	}
	r, rtl, reverse := anchorSubmenu(row, child.size, work, parent.rtl, t.config.Size.SubmenuOffset)
	if err := child.surface.SetBounds(r); err != nil {
		t.log.Error(err, "failed to place submenu", "menu", child.handle)
		return
	}
	child.bounds, child.rtl, child.reverse = r, rtl, reverse
	child.selected = -1
	child.setState(stateOpening)

	if err := child.surface.Show(t.config.Animate); err != nil {
		t.log.Error(err, "failed to show submenu", "menu", child.handle)
		child.setState(stateClosed)
		return
	}
	if err := t.capture(child); err != nil {
		t.log.Error(err, "failed to capture input for submenu", "menu", child.handle)
		if err := child.surface.Hide(); err != nil {
			t.log.Error(err, "failed to hide submenu", "menu", child.handle)
		}
		child.setState(stateClosed)
		return
	}
	parent.visibleSubmenu = idx
	child.setState(stateOpen)
	parent.invalidateItem(idx)
}

// closeSubmenu hides the visible submenu of parent and everything below it.
func (t *tree) closeSubmenu(parent *menuData) {
	idx := parent.visibleSubmenu
	if idx < 0 {
		return
	}
	child := parent.items[idx].submenu
	t.closeSubmenu(child)
	child.stopTimers()
	parent.stopHide()
	child.setState(stateClosing)
	if t.captured == child {
		if err := t.capture(parent); err != nil {
			t.log.Error(err, "failed to return capture", "menu", parent.handle)
		}
	}
	if err := child.surface.Hide(); err != nil {
		t.log.Error(err, "failed to hide submenu", "menu", child.handle)
	}
	child.selected = -1
	child.setState(stateClosed)
	parent.visibleSubmenu = -1
	parent.invalidateItem(idx)
}

// closeChain tears down the whole popup and completes its session. Cleanup
// failures are logged and never stop the close.
func (t *tree) closeChain(result *api.SelectedItem) {
	root := t.root
	p := root.popup
	if p == nil {
		return
	}
	root.setState(stateClosing)
	root.walk(func(md *menuData) { md.stopTimers() })
	t.release()
	t.closeSubmenu(root)
	if err := root.surface.Hide(); err != nil {
		t.log.Error(err, "failed to hide menu", "menu", root.handle)
	}
	t.uninstall(p.hook)
	root.popup = nil
	root.selected = -1
	root.setState(stateClosed)

	if result != nil {
		t.log.V(4).Info("committed item", "id", result.ID, "async", p.async)
		t.events.Pub(*result)
	}
	p.session.finish(result)
}

func (md *menuData) stopShow() {
	if md.showTimer != nil {
		md.showTimer.Stop()
		md.showTimer = nil
	}
	md.showIndex = -1
}

func (md *menuData) stopHide() {
	if md.hideTimer != nil {
		md.hideTimer.Stop()
		md.hideTimer = nil
	}
}

func (md *menuData) stopTimers() {
	md.stopShow()
	md.stopHide()
}
