package menu

import (
	"image"
	"testing"
	"time"

	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/driver"
	"github.com/getseabird/ctxmenu/driver/offscreen"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDriver(t *testing.T, opts ...offscreen.Option) (*offscreen.Driver, driver.Handle) {
	t.Helper()
	d := offscreen.New(opts...)
	owner := d.AddWindow(image.Rect(0, 0, 800, 600))
	return d, owner
}

func build(t *testing.T, b *Builder) *Menu {
	t.Helper()
	m, err := b.Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Destroy() })
	return m
}

// nested builds A, B > C.
func nested(t *testing.T, d *offscreen.Driver, owner driver.Handle) *Menu {
	b := NewBuilder(d, owner)
	b.Text("a", "A", false)
	b.Submenu("b", "B", false).Text("c", "C", false)
	return build(t, b)
}

// center resolves the screen center of an item when the script step runs.
func center(t *testing.T, m *Menu, id string) func() image.Point {
	return func() image.Point {
		mi, ok := m.MenuItemByID(id)
		require.True(t, ok, id)
		md, ok := lookup(mi.menu)
		require.True(t, ok)
		r := mi.Bounds.Add(md.bounds.Min)
		return r.Min.Add(r.Size().Div(2))
	}
}

func TestBuilderRoundTrip(t *testing.T) {
	d, owner := newDriver(t)
	b := NewBuilder(d, owner).
		Text("t", "Text", false).
		TextWithAccelerator("ta", "Text accel", true, "Ctrl+T").
		TextWithIcon("ti", "Text icon", false, "/icons/t.png").
		Check("c", "Check", true, false).
		CheckWithAccelerator("ca", "Check accel", false, true, "Ctrl+C").
		CheckWithIcon("ci", "Check icon", true, false, "/icons/c.png").
		Radio("r", "Radio", "g", true, false).
		RadioWithAccelerator("ra", "Radio accel", "g", false, false, "Ctrl+R").
		RadioWithIcon("ri", "Radio icon", "h", true, true, "/icons/r.png").
		Separator()
	b.Submenu("s", "Sub", false).Text("deep", "Deep", false)
	m := build(t, b)

	want := []MenuItem{
		{ID: "t", Label: "Text", Kind: api.KindText},
		{ID: "ta", Label: "Text accel", Kind: api.KindText, Disabled: true, Accelerator: "Ctrl+T"},
		{ID: "ti", Label: "Text icon", Kind: api.KindText, Icon: "/icons/t.png"},
		{ID: "c", Label: "Check", Kind: api.KindCheckbox, Checked: true},
		{ID: "ca", Label: "Check accel", Kind: api.KindCheckbox, Disabled: true, Accelerator: "Ctrl+C"},
		{ID: "ci", Label: "Check icon", Kind: api.KindCheckbox, Checked: true, Icon: "/icons/c.png"},
		{ID: "r", Label: "Radio", Kind: api.KindRadio, Group: "g", Checked: true},
		{ID: "ra", Label: "Radio accel", Kind: api.KindRadio, Group: "g", Accelerator: "Ctrl+R"},
		{ID: "ri", Label: "Radio icon", Kind: api.KindRadio, Group: "h", Checked: true, Disabled: true, Icon: "/icons/r.png"},
		{Kind: api.KindSeparator},
		{ID: "s", Label: "Sub", Kind: api.KindSubmenu},
	}
	items := m.Items()
	require.Len(t, items, len(want))
	for i, w := range want {
		got := items[i]
		assert.NotZero(t, got.Handle)
		assert.False(t, got.Bounds.Empty(), w.ID)
		if w.Kind != api.KindSeparator {
			assert.Equal(t, w.ID, got.ID)
		}
		assert.Equal(t, w.Label, got.Label)
		assert.Equal(t, w.Kind, got.Kind)
		assert.Equal(t, w.Checked, got.Checked, w.ID)
		assert.Equal(t, w.Disabled, got.Disabled, w.ID)
		assert.Equal(t, w.Accelerator, got.Accelerator, w.ID)
		assert.Equal(t, w.Group, got.Group, w.ID)
		assert.Equal(t, w.Icon, got.Icon, w.ID)

		byID, ok := m.MenuItemByID(got.ID)
		require.True(t, ok)
		assert.Equal(t, got, byID)
	}
	require.NotNil(t, items[10].Submenu)
	assert.Equal(t, TypeSubmenu, items[10].Submenu.Type())
	assert.Equal(t, TypeMain, m.Type())
}

func TestMenuItemByIDNested(t *testing.T) {
	d, owner := newDriver(t)
	b := NewBuilder(d, owner)
	b.Text("top", "Top", false)
	b.Submenu("l1", "Level 1", false).
		Submenu("l2", "Level 2", false).
		Submenu("l3", "Level 3", false).
		Text("deep", "Deep", false)
	m := build(t, b)

	l1, ok := m.Item("l1")
	require.True(t, ok)
	l2 := l1.Submenu.Items()[0]
	l3 := l2.Submenu.Items()[0]
	deep := l3.Submenu.Items()[0]

	found, ok := m.MenuItemByID("deep")
	require.True(t, ok)
	assert.Equal(t, deep.Handle, found.Handle)
	assert.Equal(t, deep, found)

	_, ok = m.Item("deep")
	assert.False(t, ok)
	_, ok = m.MenuItemByID("missing")
	assert.False(t, ok)
}

func TestGeneratedIDs(t *testing.T) {
	d, owner := newDriver(t)
	m := build(t, NewBuilder(d, owner).Text("", "one", false).Text("", "two", false))

	items := m.Items()
	for _, it := range items {
		_, err := uuid.Parse(it.ID)
		assert.NoError(t, err)
	}
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestBuildFailuresLeaveNothingRegistered(t *testing.T) {
	before := len(registered())

	d, owner := newDriver(t)
	d.FailMeasure = true
	_, err := NewBuilder(d, owner).Text("a", "A", false).Build()
	assert.ErrorIs(t, err, offscreen.ErrMeasure)
	assert.Len(t, registered(), before)
	assert.Empty(t, d.Surfaces())

	d, owner = newDriver(t)
	d.FailSurface = true
	_, err = NewBuilder(d, owner).Text("a", "A", false).Build()
	assert.ErrorIs(t, err, offscreen.ErrSurface)
	assert.Len(t, registered(), before)

	d, owner = newDriver(t)
	config := api.DefaultConfig()
	config.Colors.Dark.Text = "bogus"
	_, err = NewBuilderFromConfig(d, owner, config).Build()
	assert.Error(t, err)
	assert.Len(t, registered(), before)

	d, owner = newDriver(t)
	_, err = NewBuilder(d, owner).
		Text("a", "A", false).
		Append(MenuItem{ID: "bad", Kind: api.ItemKind(42)}).
		Build()
	assert.ErrorIs(t, err, ErrInvalidItem)
	assert.Len(t, registered(), before)
	assert.Empty(t, d.Surfaces())
}

func TestSetChecked(t *testing.T) {
	d, owner := newDriver(t)
	m := build(t, NewBuilder(d, owner).
		Radio("r1", "One", "g", true, false).
		Radio("r2", "Two", "g", false, false).
		Radio("r3", "Three", "g", false, false).
		Radio("o1", "Other", "h", true, false).
		Check("c", "Check", false, false).
		Text("t", "Text", false))

	r3, _ := m.Item("r3")
	require.NoError(t, r3.SetChecked(true))
	assert.True(t, r3.Checked)

	checked := map[string]bool{}
	for _, it := range m.Items() {
		checked[it.ID] = it.Checked
	}
	assert.Equal(t, map[string]bool{"r1": false, "r2": false, "r3": true, "o1": true, "c": false, "t": false}, checked)

	c, _ := m.Item("c")
	require.NoError(t, c.SetChecked(true))
	require.NoError(t, r3.Refresh())
	assert.True(t, r3.Checked)
	o1, _ := m.Item("o1")
	assert.True(t, o1.Checked)

	text, _ := m.Item("t")
	assert.ErrorIs(t, text.SetChecked(true), ErrInvalidItem)
}

func TestSetLabelAndVisibleRelayout(t *testing.T) {
	d, owner := newDriver(t)
	m := build(t, NewBuilder(d, owner).Text("a", "A", false).Text("b", "B", false))
	size := m.Size()

	a, _ := m.Item("a")
	require.NoError(t, a.SetLabel("A much longer label"))
	assert.Equal(t, "A much longer label", a.Label)
	assert.Greater(t, m.Size().X, size.X)
	assert.Equal(t, size.Y, m.Size().Y)

	b, _ := m.Item("b")
	require.NoError(t, b.SetVisible(false))
	assert.True(t, b.Hidden)
	assert.True(t, b.Bounds.Empty())
	assert.Equal(t, size.Y-21, m.Size().Y)

	require.NoError(t, b.SetVisible(true))
	assert.Equal(t, size.Y, m.Size().Y)
}

func TestSetDisabled(t *testing.T) {
	d, owner := newDriver(t)
	m := build(t, NewBuilder(d, owner).Text("a", "A", false))
	a, _ := m.Item("a")
	require.NoError(t, a.SetDisabled(true))

	fresh, _ := m.Item("a")
	assert.True(t, fresh.Disabled)
}

func TestSettersOnDetachedItems(t *testing.T) {
	loose := TextItem("x", "X")
	assert.ErrorIs(t, loose.SetLabel("Y"), ErrItemNotFound)

	d, owner := newDriver(t)
	m, err := NewBuilder(d, owner).Text("a", "A", false).Build()
	require.NoError(t, err)
	a, _ := m.Item("a")
	require.NoError(t, m.Destroy())

	assert.ErrorIs(t, a.SetChecked(true), ErrDestroyed)
	assert.ErrorIs(t, m.Append(TextItem("b", "B")), ErrDestroyed)
	assert.ErrorIs(t, m.Destroy(), ErrDestroyed)
	assert.Nil(t, m.Items())
}

func TestAppendInsertRemove(t *testing.T) {
	d, owner := newDriver(t)
	m := build(t, NewBuilder(d, owner).Text("a", "A", false))
	height := m.Size().Y

	require.NoError(t, m.Append(TextItem("c", "C")))
	require.NoError(t, m.Insert(TextItem("b", "B"), 1))
	require.NoError(t, m.Insert(SubmenuItem("s", "S", TextItem("s1", "S1")), 0))
	ids := func() []string {
		var out []string
		for _, it := range m.Items() {
			out = append(out, it.ID)
		}
		return out
	}
	assert.Equal(t, []string{"s", "a", "b", "c"}, ids())
	assert.Equal(t, height+3*21, m.Size().Y)

	assert.ErrorIs(t, m.Insert(TextItem("z", "Z"), 9), ErrIndexOutOfRange)
	assert.ErrorIs(t, m.RemoveAt(-1), ErrIndexOutOfRange)

	attached, _ := m.Item("a")
	assert.ErrorIs(t, m.Append(attached), ErrInvalidItem)
	assert.ErrorIs(t, m.Append(MenuItem{ID: "x", Kind: api.KindText, Children: []MenuItem{TextItem("y", "Y")}}), ErrInvalidItem)

	require.NoError(t, m.Remove(attached))
	require.NoError(t, m.Remove(MenuItem{ID: "c"}))
	assert.Equal(t, []string{"s", "b"}, ids())
	assert.ErrorIs(t, m.Remove(MenuItem{ID: "nope"}), ErrItemNotFound)

	sub, _ := m.Item("s")
	subHandle := sub.Submenu.Handle()
	require.NotNil(t, d.Surface(subHandle))
	require.NoError(t, m.RemoveAt(0))
	assert.Nil(t, d.Surface(subHandle))
	_, ok := m.MenuItemByID("s1")
	assert.False(t, ok)
}

func TestDestroy(t *testing.T) {
	before := len(registered())
	d, owner := newDriver(t)
	m, err := NewBuilder(d, owner).Text("a", "A", false).Build()
	require.NoError(t, err)
	assert.Equal(t, 1, d.Watchers())

	sub, err := func() (*Menu, error) {
		b := NewBuilder(d, owner)
		b.Submenu("s", "S", false).Text("x", "X", false)
		return b.Build()
	}()
	require.NoError(t, err)
	s, _ := sub.Item("s")
	assert.ErrorIs(t, s.Submenu.Destroy(), ErrSubmenu)
	require.NoError(t, sub.Destroy())

	require.NoError(t, m.Destroy())
	assert.Zero(t, d.Watchers())
	assert.Empty(t, d.Surfaces())
	assert.Len(t, registered(), before)
	assert.False(t, m.IsOpen())
}

func TestEmptySubmenu(t *testing.T) {
	d, owner := newDriver(t)
	b := NewBuilder(d, owner)
	b.Text("a", "A", false)
	b.Submenu("empty", "Empty", false)
	m := build(t, b)

	empty, _ := m.Item("empty")
	require.NotNil(t, empty.Submenu)
	assert.False(t, empty.Submenu.Interactive())
	assert.True(t, m.Interactive())

	d.MoveTo(center(t, m, "empty")).Tick(time.Second).Then(func() {
		assert.False(t, empty.Submenu.IsOpen())
	}).ClickAt(center(t, m, "empty")).Then(func() {
		assert.True(t, m.IsOpen())
	}).Key(driver.KeyEscape)

	res, err := m.Popup(100, 100)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Zero(t, d.Surface(empty.Submenu.Handle()).Shows)
}

func TestSeparatorOnlySubmenu(t *testing.T) {
	d, owner := newDriver(t)
	b := NewBuilder(d, owner)
	b.Text("a", "A", false)
	b.Submenu("seps", "Separators", false).Separator().Separator()
	m := build(t, b)

	seps, _ := m.Item("seps")
	assert.False(t, seps.Submenu.Interactive())

	d.MoveTo(center(t, m, "seps")).Tick(time.Second).Then(func() {
		assert.False(t, seps.Submenu.IsOpen())
	}).Key(driver.KeyEscape)

	_, err := m.Popup(100, 100)
	require.NoError(t, err)
	assert.Zero(t, d.Surface(seps.Submenu.Handle()).Shows)

	require.NoError(t, seps.Submenu.Append(TextItem("x", "X")))
	assert.True(t, seps.Submenu.Interactive())
}
