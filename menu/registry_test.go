package menu

import (
	"testing"

	"github.com/getseabird/ctxmenu/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/maps"
)

func registered() []driver.Handle {
	table.RLock()
	defer table.RUnlock()
	return maps.Keys(table.menus)
}

func TestMenusOfSeparateDriversDoNotCollide(t *testing.T) {
	d1, owner1 := newDriver(t)
	d2, owner2 := newDriver(t)
	m1 := build(t, NewBuilder(d1, owner1).Text("a", "A", false))
	m2 := build(t, NewBuilder(d2, owner2).Text("b", "B", false))
	assert.NotEqual(t, m1.Handle(), m2.Handle())

	a, ok := m1.Item("a")
	require.True(t, ok)
	assert.Equal(t, "A", a.Label)
	b, ok := m2.Item("b")
	require.True(t, ok)
	assert.Equal(t, "B", b.Label)

	require.NoError(t, m2.Destroy())
	assert.True(t, m1.Interactive())
	assert.Contains(t, registered(), m1.Handle())
	assert.NotContains(t, registered(), m2.Handle())
}
