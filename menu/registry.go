package menu

import (
	"sync"

	"github.com/getseabird/ctxmenu/driver"
)

// Per-surface runtime state, keyed by surface handle. Caller-facing Menu and
// MenuItem values only carry handles and resolve through this table. Handles
// come from driver.NextHandle and are unique across drivers.
var table = struct {
	sync.RWMutex
	menus map[driver.Handle]*menuData
}{menus: map[driver.Handle]*menuData{}}

func register(md *menuData) {
	table.Lock()
	defer table.Unlock()
	table.menus[md.handle] = md
}

func unregister(h driver.Handle) {
	table.Lock()
	defer table.Unlock()
	delete(table.menus, h)
}

func lookup(h driver.Handle) (*menuData, bool) {
	table.RLock()
	defer table.RUnlock()
	md, ok := table.menus[h]
	return md, ok
}
