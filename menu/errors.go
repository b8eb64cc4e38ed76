package menu

import "errors"

var (
	ErrSubmenu         = errors.New("menu: not allowed on a submenu")
	ErrDestroyed       = errors.New("menu: destroyed")
	ErrAlreadyOpen     = errors.New("menu: popup already open")
	ErrItemNotFound    = errors.New("menu: item not found")
	ErrIndexOutOfRange = errors.New("menu: index out of range")
	ErrInvalidItem     = errors.New("menu: invalid item")
	ErrNoMonitor       = errors.New("menu: no monitor")
)
