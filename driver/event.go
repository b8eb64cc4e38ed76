package driver

import (
	"fmt"
	"image"
)

type EventType int

const (
	PointerMove EventType = iota
	PointerDown
	PointerUp
	Scroll
	KeyDown
	Deactivate
)

func (t EventType) String() string {
	switch t {
	case PointerMove:
		return "pointer-move"
	case PointerDown:
		return "pointer-down"
	case PointerUp:
		return "pointer-up"
	case Scroll:
		return "scroll"
	case KeyDown:
		return "key-down"
	case Deactivate:
		return "deactivate"
	}
	return fmt.Sprintf("event(%d)", int(t))
}

type Key int

const (
	KeyNone Key = iota
	KeyEscape
	KeyReturn
	KeySpace
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	// KeyMeta is the platform menu key (Alt, F10).
	KeyMeta
)

const (
	ButtonPrimary   = 1
	ButtonMiddle    = 2
	ButtonSecondary = 3
)

// Event is an input event. Pointer positions are in screen coordinates.
type Event struct {
	Type   EventType
	Pos    image.Point
	Button int
	Key    Key
	Delta  image.Point
	// Target is the surface or window the event was delivered to.
	Target Handle
}

func (ev Event) String() string {
	switch ev.Type {
	case KeyDown:
		return fmt.Sprintf("%v key=%d", ev.Type, ev.Key)
	case Deactivate:
		return ev.Type.String()
	}
	return fmt.Sprintf("%v %v button=%d", ev.Type, ev.Pos, ev.Button)
}
