package api

type ItemKind int

const (
	KindText ItemKind = iota
	KindCheckbox
	KindRadio
	KindSeparator
	KindSubmenu
)

func (k ItemKind) String() string {
	switch k {
	case KindCheckbox:
		return "checkbox"
	case KindRadio:
		return "radio"
	case KindSeparator:
		return "separator"
	case KindSubmenu:
		return "submenu"
	default:
		return "text"
	}
}

// SelectedItem is the snapshot of a committed menu item.
type SelectedItem struct {
	ID    string
	Label string
	// Value is the radio group name.
	Value    string
	Kind     ItemKind
	Checked  bool
	Disabled bool
}
