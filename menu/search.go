package menu

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/getseabird/ctxmenu/api"
)

// Filter matches item labels against space separated terms. Every term has
// to match. Quoted terms must appear verbatim; bare terms also match a label
// word of similar spelling.
type Filter struct {
	Terms []string
}

func NewFilter(text string) Filter {
	return Filter{Terms: strings.Fields(text)}
}

func (f Filter) Test(label string) bool {
	hamming := metrics.NewHamming()
	hamming.CaseSensitive = false
	label = strings.ToLower(label)

	for _, term := range f.Terms {
		trimmed := strings.ToLower(strings.Trim(term, "\""))
		if strings.Contains(label, trimmed) {
			continue
		}
		if term != strings.Trim(term, "\"") {
			return false
		}
		var ok bool
		for _, word := range strings.FieldsFunc(label, separator) {
			for _, part := range strings.FieldsFunc(trimmed, separator) {
				if strutil.Similarity(word, part, hamming) > 0.5 {
					ok = true
				}
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func separator(r rune) bool {
	return r == ' ' || r == '-' || r == '_'
}

// Search returns the visible items of the whole tree whose labels pass
// NewFilter(text), parents before their submenu items.
func (m *Menu) Search(text string) []MenuItem {
	md, err := m.data()
	if err != nil {
		return nil
	}
	f := NewFilter(text)
	var found []MenuItem
	md.walk(func(sub *menuData) {
		for _, it := range sub.items {
			if it.hidden || it.kind == api.KindSeparator {
				continue
			}
			if f.Test(it.label) {
				found = append(found, it.snapshot(sub.handle))
			}
		}
	})
	return found
}
