package menu

import (
	"testing"

	"github.com/getseabird/ctxmenu/api"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	for name, tt := range map[string]struct {
		text  string
		label string
		want  bool
	}{
		"empty":        {text: "", label: "Open", want: true},
		"substring":    {text: "hidden", label: "Show Hidden Files", want: true},
		"all terms":    {text: "show files", label: "Show Hidden Files", want: true},
		"missing term": {text: "show folders", label: "Show Hidden Files", want: false},
		"typo":         {text: "opem", label: "Open", want: true},
		"two typos":    {text: "opne", label: "Open", want: false},
		"quoted typo":  {text: `"opem"`, label: "Open", want: false},
		"quoted word":  {text: `"Hidden"`, label: "Show Hidden Files", want: true},
		"dashed label": {text: "detials", label: "view-details", want: true},
		"unrelated":    {text: "zzzz", label: "Open", want: false},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewFilter(tt.text).Test(tt.label))
		})
	}
}

func TestSearch(t *testing.T) {
	d, owner := newDriver(t)
	b := NewBuilder(d, owner)
	b.Text("open", "Open", false)
	b.Separator()
	b.Append(MenuItem{ID: "secret", Label: "Open Secret", Kind: api.KindText, Hidden: true})
	b.Submenu("recent", "Open Recent", false).Text("file", "Open file.txt", false)
	m := build(t, b)

	var ids []string
	for _, it := range m.Search("open") {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"open", "recent", "file"}, ids)

	found := m.Search("file.txt")
	if assert.Len(t, found, 1) {
		assert.Equal(t, "file", found[0].ID)
		assert.NoError(t, found[0].SetLabel("Open notes.txt"))
	}
	assert.Empty(t, m.Search("file.txt"))
}
