package item

import "strings"

// ItemSet is a named, ordered list of member item names.
type ItemSet struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// Bundle is a store bundle whose description mixes text lines and item lines.
type Bundle struct {
	Index int          `json:"index"`
	Name  string       `json:"name"`
	Lines []BundleLine `json:"lines"`
}

// BundleLine is one description line; IsItem marks lines naming an item.
type BundleLine struct {
	Text   string `json:"text"`
	IsItem bool   `json:"is_item"`
}

// ItemNames returns the item lines of a bundle in declared order.
func (b *Bundle) ItemNames() []string {
	var names []string
	for _, l := range b.Lines {
		if l.IsItem {
			names = append(names, l.Text)
		}
	}
	return names
}

// TextLines returns the self-describing lines of a bundle.
func (b *Bundle) TextLines() []string {
	var text []string
	for _, l := range b.Lines {
		if !l.IsItem {
			text = append(text, l.Text)
		}
	}
	return text
}

// memberNameFixes corrects set member names that differ from catalog names.
var memberNameFixes = map[string]string{
	"Capone's Capper": "Capo's Capper",
}

// CanonicalMemberName maps a set member name to its catalog name.
func CanonicalMemberName(name string) string {
	name = strings.TrimPrefix(name, "The ")
	if fixed, ok := memberNameFixes[name]; ok {
		return fixed
	}
	return name
}
