package result

import "github.com/kailas-cloud/itemdex/internal/domain/item"

// Kind tells presentation how to render a group.
type Kind string

// Group kinds.
const (
	KindPlain    Kind = ""
	KindClassTag Kind = "class_tag"
	KindPrice    Kind = "price"
	KindSet      Kind = "set"
	KindBundle   Kind = "bundle"
)

// Group is a titled, ordered run of search hits.
type Group struct {
	title string
	kind  Kind
	items []item.Record
	notes []string
}

// New creates a result group.
func New(title string, kind Kind, items []item.Record) Group {
	return Group{title: title, kind: kind, items: items}
}

// WithNotes attaches descriptive text lines, such as a bundle's own description.
func (g Group) WithNotes(notes []string) Group {
	g.notes = notes
	return g
}

// Title returns the group heading; it may be empty.
func (g *Group) Title() string { return g.title }

// Kind returns the group kind.
func (g *Group) Kind() Kind { return g.kind }

// Items returns the hits in display order.
func (g *Group) Items() []item.Record { return g.items }

// Notes returns descriptive text lines.
func (g *Group) Notes() []string { return g.notes }

// Len returns the number of hits.
func (g *Group) Len() int { return len(g.items) }
