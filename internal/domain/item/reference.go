package item

import "strings"

// Reference is the catalog data built during refresh that resolves set and
// bundle member names to items.
type Reference struct {
	NameToIndex map[string]int
	ItemSets    []ItemSet
	Bundles     []Bundle
}

// Lookup resolves an item name to its index.
func (r *Reference) Lookup(name string) (int, bool) {
	idx, ok := r.NameToIndex[name]
	return idx, ok
}

// FindBundle returns the bundle whose name equals name, ignoring case.
func (r *Reference) FindBundle(name string) (*Bundle, bool) {
	for i := range r.Bundles {
		if strings.EqualFold(r.Bundles[i].Name, name) {
			return &r.Bundles[i], true
		}
	}
	return nil, false
}

// FindItemSet returns the item set whose name equals name, ignoring case.
func (r *Reference) FindItemSet(name string) (*ItemSet, bool) {
	for i := range r.ItemSets {
		if strings.EqualFold(r.ItemSets[i].Name, name) {
			return &r.ItemSets[i], true
		}
	}
	return nil, false
}
