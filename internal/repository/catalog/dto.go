package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kailas-cloud/itemdex/internal/domain/item"
)

// Dump is the JSON catalog file accepted by Import.
type Dump struct {
	Items    []dumpItem     `json:"items"`
	ItemSets []item.ItemSet `json:"item_sets"`
	Bundles  []item.Bundle  `json:"bundles"`
}

// dumpItem carries blueprints as raw ingredient name lists; Import
// collapses them into counted parts.
type dumpItem struct {
	item.Item
	RawBlueprints []rawBlueprint `json:"blueprints"`
}

type rawBlueprint struct {
	Chance   int      `json:"chance"`
	Required []string `json:"required"`
}

// ReadDump decodes a catalog dump.
func ReadDump(r io.Reader) (Dump, error) {
	var d Dump
	dec := json.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		return Dump{}, fmt.Errorf("decode catalog dump: %w", err)
	}
	return d, nil
}

// Resolve collapses raw blueprints into counted parts, resolving each
// ingredient name against the dump's own items.
func (d *Dump) Resolve() []item.Item {
	byName := make(map[string]*item.Item, len(d.Items))
	for i := range d.Items {
		it := &d.Items[i].Item
		if _, dup := byName[it.Name]; !dup {
			byName[it.Name] = it
		}
	}
	lookup := func(name string) (int, string, bool) {
		it, ok := byName[name]
		if !ok {
			return 0, "", false
		}
		return it.Index, it.Image, true
	}

	out := make([]item.Item, len(d.Items))
	for i, di := range d.Items {
		it := di.Item
		it.Blueprints = make([]item.Blueprint, 0, len(di.RawBlueprints))
		for _, bp := range di.RawBlueprints {
			it.Blueprints = append(it.Blueprints, item.NewBlueprint(bp.Chance, bp.Required, lookup))
		}
		out[i] = it
	}
	return out
}

// Reference builds the reference data Import would store for d: the first
// item with a given name owns it.
func (d *Dump) Reference() item.Reference {
	ref := item.Reference{
		NameToIndex: make(map[string]int, len(d.Items)),
		ItemSets:    d.ItemSets,
		Bundles:     d.Bundles,
	}
	for i := range d.Items {
		it := &d.Items[i].Item
		if _, dup := ref.NameToIndex[it.Name]; !dup {
			ref.NameToIndex[it.Name] = it.Index
		}
	}
	return ref
}
