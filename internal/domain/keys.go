package domain

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/itemdex/internal/domain/item"
)

// Keys builds store key names under a configurable prefix.
//
// Layout written by the refresh job (and by `itemdex import`):
//
//	{p}item:{index}            hash, one JSON value per field
//	{p}items                   set of every index
//	{p}items:valid             set of indexes passing non-strict validity
//	{p}items:class:{Class}     set of single- or multi-class items per class
//	{p}items:class:multi       set of items with more than one class
//	{p}items:class:none        set of all-class items
//	{p}items:tag:{tag}         set of items per tag
//	{p}items:names             hash name -> index
//	{p}items:sets              JSON list of item sets
//	{p}items:bundles           JSON list of bundles
//	{p}items:search:...        cached facet indexes (lists with TTL)
type Keys struct {
	prefix string
}

// NewKeys creates a key builder. An empty prefix is allowed.
func NewKeys(prefix string) Keys {
	return Keys{prefix: prefix}
}

// Item is the hash of one item.
func (k Keys) Item(index int) string {
	return k.prefix + "item:" + strconv.Itoa(index)
}

// ItemPattern matches every item hash.
func (k Keys) ItemPattern() string {
	return k.prefix + "item:*"
}

// ItemField is a SORT ... GET pattern projecting field from member item hashes.
func (k Keys) ItemField(field string) string {
	return k.ItemPattern() + "->" + field
}

// AllItems is the set of every item index.
func (k Keys) AllItems() string { return k.prefix + "items" }

// ValidItems is the set of indexes that pass non-strict validity.
func (k Keys) ValidItems() string { return k.prefix + "items:valid" }

// Class is the set of items usable by class.
func (k Keys) Class(class string) string { return k.prefix + "items:class:" + class }

// MultiClass is the set of items usable by more than one class.
func (k Keys) MultiClass() string { return k.prefix + "items:class:multi" }

// NoClass is the set of all-class items.
func (k Keys) NoClass() string { return k.prefix + "items:class:none" }

// Tag is the set of items carrying tag.
func (k Keys) Tag(tag string) string { return k.prefix + "items:tag:" + tag }

// Names is the name -> index hash.
func (k Keys) Names() string { return k.prefix + "items:names" }

// Sets holds the JSON-encoded item sets.
func (k Keys) Sets() string { return k.prefix + "items:sets" }

// Bundles holds the JSON-encoded bundles.
func (k Keys) Bundles() string { return k.prefix + "items:bundles" }

// SetsFor lists every index set an item is a member of.
func (k Keys) SetsFor(s item.Summary) []string {
	sets := []string{k.AllItems()}
	if item.IsValidResult(s.Index, s.Name, s.Image, s.Tags, false) {
		sets = append(sets, k.ValidItems())
	}
	for _, c := range s.Classes {
		sets = append(sets, k.Class(c))
	}
	switch item.BucketOf(s.Classes) {
	case item.BucketMulti:
		sets = append(sets, k.MultiClass())
	case item.BucketAll:
		sets = append(sets, k.NoClass())
	}
	for _, t := range s.Tags {
		sets = append(sets, k.Tag(t))
	}
	return sets
}

// SearchIndex names a cached facet index. Classes and tags are sorted, so
// any permutation of the same facets maps to the same key.
func (k Keys) SearchIndex(classes, tags []string, suffix string) string {
	return k.prefix + "items:search:classes=" + canonicalCSV(classes) +
		"&tags=" + canonicalCSV(tags) + ":" + suffix
}

func canonicalCSV(values []string) string {
	if len(values) == 0 {
		return "*"
	}
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
