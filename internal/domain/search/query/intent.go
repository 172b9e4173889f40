package query

import (
	"github.com/kailas-cloud/itemdex/internal/domain/price"
	"github.com/kailas-cloud/itemdex/internal/domain/search/mode"
)

// Intent is a classified query: the cleaned tokens, the class and tag
// facets found in them, and the one strategy that will run.
type Intent struct {
	Raw     string
	Tokens  []string
	Classes []string
	Tags    []string
	Match   Match
}

// Mode names the strategy carried by Match.
func (i Intent) Mode() mode.Mode {
	if i.Match == nil {
		return mode.Empty
	}
	return i.Match.Mode()
}

// Match is the closed set of query shapes. Every implementation lives in
// this package.
type Match interface {
	Mode() mode.Mode
	isMatch()
}

// Empty is a query without searchable tokens.
type Empty struct{}

// Word searches item names by tokens and substring.
type Word struct {
	// Query is the folded, lower-cased query used for substring matching.
	Query string
}

// Exact searches for a quoted phrase inside item names.
type Exact struct {
	Phrase string
}

// ClassTag searches by class and tag facets. All words in the query were facets.
type ClassTag struct {
	Classes []string
	Tags    []string
}

// ItemSet resolves "<name> set" to a bundle or an item set.
type ItemSet struct {
	Name string
}

// Op is a price comparison.
type Op string

// Price comparison operators. OpAny is an omitted operator and compares as equal.
const (
	OpAny     Op = ""
	OpLess    Op = "<"
	OpGreater Op = ">"
	OpEqual   Op = "="
)

// PriceFilter narrows items by their market price for one rarity.
type PriceFilter struct {
	Rarity string
	Op     Op
	// HasAmount is false for "any price"; Amount and Denomination are then unset.
	HasAmount    bool
	Amount       float64
	Denomination price.Denomination
	// Classes and Tags restrict candidates before price filtering.
	Classes []string
	Tags    []string
}

// PriceViz breaks an amount down into denomination items.
type PriceViz struct {
	Amount float64
	From   price.Denomination
	To     price.Denomination
	HasTo  bool
}

// IndexList looks up items by index in the given order.
type IndexList struct {
	Indexes []int
}

// AllItems lists every valid item.
type AllItems struct{}

// AllSets lists every item set.
type AllSets struct{}

func (Empty) Mode() mode.Mode       { return mode.Empty }
func (Word) Mode() mode.Mode        { return mode.Word }
func (Exact) Mode() mode.Mode       { return mode.Exact }
func (ClassTag) Mode() mode.Mode    { return mode.ClassTag }
func (ItemSet) Mode() mode.Mode     { return mode.ItemSet }
func (PriceFilter) Mode() mode.Mode { return mode.PriceFilter }
func (PriceViz) Mode() mode.Mode    { return mode.PriceViz }
func (IndexList) Mode() mode.Mode   { return mode.IndexList }
func (AllItems) Mode() mode.Mode    { return mode.AllItems }
func (AllSets) Mode() mode.Mode     { return mode.AllSets }

func (Empty) isMatch()       {}
func (Word) isMatch()        {}
func (Exact) isMatch()       {}
func (ClassTag) isMatch()    {}
func (ItemSet) isMatch()     {}
func (PriceFilter) isMatch() {}
func (PriceViz) isMatch()    {}
func (IndexList) isMatch()   {}
func (AllItems) isMatch()    {}
func (AllSets) isMatch()     {}
