package mode

// Mode is the search strategy picked for a query.
type Mode string

// Search mode constants, in dispatch precedence order after Empty and Exact.
const (
	Empty Mode = "empty"
	// Exact is a quoted phrase matched as a name substring.
	Exact       Mode = "exact"
	ItemSet     Mode = "item_set"
	PriceFilter Mode = "price_filter"
	PriceViz    Mode = "price_viz"
	IndexList   Mode = "index_list"
	AllSets     Mode = "all_sets"
	AllItems    Mode = "all_items"
	ClassTag    Mode = "class_tag"
	// Word is the fallback name search.
	Word Mode = "word"
)

// All lists every mode, used to pre-register metric label values.
var All = []Mode{Empty, Exact, ItemSet, PriceFilter, PriceViz, IndexList, AllSets, AllItems, ClassTag, Word}

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	for _, v := range All {
		if m == v {
			return true
		}
	}
	return false
}
