package price

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownDenomination signals a price unit outside the ladder.
	ErrUnknownDenomination = errors.New("unknown denomination")
	// ErrMalformedPrice signals a stored price string that cannot be parsed.
	ErrMalformedPrice = errors.New("malformed price")
	// ErrUnpriced signals that a market-derived ladder ratio is unavailable.
	ErrUnpriced = errors.New("denomination ratio unavailable")
)

// Denomination is a rung of the price ladder; lower values are worth more.
type Denomination int

// Ladder rungs from highest to lowest value.
const (
	Bud Denomination = iota
	Key
	Refined
	Reclaimed
	Scrap
	Weapon
)

type rung struct {
	name      string
	plural    string
	itemIndex int
	// maxDenominator bounds the fraction an amount is snapped to; 0 parses as plain float.
	maxDenominator int64
}

var ladder = [...]rung{
	Bud:       {name: "Bud", plural: "Buds", itemIndex: 143},
	Key:       {name: "Key", plural: "Keys", itemIndex: 5021},
	Refined:   {name: "Refined", plural: "Refined", itemIndex: 5002, maxDenominator: 18},
	Reclaimed: {name: "Reclaimed", plural: "Reclaimed", itemIndex: 5001, maxDenominator: 6},
	Scrap:     {name: "Scrap", plural: "Scrap", itemIndex: 5000, maxDenominator: 2},
	Weapon:    {name: "Weapon", plural: "Weapon", itemIndex: 0, maxDenominator: 1},
}

// Valid reports whether d is a ladder rung.
func (d Denomination) Valid() bool {
	return d >= Bud && d <= Weapon
}

func (d Denomination) String() string {
	if !d.Valid() {
		return "Denomination(?)"
	}
	return ladder[d].name
}

// ItemIndex is the index of the item representing one unit of d.
func (d Denomination) ItemIndex() int {
	return ladder[d].itemIndex
}

// Label returns the display name for amount units of d.
// Only the two top rungs pluralize.
func (d Denomination) Label(amount float64) string {
	if amount != 1 {
		return ladder[d].plural
	}
	return ladder[d].name
}

// denomWords are matched in order as substrings of a lower-cased word.
var denomWords = []struct {
	word  string
	denom Denomination
}{
	{"bud", Bud},
	{"key", Key},
	{"ref", Refined},
	{"rec", Reclaimed},
	{"scrap", Scrap},
	{"we", Weapon},
}

// ParseDenomination resolves query words and stored labels
// ("keys", "ref", "Earbuds", "Reclaimed", "weps") to a rung.
func ParseDenomination(word string) (Denomination, error) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w != "" {
		for _, dw := range denomWords {
			if strings.Contains(w, dw.word) {
				return dw.denom, nil
			}
		}
	}
	return 0, ErrUnknownDenomination
}
