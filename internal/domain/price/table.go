package price

import (
	"fmt"
	"math"
)

// MaxUnits caps a breakdown; larger amounts are rejected as nonsensical.
const MaxUnits = 4000

// fixedRatios is the value of one unit of a rung in the rung below it.
// The top two rungs are market-priced instead.
var fixedRatios = map[Denomination]float64{
	Refined:   3,
	Reclaimed: 3,
	Scrap:     2,
}

type pair struct{ from, to Denomination }

// UniquePrice returns the stored Unique-rarity price string of an item
// index in the active price source.
type UniquePrice func(index int) (string, bool)

// Table converts amounts between rungs. Adjacent rates are stored in both
// directions; conversion between distant rungs chains along the ladder.
type Table struct {
	rates map[pair]float64
}

// NewTable derives the ladder rates. A market rung without a usable price
// is left out, and conversions crossing it report false.
func NewTable(unique UniquePrice) *Table {
	t := &Table{rates: make(map[pair]float64, 2*(len(ladder)-1))}
	for d := Bud; d < Weapon; d++ {
		r, fixed := fixedRatios[d]
		if fixed {
			if r <= 0 {
				panic(fmt.Sprintf("price: non-positive fixed ratio for %s", d))
			}
		} else {
			r = marketRatio(unique, d)
			if r <= 0 {
				continue
			}
		}
		t.rates[pair{d, d + 1}] = r
		t.rates[pair{d + 1, d}] = 1 / r
	}
	return t
}

func marketRatio(unique UniquePrice, d Denomination) float64 {
	if unique == nil {
		return 0
	}
	s, ok := unique(d.ItemIndex())
	if !ok {
		return 0
	}
	q, err := ParseQuote(s)
	if err != nil || q.Denomination != d+1 {
		return 0
	}
	return q.Low
}

// Rate returns how many units of to one unit of from is worth.
func (t *Table) Rate(from, to Denomination) (float64, bool) {
	if !from.Valid() || !to.Valid() {
		return 0, false
	}
	rate := 1.0
	step := Denomination(1)
	if to < from {
		step = -1
	}
	for d := from; d != to; d += step {
		r, ok := t.rates[pair{d, d + step}]
		if !ok {
			return 0, false
		}
		if r <= 0 {
			panic(fmt.Sprintf("price: non-positive rate %s->%s", d, d+step))
		}
		rate *= r
	}
	return rate, true
}

// Convert expresses amount of from in units of to.
func (t *Table) Convert(amount float64, from, to Denomination) (float64, bool) {
	r, ok := t.Rate(from, to)
	if !ok {
		return 0, false
	}
	return amount * r, true
}

// Entry is one rung of a price breakdown.
type Entry struct {
	Denomination Denomination
	ItemIndex    int
	Count        int
}

// Breakdown decomposes amount of from into whole units walking down the
// ladder. With hasTo it starts at to; otherwise it starts at the highest
// rung where the amount is still at least one unit. It returns nil when the
// starting amount exceeds MaxUnits.
func (t *Table) Breakdown(amount float64, from, to Denomination, hasTo bool) ([]Entry, error) {
	if !from.Valid() || (hasTo && !to.Valid()) {
		return nil, ErrUnknownDenomination
	}

	v, start := amount, from
	if hasTo {
		conv, ok := t.Convert(amount, from, to)
		if !ok {
			return nil, fmt.Errorf("%w: %s to %s", ErrUnpriced, from, to)
		}
		v, start = conv, to
	} else {
		for d := from - 1; d >= Bud; d-- {
			up, ok := t.Convert(v, start, d)
			if !ok || up < 1 {
				break
			}
			v, start = up, d
		}
	}

	if v > MaxUnits {
		return nil, nil
	}

	var entries []Entry
	for d := start; ; d++ {
		count := int(math.Floor(roundTo(v, 10)))
		if count > 0 {
			entries = append(entries, Entry{Denomination: d, ItemIndex: d.ItemIndex(), Count: count})
		}
		if d == Weapon {
			break
		}
		rest := v - float64(count)
		if roundTo(rest, 10) <= 0 {
			break
		}
		down, ok := t.Convert(rest, d, d+1)
		if !ok {
			return nil, fmt.Errorf("%w: %s to %s", ErrUnpriced, d, d+1)
		}
		v = down
	}
	return entries, nil
}

// BreakdownTitle renders entries as "1 Key + 2 Refined", prefixed with the
// requested amount when the breakdown starts on a different rung.
func BreakdownTitle(amount float64, from Denomination, entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	title := ""
	for i, e := range entries {
		if i > 0 {
			title += " + "
		}
		title += Format(float64(e.Count), e.Denomination)
	}
	if entries[0].Denomination != from {
		title = Format(amount, from) + " = " + title
	}
	return title
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
