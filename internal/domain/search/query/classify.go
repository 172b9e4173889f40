package query

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/itemdex/internal/domain/item"
	"github.com/kailas-cloud/itemdex/internal/domain/price"
)

// Literal queries.
const (
	allItemsQuery = "all"
	allSetsQuery  = "sets"
)

const (
	amountPattern = `(\d+(?:\.\d+)?)`
	denomPattern  = `((?:earb|b)uds?|keys?|ref(?:ined|s)?|rec(?:laimed|s)?|scraps?|wea?p(?:on)?s?)`
)

var (
	tokenSplitRe = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
	spaceRe      = regexp.MustCompile(`\s+`)
	setPhraseRe  = regexp.MustCompile(`(?i)^(.+) sets?$`)
	indexListRe  = regexp.MustCompile(`^\d+(?: \d+)*$`)

	// "<amount> <denom> [in|to <denom>]"
	priceVizRe = regexp.MustCompile(
		`^` + amountPattern + ` ?` + denomPattern + `(?: (?:in|to) ` + denomPattern + `)?$`)

	// "[rarity] [<|>|=] [<amount> <denom>] [class/tag words]"
	priceFilterRe = regexp.MustCompile(
		`^` + rarityPattern() + `?(?: ?([<>=])? ?` + amountPattern + ` ?` + denomPattern + `)?((?: [a-z]+)*)$`)

	stopWords = map[string]bool{"the": true, "a": true, "of": true, "s": true}
)

func rarityPattern() string {
	forms := item.RarityForms()
	quoted := make([]string, len(forms))
	for i, f := range forms {
		quoted[i] = regexp.QuoteMeta(f)
	}
	return `(` + strings.Join(quoted, "|") + `)`
}

// Classify turns a raw query into an Intent. It never fails: queries that
// match no pattern become a word search, and queries without tokens are Empty.
func Classify(raw string) Intent {
	q := spaceRe.ReplaceAllString(strings.TrimSpace(raw), " ")
	in := Intent{Raw: raw}

	if len(q) >= 2 && q[0] == '"' && q[len(q)-1] == '"' {
		phrase := strings.TrimSpace(q[1 : len(q)-1])
		in.Tokens = Tokenize(phrase)
		if len(in.Tokens) == 0 {
			in.Match = Empty{}
			return in
		}
		in.Match = Exact{Phrase: strings.ToLower(item.Fold(phrase))}
		return in
	}

	in.Tokens = Tokenize(q)
	if len(in.Tokens) == 0 {
		in.Match = Empty{}
		return in
	}
	in.Classes, in.Tags = facets(in.Tokens)

	in.Match = pattern(q, in)
	return in
}

// pattern picks the strategy in precedence order.
func pattern(q string, in Intent) Match {
	lower := strings.ToLower(item.Fold(q))
	if m := setPhraseRe.FindStringSubmatch(q); m != nil && strings.ToLower(m[1]) != allItemsQuery {
		return ItemSet{Name: strings.ToLower(m[1])}
	}
	if f := matchPriceFilter(lower); f != nil {
		return *f
	}
	if v := matchPriceViz(lower); v != nil {
		return *v
	}
	if indexListRe.MatchString(q) {
		if idx := parseIndexes(q); idx != nil {
			return IndexList{Indexes: idx}
		}
	}
	switch {
	case lower == allSetsQuery:
		return AllSets{}
	case lower == allItemsQuery:
		return AllItems{}
	case len(in.Classes)+len(in.Tags) > 0:
		return ClassTag{Classes: in.Classes, Tags: in.Tags}
	}
	return Word{Query: lower}
}

// Tokenize folds accents, lower-cases, splits on non-word runs and drops stop words.
func Tokenize(s string) []string {
	parts := tokenSplitRe.Split(strings.ToLower(item.Fold(s)), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || stopWords[p] {
			continue
		}
		tokens = append(tokens, p)
	}
	return tokens
}

// facets classifies every token as a class or a tag, class first. When any
// token is neither, the query is a phrase and no facets are returned.
// Results are deduplicated and in enumeration order.
func facets(tokens []string) (classes, tags []string) {
	seenClass := make(map[string]bool)
	seenTag := make(map[string]bool)
	for _, tok := range tokens {
		if c, ok := item.ParseClass(tok); ok {
			if !seenClass[c] {
				seenClass[c] = true
				classes = append(classes, c)
			}
			continue
		}
		if t, ok := item.ParseTag(tok); ok {
			if !seenTag[t] {
				seenTag[t] = true
				tags = append(tags, t)
			}
			continue
		}
		return nil, nil
	}
	sort.Slice(classes, func(i, j int) bool { return item.ClassRank(classes[i]) < item.ClassRank(classes[j]) })
	sort.Slice(tags, func(i, j int) bool { return item.TagRank(tags[i]) < item.TagRank(tags[j]) })
	return classes, tags
}

// matchPriceFilter needs a rarity, an operator or facet words; a bare
// amount and denomination is left to visualization. Trailing words that
// are not all facets cancel the filter.
func matchPriceFilter(q string) *PriceFilter {
	m := priceFilterRe.FindStringSubmatch(q)
	if m == nil {
		return nil
	}
	rarityRaw, op, amountRaw, denomRaw, words := m[1], m[2], m[3], m[4], strings.TrimSpace(m[5])
	if rarityRaw == "" && op == "" && words == "" {
		return nil
	}

	f := &PriceFilter{Rarity: item.RarityUnique, Op: Op(op)}
	if rarityRaw != "" {
		r, ok := item.ParseRarity(rarityRaw)
		if !ok {
			return nil
		}
		f.Rarity = r
	}
	if words != "" {
		f.Classes, f.Tags = facets(Tokenize(words))
		if len(f.Classes)+len(f.Tags) == 0 {
			return nil
		}
	}
	if amountRaw != "" {
		d, err := price.ParseDenomination(denomRaw)
		if err != nil {
			return nil
		}
		amount, err := price.CorrectAmount(amountRaw, d)
		if err != nil {
			return nil
		}
		f.HasAmount, f.Amount, f.Denomination = true, amount, d
	}
	return f
}

func matchPriceViz(q string) *PriceViz {
	m := priceVizRe.FindStringSubmatch(q)
	if m == nil {
		return nil
	}
	from, err := price.ParseDenomination(m[2])
	if err != nil {
		return nil
	}
	amount, err := price.CorrectAmount(m[1], from)
	if err != nil {
		return nil
	}
	v := &PriceViz{Amount: amount, From: from}
	if m[3] != "" {
		to, err := price.ParseDenomination(m[3])
		if err != nil {
			return nil
		}
		v.To, v.HasTo = to, true
	}
	return v
}

// parseIndexes returns nil when any index does not fit an int.
func parseIndexes(q string) []int {
	fields := strings.Fields(q)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil
		}
		out = append(out, n)
	}
	return out
}
