package item

import (
	"sort"
	"strings"
)

// Rarity labels.
const (
	RarityUnique      = "Unique"
	RarityUncraftable = "Uncraftable"
)

// Rarities is the fixed rarity ("quality") vocabulary.
var Rarities = []string{
	"Normal", RarityUnique, "Vintage", "Genuine", "Strange", "Unusual",
	"Haunted", "Collector's", "Decorated Weapon", "Community", "Self-Made", "Valve",
}

var raritySynonyms = map[string]string{
	"dirty":       RarityUncraftable,
	"uncraft":     RarityUncraftable,
	"uncraftable": RarityUncraftable,
}

var rarityByKey = func() map[string]string {
	m := make(map[string]string, len(Rarities))
	for _, r := range Rarities {
		m[rarityKey(r)] = r
		if strings.HasSuffix(r, "'s") {
			m[rarityKey(strings.TrimSuffix(r, "'s"))] = r
		}
	}
	return m
}()

// rarityKey drops possessives, hyphens and spaces, and lower-cases.
func rarityKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "'s", "s")
	return strings.NewReplacer("'", "", "-", "", " ", "").Replace(s)
}

// ParseRarity matches user text against the rarity vocabulary.
// "collectors", "Collector's" and "self made" all resolve.
func ParseRarity(s string) (string, bool) {
	if r, ok := raritySynonyms[strings.ToLower(strings.TrimSpace(s))]; ok {
		return r, true
	}
	r, ok := rarityByKey[rarityKey(s)]
	return r, ok
}

// RarityForms lists every lower-case surface form ParseRarity accepts,
// longest first, for building query patterns.
func RarityForms() []string {
	seen := make(map[string]bool)
	var forms []string
	add := func(f string) {
		if f != "" && !seen[f] {
			seen[f] = true
			forms = append(forms, f)
		}
	}
	for _, r := range Rarities {
		l := strings.ToLower(r)
		variants := []string{l, strings.ReplaceAll(l, "'", "")}
		if strings.HasSuffix(l, "'s") {
			variants = append(variants, strings.TrimSuffix(l, "'s"))
		}
		for _, v := range variants {
			add(v)
			add(strings.ReplaceAll(v, "-", " "))
			add(strings.ReplaceAll(v, "-", ""))
			add(strings.ReplaceAll(v, " ", "-"))
			add(strings.ReplaceAll(v, " ", ""))
		}
	}
	for syn := range raritySynonyms {
		add(syn)
	}
	sort.SliceStable(forms, func(i, j int) bool {
		if len(forms[i]) != len(forms[j]) {
			return len(forms[i]) > len(forms[j])
		}
		return forms[i] < forms[j]
	})
	return forms
}
