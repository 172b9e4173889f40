package item

// Facet labels with special handling.
const (
	TagWeapon     = "weapon"
	TagToken      = "token"
	TagBundle     = "bundle"
	TagTournament = "tournament"
	TagPDA2       = "pda2"
)

// WeaponSlotTags is the weapon-slot subset of the vocabulary.
var WeaponSlotTags = []string{"primary", "secondary", "melee", "pda", TagPDA2, "building"}

// Tags is the full facet vocabulary in display order.
var Tags = append([]string{
	"hat", TagWeapon, "misc", "tool", "action", "taunt", "paint",
	TagToken, TagBundle, TagTournament,
}, WeaponSlotTags...)

var (
	tagOrder = func() map[string]int {
		m := make(map[string]int, len(Tags))
		for i, t := range Tags {
			m[t] = i
		}
		return m
	}()

	weaponSlots = func() map[string]bool {
		m := make(map[string]bool, len(WeaponSlotTags))
		for _, t := range WeaponSlotTags {
			m[t] = true
		}
		return m
	}()

	tagAliases = map[string]string{
		"wep":     TagWeapon,
		"weps":    TagWeapon,
		"weap":    TagWeapon,
		"weaps":   TagWeapon,
		"watch":   TagPDA2,
		"watches": TagPDA2,
	}
)

// ParseTag matches a lower-cased word against the vocabulary, accepting a
// simple plural and the weapon/watch aliases.
func ParseTag(word string) (string, bool) {
	if t, ok := tagAliases[word]; ok {
		return t, true
	}
	if _, ok := tagOrder[word]; ok {
		return word, true
	}
	if n := len(word); n > 1 && word[n-1] == 's' {
		if _, ok := tagOrder[word[:n-1]]; ok {
			return word[:n-1], true
		}
	}
	return "", false
}

// TagRank returns the vocabulary position of a tag, or -1.
func TagRank(tag string) int {
	if i, ok := tagOrder[tag]; ok {
		return i
	}
	return -1
}

// IsWeaponSlot reports whether tag is a weapon-slot tag.
func IsWeaponSlot(tag string) bool {
	return weaponSlots[tag]
}

// HasWeaponSlot reports whether any tag is a weapon-slot tag.
func HasWeaponSlot(tags []string) bool {
	for _, t := range tags {
		if weaponSlots[t] {
			return true
		}
	}
	return false
}
