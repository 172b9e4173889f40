package item

import "strings"

// obsoleteIndexes are superseded duplicates of newer items.
var obsoleteIndexes = func() map[int]bool {
	m := map[int]bool{699: true, 2007: true, 2015: true, 2049: true, 2079: true, 2093: true, 2123: true}
	for i := 2018; i <= 2026; i++ {
		m[i] = true
	}
	return m
}()

// IsObsolete reports whether index names a superseded duplicate.
func IsObsolete(index int) bool {
	return obsoleteIndexes[index]
}

// IsValidResult reports whether an item may appear in search results:
// it has an image, is not obsolete and is not bundle junk.
// strict additionally hides tournament medals.
func IsValidResult(index int, name, image string, tags []string, strict bool) bool {
	if image == "" || IsObsolete(index) || strings.HasPrefix(name, "TF_Bundle") {
		return false
	}
	if strict {
		for _, t := range tags {
			if t == TagTournament {
				return false
			}
		}
	}
	return true
}
