package item

// Bucket groups class/tag hits by how many classes can use the item.
type Bucket int

// Buckets in display order.
const (
	BucketSingle Bucket = iota
	BucketMulti
	BucketAll
)

// BucketOf returns the bucket for an item's class list.
func BucketOf(classes []string) Bucket {
	switch {
	case len(classes) == 1:
		return BucketSingle
	case len(classes) > 1:
		return BucketMulti
	default:
		return BucketAll
	}
}

// Buckets holds the ordered item indexes of a class/tag search per bucket.
type Buckets struct {
	Single []int
	Multi  []int
	All    []int
}

// Get returns the indexes of one bucket.
func (b Buckets) Get(bucket Bucket) []int {
	switch bucket {
	case BucketSingle:
		return b.Single
	case BucketMulti:
		return b.Multi
	default:
		return b.All
	}
}

// Add appends index to its bucket.
func (b *Buckets) Add(bucket Bucket, index int) {
	switch bucket {
	case BucketSingle:
		b.Single = append(b.Single, index)
	case BucketMulti:
		b.Multi = append(b.Multi, index)
	default:
		b.All = append(b.All, index)
	}
}

// FacetQuery is a class/tag search.
type FacetQuery struct {
	Classes []string
	Tags    []string
}

// SlotSearch reports whether a weapon-slot tag was requested. Slot searches
// require every requested tag instead of any.
func (q FacetQuery) SlotSearch() bool {
	return HasWeaponSlot(q.Tags)
}

// HidesTournament reports whether tournament medals are filtered out.
func (q FacetQuery) HidesTournament() bool {
	return !contains(q.Tags, TagTournament)
}

// HidesTokens reports whether slot tokens are filtered out, which happens
// when "weapon" is asked for together with a slot.
func (q FacetQuery) HidesTokens() bool {
	return q.SlotSearch() && contains(q.Tags, TagWeapon)
}

// Matches reports whether an item is a hit, validity included.
func (q FacetQuery) Matches(s Summary) bool {
	if !IsValidResult(s.Index, s.Name, s.Image, s.Tags, q.HidesTournament()) {
		return false
	}
	if len(q.Classes) > 0 && len(s.Classes) > 0 && !intersects(s.Classes, q.Classes) {
		return false
	}
	if len(q.Tags) > 0 {
		if q.SlotSearch() {
			for _, t := range q.Tags {
				if !contains(s.Tags, t) {
					return false
				}
			}
		} else if !intersects(s.Tags, q.Tags) {
			return false
		}
	}
	if q.HidesTokens() && contains(s.Tags, TagToken) {
		return false
	}
	return true
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if contains(b, x) {
			return true
		}
	}
	return false
}
