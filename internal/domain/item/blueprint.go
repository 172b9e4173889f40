package item

// Blueprint is a crafting recipe that yields the item with a given chance.
type Blueprint struct {
	Chance   int             `json:"chance"`
	Required []BlueprintPart `json:"required"`
}

// BlueprintPart is one distinct ingredient with its multiplicity.
type BlueprintPart struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Index *int   `json:"index,omitempty"`
	Count int    `json:"count"`
}

// IngredientLookup resolves an ingredient name to its catalog index and image.
type IngredientLookup func(name string) (index int, image string, ok bool)

// NewBlueprint collapses a raw ingredient list into distinct parts in
// first-seen order, counting repeats.
func NewBlueprint(chance int, required []string, lookup IngredientLookup) Blueprint {
	order := make([]string, 0, len(required))
	counts := make(map[string]int, len(required))
	for _, name := range required {
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}

	parts := make([]BlueprintPart, 0, len(order))
	for _, name := range order {
		part := BlueprintPart{Name: name, Count: counts[name]}
		if lookup != nil {
			if idx, image, ok := lookup(name); ok {
				i := idx
				part.Index = &i
				part.Image = image
			}
		}
		parts = append(parts, part)
	}
	return Blueprint{Chance: chance, Required: parts}
}
