package item

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Hash field names of a stored item record.
const (
	FieldIndex       = "index"
	FieldName        = "name"
	FieldImage       = "image"
	FieldImageLarge  = "image_large"
	FieldDescription = "description"
	FieldLevel       = "level"
	FieldClasses     = "classes"
	FieldTags        = "tags"
	FieldAttributes  = "attributes"
	FieldStorePrice  = "storeprice"
	FieldMarketPrice = "marketprice"
	FieldBlueprints  = "blueprints"
)

// SearchFields is the projection needed to drive class/tag, word and price search.
var SearchFields = []string{
	FieldIndex, FieldName, FieldImage, FieldClasses, FieldTags, FieldMarketPrice,
}

// MarketPrices maps a price source label to rarity → price string ("1.33 Refined", "2-3 Keys").
type MarketPrices map[string]map[string]string

// Item is one catalog entry as produced by the refresh cycle.
// It is read-only to search and replaced wholesale on each refresh.
type Item struct {
	Index       int          `json:"index"`
	Name        string       `json:"name"`
	Image       string       `json:"image"`
	ImageLarge  string       `json:"image_large,omitempty"`
	Description string       `json:"description"`
	Level       string       `json:"level,omitempty"`
	Classes     []string     `json:"classes"`
	Tags        []string     `json:"tags"`
	Attributes  []Attribute  `json:"attributes"`
	StorePrice  string       `json:"storeprice"`
	MarketPrice MarketPrices `json:"marketprice"`
	Blueprints  []Blueprint  `json:"blueprints"`
}

// Attribute is a single effect description.
type Attribute struct {
	Description string `json:"description"`
	Type        string `json:"type"` // neutral, positive, negative
}

// Price returns the stored price string for a source and rarity.
func (it *Item) Price(source, rarity string) (string, bool) {
	byRarity, ok := it.MarketPrice[source]
	if !ok {
		return "", false
	}
	p, ok := byRarity[rarity]
	return p, ok
}

// HasTag reports whether the item carries tag.
func (it *Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Encode converts an item into hash fields, one JSON value per field.
func (it *Item) Encode() (map[string]string, error) {
	data, err := json.Marshal(it)
	if err != nil {
		return nil, fmt.Errorf("marshal item %d: %w", it.Index, err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("split item %d: %w", it.Index, err)
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[k] = string(v)
	}
	return fields, nil
}

// Decode builds an item from hash fields holding JSON values.
// Fields absent from the map keep their zero value.
func Decode(fields map[string]string) (Item, error) {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for k, v := range fields {
		if !first {
			b.WriteByte(',')
		}
		first = false
		key, _ := json.Marshal(k)
		b.Write(key)
		b.WriteByte(':')
		b.WriteString(v)
	}
	b.WriteByte('}')

	var it Item
	if err := json.Unmarshal([]byte(b.String()), &it); err != nil {
		return Item{}, fmt.Errorf("decode item fields: %w", err)
	}
	return it, nil
}
