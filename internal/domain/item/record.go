package item

import (
	"context"
	"encoding/json"
	"fmt"
)

// Record is a lazily read item. Field returns the raw JSON value of one
// stored field; ok is false when the item has no such field.
type Record interface {
	Index() int
	Field(ctx context.Context, name string) (raw string, ok bool, err error)
}

// DecodeField reads one field of r into v. A missing field leaves v untouched.
func DecodeField(ctx context.Context, r Record, name string, v any) error {
	raw, ok, err := r.Field(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode %s of item %d: %w", name, r.Index(), err)
	}
	return nil
}

// Summary is the subset of an item used to drive search.
type Summary struct {
	Index       int
	Name        string
	Image       string
	Classes     []string
	Tags        []string
	MarketPrice MarketPrices
}

// Summarize reads the search fields of r.
func Summarize(ctx context.Context, r Record) (Summary, error) {
	s := Summary{Index: r.Index()}
	targets := []struct {
		field string
		dst   any
	}{
		{FieldName, &s.Name},
		{FieldImage, &s.Image},
		{FieldClasses, &s.Classes},
		{FieldTags, &s.Tags},
		{FieldMarketPrice, &s.MarketPrice},
	}
	for _, tg := range targets {
		if err := DecodeField(ctx, r, tg.field, tg.dst); err != nil {
			return Summary{}, err
		}
	}
	return s, nil
}

// Price returns the stored price string for a source and rarity.
func (s *Summary) Price(source, rarity string) (string, bool) {
	byRarity, ok := s.MarketPrice[source]
	if !ok {
		return "", false
	}
	p, ok := byRarity[rarity]
	return p, ok
}
