package price

import "fmt"

// Source names a market-price column of an item record.
type Source string

// Known price sources.
const (
	SourceBackpack Source = "backpack.tf"
	SourceTrade    Source = "trade.tf"
)

// DefaultSource is used when a caller does not pick one.
const DefaultSource = SourceBackpack

// ParseSource validates a price source label; empty selects DefaultSource.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case "":
		return DefaultSource, nil
	case SourceBackpack, SourceTrade:
		return Source(s), nil
	default:
		return "", fmt.Errorf("unknown price source %q", s)
	}
}
