package price

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

var decimalRe = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

// repeatPad is how many digits a repeating decimal is extended by.
const repeatPad = 12

// CorrectAmount parses an amount quoted in d. Rungs priced in limited
// fractions snap to the nearest fraction their denominator allows, so
// "1.33" Refined reads as exactly 4/3. Top rungs parse as plain floats.
func CorrectAmount(raw string, d Denomination) (float64, error) {
	raw = strings.TrimSpace(raw)
	if !d.Valid() {
		return 0, ErrUnknownDenomination
	}
	limit := ladder[d].maxDenominator
	if limit == 0 {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, fmt.Errorf("%w: amount %q", ErrMalformedPrice, raw)
		}
		return v, nil
	}
	if !decimalRe.MatchString(raw) {
		return 0, fmt.Errorf("%w: amount %q", ErrMalformedPrice, raw)
	}

	r, ok := new(big.Rat).SetString(padRepeating(raw))
	if !ok {
		return 0, fmt.Errorf("%w: amount %q", ErrMalformedPrice, raw)
	}
	f, _ := limitDenominator(r, limit).Float64()
	return f, nil
}

// padRepeating extends "2.66" to "2.66666666666666"; other inputs pass through.
func padRepeating(s string) string {
	_, frac, ok := strings.Cut(s, ".")
	if !ok || len(frac) < 2 {
		return s
	}
	last := frac[len(frac)-1]
	for i := 0; i < len(frac); i++ {
		if frac[i] != last {
			return s
		}
	}
	return s + strings.Repeat(string(last), repeatPad)
}

// limitDenominator returns the closest fraction to r whose denominator is
// at most maxDen, walking the continued fraction expansion of r.
func limitDenominator(r *big.Rat, maxDen int64) *big.Rat {
	if maxDen < 1 {
		panic("price: fraction limit must be positive")
	}
	limit := big.NewInt(maxDen)
	if r.Denom().Cmp(limit) <= 0 {
		return new(big.Rat).Set(r)
	}

	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)
	n := new(big.Int).Set(r.Num())
	d := new(big.Int).Set(r.Denom())

	a, q2, tmp := new(big.Int), new(big.Int), new(big.Int)
	for d.Sign() != 0 {
		a.Div(n, d)
		q2.Add(q0, tmp.Mul(a, q1))
		if q2.Cmp(limit) > 0 {
			break
		}
		np1 := new(big.Int).Add(p0, tmp.Mul(a, p1))
		p0, q0, p1, q1 = p1, q1, np1, new(big.Int).Set(q2)
		rem := new(big.Int).Sub(n, tmp.Mul(a, d))
		n, d = d, rem
	}

	k := new(big.Int).Sub(limit, q0)
	k.Div(k, q1)
	bound1 := new(big.Rat).SetFrac(
		new(big.Int).Add(p0, new(big.Int).Mul(k, p1)),
		new(big.Int).Add(q0, new(big.Int).Mul(k, q1)),
	)
	bound2 := new(big.Rat).SetFrac(p1, q1)

	dist1 := new(big.Rat).Abs(new(big.Rat).Sub(bound1, r))
	dist2 := new(big.Rat).Abs(new(big.Rat).Sub(bound2, r))
	if dist2.Cmp(dist1) <= 0 {
		return bound2
	}
	return bound1
}

// Format renders an amount with minimal digits and the rung label.
func Format(amount float64, d Denomination) string {
	rounded := math.Round(amount*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + d.Label(rounded)
}

// Quote is a parsed stored price: a low/high range in one denomination.
type Quote struct {
	Low, High    float64
	Denomination Denomination
}

// ParseQuote parses "<amount>[-<amount>] <denomination>"; spaces around the
// dash are accepted ("1 - 2 Keys").
func ParseQuote(s string) (Quote, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Quote{}, fmt.Errorf("%w: %q", ErrMalformedPrice, s)
	}
	d, err := ParseDenomination(fields[len(fields)-1])
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %q", err, s)
	}

	amount := strings.Join(fields[:len(fields)-1], "")
	lowRaw, highRaw, hasHigh := strings.Cut(amount, "-")
	low, err := CorrectAmount(lowRaw, d)
	if err != nil {
		return Quote{}, err
	}
	high := low
	if hasHigh {
		if high, err = CorrectAmount(highRaw, d); err != nil {
			return Quote{}, err
		}
	}
	return Quote{Low: low, High: high, Denomination: d}, nil
}
