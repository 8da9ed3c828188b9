// Package core holds the domain types shared by the conversation engine,
// the statistics aggregator and the transaction stores.
package core

import (
	"strconv"
	"strings"
)

// ParseAmount parses a user-entered monetary amount. Both dot and comma are
// accepted as the decimal separator, so "12.5" and "12,5" yield the same
// value. No sign or range check is applied: zero and negative amounts parse
// fine.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
