// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses the comma-separated values used in URL query strings.
package query

import (
	"fmt"
	"strconv"
	"strings"
)

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings. Empty entries are dropped.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Pair splits "a,b" into its two halves. A single value "a" yields (a, a),
// so exact filters may be sent either way. Whitespace anywhere is ignored.
func Pair(val string) (string, string, error) {
	clean := strings.Join(strings.Fields(val), "")
	if clean == "" {
		return "", "", fmt.Errorf("query: empty pair")
	}

	parts := strings.Split(clean, ",")
	switch {
	case len(parts) == 1:
		return parts[0], parts[0], nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("query: %q is not a pair", val)
	}
}

// FloatPair is [Pair] followed by float parsing of both halves.
func FloatPair(val string) (float64, float64, error) {
	first, second, err := Pair(val)
	if err != nil {
		return 0, 0, err
	}

	a, err := strconv.ParseFloat(first, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("query: %q is not a number", first)
	}
	b, err := strconv.ParseFloat(second, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("query: %q is not a number", second)
	}

	return a, b, nil
}
