package util

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseIntDefault parses s as an int, returning def if s is empty or invalid.
// Out-of-range values saturate at math.MaxInt / math.MinInt.
func ParseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err == nil {
		return v
	}
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(s, "-") {
			return math.MinInt
		}
		return math.MaxInt
	}
	// accept "2.0" style input from sliders
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return roundToInt(f)
}

// roundToInt rounds f, saturating where int cannot hold the result.
func roundToInt(f float64) int {
	f = math.Round(f)
	switch {
	case f >= math.MaxInt: // float64(math.MaxInt) rounds up to 2^63
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// ParseFloatDefault parses s as a finite float64, returning def if s is
// empty, invalid, NaN or infinite.
func ParseFloatDefault(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// SplitCSV splits a comma separated list, dropping blanks.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FirstNonEmpty returns the first non-blank value.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
