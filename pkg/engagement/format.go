package engagement

import (
	"strconv"
	"strings"
)

// Rating is a coarse label for an engagement rate
type Rating string

const (
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingNeedsWork Rating = "Needs Work"
)

// RatingFor labels rate: 3% and up is excellent, 1% and up is good
func RatingFor(rate float64) Rating {
	switch {
	case rate >= 3:
		return RatingExcellent
	case rate >= 1:
		return RatingGood
	default:
		return RatingNeedsWork
	}
}

// FormatThousands renders n with comma separators, e.g. 1,234,567
func FormatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	head := len(s) % 3
	if head == 0 {
		head = 3
	}
	groups := []string{s[:head]}
	for i := head; i < len(s); i += 3 {
		groups = append(groups, s[i:i+3])
	}
	return sign + strings.Join(groups, ",")
}

// FormatCompact renders n as 999, 1.2K or 3.4M
func FormatCompact(n int64) string {
	switch {
	case n >= 1_000_000:
		return trimFloat(float64(n)/1_000_000, 1) + "M"
	case n >= 1_000:
		return trimFloat(float64(n)/1_000, 1) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatRate renders rate with at most precision decimals and no trailing zeros
func FormatRate(rate float64, precision int) string {
	return trimFloat(roundTo(rate, precision), precision)
}

func trimFloat(v float64, precision int) string {
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
