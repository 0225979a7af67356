package gst

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders v with two decimals and Indian digit grouping,
// e.g. 1234567.5 -> "12,34,567.50".
func FormatAmount(v float64) string {
	if !finite(v) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	s := decimal.NewFromFloat(v).StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + groupIndian(intPart) + "." + frac
}

// FormatRate renders a percentage rate as printed on tax rows ("18.00").
func FormatRate(rate float64) string {
	if !finite(rate) {
		return strconv.FormatFloat(rate, 'f', 2, 64)
	}
	return decimal.NewFromFloat(rate).StringFixed(2)
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
