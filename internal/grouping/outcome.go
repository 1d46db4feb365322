package grouping

import (
	"math"
	"strconv"
	"strings"
)

// Outcome is the classification of a result cell.
type Outcome int

const (
	Neutral Outcome = iota
	Positive
	Negative
)

func (o Outcome) String() string {
	switch o {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// Classify maps a result token to an Outcome, ignoring case and surrounding
// space. "over" and "win" are positive, "under" and "lose" negative.
func Classify(token string) Outcome {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "over", "win":
		return Positive
	case "under", "lose":
		return Negative
	default:
		return Neutral
	}
}

// ParseIntLoose converts a cell to an int without failing: integers parse
// as-is, finite decimals truncate toward zero, anything else is 0.
func ParseIntLoose(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
