package weather

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Parse functions resolve the canonical display names back to their
// ordinals. Matching is case-insensitive; unknown names return an error
// carrying the nearest known name when one is plausibly close.

// ParsePattern resolves a pattern name.
func ParsePattern(name string) (Pattern, error) {
	for p := FirstPattern; p <= MaxPattern; p++ {
		if strings.EqualFold(name, patternNames[p]) {
			return p, nil
		}
	}
	return 0, unknownName("pattern", name, patternNames[:])
}

// ParseWeather resolves a concrete weather category name.
func ParseWeather(name string) (Weather, error) {
	for w := Clear; w <= HeavyRain; w++ {
		if strings.EqualFold(name, weatherNames[w]) {
			return w, nil
		}
	}
	return 0, unknownName("weather", name, weatherNames[:])
}

// ParseAmbiguousWeather resolves an OR-group name.
func ParseAmbiguousWeather(name string) (AmbiguousWeather, error) {
	for a := ClearOrSunny; a <= RainOrHeavyRain; a++ {
		if strings.EqualFold(name, ambiguousNames[a]) {
			return a, nil
		}
	}
	return 0, unknownName("ambiguous weather", name, ambiguousNames[:])
}

// ParseExpectation accepts either vocabulary: a concrete weather name or
// an OR-group name.
func ParseExpectation(name string) (Expectation, error) {
	if w, err := ParseWeather(name); err == nil {
		return w, nil
	}
	if a, err := ParseAmbiguousWeather(name); err == nil {
		return a, nil
	}
	candidates := make([]string, 0, len(weatherNames)+len(ambiguousNames))
	candidates = append(candidates, weatherNames[:]...)
	candidates = append(candidates, ambiguousNames[:]...)
	return nil, unknownName("weather", name, candidates)
}

// ParseDayType resolves a day classification name.
func ParseDayType(name string) (DayType, error) {
	for d := DayNoData; d <= DayAurora; d++ {
		if strings.EqualFold(name, dayTypeNames[d]) {
			return d, nil
		}
	}
	return 0, unknownName("day type", name, dayTypeNames[:])
}

// ParseShowerType resolves a shower refinement name.
func ParseShowerType(name string) (ShowerType, error) {
	for s := ShowerNotSure; s <= ShowerHeavy; s++ {
		if strings.EqualFold(name, showerTypeNames[s]) {
			return s, nil
		}
	}
	return 0, unknownName("shower type", name, showerTypeNames[:])
}

// ParseHemisphere resolves a hemisphere name, accepting the one-letter
// shorthand used in configuration files.
func ParseHemisphere(name string) (Hemisphere, error) {
	switch strings.ToLower(name) {
	case "n", "north", "northern":
		return Northern, nil
	case "s", "south", "southern":
		return Southern, nil
	}
	return 0, unknownName("hemisphere", name, hemisphereNames[:])
}

func unknownName(kind, name string, candidates []string) error {
	if s := nearestName(name, candidates); s != "" {
		return fmt.Errorf("unknown %s %q (did you mean %q?)", kind, name, s)
	}
	return fmt.Errorf("unknown %s %q", kind, name)
}

// nearestName returns the closest candidate within a length-scaled edit
// distance limit, or "" when nothing is close enough to suggest.
func nearestName(name string, candidates []string) string {
	lower := strings.ToLower(name)
	best := ""
	bestDist := -1
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(lower, strings.ToLower(cand))
		if dist > levenshteinLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
