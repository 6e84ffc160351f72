// Package solver implements pattern inference over one day's recorded
// evidence: it enumerates the fixed pattern space, filters it against the
// day's classification, calendar feasibility, and hourly weather
// assertions, and converts the surviving evidence into accumulator facts.
package solver

import (
	"github.com/Zemnmez/MeteoNook/internal/types"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// Oracle is the slice of the simulator the engine consults. All methods
// are pure; see weather.Oracle for the full contract.
type Oracle interface {
	IsPatternPossibleAtDate(hem weather.Hemisphere, month, day int, pattern weather.Pattern) bool
	GetWeather(hour int, pattern weather.Pattern) weather.Weather
	IsLightShowerPattern(pattern weather.Pattern) bool
	IsHeavyShowerPattern(pattern weather.Pattern) bool
}

// Engine filters the pattern space against recorded evidence. Engines are
// stateless apart from the oracle handle and safe for concurrent use.
type Engine struct {
	oracle Oracle
}

// New returns an engine backed by the given oracle.
func New(oracle Oracle) *Engine {
	return &Engine{oracle: oracle}
}

// GetPossiblePatterns returns every pattern consistent with the
// observation, ordered by ordinal. The scan is exhaustive over the fixed
// pattern space; an empty result means the evidence is contradictory or
// over-constrained.
func (e *Engine) GetPossiblePatterns(hem weather.Hemisphere, obs *types.DayObservation) []weather.Pattern {
	var patterns []weather.Pattern
	for p := weather.FirstPattern; p <= weather.MaxPattern; p++ {
		if !e.dayTypeAllows(obs, p) {
			continue
		}
		if !e.oracle.IsPatternPossibleAtDate(hem, obs.Date.Month, obs.Date.Day, p) {
			continue
		}
		if !e.assertionsHold(obs, p) {
			continue
		}
		patterns = append(patterns, p)
	}
	return patterns
}

// dayTypeAllows applies the structural filter for the day classification.
func (e *Engine) dayTypeAllows(obs *types.DayObservation, p weather.Pattern) bool {
	switch obs.DayType {
	case weather.DayShower:
		light := e.oracle.IsLightShowerPattern(p)
		heavy := e.oracle.IsHeavyShowerPattern(p)
		if !light && !heavy {
			return false
		}
		if obs.ShowerType == weather.ShowerHeavy && light {
			return false
		}
		if obs.ShowerType == weather.ShowerLight && heavy {
			return false
		}
		return true

	case weather.DayRainbow:
		want, ok := weather.RainbowPatterns[obs.RainbowTime]
		return ok && p == want

	case weather.DayAurora:
		switch p {
		case weather.Fine01:
			return obs.AuroraFine01
		case weather.Fine03:
			return obs.AuroraFine03
		case weather.Fine05:
			return obs.AuroraFine05
		}
		return false

	case weather.DayNone:
		// A heavy shower cannot be missed, so "none of the above"
		// excludes heavy-shower patterns.
		return !e.oracle.IsHeavyShowerPattern(p)
	}

	return true
}

// assertionsHold checks the hourly weather assertions. They only stay
// evidentiary when the day type leaves the hourly weather unpinned:
// rainbow and aurora days already name their pattern, and on a confirmed
// heavy-shower day the sky itself is not usable evidence.
func (e *Engine) assertionsHold(obs *types.DayObservation, p weather.Pattern) bool {
	switch obs.DayType {
	case weather.DayNoData, weather.DayNone:
	case weather.DayShower:
		if obs.ShowerType == weather.ShowerHeavy {
			return true
		}
	default:
		return true
	}

	for _, a := range obs.Types {
		if !a.Expect.Matches(e.oracle.GetWeather(a.Hour, p)) {
			return false
		}
	}
	return true
}
