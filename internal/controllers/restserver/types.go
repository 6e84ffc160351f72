package restserver

import (
	"fmt"

	"github.com/Zemnmez/MeteoNook/internal/types"
	"github.com/Zemnmez/MeteoNook/pkg/guessdata"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// ObservationBody is the wire form of one day's recorded evidence. All
// enum fields travel as their display names.
type ObservationBody struct {
	Date       string `json:"date"`
	DayType    string `json:"dayType"`
	ShowerType string `json:"showerType,omitempty"`

	RainbowTime   int  `json:"rainbowTime,omitempty"`
	RainbowDouble bool `json:"rainbowDouble,omitempty"`

	AuroraFine01 bool `json:"auroraFine01,omitempty"`
	AuroraFine03 bool `json:"auroraFine03,omitempty"`
	AuroraFine05 bool `json:"auroraFine05,omitempty"`

	Types []WeatherAssertionBody `json:"types,omitempty"`
	Stars []StarSightingBody     `json:"stars,omitempty"`
	Gaps  []StarGapBody          `json:"gaps,omitempty"`
}

// WeatherAssertionBody is one hourly weather claim on the wire.
type WeatherAssertionBody struct {
	Hour   int    `json:"hour"`
	Expect string `json:"expect"`
}

// StarSightingBody is one minute of sighted shooting stars on the wire.
type StarSightingBody struct {
	Hour    int   `json:"hour"`
	Minute  int   `json:"minute"`
	Seconds []int `json:"seconds,omitempty"`
}

// StarGapBody is one star-free watch range on the wire.
type StarGapBody struct {
	StartHour   int `json:"startHour"`
	StartMinute int `json:"startMinute"`
	EndHour     int `json:"endHour"`
	EndMinute   int `json:"endMinute"`
}

// PatternEntry names one weather pattern. RainbowHour is set for the six
// patterns that produce a rainbow, with the clock hour it appears.
type PatternEntry struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	RainbowHour int    `json:"rainbowHour,omitempty"`
}

// DayPatternsResponse lists the patterns consistent with one day's
// evidence.
type DayPatternsResponse struct {
	Date       string         `json:"date"`
	Hemisphere string         `json:"hemisphere"`
	Patterns   []PatternEntry `json:"patterns"`
}

// SolveConflictResponse reports why a solve across the stored evidence
// failed. Kind is "no_patterns" or "star_conflict"; hour and minute are
// set for star conflicts only.
type SolveConflictResponse struct {
	Kind   string `json:"kind"`
	Date   string `json:"date"`
	Hour   int    `json:"hour,omitempty"`
	Minute int    `json:"minute,omitempty"`
}

// SolveResponse is the fact dump produced by a successful solve.
type SolveResponse struct {
	Hemisphere string              `json:"hemisphere"`
	Days       []guessdata.DayFacts `json:"days"`
}

// HealthResponse reports process liveness and oracle reachability.
type HealthResponse struct {
	Status          string `json:"status"`
	Version         string `json:"version"`
	Oracle          string `json:"oracle"`
	OracleError     string `json:"oracleError,omitempty"`
	ObservationDays int    `json:"observationDays"`
}

// toObservation converts a request body into a validated observation for
// the given date.
func toObservation(date types.Date, body *ObservationBody) (*types.DayObservation, error) {
	if body.Date != "" && body.Date != date.String() {
		return nil, fmt.Errorf("body date %q does not match path date %q", body.Date, date)
	}

	obs := types.NewDayObservation(date)

	if body.DayType != "" {
		dt, err := weather.ParseDayType(body.DayType)
		if err != nil {
			return nil, err
		}
		obs.DayType = dt
	}
	if body.ShowerType != "" {
		st, err := weather.ParseShowerType(body.ShowerType)
		if err != nil {
			return nil, err
		}
		obs.ShowerType = st
	}

	obs.RainbowTime = body.RainbowTime
	obs.RainbowDouble = body.RainbowDouble
	obs.AuroraFine01 = body.AuroraFine01
	obs.AuroraFine03 = body.AuroraFine03
	obs.AuroraFine05 = body.AuroraFine05

	for _, a := range body.Types {
		expect, err := weather.ParseExpectation(a.Expect)
		if err != nil {
			return nil, fmt.Errorf("weather assertion at hour %d: %v", a.Hour, err)
		}
		obs.Types = append(obs.Types, types.WeatherAssertion{Hour: a.Hour, Expect: expect})
	}
	for _, s := range body.Stars {
		seconds := append([]int(nil), s.Seconds...)
		obs.Stars = append(obs.Stars, types.StarSighting{Hour: s.Hour, Minute: s.Minute, Seconds: seconds})
	}
	for _, g := range body.Gaps {
		obs.Gaps = append(obs.Gaps, types.StarGap{
			StartHour:   g.StartHour,
			StartMinute: g.StartMinute,
			EndHour:     g.EndHour,
			EndMinute:   g.EndMinute,
		})
	}

	if err := obs.Validate(); err != nil {
		return nil, err
	}
	return obs, nil
}

// fromObservation renders a stored observation back into its wire form.
func fromObservation(obs *types.DayObservation) ObservationBody {
	body := ObservationBody{
		Date:          obs.Date.String(),
		DayType:       obs.DayType.String(),
		RainbowTime:   obs.RainbowTime,
		RainbowDouble: obs.RainbowDouble,
		AuroraFine01:  obs.AuroraFine01,
		AuroraFine03:  obs.AuroraFine03,
		AuroraFine05:  obs.AuroraFine05,
	}
	if obs.DayType == weather.DayShower {
		body.ShowerType = obs.ShowerType.String()
	}

	for _, a := range obs.Types {
		body.Types = append(body.Types, WeatherAssertionBody{Hour: a.Hour, Expect: a.Expect.String()})
	}
	for _, s := range obs.Stars {
		seconds := append([]int(nil), s.Seconds...)
		body.Stars = append(body.Stars, StarSightingBody{Hour: s.Hour, Minute: s.Minute, Seconds: seconds})
	}
	for _, g := range obs.Gaps {
		body.Gaps = append(body.Gaps, StarGapBody{
			StartHour:   g.StartHour,
			StartMinute: g.StartMinute,
			EndHour:     g.EndHour,
			EndMinute:   g.EndMinute,
		})
	}
	return body
}

// patternEntries converts patterns to their wire entries.
func patternEntries(patterns []weather.Pattern) []PatternEntry {
	entries := make([]PatternEntry, len(patterns))
	for i, p := range patterns {
		entries[i] = PatternEntry{ID: int(p), Name: p.String(), RainbowHour: rainbowHourFor(p)}
	}
	return entries
}

func rainbowHourFor(p weather.Pattern) int {
	for hour, pattern := range weather.RainbowPatterns {
		if pattern == p {
			return hour
		}
	}
	return 0
}
