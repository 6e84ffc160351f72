package solver

import (
	"github.com/Zemnmez/MeteoNook/internal/types"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// Accumulator receives the facts extracted from one day's evidence.
// AddMinute reports false when the minute was previously asserted with
// the opposite star value; the other methods cannot fail.
type Accumulator interface {
	AddPattern(year, month, day int, pattern weather.Pattern)
	AddRainbow(year, month, day int, isDouble bool)
	AddMinute(year, month, day, hour, minute int, hasStar bool) bool
	AddSecond(year, month, day, hour, minute, second int)
}

// Populate runs inference for the observation and pushes the surviving
// facts into acc. It returns ErrNoPatterns (with no writes performed)
// when the evidence is contradictory, or a StarConflictError when a
// star-free gap crosses a minute already recorded as having a star.
//
// Writes are not rolled back on conflict: facts registered before the
// conflicting minute stay in the accumulator, and the rest of that day's
// evidence is not processed. Callers wanting clean state populate into a
// fresh accumulator after editing the evidence.
func (e *Engine) Populate(hem weather.Hemisphere, acc Accumulator, obs *types.DayObservation) error {
	patterns := e.GetPossiblePatterns(hem, obs)
	if len(patterns) == 0 {
		return ErrNoPatterns
	}

	year, month, day := obs.Date.Year, obs.Date.Month, obs.Date.Day
	for _, p := range patterns {
		acc.AddPattern(year, month, day, p)
	}

	if obs.DayType == weather.DayRainbow {
		acc.AddRainbow(year, month, day, obs.RainbowDouble)
	}

	if obs.DayType != weather.DayShower {
		return nil
	}

	// A positive sighting is conflict-free by construction; only gap
	// minutes can collide with it.
	for _, star := range obs.Stars {
		acc.AddMinute(year, month, day, star.Hour, star.Minute, true)
		for _, second := range star.Seconds {
			if second == types.SecondUnknown {
				continue
			}
			acc.AddSecond(year, month, day, star.Hour, star.Minute, second)
		}
	}

	for _, gap := range obs.Gaps {
		startLH := weather.ToLinearHour(gap.StartHour)
		endLH := weather.ToLinearHour(gap.EndHour)
		for lh := startLH; lh <= endLH; lh++ {
			hour := weather.FromLinearHour(lh)
			startMinute, endMinute := 0, 59
			if lh == startLH {
				startMinute = gap.StartMinute
			}
			if lh == endLH {
				endMinute = gap.EndMinute
			}
			for minute := startMinute; minute <= endMinute; minute++ {
				if !acc.AddMinute(year, month, day, hour, minute, false) {
					return &StarConflictError{Hour: hour, Minute: minute}
				}
			}
		}
	}

	return nil
}
