package types

import (
	"fmt"
	"time"

	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// SecondUnknown is the sentinel second-of-minute value recorded when a
// star was sighted but its exact second has not been captured yet.
const SecondUnknown = 99

// Date is a plain calendar date used to key observations and forecasts.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ParseDate parses an ISO YYYY-MM-DD date, rejecting values that do not
// name a real calendar day.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %v", s, err)
	}
	d := Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
	if d.String() != s {
		return Date{}, fmt.Errorf("invalid date %q: no such calendar day", s)
	}
	return d, nil
}

// WeatherAssertion is one hourly weather claim: at Hour, the sky matched
// Expect. Duplicate hours are allowed; every assertion must hold.
type WeatherAssertion struct {
	Hour   int
	Expect weather.Expectation
}

// StarSighting records shooting stars seen during one minute. Seconds
// holds the second-of-minute of each star, or SecondUnknown for stars
// whose exact second was not caught.
type StarSighting struct {
	Hour    int
	Minute  int
	Seconds []int
}

// StarGap is a contiguous range the observer watched without seeing any
// star. Endpoints are inclusive and compared in linear-hour order, so a
// gap may cross midnight. A gap whose start equals its end covers a
// single minute.
type StarGap struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// DayObservation captures everything a user recorded about one calendar
// day. A day starts empty (DayNoData, no evidence) and is refined
// incrementally; inference reads it but never mutates it.
type DayObservation struct {
	Date Date

	DayType    weather.DayType
	ShowerType weather.ShowerType

	// Rainbow fields, meaningful only when DayType is DayRainbow.
	RainbowTime   int
	RainbowDouble bool

	// Aurora flags, meaningful only when DayType is DayAurora: which of
	// the three aurora-capable patterns the observer saw evidence for.
	AuroraFine01 bool
	AuroraFine03 bool
	AuroraFine05 bool

	Types []WeatherAssertion
	Stars []StarSighting
	Gaps  []StarGap
}

// NewDayObservation returns the empty observation for a date.
func NewDayObservation(date Date) *DayObservation {
	return &DayObservation{Date: date}
}

// Copy returns a deep copy, so stored observations can be handed out
// without aliasing the caller's slices.
func (o *DayObservation) Copy() *DayObservation {
	c := *o
	if o.Types != nil {
		c.Types = make([]WeatherAssertion, len(o.Types))
		copy(c.Types, o.Types)
	}
	if o.Stars != nil {
		c.Stars = make([]StarSighting, len(o.Stars))
		for i, s := range o.Stars {
			c.Stars[i] = s
			if s.Seconds != nil {
				c.Stars[i].Seconds = make([]int, len(s.Seconds))
				copy(c.Stars[i].Seconds, s.Seconds)
			}
		}
	}
	if o.Gaps != nil {
		c.Gaps = make([]StarGap, len(o.Gaps))
		copy(c.Gaps, o.Gaps)
	}
	return &c
}

// Validate checks the boundary invariants transports must enforce before
// an observation reaches inference. Inference assumes a valid value.
func (o *DayObservation) Validate() error {
	if o.Date.Month < 1 || o.Date.Month > 12 {
		return fmt.Errorf("month %d out of range", o.Date.Month)
	}
	if o.Date.Day < 1 || o.Date.Day > 31 {
		return fmt.Errorf("day %d out of range", o.Date.Day)
	}
	if !o.DayType.Valid() {
		return fmt.Errorf("invalid day type %d", o.DayType)
	}
	if !o.ShowerType.Valid() {
		return fmt.Errorf("invalid shower type %d", o.ShowerType)
	}
	if o.DayType == weather.DayRainbow && !validHour(o.RainbowTime) {
		return fmt.Errorf("rainbow time %d out of range", o.RainbowTime)
	}
	for i, a := range o.Types {
		if !validHour(a.Hour) {
			return fmt.Errorf("weather assertion %d: hour %d out of range", i, a.Hour)
		}
		if a.Expect == nil {
			return fmt.Errorf("weather assertion %d: no expected weather", i)
		}
	}
	for i, s := range o.Stars {
		if !validHour(s.Hour) {
			return fmt.Errorf("star sighting %d: hour %d out of range", i, s.Hour)
		}
		if !validMinute(s.Minute) {
			return fmt.Errorf("star sighting %d: minute %d out of range", i, s.Minute)
		}
		for _, sec := range s.Seconds {
			if sec != SecondUnknown && (sec < 0 || sec > 59) {
				return fmt.Errorf("star sighting %d: second %d out of range", i, sec)
			}
		}
	}
	for i, g := range o.Gaps {
		if !validHour(g.StartHour) || !validHour(g.EndHour) {
			return fmt.Errorf("star gap %d: hour out of range", i)
		}
		if !validMinute(g.StartMinute) || !validMinute(g.EndMinute) {
			return fmt.Errorf("star gap %d: minute out of range", i)
		}
		startLH := weather.ToLinearHour(g.StartHour)
		endLH := weather.ToLinearHour(g.EndHour)
		if startLH > endLH || (startLH == endLH && g.StartMinute > g.EndMinute) {
			return fmt.Errorf("star gap %d: start %02d:%02d is after end %02d:%02d",
				i, g.StartHour, g.StartMinute, g.EndHour, g.EndMinute)
		}
	}
	return nil
}

func validHour(h int) bool   { return h >= 0 && h <= 23 }
func validMinute(m int) bool { return m >= 0 && m <= 59 }
