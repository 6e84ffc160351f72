// Package guessdata accumulates per-date facts extracted from daily
// evidence: surviving patterns, rainbow sightings, and minute-level star
// assertions. The resulting fact set is what a downstream cross-day seed
// solver consumes; this package only records and detects contradictions,
// it does not solve.
package guessdata

import (
	"sort"

	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

type dateKey struct {
	year, month, day int
}

type minuteKey struct {
	hour, minute int
}

type dayGuess struct {
	patterns      []weather.Pattern
	rainbowSeen   bool
	rainbowDouble bool
	minutes       map[minuteKey]bool
	seconds       map[minuteKey][]int
}

// Data records facts per calendar date. The zero value is not usable;
// call New. Data is not safe for concurrent use: populate one day at a
// time, or give each goroutine its own Data.
type Data struct {
	days map[dateKey]*dayGuess
}

// New returns an empty fact set.
func New() *Data {
	return &Data{days: make(map[dateKey]*dayGuess)}
}

func (d *Data) day(year, month, day int) *dayGuess {
	k := dateKey{year, month, day}
	g, ok := d.days[k]
	if !ok {
		g = &dayGuess{
			minutes: make(map[minuteKey]bool),
			seconds: make(map[minuteKey][]int),
		}
		d.days[k] = g
	}
	return g
}

// AddPattern records that pattern is still possible for the date.
// Re-adding a pattern is a no-op.
func (d *Data) AddPattern(year, month, day int, pattern weather.Pattern) {
	g := d.day(year, month, day)
	for _, p := range g.patterns {
		if p == pattern {
			return
		}
	}
	g.patterns = append(g.patterns, pattern)
}

// AddRainbow records a rainbow sighting for the date.
func (d *Data) AddRainbow(year, month, day int, isDouble bool) {
	g := d.day(year, month, day)
	g.rainbowSeen = true
	g.rainbowDouble = isDouble
}

// AddMinute records a minute-level star assertion. It returns false when
// the minute was previously asserted with the opposite value; the earlier
// assertion is kept and nothing is overwritten.
func (d *Data) AddMinute(year, month, day, hour, minute int, hasStar bool) bool {
	g := d.day(year, month, day)
	k := minuteKey{hour, minute}
	if prev, ok := g.minutes[k]; ok {
		return prev == hasStar
	}
	g.minutes[k] = hasStar
	return true
}

// AddSecond records the exact second of one star within a minute.
// Duplicate seconds collapse to a single entry.
func (d *Data) AddSecond(year, month, day, hour, minute, second int) {
	g := d.day(year, month, day)
	k := minuteKey{hour, minute}
	for _, s := range g.seconds[k] {
		if s == second {
			return
		}
	}
	g.seconds[k] = append(g.seconds[k], second)
}

// StarMinute is one minute-level assertion in a fact snapshot. Seconds is
// populated only for minutes asserted to have stars.
type StarMinute struct {
	Hour    int   `json:"hour"`
	Minute  int   `json:"minute"`
	HasStar bool  `json:"has_star"`
	Seconds []int `json:"seconds,omitempty"`
}

// DayFacts is the snapshot of everything recorded for one date.
type DayFacts struct {
	Year          int               `json:"year"`
	Month         int               `json:"month"`
	Day           int               `json:"day"`
	Patterns      []weather.Pattern `json:"-"`
	PatternNames  []string          `json:"patterns"`
	RainbowSeen   bool              `json:"rainbow_seen"`
	RainbowDouble bool              `json:"rainbow_double"`
	Minutes       []StarMinute      `json:"minutes"`
}

// Days returns a snapshot of all recorded facts, ordered by date. Minute
// assertions are ordered by linear hour, so ranges crossing midnight read
// in observation order.
func (d *Data) Days() []DayFacts {
	keys := make([]dateKey, 0, len(d.days))
	for k := range d.days {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.year != b.year {
			return a.year < b.year
		}
		if a.month != b.month {
			return a.month < b.month
		}
		return a.day < b.day
	})

	out := make([]DayFacts, 0, len(keys))
	for _, k := range keys {
		g := d.days[k]
		f := DayFacts{
			Year:          k.year,
			Month:         k.month,
			Day:           k.day,
			RainbowSeen:   g.rainbowSeen,
			RainbowDouble: g.rainbowDouble,
		}
		f.Patterns = make([]weather.Pattern, len(g.patterns))
		copy(f.Patterns, g.patterns)
		sort.Slice(f.Patterns, func(i, j int) bool { return f.Patterns[i] < f.Patterns[j] })
		f.PatternNames = make([]string, len(f.Patterns))
		for i, p := range f.Patterns {
			f.PatternNames[i] = p.String()
		}

		mks := make([]minuteKey, 0, len(g.minutes))
		for mk := range g.minutes {
			mks = append(mks, mk)
		}
		sort.Slice(mks, func(i, j int) bool {
			a, b := mks[i], mks[j]
			la, lb := weather.ToLinearHour(a.hour), weather.ToLinearHour(b.hour)
			if la != lb {
				return la < lb
			}
			return a.minute < b.minute
		})
		f.Minutes = make([]StarMinute, 0, len(mks))
		for _, mk := range mks {
			m := StarMinute{Hour: mk.hour, Minute: mk.minute, HasStar: g.minutes[mk]}
			if secs := g.seconds[mk]; len(secs) > 0 {
				m.Seconds = make([]int, len(secs))
				copy(m.Seconds, secs)
				sort.Ints(m.Seconds)
			}
			f.Minutes = append(f.Minutes, m)
		}

		out = append(out, f)
	}
	return out
}
