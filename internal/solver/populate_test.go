package solver

import (
	"errors"
	"testing"

	"github.com/Zemnmez/MeteoNook/internal/types"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

type minuteCall struct {
	hour, minute int
	hasStar      bool
}

// recordingAccumulator logs successful writes and mirrors the real
// accumulator's conflict rule: a minute rejects an assertion opposite to
// the one it already holds.
type recordingAccumulator struct {
	patterns []weather.Pattern
	rainbows []bool
	minutes  []minuteCall
	seconds  [][3]int
	state    map[[2]int]bool
}

func newRecordingAccumulator() *recordingAccumulator {
	return &recordingAccumulator{state: make(map[[2]int]bool)}
}

func (r *recordingAccumulator) AddPattern(year, month, day int, p weather.Pattern) {
	r.patterns = append(r.patterns, p)
}

func (r *recordingAccumulator) AddRainbow(year, month, day int, isDouble bool) {
	r.rainbows = append(r.rainbows, isDouble)
}

func (r *recordingAccumulator) AddMinute(year, month, day, hour, minute int, hasStar bool) bool {
	k := [2]int{hour, minute}
	if prev, ok := r.state[k]; ok && prev != hasStar {
		return false
	}
	r.state[k] = hasStar
	r.minutes = append(r.minutes, minuteCall{hour, minute, hasStar})
	return true
}

func (r *recordingAccumulator) AddSecond(year, month, day, hour, minute, second int) {
	r.seconds = append(r.seconds, [3]int{hour, minute, second})
}

func (r *recordingAccumulator) writes() int {
	return len(r.patterns) + len(r.rainbows) + len(r.minutes) + len(r.seconds)
}

func TestPopulateNoPatternsWritesNothing(t *testing.T) {
	// Everything is sunny, so asserting rain eliminates every pattern.
	oracle := &fakeOracle{
		weatherFn: func(hour int, p weather.Pattern) weather.Weather {
			return weather.Sunny
		},
	}
	engine := New(oracle)
	acc := newRecordingAccumulator()

	obs := obsOn(weather.DayNoData)
	obs.Types = []types.WeatherAssertion{
		{Hour: 9, Expect: weather.Sunny},
		{Hour: 9, Expect: weather.Rain},
	}

	err := engine.Populate(weather.Northern, acc, obs)
	if !errors.Is(err, ErrNoPatterns) {
		t.Fatalf("Populate error = %v, expected ErrNoPatterns", err)
	}
	if n := acc.writes(); n != 0 {
		t.Errorf("accumulator received %d writes, expected 0", n)
	}
}

func TestPopulateRegistersPatternsInOrdinalOrder(t *testing.T) {
	engine := New(&fakeOracle{})
	acc := newRecordingAccumulator()

	obs := obsOn(weather.DayShower)
	obs.ShowerType = weather.ShowerNotSure

	if err := engine.Populate(weather.Northern, acc, obs); err != nil {
		t.Fatalf("Populate error: %v", err)
	}

	want := []weather.Pattern{weather.Fine00, weather.Fine02, weather.Fine04, weather.Fine06}
	if !patternsEqual(acc.patterns, want) {
		t.Errorf("patterns = %v, expected %v", acc.patterns, want)
	}
	if len(acc.rainbows) != 0 {
		t.Errorf("rainbow registered on a shower day")
	}
}

func TestPopulateRainbow(t *testing.T) {
	engine := New(&fakeOracle{})
	acc := newRecordingAccumulator()

	obs := obsOn(weather.DayRainbow)
	obs.RainbowTime = 15
	obs.RainbowDouble = true

	if err := engine.Populate(weather.Northern, acc, obs); err != nil {
		t.Fatalf("Populate error: %v", err)
	}
	if !patternsEqual(acc.patterns, []weather.Pattern{weather.FineRain01}) {
		t.Errorf("patterns = %v, expected [FineRain01]", acc.patterns)
	}
	if len(acc.rainbows) != 1 || !acc.rainbows[0] {
		t.Errorf("rainbows = %v, expected one double-rainbow registration", acc.rainbows)
	}
	if len(acc.minutes) != 0 {
		t.Errorf("minute writes on a rainbow day: %v", acc.minutes)
	}
}

func TestPopulateStarSightings(t *testing.T) {
	engine := New(&fakeOracle{})
	acc := newRecordingAccumulator()

	obs := obsOn(weather.DayShower)
	obs.ShowerType = weather.ShowerLight
	obs.Stars = []types.StarSighting{
		{Hour: 23, Minute: 10, Seconds: []int{30, types.SecondUnknown, 12}},
	}

	if err := engine.Populate(weather.Northern, acc, obs); err != nil {
		t.Fatalf("Populate error: %v", err)
	}

	if len(acc.minutes) != 1 {
		t.Fatalf("minutes = %v, expected one write", acc.minutes)
	}
	if got := acc.minutes[0]; got != (minuteCall{23, 10, true}) {
		t.Errorf("minute write = %+v, expected {23 10 true}", got)
	}

	// The sentinel second must be skipped.
	want := [][3]int{{23, 10, 30}, {23, 10, 12}}
	if len(acc.seconds) != len(want) {
		t.Fatalf("seconds = %v, expected %v", acc.seconds, want)
	}
	for i := range want {
		if acc.seconds[i] != want[i] {
			t.Errorf("seconds[%d] = %v, expected %v", i, acc.seconds[i], want[i])
		}
	}
}

func TestPopulateGapWalksEveryMinuteInLinearOrder(t *testing.T) {
	engine := New(&fakeOracle{})
	acc := newRecordingAccumulator()

	obs := obsOn(weather.DayShower)
	obs.ShowerType = weather.ShowerLight
	obs.Gaps = []types.StarGap{
		{StartHour: 22, StartMinute: 0, EndHour: 2, EndMinute: 30},
	}

	if err := engine.Populate(weather.Northern, acc, obs); err != nil {
		t.Fatalf("Populate error: %v", err)
	}

	// 22:00-22:59, 23:00-23:59, 00:00-00:59, 01:00-01:59, 02:00-02:30.
	const wantMinutes = 60*4 + 31
	if len(acc.minutes) != wantMinutes {
		t.Fatalf("gap registered %d minutes, expected %d", len(acc.minutes), wantMinutes)
	}

	first, last := acc.minutes[0], acc.minutes[len(acc.minutes)-1]
	if first != (minuteCall{22, 0, false}) {
		t.Errorf("first write = %+v, expected {22 0 false}", first)
	}
	if last != (minuteCall{2, 30, false}) {
		t.Errorf("last write = %+v, expected {2 30 false}", last)
	}

	// Strictly ascending in linear time, crossing midnight exactly once.
	crossings := 0
	for i := 1; i < len(acc.minutes); i++ {
		prev, cur := acc.minutes[i-1], acc.minutes[i]
		prevPos := weather.ToLinearHour(prev.hour)*60 + prev.minute
		curPos := weather.ToLinearHour(cur.hour)*60 + cur.minute
		if curPos != prevPos+1 {
			t.Fatalf("write %d: %02d:%02d does not follow %02d:%02d in linear order",
				i, cur.hour, cur.minute, prev.hour, prev.minute)
		}
		if prev.hour == 23 && cur.hour == 0 {
			crossings++
		}
	}
	if crossings != 1 {
		t.Errorf("gap crossed midnight %d times, expected exactly once", crossings)
	}

	for _, m := range acc.minutes {
		if m.hasStar {
			t.Fatalf("gap registered %02d:%02d as having a star", m.hour, m.minute)
		}
	}
}

func TestPopulateStarConflict(t *testing.T) {
	engine := New(&fakeOracle{})
	acc := newRecordingAccumulator()

	obs := obsOn(weather.DayShower)
	obs.ShowerType = weather.ShowerLight
	obs.Stars = []types.StarSighting{{Hour: 23, Minute: 10, Seconds: []int{types.SecondUnknown}}}
	obs.Gaps = []types.StarGap{{StartHour: 22, StartMinute: 0, EndHour: 23, EndMinute: 30}}

	err := engine.Populate(weather.Northern, acc, obs)

	var conflict *StarConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Populate error = %v, expected StarConflictError", err)
	}
	if conflict.Hour != 23 || conflict.Minute != 10 {
		t.Fatalf("conflict at %02d:%02d, expected 23:10", conflict.Hour, conflict.Minute)
	}

	// Writes stop at the conflict: the star itself plus gap minutes
	// 22:00 through 23:09, nothing at or after 23:10.
	wantNoStar := 60 + 10
	noStar := 0
	for _, m := range acc.minutes {
		if m.hasStar {
			continue
		}
		noStar++
		pos := weather.ToLinearHour(m.hour)*60 + m.minute
		conflictPos := weather.ToLinearHour(23)*60 + 10
		if pos >= conflictPos {
			t.Errorf("no-star write at %02d:%02d is at or after the conflict point", m.hour, m.minute)
		}
	}
	if noStar != wantNoStar {
		t.Errorf("gap registered %d no-star minutes before conflict, expected %d", noStar, wantNoStar)
	}

	// Partial effect: patterns and the sighting itself stay committed.
	if len(acc.patterns) == 0 {
		t.Error("patterns were not registered before the conflict")
	}
	if acc.minutes[0] != (minuteCall{23, 10, true}) {
		t.Errorf("first write = %+v, expected the star sighting", acc.minutes[0])
	}
}

func TestPopulateSingleMinuteGap(t *testing.T) {
	engine := New(&fakeOracle{})
	acc := newRecordingAccumulator()

	obs := obsOn(weather.DayShower)
	obs.ShowerType = weather.ShowerNotSure
	obs.Gaps = []types.StarGap{{StartHour: 23, StartMinute: 15, EndHour: 23, EndMinute: 15}}

	if err := engine.Populate(weather.Northern, acc, obs); err != nil {
		t.Fatalf("Populate error: %v", err)
	}
	if len(acc.minutes) != 1 || acc.minutes[0] != (minuteCall{23, 15, false}) {
		t.Errorf("minutes = %v, expected a single no-star write at 23:15", acc.minutes)
	}
}

func TestPopulateNonShowerIgnoresStarEvidence(t *testing.T) {
	engine := New(&fakeOracle{})
	acc := newRecordingAccumulator()

	// Star and gap evidence left over from a reclassified day must not
	// produce minute writes.
	obs := obsOn(weather.DayNone)
	obs.Stars = []types.StarSighting{{Hour: 23, Minute: 10}}
	obs.Gaps = []types.StarGap{{StartHour: 22, StartMinute: 0, EndHour: 23, EndMinute: 0}}

	if err := engine.Populate(weather.Northern, acc, obs); err != nil {
		t.Fatalf("Populate error: %v", err)
	}
	if len(acc.minutes) != 0 || len(acc.seconds) != 0 {
		t.Errorf("star evidence processed on a non-shower day: minutes=%v seconds=%v", acc.minutes, acc.seconds)
	}
}
