package oracle

import (
	"testing"

	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// countingOracle records how many times each call reaches the inner
// oracle. Setting failing simulates a transport failure window: every
// call made while it is set bumps the failure counter the cache watches.
type countingOracle struct {
	calls    map[string]int
	failing  bool
	failures uint64
}

func newCountingOracle() *countingOracle {
	return &countingOracle{calls: make(map[string]int)}
}

func (o *countingOracle) bump(name string) {
	o.calls[name]++
	if o.failing {
		o.failures++
	}
}

func (o *countingOracle) failCount() uint64 { return o.failures }

func (o *countingOracle) GetPattern(weather.Hemisphere, uint32, int, int, int) weather.Pattern {
	o.bump("GetPattern")
	return weather.Cloud00
}

func (o *countingOracle) GetWeather(hour int, pattern weather.Pattern) weather.Weather {
	o.bump("GetWeather")
	if o.failing {
		return weather.Clear
	}
	return weather.Cloudy
}

func (o *countingOracle) GetWindPower(uint32, int, int, int, int, weather.Pattern) int {
	o.bump("GetWindPower")
	return 3
}

func (o *countingOracle) IsSpecialDay(weather.Hemisphere, int, int, int) bool {
	o.bump("IsSpecialDay")
	return false
}

func (o *countingOracle) GetSnowLevel(weather.Hemisphere, int, int) weather.SnowLevel {
	o.bump("GetSnowLevel")
	return weather.SnowLow
}

func (o *countingOracle) GetCloudLevel(weather.Hemisphere, int, int) weather.CloudLevel {
	o.bump("GetCloudLevel")
	return weather.CloudThin
}

func (o *countingOracle) GetFogLevel(weather.Hemisphere, int, int) weather.FogLevel {
	o.bump("GetFogLevel")
	return weather.FogNone
}

func (o *countingOracle) CheckWaterFog(uint32, int, int, int) bool {
	o.bump("CheckWaterFog")
	return false
}

func (o *countingOracle) GetRainbowInfo(weather.Hemisphere, uint32, int, int, int, weather.Pattern) weather.RainbowInfo {
	o.bump("GetRainbowInfo")
	return weather.RainbowInfo{}
}

func (o *countingOracle) IsAuroraPattern(weather.Hemisphere, int, int, weather.Pattern) bool {
	o.bump("IsAuroraPattern")
	return false
}

func (o *countingOracle) IsLightShowerPattern(pattern weather.Pattern) bool {
	o.bump("IsLightShowerPattern")
	return pattern == weather.Fine02
}

func (o *countingOracle) IsHeavyShowerPattern(pattern weather.Pattern) bool {
	o.bump("IsHeavyShowerPattern")
	return pattern == weather.Fine00
}

func (o *countingOracle) IsPatternPossibleAtDate(weather.Hemisphere, int, int, weather.Pattern) bool {
	o.bump("IsPatternPossibleAtDate")
	return true
}

func (o *countingOracle) CanHaveShootingStars(int, weather.Pattern) bool {
	o.bump("CanHaveShootingStars")
	return true
}

func (o *countingOracle) QueryStars(uint32, int, int, int, int, int, weather.Pattern) int {
	o.bump("QueryStars")
	return 1
}

func (o *countingOracle) GetStarSecond(uint32, int, int, int, int, int, weather.Pattern, int) int {
	o.bump("GetStarSecond")
	return 30
}

func (o *countingOracle) GetMonthLength(int, int) int {
	o.bump("GetMonthLength")
	return 31
}

func TestCachedMemoizesHourlyWeather(t *testing.T) {
	inner := newCountingOracle()
	c := NewCached(inner)

	first := c.GetWeather(12, weather.Fine00)
	second := c.GetWeather(12, weather.Fine00)
	if first != second {
		t.Errorf("cached value %v differs from original %v", second, first)
	}
	if inner.calls["GetWeather"] != 1 {
		t.Errorf("inner GetWeather called %d times, expected 1", inner.calls["GetWeather"])
	}

	c.GetWeather(13, weather.Fine00)
	c.GetWeather(12, weather.Fine01)
	if inner.calls["GetWeather"] != 3 {
		t.Errorf("inner GetWeather called %d times for 3 distinct keys, expected 3", inner.calls["GetWeather"])
	}
}

func TestCachedKeysCalendarFeasibilityByHemisphere(t *testing.T) {
	inner := newCountingOracle()
	c := NewCached(inner)

	c.IsPatternPossibleAtDate(weather.Northern, 7, 4, weather.Fine00)
	c.IsPatternPossibleAtDate(weather.Southern, 7, 4, weather.Fine00)
	c.IsPatternPossibleAtDate(weather.Northern, 7, 4, weather.Fine00)

	if got := inner.calls["IsPatternPossibleAtDate"]; got != 2 {
		t.Errorf("inner IsPatternPossibleAtDate called %d times, expected 2", got)
	}
}

func TestCachedPassesThroughSeededCalls(t *testing.T) {
	inner := newCountingOracle()
	c := NewCached(inner)

	c.GetPattern(weather.Northern, 99, 2020, 7, 4)
	c.GetPattern(weather.Northern, 99, 2020, 7, 4)
	if got := inner.calls["GetPattern"]; got != 2 {
		t.Errorf("inner GetPattern called %d times, expected passthrough (2)", got)
	}

	c.QueryStars(99, 2020, 8, 7, 23, 15, weather.Fine02)
	c.QueryStars(99, 2020, 8, 7, 23, 15, weather.Fine02)
	if got := inner.calls["QueryStars"]; got != 2 {
		t.Errorf("inner QueryStars called %d times, expected passthrough (2)", got)
	}
}

func TestCachedDoesNotMemoizeFailedResults(t *testing.T) {
	inner := newCountingOracle()
	c := NewCached(inner)

	inner.failing = true
	if got := c.GetWeather(12, weather.Fine00); got != weather.Clear {
		t.Fatalf("failing GetWeather = %v, expected the failure zero value", got)
	}

	inner.failing = false
	if got := c.GetWeather(12, weather.Fine00); got != weather.Cloudy {
		t.Errorf("GetWeather after recovery = %v, expected Cloudy", got)
	}
	if inner.calls["GetWeather"] != 2 {
		t.Errorf("inner GetWeather called %d times, expected the failed result to be retried", inner.calls["GetWeather"])
	}

	c.GetWeather(12, weather.Fine00)
	if inner.calls["GetWeather"] != 2 {
		t.Errorf("inner GetWeather called %d times after a clean result, expected 2", inner.calls["GetWeather"])
	}
}

// plainOracle hides the failure counter, exercising the cache against
// inner oracles that cannot report transport failures.
type plainOracle struct{ weather.Oracle }

func TestCachedWithoutFailureCounter(t *testing.T) {
	inner := newCountingOracle()
	c := NewCached(plainOracle{inner})

	c.GetMonthLength(2020, 7)
	c.GetMonthLength(2020, 7)
	if got := inner.calls["GetMonthLength"]; got != 1 {
		t.Errorf("inner GetMonthLength called %d times, expected 1", got)
	}
}
