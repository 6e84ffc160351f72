// Package weather defines the shared vocabulary of the forecast system:
// the hidden per-day pattern ordinals, concrete and ambiguous hourly
// weather categories, day classifications, and the deterministic oracle
// contract every other layer consumes.
package weather

// Weather is the concrete per-hour weather category reported by the
// simulator.
type Weather int

const (
	Clear Weather = iota
	Sunny
	Cloudy
	RainClouds
	Rain
	HeavyRain
)

var weatherNames = [...]string{
	Clear:      "Clear",
	Sunny:      "Sunny",
	Cloudy:     "Cloudy",
	RainClouds: "RainClouds",
	Rain:       "Rain",
	HeavyRain:  "HeavyRain",
}

func (w Weather) String() string {
	if w < Clear || w > HeavyRain {
		return "Unknown"
	}
	return weatherNames[w]
}

// Valid reports whether w is one of the defined weather categories.
func (w Weather) Valid() bool {
	return w >= Clear && w <= HeavyRain
}

// Matches makes a concrete Weather usable as an Expectation: it matches
// only itself.
func (w Weather) Matches(actual Weather) bool {
	return w == actual
}

// AmbiguousWeather is a closed OR-group over Weather, used when an
// observer could not tell two adjacent categories apart.
type AmbiguousWeather int

const (
	ClearOrSunny AmbiguousWeather = iota
	SunnyOrCloudy
	CloudyOrRainClouds
	NoRain
	RainOrHeavyRain
)

var ambiguousNames = [...]string{
	ClearOrSunny:       "ClearOrSunny",
	SunnyOrCloudy:      "SunnyOrCloudy",
	CloudyOrRainClouds: "CloudyOrRainClouds",
	NoRain:             "NoRain",
	RainOrHeavyRain:    "RainOrHeavyRain",
}

func (a AmbiguousWeather) String() string {
	if a < ClearOrSunny || a > RainOrHeavyRain {
		return "Unknown"
	}
	return ambiguousNames[a]
}

// Valid reports whether a is one of the defined OR-groups.
func (a AmbiguousWeather) Valid() bool {
	return a >= ClearOrSunny && a <= RainOrHeavyRain
}

// Matches reports whether actual is a member of the OR-group.
func (a AmbiguousWeather) Matches(actual Weather) bool {
	switch a {
	case ClearOrSunny:
		return actual == Clear || actual == Sunny
	case SunnyOrCloudy:
		return actual == Sunny || actual == Cloudy
	case CloudyOrRainClouds:
		return actual == Cloudy || actual == RainClouds
	case NoRain:
		return actual != Rain && actual != HeavyRain
	case RainOrHeavyRain:
		return actual == Rain || actual == HeavyRain
	}
	return false
}

// Expectation is one hourly weather assertion: either a concrete Weather
// or an AmbiguousWeather OR-group. Every entry recorded for a day must
// hold for a pattern to survive inference.
type Expectation interface {
	Matches(actual Weather) bool
	String() string
}
