package weather

// Oracle is the deterministic weather simulator. Every method is a pure
// function of its arguments: the same inputs always produce the same
// outputs, so results may be called redundantly or memoized freely.
// Implementations must be safe for concurrent use.
type Oracle interface {
	// GetPattern returns the hidden pattern the simulator selects for a
	// date under the given hemisphere and seed.
	GetPattern(hem Hemisphere, seed uint32, year, month, day int) Pattern

	// GetWeather returns the concrete weather a pattern produces at a
	// clock hour. Hourly weather depends only on the pattern, never on
	// the date.
	GetWeather(hour int, pattern Pattern) Weather

	// GetWindPower returns the wind strength for an hour of a day.
	GetWindPower(seed uint32, year, month, day, hour int, pattern Pattern) int

	// IsSpecialDay reports whether the date is a calendar event day.
	IsSpecialDay(hem Hemisphere, year, month, day int) bool

	GetSnowLevel(hem Hemisphere, month, day int) SnowLevel
	GetCloudLevel(hem Hemisphere, month, day int) CloudLevel
	GetFogLevel(hem Hemisphere, month, day int) FogLevel

	// CheckWaterFog reports whether the seeded water-fog roll passes for
	// the date. Water fog renders only when this passes and the date's
	// fog level is FogWater.
	CheckWaterFog(seed uint32, year, month, day int) bool

	// GetRainbowInfo returns rainbow count and hour for a date/pattern.
	GetRainbowInfo(hem Hemisphere, seed uint32, year, month, day int, pattern Pattern) RainbowInfo

	// IsAuroraPattern reports whether the pattern shows an aurora on the
	// date.
	IsAuroraPattern(hem Hemisphere, month, day int, pattern Pattern) bool

	// IsLightShowerPattern and IsHeavyShowerPattern classify meteor
	// shower patterns. They are mutually exclusive; most patterns are
	// neither.
	IsLightShowerPattern(pattern Pattern) bool
	IsHeavyShowerPattern(pattern Pattern) bool

	// IsPatternPossibleAtDate is the calendar feasibility gate: whether
	// the simulator could select the pattern at all on that date.
	IsPatternPossibleAtDate(hem Hemisphere, month, day int, pattern Pattern) bool

	// CanHaveShootingStars reports whether the pattern permits shooting
	// stars during the given clock hour.
	CanHaveShootingStars(hour int, pattern Pattern) bool

	// QueryStars returns how many shooting stars spawn in the given
	// minute, zero if none.
	QueryStars(seed uint32, year, month, day, hour, minute int, pattern Pattern) int

	// GetStarSecond returns the second-of-minute of the index-th star
	// spawned in the given minute.
	GetStarSecond(seed uint32, year, month, day, hour, minute int, pattern Pattern, index int) int

	// GetMonthLength returns the number of days in a month.
	GetMonthLength(year, month int) int
}
