package oracle

import (
	"sync"

	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// failCounter lets the cache detect results produced during a transport
// failure, so zero values from failed calls are never memoized.
type failCounter interface {
	failCount() uint64
}

type hourPatternKey struct {
	hour    int
	pattern weather.Pattern
}

type calendarKey struct {
	hem     weather.Hemisphere
	month   int
	day     int
	pattern weather.Pattern
}

type monthDayKey struct {
	hem   weather.Hemisphere
	month int
	day   int
}

type yearMonthKey struct {
	year  int
	month int
}

// Cached memoizes the oracle calls whose key spaces are small and date
// seasonality bounded: hourly weather, shower and aurora classification,
// star capability, calendar feasibility, decorative levels, and month
// lengths. Seeded queries pass through uncached. Every oracle method is
// pure, so entries never expire. Cached is safe for concurrent use.
type Cached struct {
	weather.Oracle

	fails failCounter

	mu           sync.RWMutex
	hourWeather  map[hourPatternKey]weather.Weather
	lightShower  map[weather.Pattern]bool
	heavyShower  map[weather.Pattern]bool
	starsAllowed map[hourPatternKey]bool
	feasible     map[calendarKey]bool
	aurora       map[calendarKey]bool
	snow         map[monthDayKey]weather.SnowLevel
	cloud        map[monthDayKey]weather.CloudLevel
	fog          map[monthDayKey]weather.FogLevel
	monthLength  map[yearMonthKey]int
}

// NewCached wraps inner with memoization.
func NewCached(inner weather.Oracle) *Cached {
	c := &Cached{
		Oracle:       inner,
		hourWeather:  make(map[hourPatternKey]weather.Weather),
		lightShower:  make(map[weather.Pattern]bool),
		heavyShower:  make(map[weather.Pattern]bool),
		starsAllowed: make(map[hourPatternKey]bool),
		feasible:     make(map[calendarKey]bool),
		aurora:       make(map[calendarKey]bool),
		snow:         make(map[monthDayKey]weather.SnowLevel),
		cloud:        make(map[monthDayKey]weather.CloudLevel),
		fog:          make(map[monthDayKey]weather.FogLevel),
		monthLength:  make(map[yearMonthKey]int),
	}
	if fc, ok := inner.(failCounter); ok {
		c.fails = fc
	}
	return c
}

func (c *Cached) failSnapshot() uint64 {
	if c.fails == nil {
		return 0
	}
	return c.fails.failCount()
}

// Err surfaces the inner oracle's latched transport error when the inner
// oracle exposes one. Reading it clears the latch, as on Client.
func (c *Cached) Err() error {
	if e, ok := c.Oracle.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}

func (c *Cached) GetWeather(hour int, pattern weather.Pattern) weather.Weather {
	k := hourPatternKey{hour, pattern}
	c.mu.RLock()
	v, ok := c.hourWeather[k]
	c.mu.RUnlock()
	if ok {
		return v
	}

	before := c.failSnapshot()
	v = c.Oracle.GetWeather(hour, pattern)
	if c.failSnapshot() == before {
		c.mu.Lock()
		c.hourWeather[k] = v
		c.mu.Unlock()
	}
	return v
}

func (c *Cached) IsLightShowerPattern(pattern weather.Pattern) bool {
	c.mu.RLock()
	v, ok := c.lightShower[pattern]
	c.mu.RUnlock()
	if ok {
		return v
	}

	before := c.failSnapshot()
	v = c.Oracle.IsLightShowerPattern(pattern)
	if c.failSnapshot() == before {
		c.mu.Lock()
		c.lightShower[pattern] = v
		c.mu.Unlock()
	}
	return v
}

func (c *Cached) IsHeavyShowerPattern(pattern weather.Pattern) bool {
	c.mu.RLock()
	v, ok := c.heavyShower[pattern]
	c.mu.RUnlock()
	if ok {
		return v
	}

	before := c.failSnapshot()
	v = c.Oracle.IsHeavyShowerPattern(pattern)
	if c.failSnapshot() == before {
		c.mu.Lock()
		c.heavyShower[pattern] = v
		c.mu.Unlock()
	}
	return v
}

func (c *Cached) CanHaveShootingStars(hour int, pattern weather.Pattern) bool {
	k := hourPatternKey{hour, pattern}
	c.mu.RLock()
	v, ok := c.starsAllowed[k]
	c.mu.RUnlock()
	if ok {
		return v
	}

	before := c.failSnapshot()
	v = c.Oracle.CanHaveShootingStars(hour, pattern)
	if c.failSnapshot() == before {
		c.mu.Lock()
		c.starsAllowed[k] = v
		c.mu.Unlock()
	}
	return v
}

func (c *Cached) IsPatternPossibleAtDate(hem weather.Hemisphere, month, day int, pattern weather.Pattern) bool {
	k := calendarKey{hem, month, day, pattern}
	c.mu.RLock()
	v, ok := c.feasible[k]
	c.mu.RUnlock()
	if ok {
		return v
	}

	before := c.failSnapshot()
	v = c.Oracle.IsPatternPossibleAtDate(hem, month, day, pattern)
	if c.failSnapshot() == before {
		c.mu.Lock()
		c.feasible[k] = v
		c.mu.Unlock()
	}
	return v
}

func (c *Cached) IsAuroraPattern(hem weather.Hemisphere, month, day int, pattern weather.Pattern) bool {
	k := calendarKey{hem, month, day, pattern}
	c.mu.RLock()
	v, ok := c.aurora[k]
	c.mu.RUnlock()
	if ok {
		return v
	}

	before := c.failSnapshot()
	v = c.Oracle.IsAuroraPattern(hem, month, day, pattern)
	if c.failSnapshot() == before {
		c.mu.Lock()
		c.aurora[k] = v
		c.mu.Unlock()
	}
	return v
}

func (c *Cached) GetSnowLevel(hem weather.Hemisphere, month, day int) weather.SnowLevel {
	k := monthDayKey{hem, month, day}
	c.mu.RLock()
	v, ok := c.snow[k]
	c.mu.RUnlock()
	if ok {
		return v
	}

	before := c.failSnapshot()
	v = c.Oracle.GetSnowLevel(hem, month, day)
	if c.failSnapshot() == before {
		c.mu.Lock()
		c.snow[k] = v
		c.mu.Unlock()
	}
	return v
}

func (c *Cached) GetCloudLevel(hem weather.Hemisphere, month, day int) weather.CloudLevel {
	k := monthDayKey{hem, month, day}
	c.mu.RLock()
	v, ok := c.cloud[k]
	c.mu.RUnlock()
	if ok {
		return v
	}

	before := c.failSnapshot()
	v = c.Oracle.GetCloudLevel(hem, month, day)
	if c.failSnapshot() == before {
		c.mu.Lock()
		c.cloud[k] = v
		c.mu.Unlock()
	}
	return v
}

func (c *Cached) GetFogLevel(hem weather.Hemisphere, month, day int) weather.FogLevel {
	k := monthDayKey{hem, month, day}
	c.mu.RLock()
	v, ok := c.fog[k]
	c.mu.RUnlock()
	if ok {
		return v
	}

	before := c.failSnapshot()
	v = c.Oracle.GetFogLevel(hem, month, day)
	if c.failSnapshot() == before {
		c.mu.Lock()
		c.fog[k] = v
		c.mu.Unlock()
	}
	return v
}

func (c *Cached) GetMonthLength(year, month int) int {
	k := yearMonthKey{year, month}
	c.mu.RLock()
	v, ok := c.monthLength[k]
	c.mu.RUnlock()
	if ok {
		return v
	}

	before := c.failSnapshot()
	v = c.Oracle.GetMonthLength(year, month)
	if c.failSnapshot() == before {
		c.mu.Lock()
		c.monthLength[k] = v
		c.mu.Unlock()
	}
	return v
}
