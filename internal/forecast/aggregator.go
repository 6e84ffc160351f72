package forecast

import (
	"fmt"
	"sync"
	"time"

	"github.com/Zemnmez/MeteoNook/internal/log"
	"github.com/Zemnmez/MeteoNook/internal/metrics"
	"github.com/Zemnmez/MeteoNook/internal/types"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// errSource is implemented by oracle adapters that accumulate transport
// errors out of band (the Oracle contract itself never returns one).
type errSource interface {
	Err() error
}

type yearKey struct {
	hem  weather.Hemisphere
	seed uint32
	year int
}

// Aggregator builds forecast records from the oracle and caches the most
// recently requested year. A request under any other hemisphere, seed, or
// year key discards the cache and rebuilds the whole year synchronously;
// the mutex single-flights concurrent rebuilds. Safe for concurrent use.
type Aggregator struct {
	oracle weather.Oracle
	errs   errSource

	mu     sync.Mutex
	key    yearKey
	cached *Year

	distributor chan<- Day
}

// New returns an Aggregator reading from o. If o reports transport errors
// through an Err method, failed rebuilds are detected and never cached.
func New(o weather.Oracle) *Aggregator {
	a := &Aggregator{oracle: o}
	if es, ok := o.(errSource); ok {
		a.errs = es
	}
	return a
}

// SendTo registers a channel that receives every day of every freshly
// rebuilt year, for persistence fan-out. Pass the storage manager's
// distributor before serving traffic; sends block when the channel is
// full.
func (a *Aggregator) SendTo(ch chan<- Day) {
	a.mu.Lock()
	a.distributor = ch
	a.mu.Unlock()
}

// YearForecast returns the cached year for the key, rebuilding it first
// if the key changed. The returned value is shared with the cache and
// must be treated as read-only.
func (a *Aggregator) YearForecast(hem weather.Hemisphere, seed uint32, year int) (*Year, error) {
	k := yearKey{hem: hem, seed: seed, year: year}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cached != nil && a.key == k {
		return a.cached, nil
	}

	log.Debugf("rebuilding forecast year %d (hemisphere %v, seed %d)", year, hem, seed)
	start := time.Now()
	y, err := a.buildYear(k)
	if err != nil {
		return nil, err
	}
	metrics.RecordForecastRebuild(time.Since(start).Seconds())

	a.key = k
	a.cached = y

	if a.distributor != nil {
		for m := range y.Months {
			for i := range y.Months[m].Days {
				a.distributor <- y.Months[m].Days[i]
			}
		}
	}
	return y, nil
}

// MonthForecast returns one month out of the cached year, rebuilding the
// year if needed.
func (a *Aggregator) MonthForecast(hem weather.Hemisphere, seed uint32, year, month int) (Month, error) {
	if month < 1 || month > 12 {
		return Month{}, fmt.Errorf("month %d out of range", month)
	}
	y, err := a.YearForecast(hem, seed, year)
	if err != nil {
		return Month{}, err
	}
	return y.Months[month-1], nil
}

func (a *Aggregator) buildYear(k yearKey) (*Year, error) {
	if a.errs != nil {
		a.errs.Err() // drop anything latched before this rebuild
	}
	y := &Year{
		Hemisphere:     k.hem,
		HemisphereName: k.hem.String(),
		Seed:           k.seed,
		Year:           k.year,
	}
	for month := 1; month <= 12; month++ {
		length := a.oracle.GetMonthLength(k.year, month)
		m := Month{
			Year:  k.year,
			Month: month,
			Days:  make([]Day, 0, length),
		}
		for day := 1; day <= length; day++ {
			m.Days = append(m.Days, a.buildDay(k, month, day))
		}
		m.summarize()
		y.Months[month-1] = m
	}
	if a.errs != nil {
		if err := a.errs.Err(); err != nil {
			return nil, fmt.Errorf("forecast rebuild for %d: %w", k.year, err)
		}
	}
	return y, nil
}

func (a *Aggregator) buildDay(k yearKey, month, day int) Day {
	o := a.oracle
	pattern := o.GetPattern(k.hem, k.seed, k.year, month, day)

	d := Day{
		Hemisphere:  k.hem,
		Seed:        k.seed,
		Date:        types.Date{Year: k.year, Month: month, Day: day},
		Pattern:     pattern,
		PatternName: pattern.String(),
		SpecialDay:  o.IsSpecialDay(k.hem, k.year, month, day),
		Aurora:      o.IsAuroraPattern(k.hem, month, day, pattern),
		LightShower: o.IsLightShowerPattern(pattern),
		HeavyShower: o.IsHeavyShowerPattern(pattern),
	}

	d.SnowLevel = o.GetSnowLevel(k.hem, month, day)
	d.SnowLevelName = d.SnowLevel.String()
	d.CloudLevel = o.GetCloudLevel(k.hem, month, day)
	d.CloudLevelName = d.CloudLevel.String()
	d.FogLevel = o.GetFogLevel(k.hem, month, day)
	d.FogLevelName = d.FogLevel.String()
	d.WaterFog = d.FogLevel == weather.FogWater && o.CheckWaterFog(k.seed, k.year, month, day)

	info := o.GetRainbowInfo(k.hem, k.seed, k.year, month, day, pattern)
	d.RainbowCount = info.Count
	d.RainbowHour = info.Hour

	for lh := 0; lh < 24; lh++ {
		hour := weather.FromLinearHour(lh)
		w := o.GetWeather(hour, pattern)
		d.Hours[lh] = HourForecast{
			Hour:        hour,
			Weather:     w,
			WeatherName: w.String(),
			WindPower:   o.GetWindPower(k.seed, k.year, month, day, hour, pattern),
		}
	}

	// Star scan walks the linear day so events come out in display order.
	for lh := 0; lh < 24; lh++ {
		hour := weather.FromLinearHour(lh)
		if !o.CanHaveShootingStars(hour, pattern) {
			continue
		}
		for minute := 0; minute < 60; minute++ {
			n := o.QueryStars(k.seed, k.year, month, day, hour, minute, pattern)
			if n <= 0 {
				continue
			}
			ev := StarEvent{Hour: hour, Minute: minute, Seconds: make([]int, 0, n)}
			for i := 0; i < n; i++ {
				ev.Seconds = append(ev.Seconds, o.GetStarSecond(k.seed, k.year, month, day, hour, minute, pattern, i))
			}
			d.Stars = append(d.Stars, ev)
		}
	}

	return d
}
