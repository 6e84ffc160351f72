// Package forecast renders the simulator's output over calendar spans:
// one fully-expanded record per day, month summaries, and a cached year
// view. It only reads from the oracle; nothing here feeds back into
// pattern inference.
package forecast

import (
	"github.com/Zemnmez/MeteoNook/internal/types"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// HourForecast is one hour of a day's weather, in linear-day order
// (5:00 through 4:00 the next calendar morning). Hour is the clock hour.
type HourForecast struct {
	Hour        int             `json:"hour"`
	Weather     weather.Weather `json:"-"`
	WeatherName string          `json:"weather"`
	WindPower   int             `json:"windPower"`
}

// StarEvent is one minute in which shooting stars spawn, with the
// second-of-minute of every star in it.
type StarEvent struct {
	Hour    int   `json:"hour"`
	Minute  int   `json:"minute"`
	Seconds []int `json:"seconds"`
}

// Day is the complete forecast for one calendar day under a fixed
// hemisphere and seed. Hours are ordered by linear position, so index 0
// is 5:00 and index 23 is 4:00 the following morning.
type Day struct {
	Hemisphere weather.Hemisphere `json:"-"`
	Seed       uint32             `json:"-"`
	Date       types.Date         `json:"date"`

	Pattern     weather.Pattern `json:"-"`
	PatternName string          `json:"pattern"`

	SpecialDay bool `json:"specialDay"`

	SnowLevel      weather.SnowLevel  `json:"-"`
	SnowLevelName  string             `json:"snowLevel"`
	CloudLevel     weather.CloudLevel `json:"-"`
	CloudLevelName string             `json:"cloudLevel"`
	FogLevel       weather.FogLevel   `json:"-"`
	FogLevelName   string             `json:"fogLevel"`
	WaterFog       bool               `json:"waterFog"`

	Aurora      bool `json:"aurora"`
	LightShower bool `json:"lightShower"`
	HeavyShower bool `json:"heavyShower"`

	RainbowCount int `json:"rainbowCount"`
	RainbowHour  int `json:"rainbowHour,omitempty"`

	Hours [24]HourForecast `json:"hours"`
	Stars []StarEvent      `json:"stars,omitempty"`
}

// Month is the day-by-day forecast for one calendar month plus event
// counts over it.
type Month struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Days  []Day `json:"days"`

	AuroraDays        int `json:"auroraDays"`
	SingleRainbowDays int `json:"singleRainbowDays"`
	DoubleRainbowDays int `json:"doubleRainbowDays"`
	LightShowerDays   int `json:"lightShowerDays"`
	HeavyShowerDays   int `json:"heavyShowerDays"`
}

// Year is twelve month forecasts under one hemisphere/seed/year key.
type Year struct {
	Hemisphere     weather.Hemisphere `json:"-"`
	HemisphereName string             `json:"hemisphere"`
	Seed           uint32             `json:"seed"`
	Year           int                `json:"year"`
	Months         [12]Month          `json:"months"`
}

func (m *Month) summarize() {
	m.AuroraDays = 0
	m.SingleRainbowDays = 0
	m.DoubleRainbowDays = 0
	m.LightShowerDays = 0
	m.HeavyShowerDays = 0
	for i := range m.Days {
		d := &m.Days[i]
		if d.Aurora {
			m.AuroraDays++
		}
		switch d.RainbowCount {
		case 1:
			m.SingleRainbowDays++
		case 2:
			m.DoubleRainbowDays++
		}
		if d.LightShower {
			m.LightShowerDays++
		}
		if d.HeavyShower {
			m.HeavyShowerDays++
		}
	}
}
