package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Zemnmez/MeteoNook/internal/forecast"
	"github.com/Zemnmez/MeteoNook/internal/oracle"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

func main() {
	var (
		endpoint   = flag.String("endpoint", "http://127.0.0.1:9600", "Oracle HTTP endpoint")
		hemisphere = flag.String("hemisphere", "northern", "Island hemisphere (northern or southern)")
		seed       = flag.Uint("seed", 0, "Island weather seed")
		year       = flag.Int("year", time.Now().Year(), "Calendar year to dump")
		month      = flag.Int("month", 0, "Calendar month to dump (0 = whole year)")
		patternStr = flag.String("pattern", "", "Only print days with this pattern (e.g. FineRain00)")
		timeout    = flag.Duration("timeout", 5*time.Second, "Oracle request timeout")
	)
	flag.Parse()

	hem, err := weather.ParseHemisphere(*hemisphere)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var filter weather.Pattern
	filterSet := false
	if *patternStr != "" {
		filter, err = weather.ParsePattern(*patternStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filterSet = true
	}

	if *month < 0 || *month > 12 {
		fmt.Fprintf(os.Stderr, "Error: month %d out of range\n", *month)
		os.Exit(1)
	}

	client := oracle.NewClient(*endpoint, *timeout)
	forecasts := forecast.New(oracle.NewCached(client))

	if *month != 0 {
		m, err := forecasts.MonthForecast(hem, uint32(*seed), *year, *month)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building forecast: %v\n", err)
			os.Exit(1)
		}
		printMonth(&m, filter, filterSet)
		return
	}

	fc, err := forecasts.YearForecast(hem, uint32(*seed), *year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building forecast: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Forecast for %d (%s, seed %d)\n", fc.Year, fc.HemisphereName, fc.Seed)
	for i := range fc.Months {
		fmt.Println()
		printMonth(&fc.Months[i], filter, filterSet)
	}
}

func printMonth(m *forecast.Month, filter weather.Pattern, filterSet bool) {
	fmt.Printf("%d-%02d\n", m.Year, m.Month)
	fmt.Printf("  %-12s %-14s %-8s %-9s %-8s %s\n", "DATE", "PATTERN", "SNOW", "CLOUD", "FOG", "EVENTS")

	printed := 0
	for i := range m.Days {
		d := &m.Days[i]
		if filterSet && d.Pattern != filter {
			continue
		}
		fmt.Printf("  %-12s %-14s %-8s %-9s %-8s %s\n",
			d.Date, d.PatternName, d.SnowLevelName, d.CloudLevelName, d.FogLevelName, describeEvents(d))
		printed++
	}

	if printed == 0 {
		fmt.Printf("  (no matching days)\n")
		return
	}

	fmt.Printf("  %d aurora, %d single rainbow, %d double rainbow, %d light shower, %d heavy shower\n",
		m.AuroraDays, m.SingleRainbowDays, m.DoubleRainbowDays, m.LightShowerDays, m.HeavyShowerDays)
}

func describeEvents(d *forecast.Day) string {
	var events []string

	if d.SpecialDay {
		events = append(events, "special day")
	}
	if d.Aurora {
		events = append(events, "aurora")
	}
	if d.LightShower {
		events = append(events, "light shower")
	}
	if d.HeavyShower {
		events = append(events, "heavy shower")
	}
	switch d.RainbowCount {
	case 1:
		events = append(events, fmt.Sprintf("rainbow at %d:00", d.RainbowHour))
	case 2:
		events = append(events, fmt.Sprintf("double rainbow at %d:00", d.RainbowHour))
	}
	if d.WaterFog {
		events = append(events, "water fog")
	}
	if stars := countStars(d); stars > 0 {
		events = append(events, fmt.Sprintf("%d stars", stars))
	}

	if len(events) == 0 {
		return "-"
	}
	return strings.Join(events, ", ")
}

func countStars(d *forecast.Day) int {
	total := 0
	for _, s := range d.Stars {
		total += len(s.Seconds)
	}
	return total
}
