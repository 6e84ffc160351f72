package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/Zemnmez/MeteoNook/internal/capture"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// A fake capture agent: dials a capture listener and replays one day of
// observation events as line-delimited JSON, the way a real screen
// watcher would report them.

var weatherChoices = []string{"Clear", "Sunny", "Cloudy", "RainClouds", "Rain", "HeavyRain", "NoRain", "SunnyOrCloudy"}

func main() {
	var (
		addr     = flag.String("addr", "127.0.0.1:9120", "Capture listener address")
		dateStr  = flag.String("date", time.Now().Format("2006-01-02"), "Observation date (YYYY-MM-DD)")
		dayType  = flag.String("day-type", "None", "Day classification to report (NoData, None, Shower, Rainbow, Aurora)")
		interval = flag.Duration("interval", 500*time.Millisecond, "Delay between events")
		hours    = flag.Int("hours", 6, "Number of hourly weather events to send")
		randSeed = flag.Int64("rand-seed", 0, "Random source seed (0 = time-based)")
	)
	flag.Parse()

	if _, err := time.Parse("2006-01-02", *dateStr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid date %q: %v\n", *dateStr, err)
		os.Exit(1)
	}
	if _, err := weather.ParseDayType(*dayType); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *hours < 0 || *hours > 24 {
		fmt.Fprintf(os.Stderr, "Error: hours %d out of range\n", *hours)
		os.Exit(1)
	}

	seed := *randSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("Connected to %s, replaying %s as a %s day\n", *addr, *dateStr, *dayType)

	enc := json.NewEncoder(conn)
	send := func(ev capture.Event) {
		ev.Date = *dateStr
		if err := enc.Encode(ev); err != nil {
			fmt.Fprintf(os.Stderr, "Error sending event: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  sent %s event\n", ev.Kind)
		time.Sleep(*interval)
	}

	event := capture.Event{Kind: "daytype", DayType: *dayType}
	if *dayType == "Shower" {
		event.ShowerType = "Light"
	}
	send(event)

	// Hourly sky reports in linear-day order, starting at 05:00.
	for i := 0; i < *hours; i++ {
		send(capture.Event{
			Kind:    "weather",
			Hour:    weather.FromLinearHour(i),
			Weather: weatherChoices[rng.Intn(len(weatherChoices))],
		})
	}

	if *dayType == "Shower" {
		// A couple of sightings late in the evening plus one clean gap.
		send(capture.Event{Kind: "star", Hour: 23, Minute: rng.Intn(30), Seconds: []int{rng.Intn(60)}})
		send(capture.Event{Kind: "star", Hour: 23, Minute: 30 + rng.Intn(30)})
		send(capture.Event{Kind: "gap", Hour: 22, Minute: 0, EndHour: 22, EndMinute: 59})
	}

	fmt.Println("Replay complete")
}
