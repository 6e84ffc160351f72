package weather

import (
	"strings"
	"testing"
)

func TestWeatherMatches(t *testing.T) {
	// A concrete expectation matches only itself.
	for w := Clear; w <= HeavyRain; w++ {
		for actual := Clear; actual <= HeavyRain; actual++ {
			expected := w == actual
			if got := w.Matches(actual); got != expected {
				t.Errorf("%v.Matches(%v) = %v, expected %v", w, actual, got, expected)
			}
		}
	}
}

func TestAmbiguousWeatherMatches(t *testing.T) {
	tests := []struct {
		name    string
		group   AmbiguousWeather
		matches []Weather
	}{
		{"ClearOrSunny", ClearOrSunny, []Weather{Clear, Sunny}},
		{"SunnyOrCloudy", SunnyOrCloudy, []Weather{Sunny, Cloudy}},
		{"CloudyOrRainClouds", CloudyOrRainClouds, []Weather{Cloudy, RainClouds}},
		{"NoRain", NoRain, []Weather{Clear, Sunny, Cloudy, RainClouds}},
		{"RainOrHeavyRain", RainOrHeavyRain, []Weather{Rain, HeavyRain}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := make(map[Weather]bool)
			for _, w := range tt.matches {
				want[w] = true
			}
			for actual := Clear; actual <= HeavyRain; actual++ {
				if got := tt.group.Matches(actual); got != want[actual] {
					t.Errorf("%v.Matches(%v) = %v, expected %v", tt.group, actual, got, want[actual])
				}
			}
		})
	}
}

func TestNoRainExcludesExactlyRain(t *testing.T) {
	// NoRain must match every category except Rain and HeavyRain.
	for actual := Clear; actual <= HeavyRain; actual++ {
		expected := actual != Rain && actual != HeavyRain
		if got := NoRain.Matches(actual); got != expected {
			t.Errorf("NoRain.Matches(%v) = %v, expected %v", actual, got, expected)
		}
	}
}

func TestExpectationInterface(t *testing.T) {
	// Both vocabularies satisfy Expectation.
	var e Expectation = Sunny
	if !e.Matches(Sunny) || e.Matches(Cloudy) {
		t.Errorf("Weather as Expectation: Matches(Sunny)=%v Matches(Cloudy)=%v", e.Matches(Sunny), e.Matches(Cloudy))
	}
	e = ClearOrSunny
	if !e.Matches(Clear) || !e.Matches(Sunny) || e.Matches(Cloudy) {
		t.Error("AmbiguousWeather as Expectation did not match its OR-group")
	}
}

func TestParseWeather(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Weather
		wantErr  bool
	}{
		{"exact", "Sunny", Sunny, false},
		{"case insensitive", "heavyrain", HeavyRain, false},
		{"unknown", "Drizzle", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWeather(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeather(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.expected {
				t.Errorf("ParseWeather(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseExpectation(t *testing.T) {
	e, err := ParseExpectation("Cloudy")
	if err != nil {
		t.Fatalf("ParseExpectation(Cloudy) error: %v", err)
	}
	if w, ok := e.(Weather); !ok || w != Cloudy {
		t.Errorf("ParseExpectation(Cloudy) = %v (%T), expected concrete Cloudy", e, e)
	}

	e, err = ParseExpectation("NoRain")
	if err != nil {
		t.Fatalf("ParseExpectation(NoRain) error: %v", err)
	}
	if a, ok := e.(AmbiguousWeather); !ok || a != NoRain {
		t.Errorf("ParseExpectation(NoRain) = %v (%T), expected ambiguous NoRain", e, e)
	}

	if _, err := ParseExpectation("Foggy"); err == nil {
		t.Error("ParseExpectation(Foggy) succeeded, expected error")
	}
}

func TestParseSuggestions(t *testing.T) {
	// A near-miss should surface the intended name in the error.
	_, err := ParseWeather("Clowdy")
	if err == nil {
		t.Fatal("ParseWeather(Clowdy) succeeded, expected error")
	}
	if got := err.Error(); !strings.Contains(got, "Cloudy") {
		t.Errorf("error %q does not suggest Cloudy", got)
	}

	_, err = ParsePattern("FineRian00")
	if err == nil {
		t.Fatal("ParsePattern(FineRian00) succeeded, expected error")
	}
	if got := err.Error(); !strings.Contains(got, "FineRain00") {
		t.Errorf("error %q does not suggest FineRain00", got)
	}
}
