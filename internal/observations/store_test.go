package observations

import (
	"errors"
	"sync"
	"testing"

	"github.com/Zemnmez/MeteoNook/internal/types"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

func TestPutGet(t *testing.T) {
	s := NewStore()
	date := types.Date{Year: 2020, Month: 7, Day: 4}

	obs := types.NewDayObservation(date)
	obs.DayType = weather.DayShower
	obs.ShowerType = weather.ShowerLight
	if err := s.Put(obs); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, ok := s.Get(date)
	if !ok {
		t.Fatal("Get returned false for a stored date")
	}
	if got.DayType != weather.DayShower || got.ShowerType != weather.ShowerLight {
		t.Errorf("Get returned %+v, expected the stored observation", got)
	}

	if _, ok := s.Get(types.Date{Year: 2020, Month: 7, Day: 5}); ok {
		t.Error("Get returned true for an unrecorded date")
	}
}

func TestPutValidates(t *testing.T) {
	s := NewStore()
	obs := types.NewDayObservation(types.Date{Year: 2020, Month: 13, Day: 4})
	if err := s.Put(obs); err == nil {
		t.Error("Put accepted an invalid observation")
	}
	if s.Len() != 0 {
		t.Error("invalid observation was stored")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewStore()
	date := types.Date{Year: 2020, Month: 7, Day: 4}
	obs := types.NewDayObservation(date)
	obs.DayType = weather.DayShower
	obs.Stars = []types.StarSighting{{Hour: 23, Minute: 10, Seconds: []int{30}}}
	if err := s.Put(obs); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, _ := s.Get(date)
	got.Stars[0].Seconds[0] = 55

	again, _ := s.Get(date)
	if again.Stars[0].Seconds[0] != 30 {
		t.Error("mutating a Get result changed the stored observation")
	}
}

func TestUpdateCreatesEmptyDay(t *testing.T) {
	s := NewStore()
	date := types.Date{Year: 2020, Month: 7, Day: 4}

	err := s.Update(date, func(o *types.DayObservation) error {
		o.DayType = weather.DayRainbow
		o.RainbowTime = 14
		return nil
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}

	got, ok := s.Get(date)
	if !ok || got.DayType != weather.DayRainbow || got.RainbowTime != 14 {
		t.Errorf("Update result = %+v, expected rainbow day at 14", got)
	}
}

func TestUpdateRollsBackOnError(t *testing.T) {
	s := NewStore()
	date := types.Date{Year: 2020, Month: 7, Day: 4}
	obs := types.NewDayObservation(date)
	obs.DayType = weather.DayNone
	if err := s.Put(obs); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	boom := errors.New("boom")
	err := s.Update(date, func(o *types.DayObservation) error {
		o.DayType = weather.DayAurora
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, expected boom", err)
	}

	got, _ := s.Get(date)
	if got.DayType != weather.DayNone {
		t.Error("failed Update mutated the stored observation")
	}
}

func TestUpdateRollsBackOnInvalidResult(t *testing.T) {
	s := NewStore()
	date := types.Date{Year: 2020, Month: 7, Day: 4}

	err := s.Update(date, func(o *types.DayObservation) error {
		o.Types = append(o.Types, types.WeatherAssertion{Hour: 99, Expect: weather.Sunny})
		return nil
	})
	if err == nil {
		t.Fatal("Update committed an invalid observation")
	}
	if s.Len() != 0 {
		t.Error("invalid update created a stored day")
	}
}

func TestDelete(t *testing.T) {
	s := NewStore()
	date := types.Date{Year: 2020, Month: 7, Day: 4}
	if s.Delete(date) {
		t.Error("Delete reported true for an unrecorded date")
	}
	if err := s.Put(types.NewDayObservation(date)); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if !s.Delete(date) {
		t.Error("Delete reported false for a stored date")
	}
	if _, ok := s.Get(date); ok {
		t.Error("observation still present after Delete")
	}
}

func TestListOrdered(t *testing.T) {
	s := NewStore()
	dates := []types.Date{
		{Year: 2020, Month: 12, Day: 1},
		{Year: 2019, Month: 12, Day: 31},
		{Year: 2020, Month: 1, Day: 15},
		{Year: 2020, Month: 1, Day: 2},
	}
	for _, d := range dates {
		if err := s.Put(types.NewDayObservation(d)); err != nil {
			t.Fatalf("Put(%v) error: %v", d, err)
		}
	}

	list := s.List()
	if len(list) != len(dates) {
		t.Fatalf("List returned %d observations, expected %d", len(list), len(dates))
	}
	want := []types.Date{
		{Year: 2019, Month: 12, Day: 31},
		{Year: 2020, Month: 1, Day: 2},
		{Year: 2020, Month: 1, Day: 15},
		{Year: 2020, Month: 12, Day: 1},
	}
	for i := range want {
		if list[i].Date != want[i] {
			t.Errorf("List[%d].Date = %v, expected %v", i, list[i].Date, want[i])
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	date := types.Date{Year: 2020, Month: 7, Day: 4}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = s.Update(date, func(o *types.DayObservation) error {
					o.DayType = weather.DayNone
					return nil
				})
				s.Get(date)
				s.List()
			}
		}()
	}
	wg.Wait()

	if _, ok := s.Get(date); !ok {
		t.Error("observation missing after concurrent updates")
	}
}
