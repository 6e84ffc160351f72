// Package observations holds the in-memory store of per-day recorded
// evidence. Observations live only for the life of the process; the
// store hands out deep copies so callers can never alias its state.
package observations

import (
	"sort"
	"sync"

	"github.com/Zemnmez/MeteoNook/internal/types"
)

// Store is a concurrency-safe map of calendar date to observation.
type Store struct {
	mu   sync.RWMutex
	days map[types.Date]*types.DayObservation
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{days: make(map[types.Date]*types.DayObservation)}
}

// Get returns a copy of the observation for date, or false when the date
// has never been recorded.
func (s *Store) Get(date types.Date) (*types.DayObservation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obs, ok := s.days[date]
	if !ok {
		return nil, false
	}
	return obs.Copy(), true
}

// Put validates and stores obs, replacing any existing observation for
// its date.
func (s *Store) Put(obs *types.DayObservation) error {
	if err := obs.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days[obs.Date] = obs.Copy()
	return nil
}

// Update applies mutate to the observation for date, creating an empty
// observation first if the date is new. The mutation runs on a copy and
// is committed only if it returns nil and the result still validates, so
// a failed update leaves the stored value untouched.
func (s *Store) Update(date types.Date, mutate func(*types.DayObservation) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.days[date]
	var next *types.DayObservation
	if ok {
		next = cur.Copy()
	} else {
		next = types.NewDayObservation(date)
	}

	if err := mutate(next); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	s.days[date] = next
	return nil
}

// Delete removes the observation for date, reporting whether one existed.
func (s *Store) Delete(date types.Date) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.days[date]
	delete(s.days, date)
	return ok
}

// List returns copies of all observations ordered by date.
func (s *Store) List() []*types.DayObservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.DayObservation, 0, len(s.days))
	for _, obs := range s.days {
		out = append(out, obs.Copy())
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Date, out[j].Date
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Day < b.Day
	})
	return out
}

// Len returns the number of recorded days.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.days)
}
