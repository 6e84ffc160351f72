package restserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/Zemnmez/MeteoNook/internal/forecast"
	"github.com/Zemnmez/MeteoNook/internal/observations"
	"github.com/Zemnmez/MeteoNook/internal/solver"
	"github.com/Zemnmez/MeteoNook/pkg/config"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// stubOracle answers from fixed rules: Fine02 is the light shower
// pattern, Fine00 the heavy one, Rain02 rains all day, everything else
// is sunny. Months are 31 days long. GetMonthLength latches a transport
// error while failing is set, mimicking the HTTP client.
type stubOracle struct {
	failing bool
	err     error
}

func (o *stubOracle) GetPattern(weather.Hemisphere, uint32, int, int, int) weather.Pattern {
	return weather.Fine00
}

func (o *stubOracle) GetWeather(hour int, pattern weather.Pattern) weather.Weather {
	if pattern == weather.Rain02 {
		return weather.Rain
	}
	return weather.Sunny
}

func (o *stubOracle) GetWindPower(seed uint32, year, month, day, hour int, pattern weather.Pattern) int {
	return (hour + 1) % 5
}

func (o *stubOracle) IsSpecialDay(weather.Hemisphere, int, int, int) bool { return false }

func (o *stubOracle) GetSnowLevel(weather.Hemisphere, int, int) weather.SnowLevel {
	return weather.SnowNone
}

func (o *stubOracle) GetCloudLevel(weather.Hemisphere, int, int) weather.CloudLevel {
	return weather.CloudNone
}

func (o *stubOracle) GetFogLevel(weather.Hemisphere, int, int) weather.FogLevel {
	return weather.FogNone
}

func (o *stubOracle) CheckWaterFog(uint32, int, int, int) bool { return false }

func (o *stubOracle) GetRainbowInfo(weather.Hemisphere, uint32, int, int, int, weather.Pattern) weather.RainbowInfo {
	return weather.RainbowInfo{}
}

func (o *stubOracle) IsAuroraPattern(weather.Hemisphere, int, int, weather.Pattern) bool {
	return false
}

func (o *stubOracle) IsLightShowerPattern(p weather.Pattern) bool { return p == weather.Fine02 }
func (o *stubOracle) IsHeavyShowerPattern(p weather.Pattern) bool { return p == weather.Fine00 }

func (o *stubOracle) IsPatternPossibleAtDate(weather.Hemisphere, int, int, weather.Pattern) bool {
	return true
}

func (o *stubOracle) CanHaveShootingStars(int, weather.Pattern) bool { return false }

func (o *stubOracle) QueryStars(uint32, int, int, int, int, int, weather.Pattern) int { return 0 }

func (o *stubOracle) GetStarSecond(uint32, int, int, int, int, int, weather.Pattern, int) int {
	return 0
}

func (o *stubOracle) GetMonthLength(year, month int) int {
	if o.failing {
		o.err = errStubDown
	}
	return 31
}

func (o *stubOracle) Err() error {
	err := o.err
	o.err = nil
	return err
}

var errStubDown = &stubDownError{}

type stubDownError struct{}

func (*stubDownError) Error() string { return "oracle unreachable" }

type fakeProvider struct {
	island config.IslandData
}

func (f *fakeProvider) LoadConfig() (*config.ConfigData, error) {
	return &config.ConfigData{Island: f.island}, nil
}
func (f *fakeProvider) GetIsland() (*config.IslandData, error)     { return &f.island, nil }
func (f *fakeProvider) GetOracle() (*config.OracleData, error)     { return &config.OracleData{}, nil }
func (f *fakeProvider) GetCaptures() ([]config.CaptureData, error) { return nil, nil }
func (f *fakeProvider) GetStorageConfig() (*config.StorageData, error) {
	return &config.StorageData{}, nil
}
func (f *fakeProvider) GetControllers() ([]config.ControllerData, error) { return nil, nil }
func (f *fakeProvider) IsReadOnly() bool                                 { return true }
func (f *fakeProvider) Close() error                                     { return nil }

func newTestController(t *testing.T, rc config.RESTServerData, o weather.Oracle) *Controller {
	t.Helper()

	provider := &fakeProvider{island: config.IslandData{
		Name:       "Mahina",
		Hemisphere: "Northern",
		Seed:       1766155201,
	}}
	deps := Deps{
		Store:     observations.NewStore(),
		Solver:    solver.New(o),
		Forecasts: forecast.New(o),
		Oracle:    o,
	}

	var wg sync.WaitGroup
	ctrl, err := NewController(context.Background(), &wg, provider, rc, deps, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return ctrl
}

func doJSON(t *testing.T, ctrl *Controller, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestObservationCRUD(t *testing.T) {
	ctrl := newTestController(t, config.RESTServerData{}, &stubOracle{})

	body := `{
		"dayType": "Shower",
		"showerType": "Light",
		"types": [{"hour": 9, "expect": "Sunny"}],
		"stars": [{"hour": 23, "minute": 15, "seconds": [12, 30]}],
		"gaps": [{"startHour": 22, "startMinute": 0, "endHour": 22, "endMinute": 59}]
	}`

	rec := doJSON(t, ctrl, http.MethodPut, "/api/v1/observations/2020-07-04", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, expected 200 (body %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, ctrl, http.MethodGet, "/api/v1/observations/2020-07-04", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, expected 200", rec.Code)
	}
	var got ObservationBody
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode observation: %v", err)
	}
	if got.Date != "2020-07-04" || got.DayType != "Shower" || got.ShowerType != "Light" {
		t.Errorf("observation = %+v, expected 2020-07-04 Shower/Light", got)
	}
	if len(got.Stars) != 1 || got.Stars[0].Hour != 23 || len(got.Stars[0].Seconds) != 2 {
		t.Errorf("stars = %+v, expected one sighting at 23:15 with 2 seconds", got.Stars)
	}

	rec = doJSON(t, ctrl, http.MethodGet, "/api/v1/observations", "")
	var all []ObservationBody
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("decode observation list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("list = %d observations, expected 1", len(all))
	}

	rec = doJSON(t, ctrl, http.MethodDelete, "/api/v1/observations/2020-07-04", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("DELETE status = %d, expected 204", rec.Code)
	}
	rec = doJSON(t, ctrl, http.MethodGet, "/api/v1/observations/2020-07-04", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, expected 404", rec.Code)
	}
	rec = doJSON(t, ctrl, http.MethodDelete, "/api/v1/observations/2020-07-04", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, expected 404", rec.Code)
	}
}

func TestPutObservationRejectsBadInput(t *testing.T) {
	ctrl := newTestController(t, config.RESTServerData{}, &stubOracle{})

	cases := []struct {
		name string
		path string
		body string
	}{
		{"malformed JSON", "/api/v1/observations/2020-07-04", `{not json`},
		{"bad date", "/api/v1/observations/2020-13-40", `{"dayType":"None"}`},
		{"date mismatch", "/api/v1/observations/2020-07-04", `{"date":"2020-07-05","dayType":"None"}`},
		{"unknown day type", "/api/v1/observations/2020-07-04", `{"dayType":"Sparkle"}`},
		{"unknown expectation", "/api/v1/observations/2020-07-04", `{"types":[{"hour":9,"expect":"Drizzle"}]}`},
		{"hour out of range", "/api/v1/observations/2020-07-04", `{"types":[{"hour":30,"expect":"Sunny"}]}`},
		{"inverted gap", "/api/v1/observations/2020-07-04", `{"gaps":[{"startHour":3,"startMinute":0,"endHour":23,"endMinute":0}]}`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := doJSON(t, ctrl, http.MethodPut, c.path, c.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, expected 400", rec.Code)
			}
		})
	}

	if ctrl.deps.Store.Len() != 0 {
		t.Errorf("store has %d observations after rejected puts, expected 0", ctrl.deps.Store.Len())
	}
}

func TestGetDayPatterns(t *testing.T) {
	ctrl := newTestController(t, config.RESTServerData{}, &stubOracle{})

	body := `{"dayType": "Shower", "showerType": "Light", "types": [{"hour": 9, "expect": "Sunny"}]}`
	if rec := doJSON(t, ctrl, http.MethodPut, "/api/v1/observations/2020-07-04", body); rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d", rec.Code)
	}

	rec := doJSON(t, ctrl, http.MethodGet, "/api/v1/observations/2020-07-04/patterns", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET patterns status = %d, expected 200", rec.Code)
	}

	var resp DayPatternsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode patterns: %v", err)
	}
	// Light shower excludes the heavy pattern, leaving only Fine02.
	if len(resp.Patterns) != 1 || resp.Patterns[0].Name != "Fine02" {
		t.Errorf("patterns = %+v, expected [Fine02]", resp.Patterns)
	}
	if resp.Hemisphere != "Northern" {
		t.Errorf("hemisphere = %q, expected Northern from island config", resp.Hemisphere)
	}

	rec = doJSON(t, ctrl, http.MethodGet, "/api/v1/observations/2020-07-04/patterns?hemisphere=Southern", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode patterns: %v", err)
	}
	if resp.Hemisphere != "Southern" {
		t.Errorf("hemisphere = %q, expected Southern override", resp.Hemisphere)
	}

	rec = doJSON(t, ctrl, http.MethodGet, "/api/v1/observations/2020-07-04/patterns?hemisphere=Western", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad hemisphere status = %d, expected 400", rec.Code)
	}

	rec = doJSON(t, ctrl, http.MethodGet, "/api/v1/observations/2020-07-05/patterns", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown date status = %d, expected 404", rec.Code)
	}
}

func TestSolve(t *testing.T) {
	ctrl := newTestController(t, config.RESTServerData{}, &stubOracle{})

	day1 := `{"dayType": "Shower", "showerType": "Light", "stars": [{"hour": 23, "minute": 15, "seconds": [12]}]}`
	day2 := `{"dayType": "None", "types": [{"hour": 9, "expect": "Rain"}]}`
	if rec := doJSON(t, ctrl, http.MethodPut, "/api/v1/observations/2020-07-04", day1); rec.Code != http.StatusOK {
		t.Fatalf("PUT day1 status = %d", rec.Code)
	}
	if rec := doJSON(t, ctrl, http.MethodPut, "/api/v1/observations/2020-07-05", day2); rec.Code != http.StatusOK {
		t.Fatalf("PUT day2 status = %d", rec.Code)
	}

	rec := doJSON(t, ctrl, http.MethodPost, "/api/v1/solve", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("solve status = %d, expected 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp SolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode solve response: %v", err)
	}
	if len(resp.Days) != 2 {
		t.Fatalf("solve produced %d days, expected 2", len(resp.Days))
	}
	if resp.Days[0].Day != 4 || resp.Days[1].Day != 5 {
		t.Errorf("days = %d,%d, expected 4,5 in date order", resp.Days[0].Day, resp.Days[1].Day)
	}
	if len(resp.Days[0].PatternNames) != 1 || resp.Days[0].PatternNames[0] != "Fine02" {
		t.Errorf("day1 patterns = %v, expected [Fine02]", resp.Days[0].PatternNames)
	}
	// Only the rain-all-day pattern matches a Rain assertion.
	if len(resp.Days[1].PatternNames) != 1 || resp.Days[1].PatternNames[0] != "Rain02" {
		t.Errorf("day2 patterns = %v, expected [Rain02]", resp.Days[1].PatternNames)
	}
	if len(resp.Days[0].Minutes) != 1 || !resp.Days[0].Minutes[0].HasStar {
		t.Errorf("day1 minutes = %+v, expected one starred minute", resp.Days[0].Minutes)
	}
}

func TestSolveConflicts(t *testing.T) {
	t.Run("no patterns", func(t *testing.T) {
		ctrl := newTestController(t, config.RESTServerData{}, &stubOracle{})

		// No pattern produces a rainbow at 09:00.
		body := `{"dayType": "Rainbow", "rainbowTime": 9}`
		if rec := doJSON(t, ctrl, http.MethodPut, "/api/v1/observations/2020-07-04", body); rec.Code != http.StatusOK {
			t.Fatalf("PUT status = %d", rec.Code)
		}

		rec := doJSON(t, ctrl, http.MethodPost, "/api/v1/solve", "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("solve status = %d, expected 409", rec.Code)
		}
		var conflict SolveConflictResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &conflict); err != nil {
			t.Fatalf("decode conflict: %v", err)
		}
		if conflict.Kind != "no_patterns" || conflict.Date != "2020-07-04" {
			t.Errorf("conflict = %+v, expected no_patterns on 2020-07-04", conflict)
		}
	})

	t.Run("star conflict", func(t *testing.T) {
		ctrl := newTestController(t, config.RESTServerData{}, &stubOracle{})

		body := `{
			"dayType": "Shower", "showerType": "Light",
			"stars": [{"hour": 23, "minute": 15, "seconds": [12]}],
			"gaps": [{"startHour": 23, "startMinute": 0, "endHour": 23, "endMinute": 59}]
		}`
		if rec := doJSON(t, ctrl, http.MethodPut, "/api/v1/observations/2020-07-04", body); rec.Code != http.StatusOK {
			t.Fatalf("PUT status = %d", rec.Code)
		}

		rec := doJSON(t, ctrl, http.MethodPost, "/api/v1/solve", "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("solve status = %d, expected 409", rec.Code)
		}
		var conflict SolveConflictResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &conflict); err != nil {
			t.Fatalf("decode conflict: %v", err)
		}
		if conflict.Kind != "star_conflict" || conflict.Hour != 23 || conflict.Minute != 15 {
			t.Errorf("conflict = %+v, expected star_conflict at 23:15", conflict)
		}
	})
}

func TestForecastEndpoints(t *testing.T) {
	ctrl := newTestController(t, config.RESTServerData{}, &stubOracle{})

	rec := doJSON(t, ctrl, http.MethodGet, "/api/v1/forecast/2021/5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("month forecast status = %d, expected 200 (body %s)", rec.Code, rec.Body.String())
	}
	var month forecast.Month
	if err := json.Unmarshal(rec.Body.Bytes(), &month); err != nil {
		t.Fatalf("decode month forecast: %v", err)
	}
	if month.Year != 2021 || month.Month != 5 || len(month.Days) != 31 {
		t.Errorf("month = %d-%d with %d days, expected 2021-5 with 31", month.Year, month.Month, len(month.Days))
	}
	if month.Days[0].PatternName != "Fine00" {
		t.Errorf("day pattern = %q, expected Fine00", month.Days[0].PatternName)
	}

	rec = doJSON(t, ctrl, http.MethodGet, "/api/v1/forecast/2021", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("year forecast status = %d, expected 200", rec.Code)
	}
	var year forecast.Year
	if err := json.Unmarshal(rec.Body.Bytes(), &year); err != nil {
		t.Fatalf("decode year forecast: %v", err)
	}
	if year.Year != 2021 || year.Seed != 1766155201 {
		t.Errorf("year = %d seed %d, expected 2021 with island seed", year.Year, year.Seed)
	}

	for _, path := range []string{
		"/api/v1/forecast/not-a-year",
		"/api/v1/forecast/2021/13",
		"/api/v1/forecast/2021/0",
		"/api/v1/forecast/2021/5?seed=not-a-seed",
	} {
		if rec := doJSON(t, ctrl, http.MethodGet, path, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, expected 400", path, rec.Code)
		}
	}
}

func TestListPatterns(t *testing.T) {
	ctrl := newTestController(t, config.RESTServerData{}, &stubOracle{})

	rec := doJSON(t, ctrl, http.MethodGet, "/api/v1/patterns", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var entries []PatternEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode patterns: %v", err)
	}
	if len(entries) != weather.PatternCount {
		t.Fatalf("patterns = %d entries, expected %d", len(entries), weather.PatternCount)
	}
	if entries[0].ID != 0 || entries[0].Name != "Fine00" {
		t.Errorf("first entry = %+v, expected Fine00 with id 0", entries[0])
	}
	for _, e := range entries {
		if e.Name == "FineRain00" && e.RainbowHour != 14 {
			t.Errorf("FineRain00 rainbowHour = %d, expected 14", e.RainbowHour)
		}
		if e.Name == "Fine00" && e.RainbowHour != 0 {
			t.Errorf("Fine00 rainbowHour = %d, expected 0", e.RainbowHour)
		}
	}
}

func TestHealth(t *testing.T) {
	o := &stubOracle{}
	ctrl := newTestController(t, config.RESTServerData{}, o)

	rec := doJSON(t, ctrl, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, expected 200", rec.Code)
	}
	var health HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" || health.Oracle != "ok" {
		t.Errorf("health = %+v, expected ok/ok", health)
	}

	o.failing = true
	rec = doJSON(t, ctrl, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded health status = %d, expected 503", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "degraded" || health.Oracle != "unreachable" {
		t.Errorf("health = %+v, expected degraded/unreachable", health)
	}

	o.failing = false
	rec = doJSON(t, ctrl, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("recovered health status = %d, expected 200", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	ctrl := newTestController(t, config.RESTServerData{RateLimit: 1, RateBurst: 1}, &stubOracle{})

	if rec := doJSON(t, ctrl, http.MethodGet, "/api/v1/patterns", ""); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, expected 200", rec.Code)
	}
	if rec := doJSON(t, ctrl, http.MethodGet, "/api/v1/patterns", ""); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, expected 429", rec.Code)
	}
}

func TestResponsesCarryRequestID(t *testing.T) {
	ctrl := newTestController(t, config.RESTServerData{}, &stubOracle{})

	rec := doJSON(t, ctrl, http.MethodGet, "/api/v1/patterns", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}
