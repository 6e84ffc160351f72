// Package oracle connects the service to the weather simulator sidecar.
// Client speaks the sidecar's HTTP API and implements weather.Oracle;
// Cached wraps any oracle with memoization of its small-keyspace calls.
//
// The oracle contract has no error returns: its methods are pure
// functions assumed to be given valid inputs. Transport is not pure, so
// Client latches the first request failure and returns zero values for
// failed calls; batch operations check Err afterwards and surface the
// failure at their own boundary.
package oracle

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Zemnmez/MeteoNook/internal/log"
	"github.com/Zemnmez/MeteoNook/internal/metrics"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// Client implements weather.Oracle against the simulator's HTTP API.
// It is safe for concurrent use.
type Client struct {
	endpoint string
	client   *http.Client

	mu      sync.Mutex
	lastErr error
	fails   atomic.Uint64
}

// NewClient returns a client for the simulator at endpoint, e.g.
// "http://127.0.0.1:9600".
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Err returns the first failure recorded since the previous Err call and
// clears the latch. A nil result means every call since then was served.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.lastErr
	c.lastErr = nil
	return err
}

func (c *Client) fail(call string, err error) {
	metrics.RecordOracleError(call)
	c.fails.Add(1)
	c.mu.Lock()
	if c.lastErr == nil {
		c.lastErr = err
	}
	c.mu.Unlock()
	log.Debugf("oracle call %s failed: %v", call, err)
}

// failCount supports the cache: results produced while the counter moves
// must not be memoized.
func (c *Client) failCount() uint64 {
	return c.fails.Load()
}

func (c *Client) get(call string, v url.Values, out interface{}) bool {
	metrics.RecordOracleRequest(call)

	u := c.endpoint + "/v1/" + call + "?" + v.Encode()
	resp, err := c.client.Get(u)
	if err != nil {
		c.fail(call, fmt.Errorf("oracle request %s: %w", call, err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.fail(call, fmt.Errorf("oracle request %s: unexpected status %s", call, resp.Status))
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.fail(call, fmt.Errorf("oracle response %s: %w", call, err))
		return false
	}
	return true
}

type intValue struct {
	Value int `json:"value"`
}

type boolValue struct {
	Value bool `json:"value"`
}

func (c *Client) queryInt(call string, v url.Values) int {
	var out intValue
	if !c.get(call, v, &out) {
		return 0
	}
	return out.Value
}

func (c *Client) queryBool(call string, v url.Values) bool {
	var out boolValue
	if !c.get(call, v, &out) {
		return false
	}
	return out.Value
}

func params(pairs ...interface{}) url.Values {
	v := url.Values{}
	for i := 0; i < len(pairs); i += 2 {
		key := pairs[i].(string)
		switch val := pairs[i+1].(type) {
		case int:
			v.Set(key, strconv.Itoa(val))
		case uint32:
			v.Set(key, strconv.FormatUint(uint64(val), 10))
		case weather.Pattern:
			v.Set(key, strconv.Itoa(int(val)))
		case weather.Hemisphere:
			v.Set(key, strconv.Itoa(int(val)))
		default:
			v.Set(key, fmt.Sprint(val))
		}
	}
	return v
}

func dateParams(hem weather.Hemisphere, seed uint32, year, month, day int) url.Values {
	return params("hemisphere", hem, "seed", seed, "year", year, "month", month, "day", day)
}

func (c *Client) GetPattern(hem weather.Hemisphere, seed uint32, year, month, day int) weather.Pattern {
	return weather.Pattern(c.queryInt("pattern", dateParams(hem, seed, year, month, day)))
}

func (c *Client) GetWeather(hour int, pattern weather.Pattern) weather.Weather {
	return weather.Weather(c.queryInt("weather", params("hour", hour, "pattern", pattern)))
}

func (c *Client) GetWindPower(seed uint32, year, month, day, hour int, pattern weather.Pattern) int {
	return c.queryInt("wind-power", params(
		"seed", seed, "year", year, "month", month, "day", day, "hour", hour, "pattern", pattern))
}

func (c *Client) IsSpecialDay(hem weather.Hemisphere, year, month, day int) bool {
	return c.queryBool("special-day", params("hemisphere", hem, "year", year, "month", month, "day", day))
}

func (c *Client) GetSnowLevel(hem weather.Hemisphere, month, day int) weather.SnowLevel {
	return weather.SnowLevel(c.queryInt("snow-level", params("hemisphere", hem, "month", month, "day", day)))
}

func (c *Client) GetCloudLevel(hem weather.Hemisphere, month, day int) weather.CloudLevel {
	return weather.CloudLevel(c.queryInt("cloud-level", params("hemisphere", hem, "month", month, "day", day)))
}

func (c *Client) GetFogLevel(hem weather.Hemisphere, month, day int) weather.FogLevel {
	return weather.FogLevel(c.queryInt("fog-level", params("hemisphere", hem, "month", month, "day", day)))
}

func (c *Client) CheckWaterFog(seed uint32, year, month, day int) bool {
	return c.queryBool("water-fog", params("seed", seed, "year", year, "month", month, "day", day))
}

func (c *Client) GetRainbowInfo(hem weather.Hemisphere, seed uint32, year, month, day int, pattern weather.Pattern) weather.RainbowInfo {
	v := dateParams(hem, seed, year, month, day)
	v.Set("pattern", strconv.Itoa(int(pattern)))
	var out struct {
		Count int `json:"count"`
		Hour  int `json:"hour"`
	}
	if !c.get("rainbow-info", v, &out) {
		return weather.RainbowInfo{}
	}
	return weather.RainbowInfo{Count: out.Count, Hour: out.Hour}
}

func (c *Client) IsAuroraPattern(hem weather.Hemisphere, month, day int, pattern weather.Pattern) bool {
	return c.queryBool("aurora-pattern", params("hemisphere", hem, "month", month, "day", day, "pattern", pattern))
}

func (c *Client) IsLightShowerPattern(pattern weather.Pattern) bool {
	return c.queryBool("light-shower-pattern", params("pattern", pattern))
}

func (c *Client) IsHeavyShowerPattern(pattern weather.Pattern) bool {
	return c.queryBool("heavy-shower-pattern", params("pattern", pattern))
}

func (c *Client) IsPatternPossibleAtDate(hem weather.Hemisphere, month, day int, pattern weather.Pattern) bool {
	return c.queryBool("pattern-possible", params("hemisphere", hem, "month", month, "day", day, "pattern", pattern))
}

func (c *Client) CanHaveShootingStars(hour int, pattern weather.Pattern) bool {
	return c.queryBool("can-have-stars", params("hour", hour, "pattern", pattern))
}

func (c *Client) QueryStars(seed uint32, year, month, day, hour, minute int, pattern weather.Pattern) int {
	return c.queryInt("query-stars", params(
		"seed", seed, "year", year, "month", month, "day", day,
		"hour", hour, "minute", minute, "pattern", pattern))
}

func (c *Client) GetStarSecond(seed uint32, year, month, day, hour, minute int, pattern weather.Pattern, index int) int {
	return c.queryInt("star-second", params(
		"seed", seed, "year", year, "month", month, "day", day,
		"hour", hour, "minute", minute, "pattern", pattern, "index", index))
}

func (c *Client) GetMonthLength(year, month int) int {
	return c.queryInt("month-length", params("year", year, "month", month))
}
