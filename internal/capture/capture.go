// Package capture ingests observation events from capture agents
// (screen watchers, memory readers) over TCP. Agents send one JSON
// event per line; each event lands in the observation store under its
// date. Malformed or unparseable lines are logged and dropped without
// closing the connection.
package capture

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/Zemnmez/MeteoNook/internal/log"
	"github.com/Zemnmez/MeteoNook/internal/metrics"
	"github.com/Zemnmez/MeteoNook/internal/types"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// Event is the wire format capture agents speak. Kind selects which of
// the remaining fields apply.
type Event struct {
	Date string `json:"date"`
	Kind string `json:"kind"`

	// weather
	Hour    int    `json:"hour"`
	Weather string `json:"weather,omitempty"`

	// star (Hour shared with weather events)
	Minute  int   `json:"minute"`
	Seconds []int `json:"seconds,omitempty"`

	// gap (Hour/Minute are the gap start)
	EndHour   int `json:"endHour"`
	EndMinute int `json:"endMinute"`

	// daytype
	DayType    string `json:"dayType,omitempty"`
	ShowerType string `json:"showerType,omitempty"`

	// rainbow (Hour is the sighting hour)
	Double bool `json:"double,omitempty"`

	// aurora
	Fine01 bool `json:"fine01,omitempty"`
	Fine03 bool `json:"fine03,omitempty"`
	Fine05 bool `json:"fine05,omitempty"`
}

const (
	kindWeather = "weather"
	kindStar    = "star"
	kindGap     = "gap"
	kindDayType = "daytype"
	kindRainbow = "rainbow"
	kindAurora  = "aurora"
)

// Store is the slice of the observation store the listener writes to.
type Store interface {
	Update(date types.Date, mutate func(*types.DayObservation) error) error
	Len() int
}

// Listener accepts capture agent connections on one TCP address.
type Listener struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     *sync.WaitGroup
	name   string
	addr   string
	store  Store
	logger *zap.SugaredLogger

	ln net.Listener
}

// NewListener builds a listener for addr. Start must be called before
// any agent can connect.
func NewListener(ctx context.Context, wg *sync.WaitGroup, name, addr string, store Store, logger *zap.SugaredLogger) *Listener {
	captureCtx, cancel := context.WithCancel(ctx)
	return &Listener{
		ctx:    captureCtx,
		cancel: cancel,
		wg:     wg,
		name:   name,
		addr:   addr,
		store:  store,
		logger: logger,
	}
}

// Name returns the configured listener name.
func (l *Listener) Name() string {
	return l.name
}

// Addr returns the bound address once Start has succeeded.
func (l *Listener) Addr() net.Addr {
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// Start binds the address and begins accepting agents. It returns after
// the accept loop is running; cancellation of the parent context or a
// call to Stop shuts the listener down.
func (l *Listener) Start() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("capture listener [%s] failed to listen on %s: %w", l.name, l.addr, err)
	}
	l.ln = ln
	log.Infof("Capture listener [%s] accepting agents on %s", l.name, ln.Addr())

	l.wg.Add(1)
	go l.acceptLoop()

	go func() {
		<-l.ctx.Done()
		l.ln.Close()
	}()

	return nil
}

// Stop shuts the listener down and hangs up on connected agents.
func (l *Listener) Stop() {
	l.cancel()
}

func (l *Listener) acceptLoop() {
	defer l.wg.Done()
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-l.ctx.Done():
				log.Infof("Shutting down capture listener [%s]", l.name)
			default:
				l.logger.Errorf("capture listener [%s] accept: %v", l.name, err)
			}
			return
		}
		l.wg.Add(1)
		go l.serve(conn)
	}
}

func (l *Listener) serve(conn net.Conn) {
	defer l.wg.Done()
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-l.ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	remote := conn.RemoteAddr().String()
	l.logger.Debugf("capture agent connected from %s", remote)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			l.logger.Errorf("malformed capture event from %s: %v", remote, err)
			metrics.RecordCaptureError()
			continue
		}
		if err := l.apply(ev); err != nil {
			l.logger.Errorf("capture event from %s rejected: %v", remote, err)
			metrics.RecordCaptureError()
			continue
		}
		metrics.RecordCaptureEvent(ev.Kind)
		metrics.UpdateObservationDays(l.store.Len())
	}
	if err := scanner.Err(); err != nil {
		select {
		case <-l.ctx.Done():
		default:
			l.logger.Errorf("capture agent %s read: %v", remote, err)
		}
	}
	l.logger.Debugf("capture agent %s disconnected", remote)
}

// apply validates an event and folds it into the store. The store's
// Update re-validates the whole day, so a bad event never half-applies.
func (l *Listener) apply(ev Event) error {
	date, err := types.ParseDate(ev.Date)
	if err != nil {
		return fmt.Errorf("event date: %w", err)
	}

	switch ev.Kind {
	case kindWeather:
		expect, err := weather.ParseExpectation(ev.Weather)
		if err != nil {
			return fmt.Errorf("weather event: %w", err)
		}
		return l.store.Update(date, func(day *types.DayObservation) error {
			day.Types = append(day.Types, types.WeatherAssertion{Hour: ev.Hour, Expect: expect})
			return nil
		})

	case kindStar:
		seconds := append([]int(nil), ev.Seconds...)
		return l.store.Update(date, func(day *types.DayObservation) error {
			day.Stars = append(day.Stars, types.StarSighting{Hour: ev.Hour, Minute: ev.Minute, Seconds: seconds})
			return nil
		})

	case kindGap:
		return l.store.Update(date, func(day *types.DayObservation) error {
			day.Gaps = append(day.Gaps, types.StarGap{
				StartHour:   ev.Hour,
				StartMinute: ev.Minute,
				EndHour:     ev.EndHour,
				EndMinute:   ev.EndMinute,
			})
			return nil
		})

	case kindDayType:
		dayType, err := weather.ParseDayType(ev.DayType)
		if err != nil {
			return fmt.Errorf("daytype event: %w", err)
		}
		showerType := weather.ShowerNotSure
		if ev.ShowerType != "" {
			if showerType, err = weather.ParseShowerType(ev.ShowerType); err != nil {
				return fmt.Errorf("daytype event: %w", err)
			}
		}
		return l.store.Update(date, func(day *types.DayObservation) error {
			day.DayType = dayType
			day.ShowerType = showerType
			return nil
		})

	case kindRainbow:
		return l.store.Update(date, func(day *types.DayObservation) error {
			day.DayType = weather.DayRainbow
			day.RainbowTime = ev.Hour
			day.RainbowDouble = ev.Double
			return nil
		})

	case kindAurora:
		return l.store.Update(date, func(day *types.DayObservation) error {
			day.DayType = weather.DayAurora
			day.AuroraFine01 = ev.Fine01
			day.AuroraFine03 = ev.Fine03
			day.AuroraFine05 = ev.Fine05
			return nil
		})
	}
	return fmt.Errorf("unknown capture event kind %q", ev.Kind)
}
