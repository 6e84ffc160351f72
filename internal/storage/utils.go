package storage

import (
	"context"
	"sync"

	"github.com/Zemnmez/MeteoNook/internal/forecast"
	"github.com/Zemnmez/MeteoNook/internal/log"
)

// ProcessDays provides a standard pattern for processing forecast days from a channel
func ProcessDays(ctx context.Context, wg *sync.WaitGroup, dayChan <-chan forecast.Day, processor func(forecast.Day) error, name string) {
	wg.Add(1)
	defer wg.Done()

	for {
		select {
		case d := <-dayChan:
			if err := processor(d); err != nil {
				log.Errorf("%s day processor error: %v", name, err)
			}
		case <-ctx.Done():
			log.Infof("cancellation request received. Cancelling %s day processor", name)
			return
		}
	}
}
