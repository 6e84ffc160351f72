// Package storage defines interfaces and implementations for forecast storage backends.
package storage

import (
	"context"
	"sync"

	"github.com/Zemnmez/MeteoNook/internal/forecast"
)

// StorageEngineInterface is an interface that provides a few standardized
// methods for various storage backends
type StorageEngineInterface interface {
	StartStorageEngine(context.Context, *sync.WaitGroup) chan<- forecast.Day
}
