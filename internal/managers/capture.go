package managers

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/Zemnmez/MeteoNook/internal/capture"
	"github.com/Zemnmez/MeteoNook/pkg/config"
)

// CaptureManager interface for the capture listener manager
type CaptureManager interface {
	StartCaptures() error
}

// NewCaptureManager creates a CaptureManager object, populated with one
// listener per configured capture agent endpoint
func NewCaptureManager(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, store capture.Store, logger *zap.SugaredLogger) (CaptureManager, error) {
	captureConfigs, err := configProvider.GetCaptures()
	if err != nil {
		return nil, fmt.Errorf("error loading capture configuration: %v", err)
	}

	cm := &captureManager{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		store:          store,
		logger:         logger,
		listeners:      make(map[string]*capture.Listener),
	}

	for _, cc := range captureConfigs {
		if cc.Port == 0 {
			return nil, fmt.Errorf("capture [%s] has no port", cc.Name)
		}
		if _, exists := cm.listeners[cc.Name]; exists {
			return nil, fmt.Errorf("duplicate capture name [%s]", cc.Name)
		}
		addr := net.JoinHostPort(cc.ListenAddr, strconv.Itoa(cc.Port))
		cm.listeners[cc.Name] = capture.NewListener(ctx, wg, cc.Name, addr, store, logger)
	}

	return cm, nil
}

type captureManager struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	configProvider config.ConfigProvider
	store          capture.Store
	logger         *zap.SugaredLogger
	listeners      map[string]*capture.Listener
}

func (c *captureManager) StartCaptures() error {
	for name, listener := range c.listeners {
		c.logger.Infof("Starting capture listener [%v]...", name)
		if err := listener.Start(); err != nil {
			return fmt.Errorf("failed to start capture listener [%s]: %w", name, err)
		}
	}
	return nil
}
