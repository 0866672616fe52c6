package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/affistats/insights-manager/internal/entity"
)

// DialFunc is a concrete provider's connection attempt. It returns a result
// on a reachable upstream and an error on hard failures.
type DialFunc func(ctx context.Context) (entity.ConnectionTestResult, error)

// Base carries the config/status/lastError triple shared by every provider
// and implements the parts of the contract that do not touch an upstream.
type Base struct {
	ptype entity.ProviderType

	mu      sync.RWMutex
	cfg     *entity.DataProviderConfig
	status  entity.ConnectionStatus
	lastErr error
}

func NewBase(p entity.ProviderType) Base {
	return Base{ptype: p, status: entity.StatusDisconnected}
}

func (b *Base) Type() entity.ProviderType {
	return b.ptype
}

func (b *Base) Config() *entity.DataProviderConfig {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cfg
}

func (b *Base) Status() entity.ConnectionStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

func (b *Base) LastError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

// IsReady is true iff a config is stored and the provider is connected.
func (b *Base) IsReady() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cfg != nil && b.status == entity.StatusConnected
}

// Configure stores the config without attempting a connection. A config for
// a different provider type is rejected.
func (b *Base) Configure(cfg entity.DataProviderConfig) error {
	if cfg.Type != b.ptype {
		return NewValidationError(b.ptype,
			fmt.Sprintf("config type %q does not match provider type %q", cfg.Type, b.ptype))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg = &cfg
	return nil
}

// Disconnect resets the provider to its initial state. Idempotent.
func (b *Base) Disconnect() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg = nil
	b.status = entity.StatusDisconnected
	b.lastErr = nil
}

// Validate is the weak default shape check; concrete providers may override.
func (b *Base) Validate(data any) entity.ValidationResult {
	if data == nil {
		return entity.ValidationResult{Valid: false, Errors: []string{"data is nil"}}
	}
	return entity.ValidationResult{Valid: true}
}

// RunConnectionTest drives a concrete provider's dial through the shared
// status lifecycle. It never propagates errors: dial failures are captured
// into lastErr and returned as a failure result.
func (b *Base) RunConnectionTest(ctx context.Context, dial DialFunc) entity.ConnectionTestResult {
	if b.Config() == nil {
		return entity.ConnectionTestResult{Success: false, Message: "provider not configured"}
	}

	b.setStatus(entity.StatusConnecting)

	res, err := dial(ctx)
	if err != nil {
		b.setError(err)
		return entity.ConnectionTestResult{Success: false, Message: err.Error()}
	}

	if res.Success {
		b.setStatus(entity.StatusConnected)
	} else {
		b.setStatus(entity.StatusError)
	}
	b.markTested()
	return res
}

func (b *Base) setStatus(s entity.ConnectionStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = s
	if s == entity.StatusConnected {
		b.lastErr = nil
	}
}

func (b *Base) setError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = entity.StatusError
	b.lastErr = err
}

func (b *Base) markTested() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cfg != nil {
		now := time.Now().UTC()
		b.cfg.LastTested = &now
	}
}
