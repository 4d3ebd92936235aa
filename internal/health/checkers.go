package health

import (
	"context"
	"time"
)

// Checkable is implemented by components that can report their own health.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// AdapterChecker probes a Checkable component with a timeout.
type AdapterChecker struct {
	name    string
	adapter Checkable
	timeout time.Duration
}

// NewAdapterChecker creates a health checker for a backing adapter.
func NewAdapterChecker(name string, adapter Checkable, timeout time.Duration) *AdapterChecker {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &AdapterChecker{
		name:    name,
		adapter: adapter,
		timeout: timeout,
	}
}

// Check performs the health check on the adapter.
func (c *AdapterChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.adapter.HealthCheck(checkCtx)
	duration := time.Since(start)

	if err != nil {
		return CheckResult{
			Name:      c.name,
			Status:    StatusUnhealthy,
			Error:     err.Error(),
			Timestamp: time.Now(),
			Duration:  duration,
		}
	}

	return CheckResult{
		Name:      c.name,
		Status:    StatusHealthy,
		Message:   "OK",
		Timestamp: time.Now(),
		Duration:  duration,
	}
}

// Name returns the name of the health check.
func (c *AdapterChecker) Name() string {
	return c.name
}

// NewDatabaseChecker creates a health checker for a database adapter with a
// default five second timeout.
func NewDatabaseChecker(name string, db Checkable) *AdapterChecker {
	return NewAdapterChecker(name, db, 5*time.Second)
}

// PingChecker always reports healthy. Useful for liveness checks.
type PingChecker struct {
	name string
}

// NewPingChecker creates a new ping checker.
func NewPingChecker(name string) *PingChecker {
	return &PingChecker{name: name}
}

// Check always returns healthy status.
func (c *PingChecker) Check(ctx context.Context) CheckResult {
	return CheckResult{
		Name:      c.name,
		Status:    StatusHealthy,
		Message:   "Service is alive",
		Timestamp: time.Now(),
	}
}

// Name returns the name of the health check.
func (c *PingChecker) Name() string {
	return c.name
}
