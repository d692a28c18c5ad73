// Package health aggregates the /health answers of the backend services.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"golang.org/x/sync/errgroup"
)

const DefaultTimeout = 2 * time.Second

// Prober is one backend that can report its health.
type Prober interface {
	Name() string
	Health(ctx context.Context) (map[string]any, error)
}

type Checker struct {
	probers []Prober
	timeout time.Duration
}

func NewChecker(timeout time.Duration, probers ...Prober) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{probers: probers, timeout: timeout}
}

// Check probes every service concurrently. The gateway itself is always up;
// a service that errors or times out is reported down with empty details.
func (c *Checker) Check(ctx context.Context) domain.HealthReport {
	report := domain.HealthReport{
		Gateway:  domain.HealthUp,
		Services: make(map[string]domain.ServiceHealth, len(c.probers)),
	}
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, p := range c.probers {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			sh := domain.ServiceHealth{Status: domain.HealthUp, Details: map[string]any{}}
			if details, err := p.Health(pctx); err != nil {
				sh.Status = domain.HealthDown
			} else if details != nil {
				sh.Details = details
			}
			mu.Lock()
			report.Services[p.Name()] = sh
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return report
}
