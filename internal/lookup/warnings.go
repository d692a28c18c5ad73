package lookup

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/upstream"
)

// Warning is the user-facing note for a degraded leg.
type Warning struct {
	Leg     Leg    `json:"leg"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Collector gathers warnings for a single lookup.
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
}

func (c *Collector) LegFailed(_ context.Context, leg Leg, id string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, Warning{Leg: leg, ID: id, Message: Describe(leg, id, err)})
}

// Warnings returns the collected warnings, payment first.
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := append([]Warning(nil), c.warnings...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Leg < out[j].Leg })
	return out
}

// Describe turns a leg error into the sentence shown to the user.
func Describe(leg Leg, id string, err error) string {
	var ue *upstream.UnavailableError
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		return fmt.Sprintf("no %s information found for id %s", leg, id)
	case errors.As(err, &ue), errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("%s service is unavailable, %s information for %s could not be loaded", leg, leg, id)
	default:
		return fmt.Sprintf("could not load %s information for id %s", leg, id)
	}
}
