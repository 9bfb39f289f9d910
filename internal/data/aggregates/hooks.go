package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/phoneshop-backend/internal/observability"
)

// Hooks receives write outcomes. Operation names are like "Orders.Order.Save".
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
	IncInsufficientStock(name string)
	// ObserveReservation is called once per phone after a save commits.
	ObserveReservation(phoneID, delta int64)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}
func (noopHooks) IncInsufficientStock(string)                    {}
func (noopHooks) ObserveReservation(int64, int64)                {}

// metricsHooks forwards to the prometheus collectors; Metrics methods are nil-safe.
type metricsHooks struct {
	m *observability.Metrics
}

func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return metricsHooks{m: metrics}
}

func (h metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.m.ObserveAggregateOperation(strings.TrimSpace(name), strings.TrimSpace(status), dur)
}

func (h metricsHooks) IncConflict(name string) { h.m.IncAggregateConflict(strings.TrimSpace(name)) }
func (h metricsHooks) IncRetry(name string)    { h.m.IncAggregateRetry(strings.TrimSpace(name)) }

func (h metricsHooks) IncInsufficientStock(name string) {
	h.m.IncInsufficientStock(strings.TrimSpace(name))
}

// ObserveReservation only tracks volume; per-phone labels would be unbounded.
func (h metricsHooks) ObserveReservation(_ int64, delta int64) {
	h.m.AddStockReservation(delta)
}
