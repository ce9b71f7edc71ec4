package monitoring

import (
	"sort"
	"sync"
	"time"

	"github.com/itsatony/sensorscore/internal/events"
	"github.com/itsatony/sensorscore/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// samples kept per event for windowed queries
const maxSamples = 1024

// Service counts lifecycle events in memory
type Service struct {
	mu        sync.RWMutex
	startedAt time.Time
	totals    map[string]int64
	samples   map[string][]sample
}

type sample struct {
	at     time.Time
	labels map[string]string
}

// Metrics is a point-in-time view of the counters
type Metrics struct {
	StartedAt     time.Time        `json:"started_at"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Totals        map[string]int64 `json:"totals"`
	LastHour      map[string]int64 `json:"last_hour"`
}

// NewService creates a new monitoring service
func NewService() *Service {
	return &Service{
		startedAt: time.Now().UTC(),
		totals:    make(map[string]int64),
		samples:   make(map[string][]sample),
	}
}

// Attach subscribes the service to every lifecycle event on bus
func (s *Service) Attach(bus *events.Bus) {
	for _, name := range events.All {
		bus.Subscribe(name, "monitoring", func(e models.GenerationEvent) {
			labels := map[string]string{"zone": e.Zone}
			if e.Stage != "" {
				labels["stage"] = e.Stage
			}
			if e.ErrorType != "" {
				labels["error_type"] = e.ErrorType
			}
			s.RecordEvent(name, labels)
		})
	}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	ts := time.Now()

	s.mu.Lock()
	s.totals[eventName]++
	list := append(s.samples[eventName], sample{at: ts, labels: labels})
	if len(list) > maxSamples {
		list = list[len(list)-maxSamples:]
	}
	s.samples[eventName] = list
	s.mu.Unlock()

	nuts.L.Infof("[Monitoring] Event %s recorded with labels: %v", eventName, labels)
}

// GetEventMetrics counts events of eventType seen within duration, in total
// and per label value ("stage=compose")
func (s *Service) GetEventMetrics(eventType string, duration time.Duration) (map[string]int64, error) {
	cutoff := time.Now().Add(-duration)
	out := map[string]int64{"total": 0}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, smp := range s.samples[eventType] {
		if smp.at.Before(cutoff) {
			continue
		}
		out["total"]++
		for k, v := range smp.labels {
			out[k+"="+v]++
		}
	}
	return out, nil
}

// Snapshot returns totals since start and counts for the last hour
func (s *Service) Snapshot() Metrics {
	s.mu.RLock()
	totals := make(map[string]int64, len(s.totals))
	names := make([]string, 0, len(s.totals))
	for k, v := range s.totals {
		totals[k] = v
		names = append(names, k)
	}
	s.mu.RUnlock()
	sort.Strings(names)

	lastHour := make(map[string]int64, len(names))
	for _, name := range names {
		m, _ := s.GetEventMetrics(name, time.Hour)
		lastHour[name] = m["total"]
	}

	return Metrics{
		StartedAt:     s.startedAt,
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Totals:        totals,
		LastHour:      lastHour,
	}
}
