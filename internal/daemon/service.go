// Package daemon polls the input table and serves the selection's KPI
// summary over a local HTTP API with an SSE change feed.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
)

// Event types.
const (
	EventSnapshot = "snapshot"
	EventKPIDelta = "kpi_delta"
)

// Source is the data the service polls. *pipeline.Dashboard implements it.
type Source interface {
	Reload() (*pipeline.LoadResult, error)
	Resolve(sel model.Selection) (model.Selection, error)
	Summary(sel model.Selection) (model.KPISummary, error)
}

// Config controls polling and the listen address.
type Config struct {
	DataPath     string
	Selection    model.Selection // empty fields resolve to the first value each poll
	Interval     time.Duration
	Addr         string
	EventsBuffer int
}

func (c Config) withDefaults() Config {
	if c.Interval < 2*time.Second {
		c.Interval = 10 * time.Second
	}
	if c.EventsBuffer < 1 {
		c.EventsBuffer = 200
	}
	if c.Addr == "" {
		c.Addr = "127.0.0.1:8787"
	}
	return c
}

// Snapshot is the headline KPI state at one poll.
type Snapshot struct {
	At              time.Time `json:"at"`
	Rows            int       `json:"rows"`
	FirstMonth      string    `json:"first_month,omitempty"`
	LastMonth       string    `json:"last_month,omitempty"`
	Profit          float64   `json:"profit"`
	ProfitVariance  float64   `json:"profit_variance"`
	RevenueVariance float64   `json:"revenue_variance"`
	CostVariance    float64   `json:"cost_variance"`
	PVMImpact       float64   `json:"pvm_impact"`
	CapEx           float64   `json:"capex"`
	OpEx            float64   `json:"opex"`
}

// Delta is the change between two consecutive snapshots.
type Delta struct {
	Rows            int     `json:"rows"`
	Profit          float64 `json:"profit"`
	RevenueVariance float64 `json:"revenue_variance"`
	CostVariance    float64 `json:"cost_variance"`
	PVMImpact       float64 `json:"pvm_impact"`
}

// IsZero reports whether nothing moved.
func (d Delta) IsZero() bool { return d == Delta{} }

// Event is published on the first poll and whenever the snapshot moves.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time       `json:"started_at"`
	LastPollAt      time.Time       `json:"last_poll_at"`
	PollIntervalSec int             `json:"poll_interval_sec"`
	PollCount       int64           `json:"poll_count"`
	DataPath        string          `json:"data_path"`
	Selection       model.Selection `json:"selection"`
	Summary         Snapshot        `json:"summary"`
	LastError       string          `json:"last_error,omitempty"`
	EventCount      int             `json:"event_count"`
	SubscriberCount int             `json:"subscriber_count"`
}

// Service polls a Source and serves what it saw.
type Service struct {
	cfg    Config
	src    Source
	events *broker

	mu        sync.RWMutex
	started   time.Time
	lastPoll  time.Time
	polls     int64
	lastErr   error
	current   *Snapshot
	selection model.Selection
}

// New returns a service polling src.
func New(src Source, cfg Config) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		cfg:       cfg,
		src:       src,
		events:    newBroker(cfg.EventsBuffer),
		started:   time.Now(),
		selection: cfg.Selection,
	}
}

// Run serves HTTP and polls until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	slog.Info("daemon listening", "addr", s.cfg.Addr, "interval", s.cfg.Interval, "data", s.cfg.DataPath)

	s.Poll()
	tick := time.NewTicker(s.cfg.Interval)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			s.Poll()
		case err := <-serveErr:
			return fmt.Errorf("daemon http server: %w", err)
		case <-ctx.Done():
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(stopCtx)
		}
	}
}

// Poll reloads the input and recomputes the summary. The first success emits
// a snapshot event, later ones a kpi_delta event when any headline moved.
// A failure keeps the previous snapshot and is reported in Status.
func (s *Service) Poll() {
	now := time.Now()
	summary, sel, err := s.measure()

	s.mu.Lock()
	s.lastPoll = now
	s.polls++
	s.lastErr = err
	if err != nil {
		s.mu.Unlock()
		slog.Warn("daemon poll failed", "error", err)
		return
	}
	next := snapshotOf(summary, now)
	prev := s.current
	s.current = &next
	s.selection = sel
	s.mu.Unlock()

	switch {
	case prev == nil:
		s.events.emit(EventSnapshot, now, next, Delta{})
	default:
		if d := diff(*prev, next); !d.IsZero() {
			ev := s.events.emit(EventKPIDelta, now, next, d)
			slog.Debug("kpi delta", "id", ev.ID, "profit", d.Profit, "rows", d.Rows)
		}
	}
}

func (s *Service) measure() (model.KPISummary, model.Selection, error) {
	if _, err := s.src.Reload(); err != nil {
		return model.KPISummary{}, model.Selection{}, fmt.Errorf("reload: %w", err)
	}
	sel, err := s.src.Resolve(s.cfg.Selection)
	if err != nil {
		return model.KPISummary{}, sel, err
	}
	sum, err := s.src.Summary(sel)
	return sum, sel, err
}

// Status returns the current service state.
func (s *Service) Status() Status {
	events, subs := s.events.counts()

	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		StartedAt:       s.started,
		LastPollAt:      s.lastPoll,
		PollIntervalSec: int(s.cfg.Interval / time.Second),
		PollCount:       s.polls,
		DataPath:        s.cfg.DataPath,
		Selection:       s.selection,
		EventCount:      events,
		SubscriberCount: subs,
	}
	if s.current != nil {
		st.Summary = *s.current
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

func snapshotOf(k model.KPISummary, at time.Time) Snapshot {
	snap := Snapshot{
		At:              at,
		Rows:            k.Rows,
		Profit:          k.TotalProfit,
		ProfitVariance:  k.TotalProfitVariance,
		RevenueVariance: k.RevenueVariance,
		CostVariance:    k.CostVariance,
		PVMImpact:       k.TotalPVMImpact,
		CapEx:           k.TotalCapEx,
		OpEx:            k.TotalOpEx,
	}
	if !k.FirstMonth.IsZero() {
		snap.FirstMonth = k.FirstMonth.Format("2006-01-02")
		snap.LastMonth = k.LastMonth.Format("2006-01-02")
	}
	return snap
}

func diff(prev, curr Snapshot) Delta {
	return Delta{
		Rows:            curr.Rows - prev.Rows,
		Profit:          curr.Profit - prev.Profit,
		RevenueVariance: curr.RevenueVariance - prev.RevenueVariance,
		CostVariance:    curr.CostVariance - prev.CostVariance,
		PVMImpact:       curr.PVMImpact - prev.PVMImpact,
	}
}
