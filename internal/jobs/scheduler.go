package jobs

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const probeStatusKey = "upstream:status"

// Pinger is anything the scheduler can probe for reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusCache publishes the latest probe result to other instances.
type StatusCache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type ProbeStatus struct {
	Healthy   bool      `json:"healthy"`
	CheckedAt time.Time `json:"checkedAt"`
	Latency   string    `json:"latency"`
	Error     string    `json:"error,omitempty"`
}

type Scheduler struct {
	cron     *cron.Cron
	probe    Pinger
	cache    StatusCache
	schedule string
	timeout  time.Duration
	log      zerolog.Logger

	status atomic.Pointer[ProbeStatus]
}

func NewScheduler(probe Pinger, cache StatusCache, schedule string, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:     c,
		probe:    probe,
		cache:    cache,
		schedule: schedule,
		timeout:  10 * time.Second,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.probe == nil || s.schedule == "" {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runScheduled); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running probe, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Status is the latest probe result, if any probe has run.
func (s *Scheduler) Status() (ProbeStatus, bool) {
	st := s.status.Load()
	if st == nil {
		return ProbeStatus{}, false
	}
	return *st, true
}

func (s *Scheduler) runScheduled() {
	s.RunProbe(context.Background())
}

// RunProbe pings the upstream once and records the result.
func (s *Scheduler) RunProbe(ctx context.Context) ProbeStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := s.probe.Ping(ctx)
	st := ProbeStatus{
		Healthy:   err == nil,
		CheckedAt: start.UTC(),
		Latency:   time.Since(start).String(),
	}
	if err != nil {
		st.Error = err.Error()
		s.log.Warn().Err(err).Msg("upstream probe failed")
	} else {
		s.log.Debug().Str("latency", st.Latency).Msg("upstream probe ok")
	}
	s.status.Store(&st)
	s.publish(ctx, st)
	return st
}

func (s *Scheduler) publish(ctx context.Context, st ProbeStatus) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, probeStatusKey, payload, 5*time.Minute); err != nil {
		s.log.Error().Err(err).Msg("publish probe status failed")
	}
}
