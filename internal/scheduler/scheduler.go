package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/billboards/internal/clock"
	contractdomain "github.com/smallbiznis/billboards/internal/contract/domain"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	JobContractStatus = "contract_status"
	JobRateCardWarm   = "rate_card_warm"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Params struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	ContractSvc contractdomain.Service
	RateCardSvc ratecarddomain.Service
	Config      Config `optional:"true"`
}

type Scheduler struct {
	log         *zap.Logger
	cfg         Config
	clock       clock.Clock
	contractSvc contractdomain.Service
	rateCardSvc ratecarddomain.Service
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.ContractSvc == nil || p.RateCardSvc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:         p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:         p.Config.withDefaults(),
		clock:       p.Clock,
		contractSvc: p.ContractSvc,
		rateCardSvc: p.RateCardSvc,
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	log := s.log.With(zap.String("job", name))
	err := fn(ctx)
	schedulerMetrics().observe(name, s.clock.Now().Sub(start), err)
	if err == nil {
		log.Debug("job finished", zap.Duration("duration", s.clock.Now().Sub(start)))
		return nil
	}

	// A deadline is a soft failure; the next tick retries.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Warn("job timed out", zap.Duration("timeout", timeout), zap.Error(err))
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name string
		Run  func(context.Context) error
	}{
		{JobRateCardWarm, s.RateCardWarmJob},
		{JobContractStatus, s.ContractStatusJob},
	}

	for _, job := range jobs {
		if s.isJobEnabled(job.Name) {
			err = errors.Join(err, s.runJob(parent, job.Name, s.cfg.JobTimeout, job.Run))
		}
	}

	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

// RateCardWarmJob reloads the rate card snapshot so quotes hit a warm cache.
func (s *Scheduler) RateCardWarmJob(ctx context.Context) error {
	card, err := s.rateCardSvc.Snapshot(ctx)
	if err != nil {
		return err
	}
	s.log.Debug("rate card warmed", zap.Int("entries", card.Len()))
	return nil
}

// ContractStatusJob publishes contract counts per status and logs each
// contract that is about to expire.
func (s *Scheduler) ContractStatusJob(ctx context.Context) error {
	stats, err := s.contractSvc.Stats(ctx)
	if err != nil {
		return err
	}

	gauge := schedulerMetrics().contracts
	gauge.WithLabelValues(string(contractdomain.FilterActive)).Set(float64(stats.Active))
	gauge.WithLabelValues(string(contractdomain.FilterExpiring)).Set(float64(stats.Expiring))
	gauge.WithLabelValues(string(contractdomain.FilterExpired)).Set(float64(stats.Expired))
	gauge.WithLabelValues(string(contractdomain.FilterAll)).Set(float64(stats.Total))

	if stats.Expiring == 0 {
		return nil
	}
	expiring, err := s.contractSvc.List(ctx, contractdomain.ListContractRequest{
		Status: string(contractdomain.FilterExpiring),
	})
	if err != nil {
		return err
	}
	for _, view := range expiring {
		fields := []zap.Field{
			zap.String("contract_id", view.ID.String()),
			zap.String("customer_name", view.CustomerName),
		}
		if view.DaysRemaining != nil {
			fields = append(fields, zap.Int("days_remaining", *view.DaysRemaining))
		}
		s.log.Info("contract expiring soon", fields...)
	}
	return nil
}
