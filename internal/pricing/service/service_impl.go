package service

import (
	"context"
	"strings"

	billboarddomain "github.com/smallbiznis/billboards/internal/billboard/domain"
	"github.com/smallbiznis/billboards/internal/config"
	obsmetrics "github.com/smallbiznis/billboards/internal/observability/metrics"
	"github.com/smallbiznis/billboards/internal/pricing/domain"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log          *zap.Logger
	RateCardSvc  ratecarddomain.Service
	BillboardSvc billboarddomain.Service
	Pricing      *config.PricingConfigHolder
	Metrics      *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log          *zap.Logger
	rateCardSvc  ratecarddomain.Service
	billboardSvc billboarddomain.Service
	pricing      *config.PricingConfigHolder
	metrics      *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:          p.Log.Named("pricing.service"),
		rateCardSvc:  p.RateCardSvc,
		billboardSvc: p.BillboardSvc,
		pricing:      p.Pricing,
		metrics:      p.Metrics,
	}
}

func (s *Service) Quote(ctx context.Context, req domain.QuoteRequest) (domain.Quote, error) {
	if len(req.BillboardIDs) == 0 {
		return domain.Quote{}, domain.ErrInvalidBillboards
	}
	if req.Months <= 0 {
		return domain.Quote{}, ratecarddomain.ErrInvalidMonths
	}
	category, err := s.category(req.Category)
	if err != nil {
		return domain.Quote{}, err
	}

	billboards, err := s.billboardSvc.GetMany(ctx, req.BillboardIDs)
	if err != nil {
		return domain.Quote{}, err
	}
	card, err := s.rateCardSvc.Snapshot(ctx)
	if err != nil {
		return domain.Quote{}, err
	}

	quote, err := domain.QuoteContract(card, billboards, category, req.Months)
	if err != nil {
		return domain.Quote{}, err
	}

	fallbacks := 0
	for _, line := range quote.Lines {
		s.metrics.RecordPriceResolution(ctx, string(line.Source))
		if line.Source == domain.SourceFallback {
			fallbacks++
		}
	}
	if fallbacks > 0 {
		s.log.Debug("rate card miss, priced from monthly rate",
			zap.Int("fallback_lines", fallbacks),
			zap.Int("lines", len(quote.Lines)),
			zap.String("category", string(category)),
			zap.Int("months", req.Months),
		)
	}
	return quote, nil
}

func (s *Service) category(raw string) (ratecarddomain.Category, error) {
	if strings.TrimSpace(raw) == "" {
		raw = s.pricing.Get().DefaultCategory
	}
	return ratecarddomain.ParseCategory(raw)
}
