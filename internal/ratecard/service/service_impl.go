package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/billboards/internal/cache"
	"github.com/smallbiznis/billboards/internal/clock"
	"github.com/smallbiznis/billboards/internal/ratecard/domain"
	"github.com/smallbiznis/billboards/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
	Cache cache.RateCardCache `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
	cache cache.RateCardCache
}

func New(p Params) domain.Service {
	c := p.Cache
	if c == nil {
		c = cache.NewRateCardCache(nil, 0, p.Clock, p.Log)
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ratecard.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
		cache: c,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.RateCardEntry, error) {
	entries, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, db.WrapStorage("list rate card", err)
	}
	return entries, nil
}

func (s *Service) Upsert(ctx context.Context, req domain.UpsertEntryRequest) (domain.RateCardEntry, error) {
	size := strings.TrimSpace(req.Size)
	if size == "" {
		return domain.RateCardEntry{}, domain.ErrInvalidSize
	}
	level := strings.TrimSpace(req.Level)
	if level == "" {
		return domain.RateCardEntry{}, domain.ErrInvalidLevel
	}
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return domain.RateCardEntry{}, err
	}
	if req.Months <= 0 {
		return domain.RateCardEntry{}, domain.ErrInvalidMonths
	}
	if req.Price.IsNegative() {
		return domain.RateCardEntry{}, domain.ErrInvalidPrice
	}

	now := s.clock.Now()
	entry := domain.RateCardEntry{
		ID:        s.genID.Generate(),
		Size:      size,
		Level:     level,
		Category:  category,
		Months:    req.Months,
		Price:     req.Price.Round(2),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Upsert(ctx, s.db, &entry); err != nil {
		return domain.RateCardEntry{}, db.WrapStorage("upsert rate card entry", err)
	}
	s.cache.Invalidate(ctx)

	stored, err := s.repo.FindByKey(ctx, s.db, domain.NewKey(size, level, category, req.Months))
	if err != nil {
		return domain.RateCardEntry{}, db.WrapStorage("reload rate card entry", err)
	}
	if stored == nil {
		return entry, nil
	}

	s.log.Info("rate card entry saved",
		zap.String("size", size),
		zap.String("level", level),
		zap.String("category", string(category)),
		zap.Int("months", req.Months),
		zap.String("price", stored.Price.String()),
	)
	return *stored, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	entryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || entryID == 0 {
		return domain.ErrInvalidID
	}
	deleted, err := s.repo.Delete(ctx, s.db, entryID)
	if err != nil {
		return db.WrapStorage("delete rate card entry", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *Service) Snapshot(ctx context.Context) (*domain.RateCard, error) {
	if entries, ok := s.cache.Get(ctx); ok {
		return domain.NewRateCard(entries), nil
	}
	entries, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, db.WrapStorage("load rate card", err)
	}
	s.cache.Set(ctx, entries)
	return domain.NewRateCard(entries), nil
}

func (s *Service) Resolve(ctx context.Context, req domain.ResolveRequest) (decimal.Decimal, error) {
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return decimal.Zero, err
	}
	if req.Months <= 0 {
		return decimal.Zero, domain.ErrInvalidMonths
	}
	card, err := s.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return card.Lookup(req.Size, req.Level, category, req.Months)
}
