package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billboards/internal/billboard/domain"
	"github.com/smallbiznis/billboards/internal/clock"
	"github.com/smallbiznis/billboards/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("billboard.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBillboardRequest) (domain.Billboard, error) {
	billboard, err := s.build(req)
	if err != nil {
		return domain.Billboard{}, err
	}
	if err := s.repo.Insert(ctx, s.db, &billboard); err != nil {
		return domain.Billboard{}, db.WrapStorage("insert billboard", err)
	}
	return billboard, nil
}

func (s *Service) CreateMany(ctx context.Context, reqs []domain.CreateBillboardRequest) ([]domain.Billboard, error) {
	items := make([]*domain.Billboard, 0, len(reqs))
	for i, req := range reqs {
		billboard, err := s.build(req)
		if err != nil {
			return nil, fmt.Errorf("billboard %d: %w", i, err)
		}
		items = append(items, &billboard)
	}
	if err := s.repo.BatchInsert(ctx, s.db, items); err != nil {
		return nil, db.WrapStorage("insert billboards", err)
	}

	out := make([]domain.Billboard, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	s.log.Info("billboards created", zap.Int("count", len(out)))
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Billboard, error) {
	billboardID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || billboardID == 0 {
		return domain.Billboard{}, domain.ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, s.db, billboardID)
	if err != nil {
		return domain.Billboard{}, db.WrapStorage("get billboard", err)
	}
	if item == nil {
		return domain.Billboard{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetMany(ctx context.Context, ids []snowflake.ID) ([]domain.Billboard, error) {
	items, err := s.repo.FindByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, db.WrapStorage("get billboards", err)
	}
	byID := make(map[snowflake.ID]domain.Billboard, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	out := make([]domain.Billboard, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("billboard %s: %w", id, domain.ErrNotFound)
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Service) List(ctx context.Context, req domain.ListBillboardRequest) ([]domain.Billboard, error) {
	items, err := s.repo.List(ctx, s.db, domain.ListBillboardFilter{
		Size:         strings.TrimSpace(req.Size),
		Level:        strings.TrimSpace(req.Level),
		Municipality: strings.TrimSpace(req.Municipality),
		Query:        strings.TrimSpace(req.Query),
	})
	if err != nil {
		return nil, db.WrapStorage("list billboards", err)
	}
	return items, nil
}

func (s *Service) build(req domain.CreateBillboardRequest) (domain.Billboard, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Billboard{}, domain.ErrInvalidName
	}
	size := strings.TrimSpace(req.Size)
	if size == "" {
		return domain.Billboard{}, domain.ErrInvalidSize
	}
	level := strings.TrimSpace(req.Level)
	if level == "" {
		return domain.Billboard{}, domain.ErrInvalidLevel
	}
	if req.MonthlyPrice.IsNegative() {
		return domain.Billboard{}, domain.ErrInvalidMonthlyPrice
	}
	faces := req.Faces
	if faces <= 0 {
		faces = 1
	}
	metadata := datatypes.JSONMap{}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	now := s.clock.Now()
	return domain.Billboard{
		ID:           s.genID.Generate(),
		Name:         name,
		Size:         size,
		Level:        level,
		MonthlyPrice: req.MonthlyPrice.Round(2),
		Municipality: strings.TrimSpace(req.Municipality),
		District:     strings.TrimSpace(req.District),
		Landmark:     strings.TrimSpace(req.Landmark),
		Faces:        faces,
		Coordinates:  strings.TrimSpace(req.Coordinates),
		ImageURL:     strings.TrimSpace(req.ImageURL),
		Metadata:     metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
