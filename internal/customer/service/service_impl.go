package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billboards/internal/clock"
	"github.com/smallbiznis/billboards/internal/config"
	"github.com/smallbiznis/billboards/internal/customer/domain"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
	"github.com/smallbiznis/billboards/pkg/db"
	"github.com/smallbiznis/billboards/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Clock   clock.Clock
	Pricing *config.PricingConfigHolder
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	clock   clock.Clock
	pricing *config.PricingConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("customer.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		clock:   p.Clock,
		pricing: p.Pricing,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	category, err := s.category(req.Category)
	if err != nil {
		return domain.Customer{}, err
	}

	now := s.clock.Now()
	customer := domain.Customer{
		ID:        s.genID.Generate(),
		Name:      name,
		Category:  category,
		Phone:     strings.TrimSpace(req.Phone),
		Company:   strings.TrimSpace(req.Company),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, db.WrapStorage("insert customer", err)
	}

	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	filter := domain.ListCustomerFilter{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.ToLower(strings.TrimSpace(req.Category)),
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: int(req.PageSize)}
	items, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListCustomerResponse{}, db.WrapStorage("list customers", err)
	}

	items, pageInfo := pagination.Trim(items, page.Size(), func(c *domain.Customer) pagination.Cursor {
		return pagination.Cursor{ID: c.ID.String(), CreatedAt: c.CreatedAt}
	})
	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		customers = append(customers, *item)
	}

	return domain.ListCustomerResponse{PageInfo: pageInfo, Customers: customers}, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.Customer, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, db.WrapStorage("get customer", err)
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Resolve(ctx context.Context, req domain.ResolveRequest) (domain.Ref, *domain.Customer, error) {
	rawID := strings.TrimSpace(req.ID)
	name := strings.TrimSpace(req.Name)
	if rawID == "" && name == "" {
		return domain.Ref{}, nil, domain.ErrInvalidRef
	}

	if rawID != "" {
		id, err := s.parseID(rawID)
		if err != nil {
			return domain.Ref{}, nil, err
		}
		item, err := s.repo.FindByID(ctx, s.db, id)
		if err != nil {
			return domain.Ref{}, nil, db.WrapStorage("resolve customer", err)
		}
		if item != nil {
			return domain.Ref{ID: &item.ID, Name: item.Name}, item, nil
		}
		if name == "" {
			return domain.Ref{}, nil, domain.ErrNotFound
		}
		s.log.Debug("customer id not found, resolving by name", zap.String("customer_id", rawID))
		item, err = s.repo.FindByName(ctx, s.db, name)
		if err != nil {
			return domain.Ref{}, nil, db.WrapStorage("resolve customer", err)
		}
		if item != nil {
			return domain.Ref{ID: &item.ID, Name: item.Name}, item, nil
		}
		return domain.Ref{Name: name}, nil, nil
	}

	item, err := s.repo.FindByName(ctx, s.db, name)
	if err != nil {
		return domain.Ref{}, nil, db.WrapStorage("resolve customer", err)
	}
	if item == nil {
		return domain.Ref{Name: name}, nil, nil
	}
	return domain.Ref{ID: &item.ID, Name: item.Name}, item, nil
}

func (s *Service) category(raw string) (ratecarddomain.Category, error) {
	if strings.TrimSpace(raw) == "" {
		return ratecarddomain.Category(s.pricing.Get().DefaultCategory), nil
	}
	category, err := ratecarddomain.ParseCategory(raw)
	if err != nil {
		return "", domain.ErrInvalidCategory
	}
	return category, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
