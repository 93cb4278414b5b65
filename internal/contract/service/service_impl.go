package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/billboards/internal/clock"
	"github.com/smallbiznis/billboards/internal/config"
	"github.com/smallbiznis/billboards/internal/contract/domain"
	customerdomain "github.com/smallbiznis/billboards/internal/customer/domain"
	obsmetrics "github.com/smallbiznis/billboards/internal/observability/metrics"
	pricingdomain "github.com/smallbiznis/billboards/internal/pricing/domain"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
	"github.com/smallbiznis/billboards/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	Clock       clock.Clock
	Pricing     *config.PricingConfigHolder
	PricingSvc  pricingdomain.Service
	CustomerSvc customerdomain.Service
	Metrics     *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	clock       clock.Clock
	pricing     *config.PricingConfigHolder
	pricingSvc  pricingdomain.Service
	customerSvc customerdomain.Service
	metrics     *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("contract.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		clock:       p.Clock,
		pricing:     p.Pricing,
		pricingSvc:  p.PricingSvc,
		customerSvc: p.CustomerSvc,
		metrics:     p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateContractRequest) (domain.View, error) {
	if strings.TrimSpace(req.CustomerID) == "" && strings.TrimSpace(req.CustomerName) == "" {
		return domain.View{}, domain.ErrInvalidCustomer
	}
	if req.StartDate == nil {
		return domain.View{}, domain.ErrInvalidStartDate
	}
	if req.Months < 0 {
		return domain.View{}, domain.ErrInvalidMonths
	}
	if req.EndDate == nil && req.Months == 0 {
		return domain.View{}, domain.ErrInvalidEndDate
	}
	if len(req.BillboardIDs) == 0 {
		return domain.View{}, domain.ErrInvalidBillboards
	}
	if req.RentCost != nil && req.RentCost.IsNegative() {
		return domain.View{}, domain.ErrInvalidRentCost
	}

	start := domain.Day(*req.StartDate)
	months := req.Months
	var end time.Time
	if req.EndDate != nil {
		end = domain.Day(*req.EndDate)
		if end.Before(start) {
			return domain.View{}, domain.ErrInvalidEndDate
		}
		inferred := domain.InferMonths(&start, &end)
		if months != 0 && months != inferred {
			return domain.View{}, domain.ErrInvalidMonths
		}
		months = inferred
	} else {
		end = start.AddDate(0, months, 0)
	}

	ref, customer, err := s.customerSvc.Resolve(ctx, customerdomain.ResolveRequest{
		ID:   req.CustomerID,
		Name: req.CustomerName,
	})
	if err != nil {
		if errors.Is(err, customerdomain.ErrNotFound) || errors.Is(err, customerdomain.ErrInvalidID) {
			return domain.View{}, domain.ErrInvalidCustomer
		}
		return domain.View{}, err
	}

	category, err := s.category(req.Category, customer)
	if err != nil {
		return domain.View{}, err
	}
	rentCost, category, err := s.cost(ctx, req.RentCost, req.BillboardIDs, category, months)
	if err != nil {
		return domain.View{}, err
	}

	now := s.clock.Now()
	contract := domain.Contract{
		ID:           s.genID.Generate(),
		CustomerID:   ref.ID,
		CustomerName: ref.Name,
		AdType:       strings.TrimSpace(req.AdType),
		StartDate:    &start,
		EndDate:      &end,
		RentCost:     rentCost,
		Category:     category,
		BillboardIDs: datatypes.NewJSONSlice(req.BillboardIDs),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, &contract); err != nil {
		return domain.View{}, db.WrapStorage("insert contract", err)
	}

	s.metrics.RecordContract(ctx, "created")
	s.log.Info("contract created",
		zap.String("contract_id", contract.ID.String()),
		zap.String("customer", ref.String()),
		zap.Int("billboards", len(req.BillboardIDs)),
		zap.String("rent_cost", rentCost.String()),
		zap.Bool("cost_override", req.RentCost != nil),
	)
	return domain.NewView(contract, now), nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.View, error) {
	contract, err := s.find(ctx, id)
	if err != nil {
		return domain.View{}, err
	}
	return domain.NewView(*contract, s.clock.Now()), nil
}

func (s *Service) List(ctx context.Context, req domain.ListContractRequest) ([]domain.View, error) {
	filter, err := domain.ParseStatusFilter(req.Status)
	if err != nil {
		return nil, err
	}

	contracts, err := s.listByCustomer(ctx, req.CustomerID, req.CustomerName)
	if err != nil {
		return nil, err
	}

	today := s.clock.Now()
	query := strings.ToLower(strings.TrimSpace(req.Query))
	out := make([]domain.View, 0, len(contracts))
	for _, c := range contracts {
		if query != "" && !matchesQuery(c, query) {
			continue
		}
		if !domain.MatchesFilter(c, filter, today) {
			continue
		}
		out = append(out, domain.NewView(c, today))
	}
	return out, nil
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	contracts, err := s.repo.List(ctx, s.db, domain.ListContractFilter{})
	if err != nil {
		return domain.Stats{}, db.WrapStorage("list contracts", err)
	}
	return domain.ComputeStats(contracts, s.clock.Now()), nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateContractRequest) (domain.View, error) {
	contract, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.View{}, err
	}

	if req.AdType != nil {
		contract.AdType = strings.TrimSpace(*req.AdType)
	}
	if req.StartDate != nil {
		start := domain.Day(*req.StartDate)
		contract.StartDate = &start
	}
	if req.EndDate != nil {
		end := domain.Day(*req.EndDate)
		contract.EndDate = &end
	}
	if contract.StartDate != nil && contract.EndDate != nil && contract.EndDate.Before(*contract.StartDate) {
		return domain.View{}, domain.ErrInvalidEndDate
	}
	if req.RentCost != nil {
		if req.RentCost.IsNegative() {
			return domain.View{}, domain.ErrInvalidRentCost
		}
		contract.RentCost = req.RentCost.Round(2)
	}

	now := s.clock.Now()
	contract.UpdatedAt = now
	if err := s.repo.Update(ctx, s.db, contract); err != nil {
		return domain.View{}, db.WrapStorage("update contract", err)
	}
	return domain.NewView(*contract, now), nil
}

func (s *Service) Renew(ctx context.Context, req domain.RenewContractRequest) (domain.View, error) {
	source, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.View{}, err
	}

	now := s.clock.Now()
	plan, err := domain.PlanRenewal(*source, now, domain.RenewalOptions{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		KeepCost:  req.KeepCost,
	})
	if err != nil {
		return domain.View{}, err
	}
	if len(plan.BillboardIDs) == 0 && !req.KeepCost {
		return domain.View{}, domain.ErrInvalidBillboards
	}

	var customer *customerdomain.Customer
	if strings.TrimSpace(req.Category) == "" && source.Category == "" && source.CustomerID != nil {
		if found, err := s.customerSvc.GetByID(ctx, customerdomain.GetCustomerRequest{ID: source.CustomerID.String()}); err == nil {
			customer = &found
		}
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = string(source.Category)
	}
	resolved, err := s.category(category, customer)
	if err != nil {
		return domain.View{}, err
	}

	rentCost, resolved, err := s.cost(ctx, plan.RentCost, plan.BillboardIDs, resolved, plan.Months)
	if err != nil {
		return domain.View{}, err
	}

	start, end := plan.StartDate, plan.EndDate
	renewedFrom := source.ID
	contract := domain.Contract{
		ID:           s.genID.Generate(),
		CustomerID:   source.CustomerID,
		CustomerName: source.CustomerName,
		AdType:       source.AdType,
		StartDate:    &start,
		EndDate:      &end,
		RentCost:     rentCost,
		Category:     resolved,
		BillboardIDs: datatypes.NewJSONSlice(plan.BillboardIDs),
		RenewedFrom:  &renewedFrom,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, &contract); err != nil {
		return domain.View{}, db.WrapStorage("insert contract", err)
	}

	s.metrics.RecordContract(ctx, "renewed")
	s.log.Info("contract renewed",
		zap.String("contract_id", contract.ID.String()),
		zap.String("renewed_from", source.ID.String()),
		zap.Int("months", plan.Months),
		zap.Bool("keep_cost", req.KeepCost),
	)
	return domain.NewView(contract, now), nil
}

func (s *Service) ImportMany(ctx context.Context, reqs []domain.ImportContractRequest) ([]domain.Contract, error) {
	now := s.clock.Now()
	items := make([]*domain.Contract, 0, len(reqs))
	for i, req := range reqs {
		if req.RentCost.IsNegative() {
			return nil, fmt.Errorf("contract %d: %w", i, domain.ErrInvalidRentCost)
		}
		ref, customer, err := s.customerSvc.Resolve(ctx, customerdomain.ResolveRequest{
			ID:   req.CustomerID,
			Name: req.CustomerName,
		})
		if err != nil {
			if errors.Is(err, customerdomain.ErrNotFound) ||
				errors.Is(err, customerdomain.ErrInvalidID) ||
				errors.Is(err, customerdomain.ErrInvalidRef) {
				return nil, fmt.Errorf("contract %d: %w", i, domain.ErrInvalidCustomer)
			}
			return nil, err
		}

		id := s.genID.Generate()
		if req.Number != nil && *req.Number > 0 {
			id = *req.Number
		}
		contract := &domain.Contract{
			ID:           id,
			CustomerID:   ref.ID,
			CustomerName: ref.Name,
			AdType:       strings.TrimSpace(req.AdType),
			RentCost:     req.RentCost.Round(2),
			Category:     s.defaultCategory(customer),
			BillboardIDs: datatypes.NewJSONSlice(req.BillboardIDs),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if req.StartDate != nil {
			start := domain.Day(*req.StartDate)
			contract.StartDate = &start
		}
		if req.EndDate != nil {
			end := domain.Day(*req.EndDate)
			contract.EndDate = &end
		}
		items = append(items, contract)
	}

	if err := s.repo.BatchInsert(ctx, s.db, items); err != nil {
		return nil, db.WrapStorage("insert contracts", err)
	}

	out := make([]domain.Contract, 0, len(items))
	for _, item := range items {
		s.metrics.RecordContract(ctx, "imported")
		out = append(out, *item)
	}
	return out, nil
}

// cost returns the override when given, otherwise a fresh quote for the
// billboards at the given category and duration.
func (s *Service) cost(ctx context.Context, override *decimal.Decimal, billboardIDs []snowflake.ID, category ratecarddomain.Category, months int) (decimal.Decimal, ratecarddomain.Category, error) {
	if override != nil {
		return override.Round(2), category, nil
	}
	quote, err := s.pricingSvc.Quote(ctx, pricingdomain.QuoteRequest{
		BillboardIDs: billboardIDs,
		Category:     string(category),
		Months:       months,
	})
	if err != nil {
		return decimal.Zero, "", err
	}
	return quote.Total.Round(2), quote.Category, nil
}

// category picks the explicit category, then the customer's, then the
// configured default. A non-blank value that is not a known category is
// rejected.
func (s *Service) category(raw string, customer *customerdomain.Customer) (ratecarddomain.Category, error) {
	if strings.TrimSpace(raw) != "" {
		return ratecarddomain.ParseCategory(raw)
	}
	return s.defaultCategory(customer), nil
}

func (s *Service) defaultCategory(customer *customerdomain.Customer) ratecarddomain.Category {
	if customer != nil && customer.Category != "" {
		return customer.Category
	}
	return ratecarddomain.Category(s.pricing.Get().DefaultCategory)
}

// listByCustomer filters by customer id first and only falls back to the
// name when the id matches nothing.
func (s *Service) listByCustomer(ctx context.Context, rawID, name string) ([]domain.Contract, error) {
	rawID = strings.TrimSpace(rawID)
	name = strings.TrimSpace(name)

	if rawID != "" {
		id, err := snowflake.ParseString(rawID)
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidCustomer
		}
		contracts, err := s.repo.List(ctx, s.db, domain.ListContractFilter{CustomerID: &id})
		if err != nil {
			return nil, db.WrapStorage("list contracts", err)
		}
		if len(contracts) > 0 || name == "" {
			return contracts, nil
		}
	}

	contracts, err := s.repo.List(ctx, s.db, domain.ListContractFilter{CustomerName: name})
	if err != nil {
		return nil, db.WrapStorage("list contracts", err)
	}
	return contracts, nil
}

func (s *Service) find(ctx context.Context, raw string) (*domain.Contract, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}
	contract, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, db.WrapStorage("get contract", err)
	}
	if contract == nil {
		return nil, domain.ErrNotFound
	}
	return contract, nil
}

func matchesQuery(c domain.Contract, query string) bool {
	return strings.Contains(strings.ToLower(c.CustomerName), query) ||
		strings.Contains(strings.ToLower(c.AdType), query) ||
		strings.Contains(c.ID.String(), query)
}
