package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billboards/internal/clock"
	contractdomain "github.com/smallbiznis/billboards/internal/contract/domain"
	customerdomain "github.com/smallbiznis/billboards/internal/customer/domain"
	obsmetrics "github.com/smallbiznis/billboards/internal/observability/metrics"
	"github.com/smallbiznis/billboards/internal/payment/domain"
	"github.com/smallbiznis/billboards/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	ContractRepo contractdomain.Repository
	CustomerSvc  customerdomain.Service
	Clock        clock.Clock
	Metrics      *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	contractRepo contractdomain.Repository
	customerSvc  customerdomain.Service
	clock        clock.Clock
	metrics      *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("payment.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		contractRepo: p.ContractRepo,
		customerSvc:  p.CustomerSvc,
		clock:        p.Clock,
		metrics:      p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateEntryRequest) (domain.Entry, error) {
	entry, err := s.build(ctx, req)
	if err != nil {
		return domain.Entry{}, err
	}
	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		return domain.Entry{}, db.WrapStorage("insert payment entry", err)
	}

	s.metrics.RecordLedgerEntry(ctx, string(entry.EntryType), "create")
	s.log.Info("payment entry recorded",
		zap.String("entry_id", entry.ID.String()),
		zap.String("entry_type", string(entry.EntryType)),
		zap.String("amount", entry.Amount.String()),
		zap.Bool("account_level", entry.IsAccountLevel()),
	)
	return entry, nil
}

func (s *Service) CreateMany(ctx context.Context, reqs []domain.CreateEntryRequest) ([]domain.Entry, error) {
	items := make([]*domain.Entry, 0, len(reqs))
	for i, req := range reqs {
		entry, err := s.build(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("payment entry %d: %w", i, err)
		}
		items = append(items, &entry)
	}
	if err := s.repo.BatchInsert(ctx, s.db, items); err != nil {
		return nil, db.WrapStorage("insert payment entries", err)
	}

	out := make([]domain.Entry, 0, len(items))
	for _, item := range items {
		s.metrics.RecordLedgerEntry(ctx, string(item.EntryType), "create")
		out = append(out, *item)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateEntryRequest) (domain.Entry, error) {
	entry, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Entry{}, err
	}

	if req.Amount != nil {
		amount := req.Amount.Round(2)
		if !amount.IsPositive() {
			return domain.Entry{}, domain.ErrInvalidAmount
		}
		entry.Amount = amount
	}
	if req.Method != nil {
		entry.Method = strings.TrimSpace(*req.Method)
	}
	if req.Reference != nil {
		entry.Reference = strings.TrimSpace(*req.Reference)
	}
	if req.Notes != nil {
		entry.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.PaidAt != nil {
		entry.PaidAt = contractdomain.Day(*req.PaidAt)
	}
	entry.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, entry); err != nil {
		return domain.Entry{}, db.WrapStorage("update payment entry", err)
	}
	s.metrics.RecordLedgerEntry(ctx, string(entry.EntryType), "update")
	return *entry, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	entry, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, s.db, entry.ID)
	if err != nil {
		return db.WrapStorage("delete payment entry", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}
	s.metrics.RecordLedgerEntry(ctx, string(entry.EntryType), "delete")
	s.log.Info("payment entry deleted", zap.String("entry_id", entry.ID.String()))
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Entry, error) {
	entry, err := s.find(ctx, id)
	if err != nil {
		return domain.Entry{}, err
	}
	return *entry, nil
}

func (s *Service) ListByCustomer(ctx context.Context, req domain.ListByCustomerRequest) ([]domain.Entry, error) {
	entries, err := s.listForCustomer(ctx, req.CustomerID, req.CustomerName)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCustomer) {
			return nil, err
		}
		return nil, db.WrapStorage("list payment entries", err)
	}
	return entries, nil
}

// listForCustomer lists by customer id and falls back to the name only when
// the id matches nothing.
func (s *Service) listForCustomer(ctx context.Context, rawID, name string) ([]domain.Entry, error) {
	rawID = strings.TrimSpace(rawID)
	name = strings.TrimSpace(name)
	if rawID == "" && name == "" {
		return nil, domain.ErrInvalidCustomer
	}

	if rawID != "" {
		id, err := snowflake.ParseString(rawID)
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidCustomer
		}
		entries, err := s.repo.List(ctx, s.db, domain.ListEntryFilter{CustomerID: &id})
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 || name == "" {
			return entries, nil
		}
	}
	return s.repo.List(ctx, s.db, domain.ListEntryFilter{CustomerName: name})
}

func (s *Service) build(ctx context.Context, req domain.CreateEntryRequest) (domain.Entry, error) {
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return domain.Entry{}, domain.ErrInvalidAmount
	}

	var contractNumber *snowflake.ID
	if raw := strings.TrimSpace(req.ContractNumber); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return domain.Entry{}, domain.ErrInvalidContract
		}
		contractNumber = &id
	}

	entryType := domain.EntryTypeAccountPayment
	if contractNumber != nil {
		entryType = domain.EntryTypeReceipt
	}
	if strings.TrimSpace(req.EntryType) != "" {
		parsed, err := domain.ParseEntryType(req.EntryType)
		if err != nil {
			return domain.Entry{}, err
		}
		entryType = parsed
	}

	method := strings.TrimSpace(req.Method)
	if entryType == domain.EntryTypeDebt {
		contractNumber = nil
		method = domain.MethodPreviousDebt
	}

	customerID, customerName := strings.TrimSpace(req.CustomerID), strings.TrimSpace(req.CustomerName)
	if contractNumber != nil {
		contract, err := s.contractRepo.FindByID(ctx, s.db, *contractNumber)
		if err != nil {
			return domain.Entry{}, db.WrapStorage("get contract", err)
		}
		if contract == nil {
			return domain.Entry{}, domain.ErrInvalidContract
		}
		if customerID == "" && customerName == "" {
			customerName = contract.CustomerName
			if contract.CustomerID != nil {
				customerID = contract.CustomerID.String()
			}
		}
	}

	ref, _, err := s.customerSvc.Resolve(ctx, customerdomain.ResolveRequest{ID: customerID, Name: customerName})
	if err != nil {
		if errors.Is(err, customerdomain.ErrNotFound) ||
			errors.Is(err, customerdomain.ErrInvalidID) ||
			errors.Is(err, customerdomain.ErrInvalidRef) {
			return domain.Entry{}, domain.ErrInvalidCustomer
		}
		return domain.Entry{}, err
	}

	now := s.clock.Now()
	paidAt := contractdomain.Day(now)
	if req.PaidAt != nil {
		paidAt = contractdomain.Day(*req.PaidAt)
	}

	return domain.Entry{
		ID:             s.genID.Generate(),
		CustomerID:     ref.ID,
		CustomerName:   ref.Name,
		ContractNumber: contractNumber,
		Amount:         amount,
		Method:         method,
		Reference:      strings.TrimSpace(req.Reference),
		Notes:          strings.TrimSpace(req.Notes),
		PaidAt:         paidAt,
		EntryType:      entryType,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (s *Service) find(ctx context.Context, raw string) (*domain.Entry, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}
	entry, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, db.WrapStorage("get payment entry", err)
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}
