package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/billboards/internal/billing/domain"
	"github.com/smallbiznis/billboards/internal/clock"
	"github.com/smallbiznis/billboards/internal/config"
	contractdomain "github.com/smallbiznis/billboards/internal/contract/domain"
	customerdomain "github.com/smallbiznis/billboards/internal/customer/domain"
	"github.com/smallbiznis/billboards/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/billboards/internal/observability/metrics"
	"github.com/smallbiznis/billboards/internal/observability/tracing"
	paymentdomain "github.com/smallbiznis/billboards/internal/payment/domain"
	"github.com/smallbiznis/billboards/pkg/db"
	"github.com/smallbiznis/billboards/pkg/telemetry/correlation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	Pricing      *config.PricingConfigHolder
	ContractRepo contractdomain.Repository
	PaymentRepo  paymentdomain.Repository
	CustomerSvc  customerdomain.Service
	Metrics      *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	pricing      *config.PricingConfigHolder
	contractRepo contractdomain.Repository
	paymentRepo  paymentdomain.Repository
	customerSvc  customerdomain.Service
	metrics      *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("billing.service"),
		clock:        p.Clock,
		pricing:      p.Pricing,
		contractRepo: p.ContractRepo,
		paymentRepo:  p.PaymentRepo,
		customerSvc:  p.CustomerSvc,
		metrics:      p.Metrics,
	}
}

// snapshot is one customer's contracts and entries read together.
type snapshot struct {
	customer  customerdomain.Ref
	contracts []contractdomain.Contract
	entries   []paymentdomain.Entry
	lookup    string
}

func (s *Service) Summary(ctx context.Context, lookup domain.CustomerLookup) (domain.CustomerSummary, error) {
	snap, err := s.load(ctx, lookup)
	if err != nil {
		return domain.CustomerSummary{}, err
	}
	return domain.CustomerSummary{
		Customer: snap.customer,
		Summary:  domain.Calculate(snap.contracts, domain.Group(snap.entries)),
	}, nil
}

func (s *Service) Statement(ctx context.Context, lookup domain.CustomerLookup) (domain.Statement, error) {
	snap, err := s.load(ctx, lookup)
	if err != nil {
		return domain.Statement{}, err
	}
	return domain.Statement{
		Customer: snap.customer,
		Entries:  domain.SortEntries(snap.entries),
		Summary:  domain.Calculate(snap.contracts, domain.Group(snap.entries)),
	}, nil
}

func (s *Service) CustomInvoice(ctx context.Context, req domain.CustomInvoiceRequest) (domain.CustomInvoice, error) {
	snap, err := s.load(ctx, req.Customer)
	if err != nil {
		return domain.CustomInvoice{}, err
	}

	items := req.Items
	if len(items) == 0 {
		items = domain.DefaultInvoiceItems(snap.contracts)
	}
	summary := domain.Calculate(snap.contracts, domain.Group(snap.entries))
	invoice, err := domain.BuildCustomInvoice(items, req.IncludeAccountBalance, summary.AccountBalance)
	if err != nil {
		return domain.CustomInvoice{}, err
	}
	invoice.Customer = snap.customer
	invoice.IssuedAt = s.clock.Now()
	return invoice, nil
}

func (s *Service) InstallationInvoice(ctx context.Context, req domain.InstallationInvoiceRequest) (domain.InstallationInvoice, error) {
	snap, err := s.load(ctx, req.Customer)
	if err != nil {
		return domain.InstallationInvoice{}, err
	}

	price := decimal.NewFromFloat(s.pricing.Get().PrintPricePerUnit)
	if req.PricePerUnit != nil {
		if req.PricePerUnit.IsNegative() {
			return domain.InstallationInvoice{}, domain.ErrInvalidUnitPrice
		}
		price = *req.PricePerUnit
	}

	now := s.clock.Now()
	invoice, err := domain.BuildInstallationInvoice(snap.contracts, now, price, req.Selections)
	if err != nil {
		return domain.InstallationInvoice{}, err
	}
	invoice.Customer = snap.customer
	invoice.IssuedAt = now
	invoice.Reason = strings.TrimSpace(req.Reason)
	return invoice, nil
}

func (s *Service) Receipt(ctx context.Context, req domain.ReceiptRequest) (domain.ReceiptFigures, error) {
	if !req.Amount.IsPositive() {
		return domain.ReceiptFigures{}, domain.ErrInvalidAmount
	}
	snap, err := s.load(ctx, req.Customer)
	if err != nil {
		return domain.ReceiptFigures{}, err
	}
	summary := domain.Calculate(snap.contracts, domain.Group(snap.entries))

	figures := domain.ReceiptFigures{Amount: req.Amount, Balance: summary.CustomerBalance}
	if raw := strings.TrimSpace(req.ContractNumber); raw != "" {
		number, err := snowflake.ParseString(raw)
		if err != nil || number == 0 {
			return domain.ReceiptFigures{}, domain.ErrInvalidContract
		}
		balance, ok := summary.PerContract[number]
		if !ok {
			return domain.ReceiptFigures{}, domain.ErrInvalidContract
		}
		figures.ContractNumber = &number
		figures.Balance = balance.Remaining
	}
	figures.RemainingAfter = domain.RemainingAfterPayment(figures.Balance, req.Amount)
	return figures, nil
}

// load reads the customer's contracts and ledger entries in one
// transaction so both lists come from the same point in time.
func (s *Service) load(ctx context.Context, lookup domain.CustomerLookup) (snap snapshot, err error) {
	ctx, span := tracing.Start(ctx, "billing.load")
	defer func() { tracing.End(span, err) }()

	ref, err := s.resolve(ctx, lookup)
	if err != nil {
		return snapshot{}, err
	}
	ctx = correlation.WithCustomer(ctx, ref.String())

	snap = snapshot{customer: ref, lookup: "name"}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		var byID bool
		snap.contracts, byID, err = byIDThenName(ref, func(f contractdomain.ListContractFilter) ([]contractdomain.Contract, error) {
			return s.contractRepo.List(ctx, tx, f)
		}, func(id *snowflake.ID, name string) contractdomain.ListContractFilter {
			return contractdomain.ListContractFilter{CustomerID: id, CustomerName: name}
		})
		if err != nil {
			return err
		}
		if byID {
			snap.lookup = "id"
		}
		snap.entries, _, err = byIDThenName(ref, func(f paymentdomain.ListEntryFilter) ([]paymentdomain.Entry, error) {
			return s.paymentRepo.List(ctx, tx, f)
		}, func(id *snowflake.ID, name string) paymentdomain.ListEntryFilter {
			return paymentdomain.ListEntryFilter{CustomerID: id, CustomerName: name}
		})
		return err
	}, s.txOptions()...)
	if err != nil {
		return snapshot{}, db.WrapStorage("load customer ledger", err)
	}

	span.SetAttributes(
		tracing.AttrLookup.String(snap.lookup),
		tracing.AttrContracts.Int(len(snap.contracts)),
		tracing.AttrEntries.Int(len(snap.entries)),
	)
	s.metrics.RecordReconciliation(ctx, snap.lookup)
	logger.WithContext(ctx, s.log).Debug("customer ledger loaded",
		zap.String("lookup", snap.lookup),
		zap.Int("contracts", len(snap.contracts)),
		zap.Int("entries", len(snap.entries)),
	)
	return snap, nil
}

// resolve completes the customer reference. An id without a customer record
// is still usable against legacy ledger rows.
func (s *Service) resolve(ctx context.Context, lookup domain.CustomerLookup) (customerdomain.Ref, error) {
	rawID, name := strings.TrimSpace(lookup.ID), strings.TrimSpace(lookup.Name)
	ref, _, err := s.customerSvc.Resolve(ctx, customerdomain.ResolveRequest{ID: rawID, Name: name})
	switch {
	case err == nil:
		return ref, nil
	case errors.Is(err, customerdomain.ErrNotFound):
		ref := customerdomain.Ref{Name: name}
		if id, perr := snowflake.ParseString(rawID); perr == nil && rawID != "" {
			ref.ID = &id
		}
		return ref, nil
	case errors.Is(err, customerdomain.ErrInvalidID), errors.Is(err, customerdomain.ErrInvalidRef):
		return customerdomain.Ref{}, domain.ErrInvalidCustomer
	default:
		return customerdomain.Ref{}, err
	}
}

func (s *Service) txOptions() []*sql.TxOptions {
	if db.IsPostgres(s.db) {
		return []*sql.TxOptions{{Isolation: sql.LevelRepeatableRead, ReadOnly: true}}
	}
	return nil
}

// byIDThenName lists by customer id and falls back to the name only when the
// id matches nothing. It reports whether the id lookup produced the result.
func byIDThenName[T, F any](ref customerdomain.Ref, list func(F) ([]T, error), filter func(*snowflake.ID, string) F) ([]T, bool, error) {
	if ref.ID != nil {
		items, err := list(filter(ref.ID, ""))
		if err != nil {
			return nil, false, err
		}
		if len(items) > 0 || strings.TrimSpace(ref.Name) == "" {
			return items, true, nil
		}
	}
	items, err := list(filter(nil, ref.Name))
	return items, false, err
}
