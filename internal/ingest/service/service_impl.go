package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billboarddomain "github.com/smallbiznis/billboards/internal/billboard/domain"
	contractdomain "github.com/smallbiznis/billboards/internal/contract/domain"
	"github.com/smallbiznis/billboards/internal/ingest/domain"
	"github.com/smallbiznis/billboards/internal/ingest/normalize"
	"github.com/smallbiznis/billboards/internal/ingest/sheet"
	"github.com/smallbiznis/billboards/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/billboards/internal/observability/metrics"
	"github.com/smallbiznis/billboards/internal/observability/tracing"
	paymentdomain "github.com/smallbiznis/billboards/internal/payment/domain"
	"github.com/smallbiznis/billboards/internal/ratelimit"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
	"github.com/smallbiznis/billboards/pkg/telemetry/correlation"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log          *zap.Logger
	BillboardSvc billboarddomain.Service
	ContractSvc  contractdomain.Service
	PaymentSvc   paymentdomain.Service
	RateCardSvc  ratecarddomain.Service
	Guard        *ratelimit.ImportGuard `optional:"true"`
	Metrics      *obsmetrics.Metrics    `optional:"true"`
}

type Service struct {
	log          *zap.Logger
	billboardSvc billboarddomain.Service
	contractSvc  contractdomain.Service
	paymentSvc   paymentdomain.Service
	rateCardSvc  ratecarddomain.Service
	guard        *ratelimit.ImportGuard
	metrics      *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:          p.Log.Named("ingest.service"),
		billboardSvc: p.BillboardSvc,
		contractSvc:  p.ContractSvc,
		paymentSvc:   p.PaymentSvc,
		rateCardSvc:  p.RateCardSvc,
		guard:        p.Guard,
		metrics:      p.Metrics,
	}
}

// Import loads one workbook of the given kind. Rows missing required values
// are skipped with a warning; the remaining rows are written together.
func (s *Service) Import(ctx context.Context, kind domain.Kind, r io.Reader) (_ domain.Result, err error) {
	ctx, importID := correlation.EnsureCorrelationID(ctx)
	ctx, span := tracing.Start(ctx, "ingest.import",
		tracing.AttrImportKind.String(string(kind)),
		tracing.AttrImportID.String(importID),
	)
	defer func() { tracing.End(span, err) }()
	log := logger.WithContext(ctx, s.log).With(zap.String("kind", string(kind)))

	token, ok, err := s.guard.TryLock(ctx, string(kind))
	if err != nil {
		return domain.Result{}, err
	}
	if !ok {
		return domain.Result{}, domain.ErrImportInProgress
	}
	defer func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), string(kind), token); err != nil {
			log.Warn("failed to release import lock", zap.Error(err))
		}
	}()

	var (
		aliases  sheet.Aliases
		required []string
		load     func(context.Context, sheet.Table, *domain.Result) error
	)
	switch kind {
	case domain.KindBillboards:
		aliases, required, load = billboardAliases, []string{fieldSize, fieldLevel}, s.loadBillboards
	case domain.KindContracts:
		aliases, required, load = contractAliases, []string{fieldCustomerName}, s.loadContracts
	case domain.KindPayments:
		aliases, required, load = paymentAliases, []string{fieldAmount}, s.loadPayments
	case domain.KindRateCard:
		aliases, required, load = rateCardAliases, []string{fieldSize, fieldLevel, fieldCategory, fieldMonths, fieldPrice}, s.loadRateCard
	default:
		return domain.Result{}, domain.ErrInvalidKind
	}

	table, err := sheet.Read(r, aliases)
	if err != nil {
		return domain.Result{}, err
	}
	var missing []string
	for _, field := range required {
		if !table.Has(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return domain.Result{}, fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(missing, ", "))
	}

	result := domain.Result{
		ImportID: importID,
		Kind:     kind,
		Sheet:    table.Sheet,
		Unmapped: table.Unmapped,
		Warnings: []domain.Warning{},
	}
	if err := load(ctx, table, &result); err != nil {
		log.Error("import failed", zap.Error(err), zap.Int("rows", len(table.Rows)))
		return domain.Result{}, err
	}

	span.SetAttributes(tracing.AttrRows.Int(len(table.Rows)))
	s.metrics.RecordImportRows(ctx, string(kind), "imported", result.Imported)
	s.metrics.RecordImportRows(ctx, string(kind), "skipped", result.Skipped)
	log.Info("import completed",
		zap.String("sheet", table.Sheet),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

func (s *Service) loadBillboards(ctx context.Context, table sheet.Table, result *domain.Result) error {
	reqs := make([]billboarddomain.CreateBillboardRequest, 0, len(table.Rows))
	for _, row := range table.Rows {
		size, level := row.Get(fieldSize), row.Get(fieldLevel)
		if size == "" || level == "" {
			skip(result, row, fieldSize, "size and level are required")
			continue
		}
		name := row.Get(fieldName)
		if name == "" {
			name = fmt.Sprintf("%s-%s-%d", size, level, row.Number)
			warn(result, row, fieldName, "missing name, generated "+name)
		}
		price := normalize.NumberOrZero(row.Get(fieldPrice))
		if price.IsNegative() {
			warn(result, row, fieldPrice, "negative price coerced to zero")
			price = decimal.Zero
		}
		faces, ok := normalize.Int(row.Get(fieldFaces))
		if !ok {
			faces = 1
		}
		coordinates := row.Get(fieldCoordinates)
		if coordinates == "" && row.Get(fieldLatitude) != "" && row.Get(fieldLongitude) != "" {
			coordinates = row.Get(fieldLatitude) + "," + row.Get(fieldLongitude)
		}
		reqs = append(reqs, billboarddomain.CreateBillboardRequest{
			Name:         name,
			Size:         size,
			Level:        level,
			MonthlyPrice: price,
			Municipality: row.Get(fieldMunicipality),
			District:     row.Get(fieldDistrict),
			Landmark:     row.Get(fieldLandmark),
			Faces:        faces,
			Coordinates:  coordinates,
			ImageURL:     row.Get(fieldImage),
			Metadata:     map[string]any{"import_row": row.Number},
		})
	}
	if len(reqs) == 0 {
		return nil
	}
	created, err := s.billboardSvc.CreateMany(ctx, reqs)
	if err != nil {
		return err
	}
	result.Imported = len(created)
	return nil
}

func (s *Service) loadContracts(ctx context.Context, table sheet.Table, result *domain.Result) error {
	reqs := make([]contractdomain.ImportContractRequest, 0, len(table.Rows))
	for _, row := range table.Rows {
		name := row.Get(fieldCustomerName)
		if name == "" && row.Get(fieldCustomerID) == "" {
			skip(result, row, fieldCustomerName, "customer is required")
			continue
		}
		req := contractdomain.ImportContractRequest{
			CustomerID:   row.Get(fieldCustomerID),
			CustomerName: name,
			AdType:       row.Get(fieldAdType),
			StartDate:    s.date(row, fieldStartDate, result),
			EndDate:      s.date(row, fieldEndDate, result),
		}
		if raw := row.Get(fieldContractNumber); raw != "" {
			if number, ok := normalize.Int(raw); ok && number > 0 {
				id := snowflake.ID(number)
				req.Number = &id
			} else {
				warn(result, row, fieldContractNumber, "non-numeric contract number, a new one is assigned")
			}
		}
		cost, ok := normalize.Number(row.Get(fieldRentCost))
		if !ok || cost.IsNegative() {
			warn(result, row, fieldRentCost, "missing or invalid rent, coerced to zero")
			cost = decimal.Zero
		}
		req.RentCost = cost
		req.BillboardIDs = s.billboardIDs(row, result)
		reqs = append(reqs, req)
	}
	if len(reqs) == 0 {
		return nil
	}
	created, err := s.contractSvc.ImportMany(ctx, reqs)
	if err != nil {
		return err
	}
	result.Imported = len(created)
	return nil
}

func (s *Service) loadPayments(ctx context.Context, table sheet.Table, result *domain.Result) error {
	reqs := make([]paymentdomain.CreateEntryRequest, 0, len(table.Rows))
	for _, row := range table.Rows {
		amount, ok := normalize.Number(row.Get(fieldAmount))
		if !ok || !amount.IsPositive() {
			skip(result, row, fieldAmount, "amount must be a positive number")
			continue
		}
		if row.Get(fieldCustomerName) == "" && row.Get(fieldCustomerID) == "" && row.Get(fieldContractNumber) == "" {
			skip(result, row, fieldCustomerName, "customer or contract is required")
			continue
		}
		req := paymentdomain.CreateEntryRequest{
			CustomerID:     row.Get(fieldCustomerID),
			CustomerName:   row.Get(fieldCustomerName),
			ContractNumber: row.Get(fieldContractNumber),
			Amount:         amount,
			Method:         row.Get(fieldMethod),
			Reference:      row.Get(fieldReference),
			Notes:          row.Get(fieldNotes),
			PaidAt:         s.date(row, fieldPaidAt, result),
		}
		if raw := row.Get(fieldEntryType); raw != "" {
			entryType, ok := normalize.EntryType(raw)
			if !ok {
				skip(result, row, fieldEntryType, "unknown entry type "+raw)
				continue
			}
			req.EntryType = string(entryType)
		}
		reqs = append(reqs, req)
	}
	if len(reqs) == 0 {
		return nil
	}
	created, err := s.paymentSvc.CreateMany(ctx, reqs)
	if err != nil {
		return err
	}
	result.Imported = len(created)
	return nil
}

func (s *Service) loadRateCard(ctx context.Context, table sheet.Table, result *domain.Result) error {
	for _, row := range table.Rows {
		category, ok := normalize.Category(row.Get(fieldCategory))
		if !ok {
			skip(result, row, fieldCategory, "unknown category "+row.Get(fieldCategory))
			continue
		}
		months, ok := normalize.Int(row.Get(fieldMonths))
		if !ok || months <= 0 {
			skip(result, row, fieldMonths, "months must be a positive whole number")
			continue
		}
		price, ok := normalize.Number(row.Get(fieldPrice))
		if !ok {
			skip(result, row, fieldPrice, "missing price")
			continue
		}
		_, err := s.rateCardSvc.Upsert(ctx, ratecarddomain.UpsertEntryRequest{
			Size:     row.Get(fieldSize),
			Level:    row.Get(fieldLevel),
			Category: string(category),
			Months:   months,
			Price:    price,
		})
		if err != nil {
			if isRateCardValidation(err) {
				skip(result, row, "", err.Error())
				continue
			}
			return err
		}
		result.Imported++
	}
	return nil
}

// date parses an optional date column, warning when a value is present but
// unreadable.
func (s *Service) date(row sheet.Row, field string, result *domain.Result) *time.Time {
	raw := row.Get(field)
	if raw == "" {
		return nil
	}
	t := normalize.DatePtr(raw)
	if t == nil {
		warn(result, row, field, "unreadable date "+raw)
	}
	return t
}

func (s *Service) billboardIDs(row sheet.Row, result *domain.Result) []snowflake.ID {
	raw := row.Get(fieldBillboardIDs)
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == ' ' || r == '،'
	})
	ids := make([]snowflake.ID, 0, len(parts))
	for _, part := range parts {
		id, err := snowflake.ParseString(part)
		if err != nil || id <= 0 {
			warn(result, row, fieldBillboardIDs, "ignored billboard reference "+part)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func skip(result *domain.Result, row sheet.Row, field, message string) {
	result.Skipped++
	warn(result, row, field, message)
}

func warn(result *domain.Result, row sheet.Row, field, message string) {
	result.Warnings = append(result.Warnings, domain.Warning{Row: row.Number, Field: field, Message: message})
}

func isRateCardValidation(err error) bool {
	switch {
	case errors.Is(err, ratecarddomain.ErrInvalidSize),
		errors.Is(err, ratecarddomain.ErrInvalidLevel),
		errors.Is(err, ratecarddomain.ErrInvalidCategory),
		errors.Is(err, ratecarddomain.ErrInvalidMonths),
		errors.Is(err, ratecarddomain.ErrInvalidPrice):
		return true
	}
	return false
}
