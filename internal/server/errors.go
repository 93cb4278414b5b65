package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	billboarddomain "github.com/smallbiznis/billboards/internal/billboard/domain"
	billingdomain "github.com/smallbiznis/billboards/internal/billing/domain"
	contractdomain "github.com/smallbiznis/billboards/internal/contract/domain"
	customerdomain "github.com/smallbiznis/billboards/internal/customer/domain"
	ingestdomain "github.com/smallbiznis/billboards/internal/ingest/domain"
	"github.com/smallbiznis/billboards/internal/ingest/sheet"
	paymentdomain "github.com/smallbiznis/billboards/internal/payment/domain"
	pricingdomain "github.com/smallbiznis/billboards/internal/pricing/domain"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
	"github.com/smallbiznis/billboards/pkg/db"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// classifyErrorForLog reports the response type and code of err for the
// request log.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	if status >= http.StatusInternalServerError && errors.Is(err, db.ErrStorage) {
		code = "storage_error"
	}
	return payload.Type, code
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(err, code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, ingestdomain.ErrImportInProgress):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, db.ErrStorage):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isBillboardValidationError(err),
		isRateCardValidationError(err),
		isCustomerValidationError(err),
		isContractValidationError(err),
		isPaymentValidationError(err),
		isBillingValidationError(err),
		isImportValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, billboarddomain.ErrNotFound),
		errors.Is(err, ratecarddomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, contractdomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isBillboardValidationError(err error) bool {
	switch {
	case errors.Is(err, billboarddomain.ErrInvalidName),
		errors.Is(err, billboarddomain.ErrInvalidSize),
		errors.Is(err, billboarddomain.ErrInvalidLevel),
		errors.Is(err, billboarddomain.ErrInvalidMonthlyPrice),
		errors.Is(err, billboarddomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isRateCardValidationError(err error) bool {
	switch {
	case errors.Is(err, ratecarddomain.ErrInvalidSize),
		errors.Is(err, ratecarddomain.ErrInvalidLevel),
		errors.Is(err, ratecarddomain.ErrInvalidCategory),
		errors.Is(err, ratecarddomain.ErrInvalidMonths),
		errors.Is(err, ratecarddomain.ErrInvalidPrice),
		errors.Is(err, ratecarddomain.ErrInvalidID),
		errors.Is(err, pricingdomain.ErrInvalidBillboards):
		return true
	default:
		return false
	}
}

func isCustomerValidationError(err error) bool {
	switch {
	case errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidCategory),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrInvalidRef):
		return true
	default:
		return false
	}
}

func isContractValidationError(err error) bool {
	switch {
	case errors.Is(err, contractdomain.ErrInvalidID),
		errors.Is(err, contractdomain.ErrInvalidCustomer),
		errors.Is(err, contractdomain.ErrInvalidStartDate),
		errors.Is(err, contractdomain.ErrInvalidEndDate),
		errors.Is(err, contractdomain.ErrInvalidMonths),
		errors.Is(err, contractdomain.ErrInvalidBillboards),
		errors.Is(err, contractdomain.ErrInvalidRentCost),
		errors.Is(err, contractdomain.ErrInvalidStatusFilter):
		return true
	default:
		return false
	}
}

func isPaymentValidationError(err error) bool {
	switch {
	case errors.Is(err, paymentdomain.ErrInvalidID),
		errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, paymentdomain.ErrInvalidEntryType),
		errors.Is(err, paymentdomain.ErrInvalidCustomer),
		errors.Is(err, paymentdomain.ErrInvalidContract):
		return true
	default:
		return false
	}
}

func isBillingValidationError(err error) bool {
	switch {
	case errors.Is(err, billingdomain.ErrInvalidCustomer),
		errors.Is(err, billingdomain.ErrInvalidContract),
		errors.Is(err, billingdomain.ErrInvalidAmount),
		errors.Is(err, billingdomain.ErrInvalidUnits),
		errors.Is(err, billingdomain.ErrInvalidUnitPrice),
		errors.Is(err, billingdomain.ErrNoInvoiceItems),
		errors.Is(err, billingdomain.ErrInactiveContract):
		return true
	default:
		return false
	}
}

func isImportValidationError(err error) bool {
	switch {
	case errors.Is(err, ingestdomain.ErrInvalidKind),
		errors.Is(err, ingestdomain.ErrMissingColumns),
		errors.Is(err, sheet.ErrInvalidWorkbook),
		errors.Is(err, sheet.ErrEmptySheet):
		return true
	default:
		return false
	}
}

// validationErrorCode returns the sentinel code, dropping any detail appended
// with fmt.Errorf("%w: ...").
func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	code, _, _ := strings.Cut(err.Error(), ":")
	return strings.TrimSpace(code)
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_request":
		return "request"
	case "missing_columns", "invalid_workbook", "empty_sheet":
		return "file"
	case "inactive_contract":
		return "selections"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(err error, code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "missing_columns":
		return err.Error()
	default:
		return "invalid value"
	}
}
