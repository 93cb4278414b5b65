package domain

import (
	"context"
	"errors"
	"io"
	"strings"
)

type Kind string

const (
	KindBillboards Kind = "billboards"
	KindContracts  Kind = "contracts"
	KindPayments   Kind = "payments"
	KindRateCard   Kind = "rate_card"
)

func ParseKind(raw string) (Kind, error) {
	value := Kind(strings.ToLower(strings.TrimSpace(raw)))
	switch value {
	case KindBillboards, KindContracts, KindPayments, KindRateCard:
		return value, nil
	}
	return "", ErrInvalidKind
}

// Warning describes a row that was skipped or imported with a coerced value.
type Warning struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type Result struct {
	ImportID string    `json:"import_id"`
	Kind     Kind      `json:"kind"`
	Sheet    string    `json:"sheet"`
	Imported int       `json:"imported"`
	Skipped  int       `json:"skipped"`
	Unmapped []string  `json:"unmapped_columns,omitempty"`
	Warnings []Warning `json:"warnings"`
}

type Service interface {
	Import(ctx context.Context, kind Kind, r io.Reader) (Result, error)
}

var (
	ErrInvalidKind      = errors.New("invalid_kind")
	ErrImportInProgress = errors.New("import_in_progress")
	ErrMissingColumns   = errors.New("missing_columns")
)
