package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/billboards/pkg/db/pagination"
)

type ListCustomerRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	Category  string
}

type ListCustomerFilter struct {
	Name     string
	Category string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type CreateCustomerRequest struct {
	Name     string
	Category string
	Phone    string
	Company  string
}

type GetCustomerRequest struct {
	ID string
}

type ResolveRequest struct {
	ID   string
	Name string
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
	// Resolve completes a reference in both directions: an id yields the
	// stored name, a name yields the id of the matching customer if any.
	Resolve(context.Context, ResolveRequest) (Ref, *Customer, error)
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidRef      = errors.New("invalid_customer")
	ErrNotFound        = errors.New("not_found")
)
