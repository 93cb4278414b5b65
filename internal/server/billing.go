package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	billingdomain "github.com/smallbiznis/billboards/internal/billing/domain"
)

type customerLookup struct {
	CustomerID   string `json:"customer_id" form:"customer_id"`
	CustomerName string `json:"customer_name" form:"customer_name"`
}

func (l customerLookup) lookup() billingdomain.CustomerLookup {
	return billingdomain.CustomerLookup{
		ID:   strings.TrimSpace(l.CustomerID),
		Name: strings.TrimSpace(l.CustomerName),
	}
}

type invoiceItemRequest struct {
	ContractNumber string          `json:"contract_number"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
}

type customInvoiceRequest struct {
	customerLookup
	Items                 []invoiceItemRequest `json:"items"`
	IncludeAccountBalance bool                 `json:"include_account_balance"`
}

type installationSelectionRequest struct {
	ContractNumber string           `json:"contract_number"`
	Units          *int             `json:"units"`
	PricePerUnit   *decimal.Decimal `json:"price_per_unit"`
}

type installationInvoiceRequest struct {
	customerLookup
	Reason       string                         `json:"reason"`
	PricePerUnit *decimal.Decimal               `json:"price_per_unit"`
	Selections   []installationSelectionRequest `json:"selections"`
}

type receiptRequest struct {
	customerLookup
	ContractNumber string          `json:"contract_number"`
	Amount         decimal.Decimal `json:"amount"`
}

func (s *Server) GetBillingSummary(c *gin.Context) {
	var query customerLookup
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.Summary(c.Request.Context(), query.lookup())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBillingStatement(c *gin.Context) {
	var query customerLookup
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.Statement(c.Request.Context(), query.lookup())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateCustomInvoice(c *gin.Context) {
	var req customInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items := make([]billingdomain.InvoiceItem, 0, len(req.Items))
	for _, item := range req.Items {
		number, err := parseOptionalSnowflakeID(item.ContractNumber)
		if err != nil {
			AbortWithError(c, billingdomain.ErrInvalidContract)
			return
		}
		items = append(items, billingdomain.InvoiceItem{
			ContractNumber: number,
			Description:    strings.TrimSpace(item.Description),
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
		})
	}

	resp, err := s.billingSvc.CustomInvoice(c.Request.Context(), billingdomain.CustomInvoiceRequest{
		Customer:              req.lookup(),
		Items:                 items,
		IncludeAccountBalance: req.IncludeAccountBalance,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateInstallationInvoice(c *gin.Context) {
	var req installationInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	selections := make(map[snowflake.ID]billingdomain.InstallationSelection, len(req.Selections))
	for _, sel := range req.Selections {
		number, err := parseOptionalSnowflakeID(sel.ContractNumber)
		if err != nil || number == nil {
			AbortWithError(c, billingdomain.ErrInvalidContract)
			return
		}
		selections[*number] = billingdomain.InstallationSelection{
			Units:        sel.Units,
			PricePerUnit: sel.PricePerUnit,
		}
	}

	resp, err := s.billingSvc.InstallationInvoice(c.Request.Context(), billingdomain.InstallationInvoiceRequest{
		Customer:     req.lookup(),
		Reason:       strings.TrimSpace(req.Reason),
		PricePerUnit: req.PricePerUnit,
		Selections:   selections,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateReceipt(c *gin.Context) {
	var req receiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.Receipt(c.Request.Context(), billingdomain.ReceiptRequest{
		Customer:       req.lookup(),
		ContractNumber: strings.TrimSpace(req.ContractNumber),
		Amount:         req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
