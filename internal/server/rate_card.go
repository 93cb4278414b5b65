package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	pricingdomain "github.com/smallbiznis/billboards/internal/pricing/domain"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
)

type upsertRateCardEntryRequest struct {
	Size     string          `json:"size"`
	Level    string          `json:"level"`
	Category string          `json:"category"`
	Months   int             `json:"months"`
	Price    decimal.Decimal `json:"price"`
}

type createQuoteRequest struct {
	BillboardIDs []string `json:"billboard_ids"`
	Category     string   `json:"category"`
	Months       int      `json:"months"`
}

func (s *Server) ListRateCard(c *gin.Context) {
	resp, err := s.rateCardSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpsertRateCardEntry(c *gin.Context) {
	var req upsertRateCardEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rateCardSvc.Upsert(c.Request.Context(), ratecarddomain.UpsertEntryRequest{
		Size:     strings.TrimSpace(req.Size),
		Level:    strings.TrimSpace(req.Level),
		Category: strings.TrimSpace(req.Category),
		Months:   req.Months,
		Price:    req.Price,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteRateCardEntry(c *gin.Context) {
	if err := s.rateCardSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ResolveRateCardPrice returns the exact rate card price without fallback.
func (s *Server) ResolveRateCardPrice(c *gin.Context) {
	months, err := parseOptionalInt(c.Query("months"))
	if err != nil || months == nil {
		AbortWithError(c, newValidationError("months", "invalid_months", "invalid months"))
		return
	}

	price, err := s.rateCardSvc.Resolve(c.Request.Context(), ratecarddomain.ResolveRequest{
		Size:     strings.TrimSpace(c.Query("size")),
		Level:    strings.TrimSpace(c.Query("level")),
		Category: strings.TrimSpace(c.Query("category")),
		Months:   *months,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"price": price}})
}

func (s *Server) CreateQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ids, err := parseSnowflakeIDs(req.BillboardIDs)
	if err != nil {
		AbortWithError(c, newValidationError("billboard_ids", "invalid_billboards", "invalid billboard id"))
		return
	}

	resp, err := s.pricingSvc.Quote(c.Request.Context(), pricingdomain.QuoteRequest{
		BillboardIDs: ids,
		Category:     strings.TrimSpace(req.Category),
		Months:       req.Months,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
