package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	contractdomain "github.com/smallbiznis/billboards/internal/contract/domain"
)

type createContractRequest struct {
	CustomerID   string           `json:"customer_id"`
	CustomerName string           `json:"customer_name"`
	AdType       string           `json:"ad_type"`
	StartDate    string           `json:"start_date"`
	EndDate      string           `json:"end_date"`
	Months       int              `json:"months"`
	BillboardIDs []string         `json:"billboard_ids"`
	Category     string           `json:"category"`
	RentCost     *decimal.Decimal `json:"rent_cost"`
}

type updateContractRequest struct {
	AdType    *string          `json:"ad_type"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	RentCost  *decimal.Decimal `json:"rent_cost"`
}

type renewContractRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	KeepCost  bool   `json:"keep_cost"`
	Category  string `json:"category"`
}

func (s *Server) CreateContract(c *gin.Context) {
	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		AbortWithError(c, contractdomain.ErrInvalidStartDate)
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		AbortWithError(c, contractdomain.ErrInvalidEndDate)
		return
	}
	billboardIDs, err := parseSnowflakeIDs(req.BillboardIDs)
	if err != nil {
		AbortWithError(c, contractdomain.ErrInvalidBillboards)
		return
	}

	resp, err := s.contractSvc.Create(c.Request.Context(), contractdomain.CreateContractRequest{
		CustomerID:   strings.TrimSpace(req.CustomerID),
		CustomerName: strings.TrimSpace(req.CustomerName),
		AdType:       strings.TrimSpace(req.AdType),
		StartDate:    startDate,
		EndDate:      endDate,
		Months:       req.Months,
		BillboardIDs: billboardIDs,
		Category:     strings.TrimSpace(req.Category),
		RentCost:     req.RentCost,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListContracts(c *gin.Context) {
	var query struct {
		Query        string `form:"q"`
		Status       string `form:"status"`
		CustomerID   string `form:"customer_id"`
		CustomerName string `form:"customer_name"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.contractSvc.List(c.Request.Context(), contractdomain.ListContractRequest{
		Query:        strings.TrimSpace(query.Query),
		Status:       strings.TrimSpace(query.Status),
		CustomerID:   strings.TrimSpace(query.CustomerID),
		CustomerName: strings.TrimSpace(query.CustomerName),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetContractStats(c *gin.Context) {
	resp, err := s.contractSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetContractByID(c *gin.Context) {
	resp, err := s.contractSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateContract(c *gin.Context) {
	var req updateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		AbortWithError(c, contractdomain.ErrInvalidStartDate)
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		AbortWithError(c, contractdomain.ErrInvalidEndDate)
		return
	}
	if req.AdType != nil {
		adType := strings.TrimSpace(*req.AdType)
		req.AdType = &adType
	}

	resp, err := s.contractSvc.Update(c.Request.Context(), contractdomain.UpdateContractRequest{
		ID:        strings.TrimSpace(c.Param("id")),
		AdType:    req.AdType,
		StartDate: startDate,
		EndDate:   endDate,
		RentCost:  req.RentCost,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RenewContract(c *gin.Context) {
	var req renewContractRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		AbortWithError(c, contractdomain.ErrInvalidStartDate)
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		AbortWithError(c, contractdomain.ErrInvalidEndDate)
		return
	}

	resp, err := s.contractSvc.Renew(c.Request.Context(), contractdomain.RenewContractRequest{
		ID:        strings.TrimSpace(c.Param("id")),
		StartDate: startDate,
		EndDate:   endDate,
		KeepCost:  req.KeepCost,
		Category:  strings.TrimSpace(req.Category),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
