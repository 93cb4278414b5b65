package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	billboarddomain "github.com/smallbiznis/billboards/internal/billboard/domain"
)

type createBillboardRequest struct {
	Name         string          `json:"name"`
	Size         string          `json:"size"`
	Level        string          `json:"level"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	Municipality string          `json:"municipality"`
	District     string          `json:"district"`
	Landmark     string          `json:"landmark"`
	Faces        int             `json:"faces"`
	Coordinates  string          `json:"coordinates"`
	ImageURL     string          `json:"image_url"`
	Metadata     map[string]any  `json:"metadata"`
}

func (s *Server) CreateBillboard(c *gin.Context) {
	var req createBillboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billboardSvc.Create(c.Request.Context(), billboarddomain.CreateBillboardRequest{
		Name:         strings.TrimSpace(req.Name),
		Size:         strings.TrimSpace(req.Size),
		Level:        strings.TrimSpace(req.Level),
		MonthlyPrice: req.MonthlyPrice,
		Municipality: strings.TrimSpace(req.Municipality),
		District:     strings.TrimSpace(req.District),
		Landmark:     strings.TrimSpace(req.Landmark),
		Faces:        req.Faces,
		Coordinates:  strings.TrimSpace(req.Coordinates),
		ImageURL:     strings.TrimSpace(req.ImageURL),
		Metadata:     req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListBillboards(c *gin.Context) {
	var query struct {
		Size         string `form:"size"`
		Level        string `form:"level"`
		Municipality string `form:"municipality"`
		Query        string `form:"q"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billboardSvc.List(c.Request.Context(), billboarddomain.ListBillboardRequest{
		Size:         strings.TrimSpace(query.Size),
		Level:        strings.TrimSpace(query.Level),
		Municipality: strings.TrimSpace(query.Municipality),
		Query:        strings.TrimSpace(query.Query),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBillboardByID(c *gin.Context) {
	resp, err := s.billboardSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
