package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/billboards/internal/billboard"
	billboarddomain "github.com/smallbiznis/billboards/internal/billboard/domain"
	"github.com/smallbiznis/billboards/internal/billing"
	billingdomain "github.com/smallbiznis/billboards/internal/billing/domain"
	"github.com/smallbiznis/billboards/internal/cache"
	"github.com/smallbiznis/billboards/internal/config"
	"github.com/smallbiznis/billboards/internal/contract"
	contractdomain "github.com/smallbiznis/billboards/internal/contract/domain"
	"github.com/smallbiznis/billboards/internal/customer"
	customerdomain "github.com/smallbiznis/billboards/internal/customer/domain"
	"github.com/smallbiznis/billboards/internal/ingest"
	ingestdomain "github.com/smallbiznis/billboards/internal/ingest/domain"
	"github.com/smallbiznis/billboards/internal/observability"
	obsmiddleware "github.com/smallbiznis/billboards/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/billboards/internal/observability/metrics"
	obstracing "github.com/smallbiznis/billboards/internal/observability/tracing"
	"github.com/smallbiznis/billboards/internal/payment"
	paymentdomain "github.com/smallbiznis/billboards/internal/payment/domain"
	"github.com/smallbiznis/billboards/internal/pricing"
	pricingdomain "github.com/smallbiznis/billboards/internal/pricing/domain"
	"github.com/smallbiznis/billboards/internal/ratecard"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
	"github.com/smallbiznis/billboards/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	cache.Module,
	ratelimit.Module,
	ratecard.Module,
	billboard.Module,
	pricing.Module,
	customer.Module,
	contract.Module,
	payment.Module,
	billing.Module,
	ingest.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

// maxImportBytes bounds the multipart body of a spreadsheet upload.
const maxImportBytes = 20 << 20

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:    obsCfg.Debug(),
		Classify: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())
	r.MaxMultipartMemory = maxImportBytes

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	billboardSvc billboarddomain.Service
	rateCardSvc  ratecarddomain.Service
	pricingSvc   pricingdomain.Service
	customerSvc  customerdomain.Service
	contractSvc  contractdomain.Service
	paymentSvc   paymentdomain.Service
	billingSvc   billingdomain.Service
	ingestSvc    ingestdomain.Service
	importGuard  *ratelimit.ImportGuard
	obsMetrics   *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	BillboardSvc billboarddomain.Service
	RateCardSvc  ratecarddomain.Service
	PricingSvc   pricingdomain.Service
	CustomerSvc  customerdomain.Service
	ContractSvc  contractdomain.Service
	PaymentSvc   paymentdomain.Service
	BillingSvc   billingdomain.Service
	IngestSvc    ingestdomain.Service
	ImportGuard  *ratelimit.ImportGuard `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics    `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		billboardSvc: p.BillboardSvc,
		rateCardSvc:  p.RateCardSvc,
		pricingSvc:   p.PricingSvc,
		customerSvc:  p.CustomerSvc,
		contractSvc:  p.ContractSvc,
		paymentSvc:   p.PaymentSvc,
		billingSvc:   p.BillingSvc,
		ingestSvc:    p.IngestSvc,
		importGuard:  p.ImportGuard,
		obsMetrics:   p.ObsMetrics,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Billboards --------
	api.GET("/billboards", s.ListBillboards)
	api.POST("/billboards", s.CreateBillboard)
	api.GET("/billboards/:id", s.GetBillboardByID)

	// -------- Rate card --------
	api.GET("/rate-card", s.ListRateCard)
	api.PUT("/rate-card", s.UpsertRateCardEntry)
	api.DELETE("/rate-card/:id", s.DeleteRateCardEntry)
	api.GET("/rate-card/resolve", s.ResolveRateCardPrice)
	api.POST("/quotes", s.CreateQuote)

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/resolve", s.ResolveCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)

	// -------- Contracts --------
	api.GET("/contracts", s.ListContracts)
	api.POST("/contracts", s.CreateContract)
	api.GET("/contracts/stats", s.GetContractStats)
	api.GET("/contracts/:id", s.GetContractByID)
	api.PATCH("/contracts/:id", s.UpdateContract)
	api.POST("/contracts/:id/renew", s.RenewContract)

	// -------- Payments --------
	api.GET("/payments", s.ListPayments)
	api.POST("/payments", s.CreatePayment)
	api.GET("/payments/:id", s.GetPaymentByID)
	api.PATCH("/payments/:id", s.UpdatePayment)
	api.DELETE("/payments/:id", s.DeletePayment)

	// -------- Billing --------
	api.GET("/billing/summary", s.GetBillingSummary)
	api.GET("/billing/statement", s.GetBillingStatement)
	api.POST("/billing/invoices/custom", s.CreateCustomInvoice)
	api.POST("/billing/invoices/installation", s.CreateInstallationInvoice)
	api.POST("/billing/receipts", s.CreateReceipt)

	// -------- Imports --------
	api.POST("/imports/:kind", s.ImportRateLimit(), s.ImportSheet)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
