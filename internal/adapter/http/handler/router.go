package handler

import (
	"net/http"

	"finledger/internal/adapter/http/middleware"
	redisStore "finledger/internal/adapter/storage/redis"
	"finledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	LedgerSvc      ports.LedgerService
	WalletSvc      ports.WalletService
	ReportingSvc   ports.ReportingService
	AlertSvc       ports.AlertService
	BudgetSvc      ports.BudgetService
	GoalSvc        ports.GoalService
	AdvisorSvc     ports.AdvisorService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	MetricsHandler http.Handler // nil = metrics endpoint disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	walletHandler := NewWalletHandler(deps.WalletSvc, deps.ReportingSvc)
	wallet := v1.Group("/wallet", jwtAuth)
	{
		wallet.POST("", rl("dashboard"), walletHandler.Create)
		wallet.GET("", rl("dashboard"), walletHandler.Get)
		wallet.PATCH("", rl("dashboard"), walletHandler.Update)
		wallet.DELETE("", rl("dashboard"), walletHandler.Delete)
		wallet.GET("/balance", rl("dashboard"), walletHandler.GetBalance)
	}

	txHandler := NewTransactionHandler(deps.LedgerSvc, deps.ReportingSvc)
	dashboardHandler := NewDashboardHandler(deps.ReportingSvc)
	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.POST("", rl("transactions"), txHandler.Create)
		transactions.GET("", rl("dashboard"), dashboardHandler.ListTransactions)
		transactions.GET("/:id", rl("dashboard"), txHandler.Get)
		transactions.PATCH("/:id", rl("transactions"), txHandler.Update)
		transactions.POST("/:id/reverse", rl("transactions"), txHandler.Reverse)
		transactions.POST("/:id/verify", rl("transactions"), txHandler.Verify)
	}

	dashboard := v1.Group("/dashboard", jwtAuth)
	{
		dashboard.GET("/stats", rl("dashboard"), dashboardHandler.GetStats)
	}

	alertHandler := NewAlertHandler(deps.AlertSvc)
	alerts := v1.Group("/alerts", jwtAuth)
	{
		alerts.GET("", rl("dashboard"), alertHandler.List)
		alerts.POST("/:id/acknowledge", rl("dashboard"), alertHandler.Acknowledge)
		alerts.POST("/:id/resolve", rl("dashboard"), alertHandler.Resolve)
	}

	budgetHandler := NewBudgetHandler(deps.BudgetSvc)
	budgets := v1.Group("/budgets", jwtAuth)
	{
		budgets.POST("", rl("dashboard"), budgetHandler.Create)
		budgets.GET("", rl("dashboard"), budgetHandler.List)
		budgets.PUT("/:id", rl("dashboard"), budgetHandler.Update)
		budgets.DELETE("/:id", rl("dashboard"), budgetHandler.Delete)
	}

	goalHandler := NewGoalHandler(deps.GoalSvc)
	goals := v1.Group("/goals", jwtAuth)
	{
		goals.POST("", rl("dashboard"), goalHandler.Create)
		goals.GET("", rl("dashboard"), goalHandler.List)
		goals.POST("/:id/contribute", rl("dashboard"), goalHandler.Contribute)
		goals.DELETE("/:id", rl("dashboard"), goalHandler.Delete)
	}

	advisorHandler := NewAdvisorHandler(deps.AdvisorSvc)
	advisor := v1.Group("/advisor", jwtAuth)
	{
		advisor.GET("/:kind", rl("advisor"), advisorHandler.Report)
	}

	return r
}
