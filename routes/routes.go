package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lifetrack/lifetrack-api/config"
	"github.com/lifetrack/lifetrack-api/handlers"
	"github.com/lifetrack/lifetrack-api/middleware"
	"github.com/lifetrack/lifetrack-api/services"
	"github.com/lifetrack/lifetrack-api/utils"
)

// ============================================================================
// ROUTE SETUP
//
// Auth and user routes are always mounted. The finance surface (expenses,
// incomes, their analytics, AI) and the project surface (projects, tasks,
// their analytics, websockets) mount according to the configured variant.
// ============================================================================

func Setup(r *gin.Engine, db *sql.DB, cfg *config.Config, tokens *utils.TokenManager, log *logrus.Logger) {
	cryptoKey := []byte(cfg.DataEncryptionKey)

	authHandler := handlers.NewAuthHandler(db, tokens, cfg.RefreshTTL, cryptoKey)
	userHandler := handlers.NewUserHandler(db, cryptoKey, cfg.TOTPIssuer)

	api := r.Group("/api")
	authed := api.Group("")
	authed.Use(middleware.RequireAuth(tokens))

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}
	authedAuth := authed.Group("/auth")
	{
		authedAuth.POST("/logout", authHandler.Logout)
		authedAuth.GET("/me", userHandler.Me)
		authedAuth.PUT("/profile", userHandler.UpdateProfile)
		authedAuth.PUT("/password", userHandler.ChangePassword)
		authedAuth.POST("/2fa/setup", userHandler.SetupTOTP)
		authedAuth.POST("/2fa/verify", userHandler.VerifyTOTP)
		authedAuth.POST("/2fa/disable", userHandler.DisableTOTP)
	}

	if cfg.Variant == config.VariantFinance || cfg.Variant == config.VariantFull {
		setupFinance(authed, db, cfg, log)
	}
	if cfg.Variant == config.VariantProjects || cfg.Variant == config.VariantFull {
		setupProjects(authed, db, log)
	}
}

func setupFinance(authed *gin.RouterGroup, db *sql.DB, cfg *config.Config, log *logrus.Logger) {
	expenseHandler := handlers.NewExpenseHandler(db)
	incomeHandler := handlers.NewIncomeHandler(db)

	financeSvc := services.NewFinanceAnalyticsService(db)
	financeAnalytics := handlers.NewFinanceAnalyticsHandler(financeSvc)

	insightSvc := services.NewInsightService(
		&services.SQLCacheStore{DB: db},
		services.NewAIClient(cfg),
		cfg.AICacheTTL,
		log,
	)
	aiHandler := handlers.NewAIHandler(insightSvc, financeSvc, cfg.AIRecentLimit)

	expenses := authed.Group("/expenses")
	{
		expenses.POST("", expenseHandler.Create)
		expenses.GET("", expenseHandler.List)
		expenses.GET("/stats", expenseHandler.Stats)
		expenses.GET("/:id", expenseHandler.Get)
		expenses.PUT("/:id", expenseHandler.Update)
		expenses.DELETE("/:id", expenseHandler.Delete)
	}

	incomes := authed.Group("/incomes")
	{
		incomes.POST("", incomeHandler.Create)
		incomes.GET("", incomeHandler.List)
		incomes.GET("/stats", incomeHandler.Stats)
		incomes.GET("/:id", incomeHandler.Get)
		incomes.PUT("/:id", incomeHandler.Update)
		incomes.DELETE("/:id", incomeHandler.Delete)
	}

	analytics := authed.Group("/analytics")
	{
		analytics.GET("/summary", financeAnalytics.Summary)
		analytics.GET("/trends", financeAnalytics.Trends)
		analytics.GET("/categories", financeAnalytics.Categories)
		analytics.GET("/insights", aiHandler.Insight)
	}

	ai := authed.Group("/ai")
	{
		ai.POST("/budget-tips", aiHandler.BudgetTips)
		ai.POST("/chat", aiHandler.Chat)
	}
}

func setupProjects(authed *gin.RouterGroup, db *sql.DB, log *logrus.Logger) {
	guard := &services.ProjectGuard{DB: db}
	hub := handlers.NewWSHub(guard, log)

	projectHandler := handlers.NewProjectHandler(db, guard, hub)
	taskHandler := handlers.NewTaskHandler(db, guard, hub)
	analyticsHandler := handlers.NewAnalyticsHandler(services.NewProjectAnalyticsService(db))

	projects := authed.Group("/projects")
	{
		projects.POST("", projectHandler.Create)
		projects.GET("", projectHandler.List)
		projects.GET("/:id", projectHandler.Get)
		projects.PUT("/:id", projectHandler.Update)
		projects.DELETE("/:id", projectHandler.Delete)
		projects.POST("/:id/members", projectHandler.AddMember)
		projects.DELETE("/:id/members/:userId", projectHandler.RemoveMember)
	}

	tasks := authed.Group("/tasks")
	{
		tasks.POST("", taskHandler.Create)
		tasks.GET("", taskHandler.List)
		tasks.GET("/:id", taskHandler.Get)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.PUT("/:id/assign", taskHandler.Assign)
		tasks.DELETE("/:id", taskHandler.Delete)
	}

	analytics := authed.Group("/analytics")
	{
		analytics.GET("/overview", analyticsHandler.Overview)
		analytics.GET("/projects", analyticsHandler.Projects)
		analytics.GET("/tasks", analyticsHandler.Tasks)
	}

	ws := authed.Group("/ws")
	{
		ws.GET("/projects/:id", hub.Serve)
	}
}
