package router

import (
	"github.com/KauaAraujodS/organiza-app/internal/config"
	"github.com/KauaAraujodS/organiza-app/internal/handler"
	"github.com/KauaAraujodS/organiza-app/internal/ledger"
	"github.com/KauaAraujodS/organiza-app/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the API route table.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	svc := ledger.NewService(db)

	// ====== API ======
	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	// 登录/注册接口（不需要鉴权）
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)
	protected.POST("/auth/logout", authHandler.Logout)

	accountHandler := handler.NewAccountHandler(db, cfg.App.DefaultCurrency)
	protected.POST("/accounts", accountHandler.Create)
	protected.GET("/accounts", accountHandler.List)
	protected.PUT("/accounts/:id", accountHandler.Update)
	protected.DELETE("/accounts/:id", accountHandler.Delete)

	categoryHandler := handler.NewCategoryHandler(db)
	protected.POST("/categories", categoryHandler.Create)
	protected.GET("/categories", categoryHandler.List)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	tagHandler := handler.NewTagHandler(db)
	protected.POST("/tags", tagHandler.Create)
	protected.GET("/tags", tagHandler.List)
	protected.PUT("/tags/:id", tagHandler.Update)
	protected.DELETE("/tags/:id", tagHandler.Delete)

	transactionHandler := handler.NewTransactionHandler(db, svc, cfg.App.PageSize)
	protected.POST("/transactions", transactionHandler.Create)
	protected.GET("/transactions", transactionHandler.List)
	protected.GET("/transactions/:id", transactionHandler.Get)
	protected.PUT("/transactions/:id", transactionHandler.Update)
	protected.DELETE("/transactions/:id", transactionHandler.Delete)

	recurringHandler := handler.NewRecurringHandler(db, svc)
	protected.POST("/recurrences", recurringHandler.Create)
	protected.GET("/recurrences", recurringHandler.List)
	protected.PUT("/recurrences/:id", recurringHandler.Update)
	protected.DELETE("/recurrences/:id", recurringHandler.Delete)
	protected.POST("/recurrences/run", recurringHandler.RunDue)

	budgetHandler := handler.NewBudgetHandler(db, svc)
	protected.POST("/budgets", budgetHandler.Create)
	protected.GET("/budgets", budgetHandler.List)
	protected.GET("/budgets/:id/realization", budgetHandler.Realization)
	protected.PUT("/budgets/:id", budgetHandler.Update)
	protected.DELETE("/budgets/:id", budgetHandler.Delete)

	goalHandler := handler.NewGoalHandler(db, svc)
	protected.POST("/goals", goalHandler.Create)
	protected.GET("/goals", goalHandler.List)
	protected.PUT("/goals/:id", goalHandler.Update)
	protected.DELETE("/goals/:id", goalHandler.Delete)
	protected.POST("/goals/:id/contributions", goalHandler.Contribute)

	cardHandler := handler.NewCardHandler(db)
	protected.POST("/cards", cardHandler.Create)
	protected.GET("/cards", cardHandler.List)
	protected.PUT("/cards/:id", cardHandler.Update)
	protected.DELETE("/cards/:id", cardHandler.Delete)

	debtHandler := handler.NewDebtHandler(db)
	protected.POST("/debts", debtHandler.Create)
	protected.GET("/debts", debtHandler.List)
	protected.PUT("/debts/:id", debtHandler.Update)
	protected.DELETE("/debts/:id", debtHandler.Delete)

	statsHandler := handler.NewStatsHandler(db)
	protected.GET("/stats/monthly", statsHandler.GetMonthlyStats)

	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db, cfg.Security.BcryptCost))

	logHandler := handler.NewLogHandler(db)
	protected.GET("/logs", logHandler.ListLogs)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
