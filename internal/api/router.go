package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ailinks.dev/internal/api/middleware"
	"ailinks.dev/internal/auth"
	"ailinks.dev/internal/config"
	"ailinks.dev/internal/domain"
	"ailinks.dev/internal/service"
)

// Router 负责注册所有路由
type Router struct {
	app     *fiber.App
	cfg     *config.Config
	db      *gorm.DB
	tokens  *auth.TokenManager
	revoked domain.TokenStore
}

func NewRouter(app *fiber.App, cfg *config.Config, db *gorm.DB, tokens *auth.TokenManager, revoked domain.TokenStore) *Router {
	return &Router{
		app:     app,
		cfg:     cfg,
		db:      db,
		tokens:  tokens,
		revoked: revoked,
	}
}

// RegisterRoutes 注册所有业务路由
func (r *Router) RegisterRoutes() {
	// 1. 初始化鉴权与中间件
	enforcer, err := auth.InitCasbin(r.db)
	if err != nil {
		log.Fatalf("Failed to initialize Casbin: %v", err)
	}

	requireAuth := middleware.RequireAuth(r.tokens, r.db, r.revoked)
	optionalAuth := middleware.OptionalAuth(r.tokens, r.db, r.revoked)
	rbac := middleware.Casbin(enforcer)

	// 2. 初始化各个 Handler
	authHandler := NewAuthHandler(service.NewAuthService(r.db), r.tokens, r.revoked)
	toolHandler := NewToolHandler(service.NewToolService(r.db))
	adminHandler := NewAdminHandler(service.NewAdminService(r.db))

	// 3. 认证路由
	authGroup := r.app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", requireAuth, rbac, authHandler.GetMe)
	authGroup.Put("/profile", requireAuth, rbac, authHandler.UpdateProfile)
	authGroup.Put("/change-password", requireAuth, rbac, authHandler.ChangePassword)
	authGroup.Post("/refresh", requireAuth, rbac, authHandler.Refresh)
	authGroup.Post("/logout", requireAuth, rbac, authHandler.Logout)

	// 4. 工具路由。列表和详情对匿名请求开放
	tools := r.app.Group("/tools")
	tools.Get("/", optionalAuth, toolHandler.List)
	tools.Get("/user/my-tools", requireAuth, rbac, toolHandler.MyTools)
	tools.Get("/user/stats", requireAuth, rbac, toolHandler.MyStats)
	tools.Get("/:id", toolHandler.Get)
	tools.Post("/", requireAuth, rbac, toolHandler.Create)
	tools.Put("/:id", requireAuth, rbac, toolHandler.Update)
	tools.Delete("/:id", requireAuth, rbac, toolHandler.Delete)

	// 5. 管理路由
	admin := r.app.Group("/admin", requireAuth, rbac)
	admin.Get("/tools/pending", adminHandler.PendingTools)
	admin.Get("/tools", adminHandler.AllTools)
	admin.Put("/tools/batch-review", adminHandler.BatchReview)
	admin.Put("/tools/:id/review", adminHandler.ReviewTool)
	admin.Get("/users", adminHandler.Users)
	admin.Put("/users/:id/status", adminHandler.UpdateUserStatus)
	admin.Get("/stats", adminHandler.Stats)
}
