package main

import (
	"context"
	"log"
	"time"

	"ailinks.dev/internal/api"
	"ailinks.dev/internal/auth"
	"ailinks.dev/internal/config"
	"ailinks.dev/internal/domain"
	"ailinks.dev/internal/infra"
	"ailinks.dev/internal/service"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化基础设施
	// Postgres
	pg, err := infra.NewPostgresClient(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Redis：用于登出后的 token 吊销。不可用时降级为进程内存储。
	var revoked domain.TokenStore
	rdb := infra.NewRedisClient(cfg.Redis)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("Warning: Redis unavailable (%v), using in-memory token store", err)
		revoked = infra.NewMemoryTokenStore()
	} else {
		revoked = infra.NewRedisTokenStore(rdb)
	}

	// 3. Token 签发器
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer,
		time.Duration(cfg.JWT.ExpireHours)*time.Hour)

	// 4. 初始管理员
	if cfg.Admin.Create {
		authSvc := service.NewAuthService(pg.DB)
		if err := authSvc.EnsureAdminUser(context.Background(),
			cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Printf("Failed to create admin user: %v", err)
		}
	}

	// 5. 设置 Fiber 服务器并注册路由
	app := api.NewServer(cfg)
	router := api.NewRouter(app, cfg, pg.DB, tokens, revoked)
	router.RegisterRoutes()

	// 6. 启动服务器
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
