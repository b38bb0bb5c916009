package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"ailinks.dev/internal/config"
)

func NewServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: cfg.Server.AppName,
	})

	// 错误详情的暴露策略跟着应用实例走，不依赖进程级状态
	expose := cfg.IsDevelopment()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(localsExposeInternal, expose)
		return c.Next()
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
	}))
	app.Use(compress.New())

	// 速率限制，开发环境放宽
	maxRequests := 100
	if cfg.IsDevelopment() {
		maxRequests = 1000
	}
	app.Use(limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: 15 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "请求过于频繁，请稍后再试",
			})
		},
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":   true,
			"message":   "AI Links API 运行正常",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	return app
}
