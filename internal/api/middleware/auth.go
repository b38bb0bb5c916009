package middleware

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ailinks.dev/internal/auth"
	"ailinks.dev/internal/domain"
	"ailinks.dev/internal/model"
)

// Locals keys set by the auth middleware.
const (
	LocalsUser   = "user"
	LocalsClaims = "claims"
)

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func unauthorized(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// resolveUser validates the token and loads the account behind it.
// The DB lookup is deliberate: deactivated or deleted users must fail even
// while holding a cryptographically valid token.
func resolveUser(c *fiber.Ctx, tokens *auth.TokenManager, db *gorm.DB, revoked domain.TokenStore) (*model.User, *auth.Claims, error) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return nil, nil, domain.NewUnauthorizedError("访问被拒绝，需要认证token")
	}

	claims, err := tokens.Parse(tokenString)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenMalformed):
			return nil, nil, domain.NewUnprocessableError("无效的认证token")
		case errors.Is(err, domain.ErrTokenExpired):
			return nil, nil, domain.NewUnauthorizedError("认证token已过期")
		default:
			return nil, nil, domain.NewUnauthorizedError("无效的认证token")
		}
	}

	if revoked != nil && claims.ID != "" {
		isRevoked, err := revoked.IsRevoked(c.Context(), claims.ID)
		if err != nil {
			log.Printf("Middleware: revocation check failed: %v", err)
		} else if isRevoked {
			return nil, nil, domain.NewUnauthorizedError("认证token已失效")
		}
	}

	var user model.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		return nil, nil, domain.NewUnauthorizedError("无效的认证token")
	}
	if !user.IsActive {
		return nil, nil, domain.NewUnauthorizedError("用户账户已被禁用")
	}

	return &user, claims, nil
}

// RequireAuth 强制认证，失败的请求不会到达后续处理器
func RequireAuth(tokens *auth.TokenManager, db *gorm.DB, revoked domain.TokenStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, err := resolveUser(c, tokens, db, revoked)
		if err != nil {
			var appErr *domain.AppError
			if errors.As(err, &appErr) {
				return unauthorized(c, appErr.Code, appErr.Message)
			}
			return unauthorized(c, fiber.StatusUnauthorized, "无效的认证token")
		}

		c.Locals(LocalsUser, user)
		c.Locals(LocalsClaims, claims)
		return c.Next()
	}
}

// OptionalAuth 可选认证：解析失败或缺少 token 时按匿名请求继续
func OptionalAuth(tokens *auth.TokenManager, db *gorm.DB, revoked domain.TokenStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, err := resolveUser(c, tokens, db, revoked)
		if err == nil {
			c.Locals(LocalsUser, user)
			c.Locals(LocalsClaims, claims)
		}
		return c.Next()
	}
}

// Casbin checks the caller's role against the route policy.
// Must run after RequireAuth.
func Casbin(enforcer *casbin.Enforcer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c, fiber.StatusUnauthorized, "需要先进行身份认证")
		}

		permit, err := enforcer.Enforce(string(user.Role), c.Path(), c.Method())
		if err != nil {
			log.Printf("Middleware: permission check failed: %v", err)
			return unauthorized(c, fiber.StatusInternalServerError, "服务器内部错误")
		}
		if !permit {
			return unauthorized(c, fiber.StatusForbidden, "需要管理员权限")
		}

		return c.Next()
	}
}

// CurrentUser 取出认证中间件写入的用户，匿名请求返回 nil
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(LocalsUser).(*model.User)
	return user
}

// CurrentClaims 取出认证中间件写入的 token 声明
func CurrentClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(LocalsClaims).(*auth.Claims)
	return claims
}

// TokenTTL 当前 token 的剩余有效期（用于注销时的吊销期限）
func TokenTTL(claims *auth.Claims) time.Duration {
	if claims == nil || claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}
