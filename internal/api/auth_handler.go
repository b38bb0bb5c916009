package api

import (
	"github.com/gofiber/fiber/v2"

	"ailinks.dev/internal/api/middleware"
	"ailinks.dev/internal/auth"
	"ailinks.dev/internal/domain"
)

// AuthHandler 处理注册、登录和账户相关的 HTTP 请求
type AuthHandler struct {
	authSvc domain.AuthService
	tokens  *auth.TokenManager
	revoked domain.TokenStore
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authSvc domain.AuthService, tokens *auth.TokenManager, revoked domain.TokenStore) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, tokens: tokens, revoked: revoked}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register 用户注册
// POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "无效的请求数据")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "姓名、邮箱和密码都是必填项")
	}

	user, err := h.authSvc.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return handleError(c, err)
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		return handleError(c, domain.NewInternalError("failed to sign token", err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "注册成功",
		"token":   token,
		"user":    user,
	})
}

// Login 用户登录
// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "无效的请求数据")
	}

	if req.Email == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "邮箱和密码都是必填项")
	}

	user, err := h.authSvc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return handleError(c, err)
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		return handleError(c, domain.NewInternalError("failed to sign token", err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "登录成功",
		"token":   token,
		"user":    user,
	})
}

// GetMe 获取当前用户信息
// GET /auth/me
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"user":    middleware.CurrentUser(c),
	})
}

// UpdateProfile 更新资料
// PUT /auth/profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		Name   *string `json:"name"`
		Avatar *string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "无效的请求数据")
	}

	user, err := h.authSvc.UpdateProfile(c.Context(), middleware.CurrentUser(c).ID, req.Name, req.Avatar)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "资料更新成功",
		"user":    user,
	})
}

// ChangePassword 修改密码
// PUT /auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "无效的请求数据")
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fail(c, fiber.StatusBadRequest, "当前密码和新密码都是必填项")
	}

	if err := h.authSvc.ChangePassword(c.Context(), middleware.CurrentUser(c).ID, req.CurrentPassword, req.NewPassword); err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "密码修改成功",
	})
}

// Refresh 签发新 token
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token, err := h.tokens.Issue(middleware.CurrentUser(c))
	if err != nil {
		return handleError(c, domain.NewInternalError("failed to sign token", err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Token刷新成功",
		"token":   token,
	})
}

// Logout 注销：吊销当前 token 的 jti，直到其自然过期
// POST /auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	if claims != nil && claims.ID != "" {
		if err := h.revoked.Revoke(c.Context(), claims.ID, middleware.TokenTTL(claims)); err != nil {
			return handleError(c, domain.NewInternalError("failed to revoke token", err))
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "注销成功",
	})
}
