package api

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ailinks.dev/internal/api/middleware"
	"ailinks.dev/internal/domain"
	"ailinks.dev/internal/model"
)

// AdminHandler 处理审核与用户管理的 HTTP 请求
type AdminHandler struct {
	adminSvc domain.AdminService
}

// NewAdminHandler 创建管理处理器
func NewAdminHandler(adminSvc domain.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// PendingTools 待审核工具列表
// GET /admin/tools/pending
func (h *AdminHandler) PendingTools(c *fiber.Ctx) error {
	page, limit := parsePagination(c)

	tools, total, err := h.adminSvc.ListPending(c.Context(), page, limit)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"tools":      tools,
		"pagination": NewPagination(total, page, limit),
	})
}

// AllTools 全部工具列表
// GET /admin/tools?status&category&search&page&limit
func (h *AdminHandler) AllTools(c *fiber.Ctx) error {
	page, limit := parsePagination(c)

	status := model.ToolStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return fail(c, fiber.StatusBadRequest, "无效的状态筛选")
	}

	tools, total, err := h.adminSvc.ListAll(c.Context(), domain.AdminListOptions{
		Status:   status,
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"tools":      tools,
		"pagination": NewPagination(total, page, limit),
	})
}

// ReviewTool 审核单个工具
// PUT /admin/tools/:id/review
func (h *AdminHandler) ReviewTool(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fail(c, fiber.StatusNotFound, "工具不存在")
	}

	var req struct {
		Action domain.ReviewAction `json:"action"`
		Reason string              `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "无效的请求数据")
	}

	tool, err := h.adminSvc.Review(c.Context(), middleware.CurrentUser(c).ID, uint(id), req.Action, req.Reason)
	if err != nil {
		return handleError(c, err)
	}

	message := "工具批准成功"
	if req.Action == domain.ReviewReject {
		message = "工具拒绝成功"
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"tool":    tool,
	})
}

// BatchReview 批量审核，只转换仍处于待审核状态的工具
// PUT /admin/tools/batch-review
func (h *AdminHandler) BatchReview(c *fiber.Ctx) error {
	var req struct {
		ToolIDs []uint              `json:"toolIds"`
		Action  domain.ReviewAction `json:"action"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "无效的请求数据")
	}

	count, err := h.adminSvc.BatchReview(c.Context(), middleware.CurrentUser(c).ID, req.ToolIDs, req.Action)
	if err != nil {
		return handleError(c, err)
	}

	verb := "批准"
	if req.Action == domain.ReviewReject {
		verb = "拒绝"
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  fmt.Sprintf("成功%s了 %d 个工具", verb, count),
		"reviewed": count,
	})
}

// Users 用户列表
// GET /admin/users?role&is_active&search&page&limit
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	page, limit := parsePagination(c)

	role := model.UserRole(c.Query("role"))
	if role != "" && !role.Valid() {
		return fail(c, fiber.StatusBadRequest, "无效的角色筛选")
	}

	opts := domain.UserListOptions{
		Role:   role,
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}
	if v := c.Query("is_active"); v != "" {
		isActive := v == "true"
		opts.IsActive = &isActive
	}

	users, total, err := h.adminSvc.ListUsers(c.Context(), opts)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"users":      users,
		"pagination": NewPagination(total, page, limit),
	})
}

// UpdateUserStatus 更新用户状态/角色
// PUT /admin/users/:id/status
func (h *AdminHandler) UpdateUserStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fail(c, fiber.StatusNotFound, "用户不存在")
	}

	var req struct {
		IsActive *bool           `json:"is_active"`
		Role     *model.UserRole `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "无效的请求数据")
	}

	user, err := h.adminSvc.UpdateUserStatus(c.Context(), middleware.CurrentUser(c).ID, uint(id), req.IsActive, req.Role)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "用户状态更新成功",
		"user":    user,
	})
}

// Stats 系统统计信息
// GET /admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.adminSvc.SystemStats(c.Context())
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}
