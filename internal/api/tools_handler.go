package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ailinks.dev/internal/api/middleware"
	"ailinks.dev/internal/domain"
)

// ToolHandler 处理工具提交与查询的 HTTP 请求
type ToolHandler struct {
	toolSvc domain.ToolService
}

// NewToolHandler 创建工具处理器
func NewToolHandler(toolSvc domain.ToolService) *ToolHandler {
	return &ToolHandler{toolSvc: toolSvc}
}

type ToolRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	URL         string `json:"url"`
	Icon        string `json:"icon"`
}

// List 工具列表。默认返回公开工具；my_tools=true 时返回当前用户的工具
// （需要认证），并支持 is_public 过滤。
// GET /tools?category&search&page&limit&my_tools&is_public
func (h *ToolHandler) List(c *fiber.Ctx) error {
	page, limit := parsePagination(c)

	if c.Query("my_tools") == "true" {
		user := middleware.CurrentUser(c)
		if user == nil {
			return fail(c, fiber.StatusUnauthorized, "需要登录才能查看个人工具")
		}

		opts := domain.OwnerListOptions{Page: page, Limit: limit}
		if v := c.Query("is_public"); v != "" {
			isPublic := v == "true"
			opts.IsPublic = &isPublic
		}

		tools, total, err := h.toolSvc.ListOwned(c.Context(), user.ID, opts)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":    true,
			"tools":      tools,
			"pagination": NewPagination(total, page, limit),
		})
	}

	tools, total, err := h.toolSvc.ListPublic(c.Context(), domain.PublicListOptions{
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

// Get 公开工具详情
// GET /tools/:id
func (h *ToolHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fail(c, fiber.StatusNotFound, "工具不存在或未公开")
	}

	tool, err := h.toolSvc.GetPublic(c.Context(), uint(id))
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"tool":    tool,
	})
}

// Create 创建工具
// POST /tools
func (h *ToolHandler) Create(c *fiber.Ctx) error {
	var req ToolRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "无效的请求数据")
	}

	tool, err := h.toolSvc.Create(c.Context(), middleware.CurrentUser(c).ID, domain.ToolInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		URL:         req.URL,
		Icon:        req.Icon,
	})
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "工具创建成功，等待审核",
		"tool":    tool,
	})
}

// Update 更新工具，已批准的工具在字段变化后回到待审核状态
// PUT /tools/:id
func (h *ToolHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fail(c, fiber.StatusNotFound, "工具不存在或无权限修改")
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
		URL         *string `json:"url"`
		Icon        *string `json:"icon"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "无效的请求数据")
	}

	tool, needsReview, err := h.toolSvc.Update(c.Context(), middleware.CurrentUser(c).ID, uint(id), domain.ToolUpdate{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		URL:         req.URL,
		Icon:        req.Icon,
	})
	if err != nil {
		return handleError(c, err)
	}

	message := "工具更新成功"
	if needsReview {
		message = "工具更新成功，需要重新审核"
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"tool":    tool,
	})
}

// Delete 删除工具
// DELETE /tools/:id
func (h *ToolHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fail(c, fiber.StatusNotFound, "工具不存在或无权限删除")
	}

	if err := h.toolSvc.Delete(c.Context(), middleware.CurrentUser(c).ID, uint(id)); err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "工具删除成功",
	})
}

// MyTools 当前用户的工具列表
// GET /tools/user/my-tools
func (h *ToolHandler) MyTools(c *fiber.Ctx) error {
	page, limit := parsePagination(c)

	tools, total, err := h.toolSvc.ListOwned(c.Context(), middleware.CurrentUser(c).ID, domain.OwnerListOptions{
		Page:  page,
		Limit: limit,
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

// MyStats 当前用户的工具统计
// GET /tools/user/stats
func (h *ToolHandler) MyStats(c *fiber.Ctx) error {
	stats, err := h.toolSvc.OwnerStats(c.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}
