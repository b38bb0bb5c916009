package api

import (
	"errors"
	"log"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ailinks.dev/internal/domain"
)

// Pagination 元数据结构
type Pagination struct {
	Total int64 `json:"total"` // 总记录数
	Page  int   `json:"page"`  // 当前页码
	Limit int   `json:"limit"` // 每页条数
	Pages int   `json:"pages"` // 总页数
}

// NewPagination 计算分页元数据，pages = ceil(total/limit)
func NewPagination(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}

// parsePagination 读取 page/limit 查询参数并做边界检查
func parsePagination(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// localsExposeInternal 由 NewServer 写入每个请求，标记当前应用
// 是否向客户端暴露内部错误详情（仅开发环境）
const localsExposeInternal = "expose_internal"

func exposeInternal(c *fiber.Ctx) bool {
	v, _ := c.Locals(localsExposeInternal).(bool)
	return v
}

// handleError 将领域错误映射为统一的失败响应。
// 完整错误在服务端记录，客户端只收到用户可读的消息。
func handleError(c *fiber.Ctx, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		log.Printf("API: %s %s failed: %v", c.Method(), c.Path(), appErr)

		message := appErr.Message
		if appErr.Code == fiber.StatusInternalServerError && !exposeInternal(c) {
			message = "服务器内部错误"
		}
		return c.Status(appErr.Code).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}

	log.Printf("API: %s %s unexpected error: %v", c.Method(), c.Path(), err)
	message := "服务器内部错误"
	if exposeInternal(c) {
		message = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// fail 直接返回一个失败响应（用于请求解析类错误）
func fail(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
