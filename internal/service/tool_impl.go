package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"ailinks.dev/internal/domain"
	"ailinks.dev/internal/model"
)

// ToolServiceImpl 实现 domain.ToolService 接口
type ToolServiceImpl struct {
	db *gorm.DB
}

// NewToolService 创建工具服务
func NewToolService(db *gorm.DB) *ToolServiceImpl {
	return &ToolServiceImpl{db: db}
}

// 大小写无关的子串匹配，作用于名称和描述
func applySearch(query *gorm.DB, search string) *gorm.DB {
	pattern := "%" + search + "%"
	return query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
}

// ListPublic 公开列表，只返回已批准且公开的工具
func (s *ToolServiceImpl) ListPublic(ctx context.Context, opts domain.PublicListOptions) ([]model.Tool, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Tool{}).
		Where("is_public = ? AND status = ?", true, model.ToolStatusApproved)

	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}
	if opts.Search != "" {
		query = applySearch(query, opts.Search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to count tools", err)
	}

	var tools []model.Tool
	if err := query.Preload("User").
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&tools).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to fetch tools", err)
	}

	return tools, total, nil
}

// GetPublic 公开详情，未批准或未公开的工具按不存在处理
func (s *ToolServiceImpl) GetPublic(ctx context.Context, id uint) (*model.Tool, error) {
	var tool model.Tool
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_public = ? AND status = ?", id, true, model.ToolStatusApproved).
		Preload("User").
		First(&tool).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("工具不存在或未公开")
		}
		return nil, domain.NewInternalError("failed to fetch tool", err)
	}
	return &tool, nil
}

// Create 创建工具，初始状态为待审核、不公开
func (s *ToolServiceImpl) Create(ctx context.Context, userID uint, in domain.ToolInput) (*model.Tool, error) {
	if in.Name == "" || in.Category == "" || in.URL == "" {
		return nil, domain.NewBadRequestError("工具名称、分类和URL都是必填项")
	}

	tool := model.Tool{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		URL:         in.URL,
		Icon:        in.Icon,
		UserID:      userID,
		Status:      model.ToolStatusPending,
		IsPublic:    false,
	}

	if err := s.db.WithContext(ctx).Create(&tool).Error; err != nil {
		return nil, domain.NewInternalError("failed to create tool", err)
	}

	log.Printf("ToolService: Tool created: %s (user %d)", tool.Name, userID)
	return &tool, nil
}

// Update 更新工具。已批准的工具在可审核字段发生实际变化时回到待审核状态，
// 同时清除审核人、审核时间和审核备注；无变化的更新不触发重新审核。
// 返回值第二项表示本次更新是否触发了重新审核。
func (s *ToolServiceImpl) Update(ctx context.Context, userID, toolID uint, in domain.ToolUpdate) (*model.Tool, bool, error) {
	var tool model.Tool
	// Ownership is part of the lookup: someone else's tool is indistinguishable
	// from a missing one.
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", toolID, userID).
		First(&tool).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, domain.NewNotFoundError("工具不存在或无权限修改")
		}
		return nil, false, domain.NewInternalError("failed to fetch tool", err)
	}

	changed := false
	updates := map[string]interface{}{}
	apply := func(column string, incoming *string, current string) {
		if incoming == nil {
			return
		}
		updates[column] = *incoming
		if *incoming != current {
			changed = true
		}
	}
	apply("name", in.Name, tool.Name)
	apply("description", in.Description, tool.Description)
	apply("category", in.Category, tool.Category)
	apply("url", in.URL, tool.URL)
	apply("icon", in.Icon, tool.Icon)

	needsReview := tool.Status == model.ToolStatusApproved && changed
	if needsReview {
		updates["status"] = model.ToolStatusPending
		updates["approved_by"] = nil
		updates["approved_at"] = nil
		updates["review_note"] = ""
		updates["is_public"] = false
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&tool).Updates(updates).Error; err != nil {
			return nil, false, domain.NewInternalError("failed to update tool", err)
		}
	}
	if needsReview {
		tool.ApprovedBy = nil
		tool.ApprovedAt = nil
	}

	log.Printf("ToolService: Tool updated: %s (re-review: %v)", tool.Name, needsReview)
	return &tool, needsReview, nil
}

// Delete 删除工具，仅限所有者
func (s *ToolServiceImpl) Delete(ctx context.Context, userID, toolID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", toolID, userID).
		Delete(&model.Tool{})
	if result.Error != nil {
		return domain.NewInternalError("failed to delete tool", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("工具不存在或无权限删除")
	}

	log.Printf("ToolService: Tool deleted: %d (user %d)", toolID, userID)
	return nil
}

// ListOwned 用户自己的工具列表
func (s *ToolServiceImpl) ListOwned(ctx context.Context, userID uint, opts domain.OwnerListOptions) ([]model.Tool, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Tool{}).Where("user_id = ?", userID)

	if opts.IsPublic != nil {
		query = query.Where("is_public = ?", *opts.IsPublic)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to count tools", err)
	}

	var tools []model.Tool
	if err := query.Preload("ApprovedByUser").
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&tools).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to fetch tools", err)
	}

	return tools, total, nil
}

// OwnerStats 用户自己的工具按状态统计，空桶计数为 0
func (s *ToolServiceImpl) OwnerStats(ctx context.Context, userID uint) (*domain.ToolStats, error) {
	var rows []struct {
		Status model.ToolStatus
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&model.Tool{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, domain.NewInternalError("failed to compute stats", err)
	}

	stats := &domain.ToolStats{}
	for _, row := range rows {
		switch row.Status {
		case model.ToolStatusPending:
			stats.Pending = row.Count
		case model.ToolStatusApproved:
			stats.Approved = row.Count
		case model.ToolStatusRejected:
			stats.Rejected = row.Count
		}
		stats.Total += row.Count
	}
	return stats, nil
}
