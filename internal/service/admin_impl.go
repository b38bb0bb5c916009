package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"ailinks.dev/internal/domain"
	"ailinks.dev/internal/model"
)

// AdminServiceImpl 实现 domain.AdminService 接口
type AdminServiceImpl struct {
	db *gorm.DB
}

// NewAdminService 创建管理服务
func NewAdminService(db *gorm.DB) *AdminServiceImpl {
	return &AdminServiceImpl{db: db}
}

// ListPending 待审核列表，按创建时间升序，先提交的先审核
func (s *AdminServiceImpl) ListPending(ctx context.Context, page, limit int) ([]model.Tool, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Tool{}).
		Where("status = ?", model.ToolStatusPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to count tools", err)
	}

	var tools []model.Tool
	if err := query.Preload("User").
		Order("created_at ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&tools).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to fetch tools", err)
	}

	return tools, total, nil
}

// ListAll 全部工具列表（管理员视图）
func (s *AdminServiceImpl) ListAll(ctx context.Context, opts domain.AdminListOptions) ([]model.Tool, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Tool{})

	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
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
	if err := query.Preload("User").Preload("ApprovedByUser").
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&tools).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to fetch tools", err)
	}

	return tools, total, nil
}

// reviewUpdates 构造一次审核写入的列集合
func reviewUpdates(adminID uint, action domain.ReviewAction, reason string) map[string]interface{} {
	updates := map[string]interface{}{
		"approved_by": adminID,
		"approved_at": time.Now(),
	}
	if action == domain.ReviewApprove {
		updates["status"] = model.ToolStatusApproved
		updates["is_public"] = true
		updates["review_note"] = ""
	} else {
		updates["status"] = model.ToolStatusRejected
		updates["is_public"] = false
		updates["review_note"] = reason
	}
	return updates
}

// Review 审核单个工具。
// 状态守卫（status = pending）和状态写入在同一条 UPDATE 中完成，
// 并发的重复审核只有一个会生效，其余返回冲突错误。
func (s *AdminServiceImpl) Review(ctx context.Context, adminID, toolID uint, action domain.ReviewAction, reason string) (*model.Tool, error) {
	if !action.Valid() {
		return nil, domain.NewBadRequestError("无效的审核操作")
	}

	result := s.db.WithContext(ctx).Model(&model.Tool{}).
		Where("id = ? AND status = ?", toolID, model.ToolStatusPending).
		Updates(reviewUpdates(adminID, action, reason))
	if result.Error != nil {
		return nil, domain.NewInternalError("failed to review tool", result.Error)
	}

	if result.RowsAffected == 0 {
		// Either the tool does not exist or it was already reviewed.
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Tool{}).
			Where("id = ?", toolID).Count(&count).Error; err != nil {
			return nil, domain.NewInternalError("failed to fetch tool", err)
		}
		if count == 0 {
			return nil, domain.NewNotFoundError("工具不存在")
		}
		return nil, domain.NewConflictError("该工具已被审核")
	}

	var tool model.Tool
	if err := s.db.WithContext(ctx).
		Preload("User").Preload("ApprovedByUser").
		First(&tool, toolID).Error; err != nil {
		return nil, domain.NewInternalError("failed to fetch tool", err)
	}

	log.Printf("AdminService: Tool %s: %s (admin %d)", action, tool.Name, adminID)
	return &tool, nil
}

// BatchReview 批量审核。只有当前处于待审核状态的工具会被转换，
// 不存在或已审核的 ID 被静默跳过，返回实际转换的数量。
func (s *AdminServiceImpl) BatchReview(ctx context.Context, adminID uint, toolIDs []uint, action domain.ReviewAction) (int64, error) {
	if len(toolIDs) == 0 {
		return 0, domain.NewBadRequestError("请选择要审核的工具")
	}
	if !action.Valid() {
		return 0, domain.NewBadRequestError("无效的审核操作")
	}

	result := s.db.WithContext(ctx).Model(&model.Tool{}).
		Where("id IN ? AND status = ?", toolIDs, model.ToolStatusPending).
		Updates(reviewUpdates(adminID, action, ""))
	if result.Error != nil {
		return 0, domain.NewInternalError("failed to batch review tools", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, domain.NewBadRequestError("没有找到可审核的工具")
	}

	log.Printf("AdminService: Batch %s: %d tools (admin %d)", action, result.RowsAffected, adminID)
	return result.RowsAffected, nil
}

// ListUsers 用户列表（管理员视图）
func (s *AdminServiceImpl) ListUsers(ctx context.Context, opts domain.UserListOptions) ([]model.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.User{})

	if opts.Role != "" {
		query = query.Where("role = ?", opts.Role)
	}
	if opts.IsActive != nil {
		query = query.Where("is_active = ?", *opts.IsActive)
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to count users", err)
	}

	var users []model.User
	if err := query.Order("created_at DESC").
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&users).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to fetch users", err)
	}

	return users, total, nil
}

// UpdateUserStatus 更新用户的激活状态和角色。管理员不能禁用自己的账户。
func (s *AdminServiceImpl) UpdateUserStatus(ctx context.Context, adminID, userID uint, isActive *bool, role *model.UserRole) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("用户不存在")
		}
		return nil, domain.NewInternalError("failed to fetch user", err)
	}

	if adminID == user.ID && isActive != nil && !*isActive {
		return nil, domain.NewBadRequestError("不能禁用自己的账户")
	}

	updates := map[string]interface{}{}
	if isActive != nil {
		updates["is_active"] = *isActive
	}
	if role != nil {
		if !role.Valid() {
			return nil, domain.NewBadRequestError("无效的角色")
		}
		updates["role"] = *role
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, domain.NewInternalError("failed to update user", err)
		}
	}

	log.Printf("AdminService: User status updated: %s (admin %d)", user.Email, adminID)
	return &user, nil
}

// SystemStats 系统统计：用户按角色、工具按状态（空桶计 0）、
// 已批准且公开的工具按分类取前 10
func (s *AdminServiceImpl) SystemStats(ctx context.Context) (*domain.SystemStats, error) {
	stats := &domain.SystemStats{Categories: []domain.CategoryCount{}}

	var userRows []struct {
		Role  model.UserRole
		Count int64
	}
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&userRows).Error
	if err != nil {
		return nil, domain.NewInternalError("failed to compute user stats", err)
	}
	for _, row := range userRows {
		switch row.Role {
		case model.RoleAdmin:
			stats.Users.Admin = row.Count
		case model.RoleUser:
			stats.Users.User = row.Count
		}
		stats.Users.Total += row.Count
	}

	var toolRows []struct {
		Status model.ToolStatus
		Count  int64
	}
	err = s.db.WithContext(ctx).Model(&model.Tool{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&toolRows).Error
	if err != nil {
		return nil, domain.NewInternalError("failed to compute tool stats", err)
	}
	for _, row := range toolRows {
		switch row.Status {
		case model.ToolStatusPending:
			stats.Tools.Pending = row.Count
		case model.ToolStatusApproved:
			stats.Tools.Approved = row.Count
		case model.ToolStatusRejected:
			stats.Tools.Rejected = row.Count
		}
		stats.Tools.Total += row.Count
	}

	err = s.db.WithContext(ctx).Model(&model.Tool{}).
		Select("category, COUNT(*) as count").
		Where("is_public = ? AND status = ?", true, model.ToolStatusApproved).
		Group("category").
		Order("count DESC").
		Limit(10).
		Scan(&stats.Categories).Error
	if err != nil {
		return nil, domain.NewInternalError("failed to compute category stats", err)
	}

	return stats, nil
}
