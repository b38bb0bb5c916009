package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ailinks.dev/internal/domain"
	"ailinks.dev/internal/model"
)

func TestReviewApprove(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com", model.RoleUser)
	admin := createUser(t, db, "admin@example.com", model.RoleAdmin)
	tool := createTool(t, db, owner.ID, "X", "c")

	reviewed, err := svc.Review(ctx, admin.ID, tool.ID, domain.ReviewApprove, "")
	require.NoError(t, err)
	assert.Equal(t, model.ToolStatusApproved, reviewed.Status)
	assert.True(t, reviewed.IsPublic)
	require.NotNil(t, reviewed.ApprovedBy)
	assert.Equal(t, admin.ID, *reviewed.ApprovedBy)
	assert.NotNil(t, reviewed.ApprovedAt)
	checkVisibilityInvariant(t, db)
}

func TestReviewRejectStoresReason(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com", model.RoleUser)
	admin := createUser(t, db, "admin@example.com", model.RoleAdmin)
	tool := createTool(t, db, owner.ID, "X", "c")

	reviewed, err := svc.Review(ctx, admin.ID, tool.ID, domain.ReviewReject, "链接无法访问")
	require.NoError(t, err)
	assert.Equal(t, model.ToolStatusRejected, reviewed.Status)
	assert.False(t, reviewed.IsPublic)
	assert.Equal(t, "链接无法访问", reviewed.ReviewNote)
	require.NotNil(t, reviewed.ApprovedBy)
	assert.Equal(t, admin.ID, *reviewed.ApprovedBy)
	checkVisibilityInvariant(t, db)
}

func TestReviewConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com", model.RoleUser)
	admin := createUser(t, db, "admin@example.com", model.RoleAdmin)
	tool := createTool(t, db, owner.ID, "X", "c")

	_, err := svc.Review(ctx, admin.ID, tool.ID, domain.ReviewApprove, "")
	require.NoError(t, err)

	// 第二次审核（无论批准还是拒绝）都必须失败
	_, err = svc.Review(ctx, admin.ID, tool.ID, domain.ReviewReject, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)

	// 工具保持第一次审核的结果
	var got model.Tool
	require.NoError(t, db.First(&got, tool.ID).Error)
	assert.Equal(t, model.ToolStatusApproved, got.Status)
}

func TestReviewNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	admin := createUser(t, db, "admin@example.com", model.RoleAdmin)

	_, err := svc.Review(context.Background(), admin.ID, 9999, domain.ReviewApprove, "")
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestReviewInvalidAction(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	admin := createUser(t, db, "admin@example.com", model.RoleAdmin)

	_, err := svc.Review(context.Background(), admin.ID, 1, domain.ReviewAction("publish"), "")
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestBatchReviewSkipsNonPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com", model.RoleUser)
	admin := createUser(t, db, "admin@example.com", model.RoleAdmin)

	t1 := createTool(t, db, owner.ID, "a", "dev")
	t2 := createTool(t, db, owner.ID, "b", "dev")
	t3 := createTool(t, db, owner.ID, "c", "dev")

	// t2 已被单独批准
	_, err := svc.Review(ctx, admin.ID, t2.ID, domain.ReviewApprove, "")
	require.NoError(t, err)

	// 批量审核列出三个，只有 t1 和 t3 被转换
	count, err := svc.BatchReview(ctx, admin.ID, []uint{t1.ID, t2.ID, t3.ID}, domain.ReviewApprove)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	checkVisibilityInvariant(t, db)

	// 空列表和全部不可审核的情况
	_, err = svc.BatchReview(ctx, admin.ID, nil, domain.ReviewApprove)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)

	_, err = svc.BatchReview(ctx, admin.ID, []uint{t1.ID, t2.ID}, domain.ReviewReject)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestListPendingOrdersOldestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com", model.RoleUser)

	first := createTool(t, db, owner.ID, "first", "dev")
	second := createTool(t, db, owner.ID, "second", "dev")
	// 保证创建时间可区分
	require.NoError(t, db.Model(&model.Tool{}).Where("id = ?", first.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	tools, total, err := svc.ListPending(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, tools, 2)
	assert.Equal(t, first.ID, tools[0].ID, "pending queue is first-in-first-out")
	assert.Equal(t, second.ID, tools[1].ID)
}

func TestListAllFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com", model.RoleUser)
	admin := createUser(t, db, "admin@example.com", model.RoleAdmin)

	a := createTool(t, db, owner.ID, "Alpha", "ai")
	createTool(t, db, owner.ID, "Beta", "design")
	_, err := svc.Review(ctx, admin.ID, a.ID, domain.ReviewApprove, "")
	require.NoError(t, err)

	// 管理员列表不受可见性限制
	_, total, err := svc.ListAll(ctx, domain.AdminListOptions{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	tools, total, err := svc.ListAll(ctx, domain.AdminListOptions{Status: model.ToolStatusPending, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tools, 1)
	assert.Equal(t, "Beta", tools[0].Name)

	_, total, err = svc.ListAll(ctx, domain.AdminListOptions{Search: "alp", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestUpdateUserStatusSelfDeactivation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	ctx := context.Background()

	admin := createUser(t, db, "admin@example.com", model.RoleAdmin)

	inactive := false
	_, err := svc.UpdateUserStatus(ctx, admin.ID, admin.ID, &inactive, nil)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)

	// 账户保持激活
	var got model.User
	require.NoError(t, db.First(&got, admin.ID).Error)
	assert.True(t, got.IsActive)
}

func TestUpdateUserStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	ctx := context.Background()

	admin := createUser(t, db, "admin@example.com", model.RoleAdmin)
	user := createUser(t, db, "user@example.com", model.RoleUser)

	inactive := false
	role := model.RoleAdmin
	updated, err := svc.UpdateUserStatus(ctx, admin.ID, user.ID, &inactive, &role)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, model.RoleAdmin, updated.Role)

	// 无效角色
	bad := model.UserRole("owner")
	_, err = svc.UpdateUserStatus(ctx, admin.ID, user.ID, nil, &bad)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)

	// 不存在的用户
	_, err = svc.UpdateUserStatus(ctx, admin.ID, 9999, &inactive, nil)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestSystemStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com", model.RoleUser)
	admin := createUser(t, db, "admin@example.com", model.RoleAdmin)

	a := createTool(t, db, owner.ID, "a", "ai")
	b := createTool(t, db, owner.ID, "b", "ai")
	c := createTool(t, db, owner.ID, "c", "design")
	createTool(t, db, owner.ID, "d", "dev")

	_, err := svc.BatchReview(ctx, admin.ID, []uint{a.ID, b.ID, c.ID}, domain.ReviewApprove)
	require.NoError(t, err)

	stats, err := svc.SystemStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Users.Total)
	assert.Equal(t, int64(1), stats.Users.Admin)
	assert.Equal(t, int64(1), stats.Users.User)

	assert.Equal(t, int64(4), stats.Tools.Total)
	assert.Equal(t, int64(3), stats.Tools.Approved)
	assert.Equal(t, int64(1), stats.Tools.Pending)
	assert.Zero(t, stats.Tools.Rejected)

	// 分类统计只包含已批准且公开的工具，按数量降序
	require.Len(t, stats.Categories, 2)
	assert.Equal(t, "ai", stats.Categories[0].Category)
	assert.Equal(t, int64(2), stats.Categories[0].Count)
	assert.Equal(t, "design", stats.Categories[1].Category)
	assert.Equal(t, int64(1), stats.Categories[1].Count)
}
