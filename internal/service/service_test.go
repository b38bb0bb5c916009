package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ailinks.dev/internal/domain"
	"ailinks.dev/internal/infra"
	"ailinks.dev/internal/model"
)

// newTestDB 为每个测试创建独立的内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// 命名的共享内存库：连接池里的所有连接看到同一份数据
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, infra.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()

	user := &model.User{
		Name:     "测试用户",
		Email:    email,
		Provider: "local",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTool(t *testing.T, db *gorm.DB, userID uint, name, category string) *model.Tool {
	t.Helper()

	svc := NewToolService(db)
	tool, err := svc.Create(context.Background(), userID, domain.ToolInput{
		Name:     name,
		Category: category,
		URL:      "https://example.com/" + name,
	})
	require.NoError(t, err)
	return tool
}

// checkVisibilityInvariant 校验全表不变式：is_public 为真必然 status 为 approved
func checkVisibilityInvariant(t *testing.T, db *gorm.DB) {
	t.Helper()

	var count int64
	err := db.Model(&model.Tool{}).
		Where("is_public = ? AND status <> ?", true, model.ToolStatusApproved).
		Count(&count).Error
	require.NoError(t, err)
	require.Zero(t, count, "a public tool must always be approved")
}
