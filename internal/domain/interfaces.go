package domain

import (
	"context"
	"time"

	"ailinks.dev/internal/model"
)

// ReviewAction 审核动作
type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

// Valid reports whether the action is one of the known values.
func (a ReviewAction) Valid() bool {
	return a == ReviewApprove || a == ReviewReject
}

// ToolInput 创建工具的输入
type ToolInput struct {
	Name        string
	Description string
	Category    string
	URL         string
	Icon        string
}

// ToolUpdate 更新工具的输入，nil 表示不修改该字段
type ToolUpdate struct {
	Name        *string
	Description *string
	Category    *string
	URL         *string
	Icon        *string
}

// PublicListOptions 公开列表的查询参数
type PublicListOptions struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// OwnerListOptions 用户自己的工具列表的查询参数
type OwnerListOptions struct {
	IsPublic *bool
	Page     int
	Limit    int
}

// AdminListOptions 管理员工具列表的查询参数
type AdminListOptions struct {
	Status   model.ToolStatus
	Category string
	Search   string
	Page     int
	Limit    int
}

// UserListOptions 管理员用户列表的查询参数
type UserListOptions struct {
	Role     model.UserRole
	IsActive *bool
	Search   string
	Page     int
	Limit    int
}

// ToolStats 按状态统计的工具数量，空桶也会出现（计数为 0）
type ToolStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// UserStats 按角色统计的用户数量
type UserStats struct {
	Total int64 `json:"total"`
	Admin int64 `json:"admin"`
	User  int64 `json:"user"`
}

// CategoryCount 单个分类的工具数量（仅统计已批准且公开的工具）
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// SystemStats 系统统计信息
type SystemStats struct {
	Users      UserStats       `json:"users"`
	Tools      ToolStats       `json:"tools"`
	Categories []CategoryCount `json:"categories"`
}

// ===========================
// 认证服务接口
// ===========================

// AuthService 定义账户相关的业务操作
type AuthService interface {
	// 注册新用户
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	// 邮箱密码登录
	Login(ctx context.Context, email, password string) (*model.User, error)
	// 按 ID 加载用户
	GetUser(ctx context.Context, id uint) (*model.User, error)
	// 更新资料（nil 表示不修改）
	UpdateProfile(ctx context.Context, userID uint, name, avatar *string) (*model.User, error)
	// 修改密码（校验当前密码）
	ChangePassword(ctx context.Context, userID uint, current, updated string) error
}

// ===========================
// 工具服务接口
// ===========================

// ToolService 定义工具提交与查询的业务操作
type ToolService interface {
	// 公开列表（仅 approved 且 is_public）
	ListPublic(ctx context.Context, opts PublicListOptions) ([]model.Tool, int64, error)
	// 公开详情
	GetPublic(ctx context.Context, id uint) (*model.Tool, error)
	// 创建工具（初始状态 pending）
	Create(ctx context.Context, userID uint, in ToolInput) (*model.Tool, error)
	// 更新工具，返回是否触发了重新审核
	Update(ctx context.Context, userID, toolID uint, in ToolUpdate) (*model.Tool, bool, error)
	// 删除工具（仅限所有者）
	Delete(ctx context.Context, userID, toolID uint) error
	// 用户自己的工具列表
	ListOwned(ctx context.Context, userID uint, opts OwnerListOptions) ([]model.Tool, int64, error)
	// 用户自己的工具统计
	OwnerStats(ctx context.Context, userID uint) (*ToolStats, error)
}

// ===========================
// 管理服务接口
// ===========================

// AdminService 定义审核与用户管理的业务操作
type AdminService interface {
	// 待审核列表（按创建时间升序，先到先审）
	ListPending(ctx context.Context, page, limit int) ([]model.Tool, int64, error)
	// 全部工具列表
	ListAll(ctx context.Context, opts AdminListOptions) ([]model.Tool, int64, error)
	// 审核单个工具（仅 pending 可审）
	Review(ctx context.Context, adminID, toolID uint, action ReviewAction, reason string) (*model.Tool, error)
	// 批量审核，返回实际转换的数量
	BatchReview(ctx context.Context, adminID uint, toolIDs []uint, action ReviewAction) (int64, error)
	// 用户列表
	ListUsers(ctx context.Context, opts UserListOptions) ([]model.User, int64, error)
	// 更新用户状态/角色（管理员不能禁用自己）
	UpdateUserStatus(ctx context.Context, adminID, userID uint, isActive *bool, role *model.UserRole) (*model.User, error)
	// 系统统计
	SystemStats(ctx context.Context) (*SystemStats, error)
}

// ===========================
// 凭证吊销接口
// ===========================

// TokenStore 记录已注销的 token，直到其自然过期
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
