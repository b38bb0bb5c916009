package service

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ailinks.dev/internal/domain"
	"ailinks.dev/internal/model"
)

// bcrypt 成本，与线上保持一致
const bcryptCost = 12

// AuthServiceImpl 实现 domain.AuthService 接口
type AuthServiceImpl struct {
	db *gorm.DB
}

// NewAuthService 创建认证服务
func NewAuthService(db *gorm.DB) *AuthServiceImpl {
	return &AuthServiceImpl{db: db}
}

// Register 注册新用户
func (s *AuthServiceImpl) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, domain.NewInternalError("failed to check email", err)
	}
	if count > 0 {
		return nil, domain.NewBadRequestError("该邮箱已被注册")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Provider:     "local",
		Role:         model.RoleUser,
		IsActive:     true,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Unique index still guards against a concurrent registration.
		return nil, domain.NewBadRequestError("该邮箱已被注册")
	}

	log.Printf("AuthService: New user registered: %s", email)
	return &user, nil
}

// Login 邮箱密码登录
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewUnauthorizedError("邮箱或密码错误")
		}
		return nil, domain.NewInternalError("failed to query user", err)
	}

	if !user.IsActive {
		return nil, domain.NewUnauthorizedError("账户已被禁用，请联系管理员")
	}

	if user.PasswordHash == "" {
		// Federated identity without a local credential.
		return nil, domain.NewUnauthorizedError("邮箱或密码错误")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.NewUnauthorizedError("邮箱或密码错误")
	}

	log.Printf("AuthService: User logged in: %s", email)
	return &user, nil
}

// GetUser 按 ID 加载用户
func (s *AuthServiceImpl) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("用户不存在")
		}
		return nil, domain.NewInternalError("failed to query user", err)
	}
	return &user, nil
}

// UpdateProfile 更新资料
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID uint, name, avatar *string) (*model.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if avatar != nil {
		updates["avatar"] = *avatar
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, domain.NewInternalError("failed to update profile", err)
	}

	log.Printf("AuthService: Profile updated: %s", user.Email)
	return user, nil
}

// EnsureAdminUser 在没有任何用户时创建初始管理员账户（由配置开启）
func (s *AuthServiceImpl) EnsureAdminUser(ctx context.Context, name, email, password string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Provider:     "local",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("AuthService: No users found, created default admin: %s", email)
	return nil
}

// ChangePassword 修改密码，要求提供当前密码
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uint, current, updated string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.NewBadRequestError("当前密码错误")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(updated), bcryptCost)
	if err != nil {
		return domain.NewInternalError("failed to hash password", err)
	}

	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return domain.NewInternalError("failed to update password", err)
	}

	log.Printf("AuthService: Password changed: %s", user.Email)
	return nil
}
