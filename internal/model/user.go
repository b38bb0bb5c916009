package model

import "time"

// UserRole defines the closed set of account roles.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account.
// PasswordHash may be empty for federated identities (Provider != "local").
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"` // Mandatory and unique
	PasswordHash string    `gorm:"size:255" json:"-"`
	Avatar       string    `gorm:"type:text" json:"avatar"`
	Provider     string    `gorm:"size:50;default:'local'" json:"provider"`
	Role         UserRole  `gorm:"size:16;not null;default:'user'" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin 检查是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser 是嵌入在工具响应中的用户摘要
type PublicUser struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Public returns the summary embedded in tool payloads.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}
