package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ToolStatus defines the review lifecycle of a submitted tool.
type ToolStatus string

const (
	ToolStatusPending  ToolStatus = "pending"
	ToolStatusApproved ToolStatus = "approved"
	ToolStatusRejected ToolStatus = "rejected"
)

// Valid reports whether the status is one of the known values.
func (s ToolStatus) Valid() bool {
	return s == ToolStatusPending || s == ToolStatusApproved || s == ToolStatusRejected
}

// Tool represents a user-submitted link.
//
// Lifecycle: created as pending/private; an admin review moves it to
// approved (public) or rejected (private, with an optional note); editing
// an approved tool puts it back to pending and clears the review fields.
// Invariant: IsPublic is true only while Status is approved.
type Tool struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UUID        string     `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"size:50;index;not null" json:"category"`
	URL         string     `gorm:"size:500;not null" json:"url"`
	Icon        string     `gorm:"size:500" json:"icon"`
	IsPublic    bool       `gorm:"not null;default:false" json:"is_public"`
	Status      ToolStatus `gorm:"size:16;index;not null;default:'pending'" json:"status"`

	// Owner. The full account record never serializes; payloads carry
	// the PublicUser summary instead.
	UserID uint        `gorm:"index;not null" json:"user_id"`
	User   *User       `gorm:"foreignKey:UserID" json:"-"`
	Owner  *PublicUser `gorm:"-" json:"user,omitempty"`

	// Review fields, set together by approve/reject, cleared by a re-review edit.
	ApprovedBy     *uint       `json:"approved_by"`
	ApprovedByUser *User       `gorm:"foreignKey:ApprovedBy;constraint:OnDelete:SET NULL" json:"-"`
	Reviewer       *PublicUser `gorm:"-" json:"approved_by_user,omitempty"`
	ApprovedAt     *time.Time  `json:"approved_at"`
	ReviewNote     string      `gorm:"size:500" json:"review_note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tool) TableName() string {
	return "tools"
}

// BeforeCreate assigns the stable external identifier.
func (t *Tool) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == "" {
		t.UUID = uuid.NewString()
	}
	return nil
}

// AfterFind projects preloaded accounts into their public summaries.
func (t *Tool) AfterFind(tx *gorm.DB) error {
	if t.User != nil {
		owner := t.User.Public()
		t.Owner = &owner
	}
	if t.ApprovedByUser != nil {
		reviewer := t.ApprovedByUser.Public()
		t.Reviewer = &reviewer
	}
	return nil
}
