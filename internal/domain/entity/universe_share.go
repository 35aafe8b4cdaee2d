package entity

import (
	"time"

	"gorm.io/gorm"
)

// PermissionLevel 共享权限级别
type PermissionLevel string

const (
	PermissionView PermissionLevel = "view"
	PermissionEdit PermissionLevel = "edit"
)

// Valid 检查权限级别是否合法
func (p PermissionLevel) Valid() bool {
	return p == PermissionView || p == PermissionEdit
}

// UniverseShare 宇宙共享记录，(universe_id, user_id) 唯一
type UniverseShare struct {
	ID              string          `json:"id" gorm:"type:uuid;primaryKey"`
	UniverseID      string          `json:"universe_id" gorm:"type:uuid;not null;uniqueIndex:idx_universe_shares_universe_user"`
	UserID          string          `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_universe_shares_universe_user"`
	PermissionLevel PermissionLevel `json:"permission_level" gorm:"type:varchar(16);not null"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (UniverseShare) TableName() string {
	return "universe_shares"
}

// BeforeCreate 分配主键
func (s *UniverseShare) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// NewUniverseShare 创建共享记录
func NewUniverseShare(universeID, userID string, level PermissionLevel) *UniverseShare {
	return &UniverseShare{
		UniverseID:      universeID,
		UserID:          userID,
		PermissionLevel: level,
	}
}

// Validate 校验
func (s *UniverseShare) Validate() error {
	if blank(s.UniverseID) {
		return ErrUniverseRequired
	}
	if blank(s.UserID) {
		return ErrOwnerRequired
	}
	if !s.PermissionLevel.Valid() {
		return ErrInvalidPermission
	}
	return nil
}
