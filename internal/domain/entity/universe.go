package entity

import (
	"time"

	"gorm.io/gorm"
)

// Universe 故事宇宙，生成内容的归属根
type Universe struct {
	ID               string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID           string    `json:"user_id" gorm:"type:uuid;index;not null"`
	Name             string    `json:"name" gorm:"type:varchar(255);not null"`
	Prompt           string    `json:"prompt,omitempty" gorm:"type:text"`
	PromptTemplateID *string   `json:"prompt_template_id,omitempty" gorm:"type:uuid;index"`
	Model            string    `json:"model,omitempty" gorm:"type:varchar(128)"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Universe) TableName() string {
	return "universes"
}

// BeforeCreate 分配主键
func (u *Universe) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// NewUniverse 创建新宇宙
func NewUniverse(userID, name, prompt string) *Universe {
	return &Universe{
		UserID: userID,
		Name:   name,
		Prompt: prompt,
	}
}

// IsOwnedBy 检查所有者
func (u *Universe) IsOwnedBy(userID string) bool {
	return userID != "" && u.UserID == userID
}

// Validate 校验必填字段
func (u *Universe) Validate() error {
	if blank(u.UserID) {
		return ErrOwnerRequired
	}
	if blank(u.Name) {
		return ErrNameRequired
	}
	return nil
}
