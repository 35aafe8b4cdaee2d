package entity

import (
	"time"

	"gorm.io/gorm"
)

// Beat 故事节拍，直接归属于宇宙，OrderIndex 在整个宇宙内全局有序
type Beat struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	UniverseID  string    `json:"universe_id" gorm:"type:uuid;index:idx_beats_universe_order;not null"`
	Title       string    `json:"title,omitempty" gorm:"type:varchar(255)"`
	Description string    `json:"description" gorm:"type:text;not null"`
	OrderIndex  int       `json:"order_index" gorm:"index:idx_beats_universe_order;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Beat) TableName() string {
	return "beats"
}

// BeforeCreate 分配主键
func (b *Beat) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

// NewBeat 创建节拍
func NewBeat(universeID, title, description string, orderIndex int) *Beat {
	return &Beat{
		UniverseID:  universeID,
		Title:       title,
		Description: description,
		OrderIndex:  orderIndex,
	}
}

// Validate 校验
func (b *Beat) Validate() error {
	if blank(b.UniverseID) {
		return ErrUniverseRequired
	}
	if blank(b.Description) {
		return ErrDescriptionRequired
	}
	return nil
}
