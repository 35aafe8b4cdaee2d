package entity

import (
	"time"

	"gorm.io/gorm"
)

// Character 角色
type Character struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	UniverseID  string    `json:"universe_id" gorm:"type:uuid;index;not null"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Role        string    `json:"role,omitempty" gorm:"type:varchar(128)"`
	Position    int       `json:"position" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Character) TableName() string {
	return "characters"
}

// BeforeCreate 分配主键
func (c *Character) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Validate 校验
func (c *Character) Validate() error {
	if blank(c.UniverseID) {
		return ErrUniverseRequired
	}
	if blank(c.Name) {
		return ErrNameRequired
	}
	return nil
}

// Location 地点
type Location struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	UniverseID   string    `json:"universe_id" gorm:"type:uuid;index;not null"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Description  string    `json:"description,omitempty" gorm:"type:text"`
	LocationType string    `json:"location_type,omitempty" gorm:"type:varchar(128)"`
	Position     int       `json:"position" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Location) TableName() string {
	return "locations"
}

// BeforeCreate 分配主键
func (l *Location) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// Validate 校验
func (l *Location) Validate() error {
	if blank(l.UniverseID) {
		return ErrUniverseRequired
	}
	if blank(l.Name) {
		return ErrNameRequired
	}
	return nil
}

// AllModels 返回需要迁移的全部实体
func AllModels() []any {
	return []any{
		&User{},
		&PromptTemplate{},
		&Universe{},
		&UniverseShare{},
		&Character{},
		&Location{},
		&Chapter{},
		&Scene{},
		&Beat{},
		&AuditEvent{},
	}
}
