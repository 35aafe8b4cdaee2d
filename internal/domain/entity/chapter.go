package entity

import (
	"time"

	"gorm.io/gorm"
)

// Chapter 章节，仅用于展示分组
type Chapter struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	UniverseID  string    `json:"universe_id" gorm:"type:uuid;index;not null"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Position    int       `json:"position" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Chapter) TableName() string {
	return "chapters"
}

// BeforeCreate 分配主键
func (c *Chapter) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// NewChapter 创建新章节
func NewChapter(universeID, name, description string, position int) *Chapter {
	return &Chapter{
		UniverseID:  universeID,
		Name:        name,
		Description: description,
		Position:    position,
	}
}

// Validate 校验
func (c *Chapter) Validate() error {
	if blank(c.UniverseID) {
		return ErrUniverseRequired
	}
	if blank(c.Name) {
		return ErrNameRequired
	}
	return nil
}

// Scene 场景，隶属于章节
type Scene struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	ChapterID   string    `json:"chapter_id" gorm:"type:uuid;index;not null"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Position    int       `json:"position" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Scene) TableName() string {
	return "scenes"
}

// BeforeCreate 分配主键
func (s *Scene) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// NewScene 创建场景
func NewScene(chapterID, name, description string, position int) *Scene {
	return &Scene{
		ChapterID:   chapterID,
		Name:        name,
		Description: description,
		Position:    position,
	}
}

// Validate 校验
func (s *Scene) Validate() error {
	if blank(s.ChapterID) {
		return ErrUniverseRequired
	}
	if blank(s.Name) {
		return ErrNameRequired
	}
	return nil
}
