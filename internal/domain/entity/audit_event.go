package entity

import (
	"time"

	"gorm.io/gorm"
)

// AuditEvent 宇宙保存审计记录，由审计流归档，MessageID 唯一保证重复投递幂等
type AuditEvent struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	MessageID  string    `json:"message_id" gorm:"type:varchar(64);uniqueIndex;not null"`
	UniverseID string    `json:"universe_id" gorm:"type:uuid;index;not null"`
	UserID     string    `json:"user_id" gorm:"type:uuid;index;not null"`
	Mode       string    `json:"mode" gorm:"type:varchar(16);not null"`
	Model      string    `json:"model,omitempty" gorm:"type:varchar(128)"`
	Shape      string    `json:"shape,omitempty" gorm:"type:varchar(32)"`
	Characters int       `json:"characters"`
	Locations  int       `json:"locations"`
	Chapters   int       `json:"chapters"`
	Scenes     int       `json:"scenes"`
	Beats      int       `json:"beats"`
	RequestID  string    `json:"request_id,omitempty" gorm:"type:varchar(64)"`
	SavedAt    time.Time `json:"saved_at" gorm:"index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (AuditEvent) TableName() string {
	return "universe_audit_events"
}

// BeforeCreate 分配主键
func (e *AuditEvent) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
