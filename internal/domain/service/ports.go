package service

import (
	"context"
	"time"
)

// UniverseSavedEvent 一次成功落库后的审计事件
type UniverseSavedEvent struct {
	UniverseID string    `json:"universe_id"`
	UserID     string    `json:"user_id"`
	Mode       string    `json:"mode"`
	Model      string    `json:"model,omitempty"`
	Shape      string    `json:"shape,omitempty"`
	Characters int       `json:"characters"`
	Locations  int       `json:"locations"`
	Chapters   int       `json:"chapters"`
	Scenes     int       `json:"scenes"`
	Beats      int       `json:"beats"`
	RequestID  string    `json:"request_id,omitempty"`
	SavedAt    time.Time `json:"saved_at"`
}

// AuditPublisher 发布审计事件
type AuditPublisher interface {
	PublishUniverseSaved(ctx context.Context, event *UniverseSavedEvent) error
}

// UniverseLocker 宇宙级互斥，锁被占用时返回 ErrConflict
type UniverseLocker interface {
	Lock(ctx context.Context, universeID string) (unlock func(context.Context), err error)
}
