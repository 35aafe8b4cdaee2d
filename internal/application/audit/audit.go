// Package audit 归档宇宙保存事件并提供历史查询
package audit

import (
	"context"
	"time"

	"mana-universe-api/internal/application/access"
	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/domain/repository"
	"mana-universe-api/internal/domain/service"
	apperrors "mana-universe-api/pkg/errors"
	"mana-universe-api/pkg/logger"
)

// DefaultHistoryLimit 历史查询默认条数
const DefaultHistoryLimit = 50

// Archiver 将审计流中的事件写入数据库
type Archiver struct {
	events repository.AuditEventRepository
}

// NewArchiver 创建归档器
func NewArchiver(events repository.AuditEventRepository) *Archiver {
	return &Archiver{events: events}
}

// Archive 写入一条事件，重复投递的消息只记录一次
func (a *Archiver) Archive(ctx context.Context, messageID string, event *service.UniverseSavedEvent) error {
	if messageID == "" || event == nil || event.UniverseID == "" {
		return apperrors.ErrInvalidParam.WithDetail("audit message is missing identifiers")
	}
	ctx = logger.WithContext(ctx, logger.UniverseIDKey, event.UniverseID)

	savedAt := event.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	inserted, err := a.events.Append(ctx, &entity.AuditEvent{
		MessageID:  messageID,
		UniverseID: event.UniverseID,
		UserID:     event.UserID,
		Mode:       event.Mode,
		Model:      event.Model,
		Shape:      event.Shape,
		Characters: event.Characters,
		Locations:  event.Locations,
		Chapters:   event.Chapters,
		Scenes:     event.Scenes,
		Beats:      event.Beats,
		RequestID:  event.RequestID,
		SavedAt:    savedAt,
	})
	if err != nil {
		return err
	}
	if !inserted {
		logger.Debug(ctx, "audit event already archived", "message_id", messageID)
	}
	return nil
}

// History 查询宇宙的保存历史，需要读权限
type History struct {
	universes repository.UniverseRepository
	events    repository.AuditEventRepository
	gate      *access.Gate
}

// NewHistory 创建历史查询
func NewHistory(universes repository.UniverseRepository, events repository.AuditEventRepository, gate *access.Gate) *History {
	return &History{universes: universes, events: events, gate: gate}
}

// List 按保存时间倒序返回
func (h *History) List(ctx context.Context, userID, universeID string, limit int) ([]*entity.AuditEvent, error) {
	u, err := h.universes.GetByID(ctx, universeID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.ErrUniverseNotFound
	}
	if err := h.gate.RequireView(ctx, u, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	return h.events.ListByUniverse(ctx, universeID, limit)
}
