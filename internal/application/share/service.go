// Package share 管理宇宙共享，仅所有者可操作
package share

import (
	"context"
	"strings"

	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/domain/repository"
	apperrors "mana-universe-api/pkg/errors"
	"mana-universe-api/pkg/logger"
)

// Service 共享服务
type Service struct {
	universes repository.UniverseRepository
	shares    repository.UniverseShareRepository
	users     repository.UserRepository
}

// NewService 创建共享服务
func NewService(universes repository.UniverseRepository, shares repository.UniverseShareRepository, users repository.UserRepository) *Service {
	return &Service{universes: universes, shares: shares, users: users}
}

// List 列出宇宙的共享记录
func (s *Service) List(ctx context.Context, ownerID, universeID string) ([]*entity.UniverseShare, error) {
	if _, err := s.ownedUniverse(ctx, ownerID, universeID); err != nil {
		return nil, err
	}
	return s.shares.ListByUniverse(ctx, universeID)
}

// Share 与目标用户共享宇宙
func (s *Service) Share(ctx context.Context, ownerID, universeID, targetUserID string, level entity.PermissionLevel) (*entity.UniverseShare, error) {
	if !level.Valid() {
		return nil, apperrors.ErrInvalidParam.WithDetail(entity.ErrInvalidPermission.Error())
	}
	u, err := s.ownedUniverse(ctx, ownerID, universeID)
	if err != nil {
		return nil, err
	}

	targetUserID = strings.TrimSpace(targetUserID)
	if u.IsOwnedBy(targetUserID) {
		return nil, apperrors.ErrShareWithOwner
	}
	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.ErrUserNotFound
	}

	existing, err := s.shares.GetByUniverseAndUser(ctx, universeID, targetUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrConflict.WithDetail("universe is already shared with this user")
	}

	sh := entity.NewUniverseShare(universeID, targetUserID, level)
	if err := s.shares.Create(ctx, sh); err != nil {
		return nil, err
	}
	logger.Info(ctx, "universe shared",
		"universe_id", universeID,
		"target_user_id", targetUserID,
		"level", string(level),
	)
	return sh, nil
}

// UpdateLevel 修改共享权限
func (s *Service) UpdateLevel(ctx context.Context, ownerID, universeID, shareID string, level entity.PermissionLevel) (*entity.UniverseShare, error) {
	if !level.Valid() {
		return nil, apperrors.ErrInvalidParam.WithDetail(entity.ErrInvalidPermission.Error())
	}
	sh, err := s.ownedShare(ctx, ownerID, universeID, shareID)
	if err != nil {
		return nil, err
	}
	sh.PermissionLevel = level
	if err := s.shares.Update(ctx, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// Revoke 撤销共享
func (s *Service) Revoke(ctx context.Context, ownerID, universeID, shareID string) error {
	sh, err := s.ownedShare(ctx, ownerID, universeID, shareID)
	if err != nil {
		return err
	}
	if err := s.shares.Delete(ctx, sh.ID); err != nil {
		return err
	}
	logger.Info(ctx, "universe share revoked", "universe_id", universeID, "share_id", shareID)
	return nil
}

func (s *Service) ownedUniverse(ctx context.Context, ownerID, universeID string) (*entity.Universe, error) {
	u, err := s.universes.GetByID(ctx, universeID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.ErrUniverseNotFound
	}
	if !u.IsOwnedBy(ownerID) {
		return nil, apperrors.ErrAuthorizationDenied
	}
	return u, nil
}

func (s *Service) ownedShare(ctx context.Context, ownerID, universeID, shareID string) (*entity.UniverseShare, error) {
	if _, err := s.ownedUniverse(ctx, ownerID, universeID); err != nil {
		return nil, err
	}
	sh, err := s.shares.GetByID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if sh == nil || sh.UniverseID != universeID {
		return nil, apperrors.ErrShareNotFound
	}
	return sh, nil
}
