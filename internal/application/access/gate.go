// Package access 提供宇宙级别的访问控制
package access

import (
	"context"
	"fmt"

	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/domain/repository"
	apperrors "mana-universe-api/pkg/errors"
)

// Permission 用户对宇宙的有效权限
type Permission string

const (
	PermissionNone  Permission = ""
	PermissionView  Permission = "view"
	PermissionEdit  Permission = "edit"
	PermissionOwner Permission = "owner"
)

// CanEdit owner 或 edit 可写
func (p Permission) CanEdit() bool {
	return p == PermissionOwner || p == PermissionEdit
}

// CanView 任意权限均可读
func (p Permission) CanView() bool {
	return p != PermissionNone
}

// Gate 基于所有者与共享记录判断访问权限
type Gate struct {
	shareRepo repository.UniverseShareRepository
}

// NewGate 创建访问控制
func NewGate(shareRepo repository.UniverseShareRepository) *Gate {
	return &Gate{shareRepo: shareRepo}
}

// PermissionFor 返回用户对宇宙的有效权限
func (g *Gate) PermissionFor(ctx context.Context, universe *entity.Universe, userID string) (Permission, error) {
	if universe == nil || userID == "" {
		return PermissionNone, nil
	}
	if universe.IsOwnedBy(userID) {
		return PermissionOwner, nil
	}

	share, err := g.shareRepo.GetByUniverseAndUser(ctx, universe.ID, userID)
	if err != nil {
		return PermissionNone, fmt.Errorf("failed to load share: %w", err)
	}
	if share == nil {
		return PermissionNone, nil
	}
	switch share.PermissionLevel {
	case entity.PermissionEdit:
		return PermissionEdit, nil
	case entity.PermissionView:
		return PermissionView, nil
	default:
		return PermissionNone, nil
	}
}

// CanEdit 检查写权限
func (g *Gate) CanEdit(ctx context.Context, universe *entity.Universe, userID string) (bool, error) {
	p, err := g.PermissionFor(ctx, universe, userID)
	if err != nil {
		return false, err
	}
	return p.CanEdit(), nil
}

// CanView 检查读权限
func (g *Gate) CanView(ctx context.Context, universe *entity.Universe, userID string) (bool, error) {
	p, err := g.PermissionFor(ctx, universe, userID)
	if err != nil {
		return false, err
	}
	return p.CanView(), nil
}

// RequireEdit 无写权限时返回 ErrAuthorizationDenied
func (g *Gate) RequireEdit(ctx context.Context, universe *entity.Universe, userID string) error {
	ok, err := g.CanEdit(ctx, universe, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrAuthorizationDenied
	}
	return nil
}

// RequireView 无读权限时返回 ErrAuthorizationDenied
func (g *Gate) RequireView(ctx context.Context, universe *entity.Universe, userID string) error {
	ok, err := g.CanView(ctx, universe, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrAuthorizationDenied
	}
	return nil
}
