// Package prompttemplate 管理用户的提示词模板
package prompttemplate

import (
	"context"
	"strings"

	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/domain/repository"
	apperrors "mana-universe-api/pkg/errors"
	"mana-universe-api/pkg/logger"
)

// DefaultTemplateName 自动创建的默认模板名称
const DefaultTemplateName = "Default Universe Template"

// DefaultSource 提供内置默认模板
type DefaultSource interface {
	DefaultTemplate() string
}

// ModelCatalog 模型白名单
type ModelCatalog interface {
	Default() string
	Allowed(id string) bool
}

// CreateInput 创建参数
type CreateInput struct {
	Name      string
	Content   string
	Model     string
	IsDefault bool
}

// UpdateInput 更新参数，空字段保持不变
type UpdateInput struct {
	Name      string
	Content   string
	Model     string
	IsDefault *bool
}

// Service 提示词模板服务
type Service struct {
	tx       repository.Transactor
	repo     repository.PromptTemplateRepository
	defaults DefaultSource
	catalog  ModelCatalog
}

// NewService 创建模板服务
func NewService(tx repository.Transactor, repo repository.PromptTemplateRepository, defaults DefaultSource, catalog ModelCatalog) *Service {
	return &Service{tx: tx, repo: repo, defaults: defaults, catalog: catalog}
}

// EnsureDefault 返回用户默认模板，用户没有任何模板时以内置模板创建一个
func (s *Service) EnsureDefault(ctx context.Context, userID string) (*entity.PromptTemplate, error) {
	tpl, err := s.repo.GetDefault(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tpl != nil {
		return tpl, nil
	}

	tpl = entity.NewPromptTemplate(userID, DefaultTemplateName, s.defaults.DefaultTemplate(), s.catalog.Default())
	tpl.IsDefault = true
	if err := s.repo.Create(ctx, tpl); err != nil {
		return nil, err
	}
	logger.Info(ctx, "default prompt template created", "template_id", tpl.ID)
	return tpl, nil
}

// List 列出用户模板，保证至少有一个
func (s *Service) List(ctx context.Context, userID string) ([]*entity.PromptTemplate, error) {
	if _, err := s.EnsureDefault(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

// Get 获取用户自己的模板
func (s *Service) Get(ctx context.Context, userID, id string) (*entity.PromptTemplate, error) {
	tpl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil || tpl.UserID != userID {
		return nil, apperrors.ErrTemplateNotFound
	}
	return tpl, nil
}

// Create 创建模板
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*entity.PromptTemplate, error) {
	if err := s.checkModel(in.Model); err != nil {
		return nil, err
	}
	tpl := entity.NewPromptTemplate(userID, strings.TrimSpace(in.Name), in.Content, in.Model)
	tpl.IsDefault = in.IsDefault
	if err := tpl.Validate(); err != nil {
		return nil, apperrors.ErrInvalidParam.WithDetail(err.Error())
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if tpl.IsDefault {
			if err := s.clearDefault(ctx, userID, ""); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, tpl)
	})
	if err != nil {
		return nil, err
	}
	return tpl, nil
}

// Update 修改模板并递增版本
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (*entity.PromptTemplate, error) {
	if err := s.checkModel(in.Model); err != nil {
		return nil, err
	}
	tpl, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	tpl.Revise(strings.TrimSpace(in.Name), in.Content, in.Model)
	if in.IsDefault != nil {
		tpl.IsDefault = *in.IsDefault
	}
	if err := tpl.Validate(); err != nil {
		return nil, apperrors.ErrInvalidParam.WithDetail(err.Error())
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if tpl.IsDefault {
			if err := s.clearDefault(ctx, userID, tpl.ID); err != nil {
				return err
			}
		}
		return s.repo.Update(ctx, tpl)
	})
	if err != nil {
		return nil, err
	}
	return tpl, nil
}

// Delete 删除模板，不允许删除最后一个
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	n, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return err
	}
	if n <= 1 {
		return apperrors.ErrLastTemplate
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) clearDefault(ctx context.Context, userID, keepID string) error {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, it := range items {
		if !it.IsDefault || it.ID == keepID {
			continue
		}
		it.IsDefault = false
		if err := s.repo.Update(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) checkModel(model string) error {
	if model == "" || s.catalog.Allowed(model) {
		return nil
	}
	return apperrors.ErrInvalidParam.WithDetail("model is not in the allowed list: " + model)
}
