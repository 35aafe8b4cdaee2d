package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mana-universe-api/internal/domain/entity"
)

// PromptTemplateRepository 提示词模板仓储实现
type PromptTemplateRepository struct {
	client *Client
}

// NewPromptTemplateRepository 创建模板仓储
func NewPromptTemplateRepository(client *Client) *PromptTemplateRepository {
	return &PromptTemplateRepository{client: client}
}

// Create 创建模板
func (r *PromptTemplateRepository) Create(ctx context.Context, tpl *entity.PromptTemplate) error {
	ctx, span := tracer.Start(ctx, "postgres.PromptTemplateRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(tpl).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create prompt template: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取模板
func (r *PromptTemplateRepository) GetByID(ctx context.Context, id string) (*entity.PromptTemplate, error) {
	ctx, span := tracer.Start(ctx, "postgres.PromptTemplateRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var tpl entity.PromptTemplate
	if err := db.First(&tpl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get prompt template: %w", err)
	}
	return &tpl, nil
}

// Update 更新模板
func (r *PromptTemplateRepository) Update(ctx context.Context, tpl *entity.PromptTemplate) error {
	ctx, span := tracer.Start(ctx, "postgres.PromptTemplateRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(tpl).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update prompt template: %w", err)
	}
	return nil
}

// Delete 删除模板
func (r *PromptTemplateRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.PromptTemplateRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.PromptTemplate{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete prompt template: %w", err)
	}
	return nil
}

// ListByUser 列出用户模板
func (r *PromptTemplateRepository) ListByUser(ctx context.Context, userID string) ([]*entity.PromptTemplate, error) {
	ctx, span := tracer.Start(ctx, "postgres.PromptTemplateRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var templates []*entity.PromptTemplate
	if err := db.Where("user_id = ?", userID).Order("created_at ASC").Find(&templates).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list prompt templates: %w", err)
	}
	return templates, nil
}

// GetDefault 获取默认模板
func (r *PromptTemplateRepository) GetDefault(ctx context.Context, userID string) (*entity.PromptTemplate, error) {
	ctx, span := tracer.Start(ctx, "postgres.PromptTemplateRepository.GetDefault")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var tpl entity.PromptTemplate
	err := db.Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at ASC").
		First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get default prompt template: %w", err)
	}
	return &tpl, nil
}

// CountByUser 统计用户模板数量
func (r *PromptTemplateRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.PromptTemplateRepository.CountByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	if err := db.Model(&entity.PromptTemplate{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count prompt templates: %w", err)
	}
	return count, nil
}
