package universe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mana-universe-api/internal/application/access"
	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/domain/repository"
	llmctx "mana-universe-api/internal/domain/service"
	"mana-universe-api/internal/workflow/chain"
	wfmodel "mana-universe-api/internal/workflow/model"
	apperrors "mana-universe-api/pkg/errors"
	"mana-universe-api/pkg/logger"
	"mana-universe-api/pkg/metrics"
)

// GenerationRunner 执行生成链
type GenerationRunner interface {
	Invoke(ctx context.Context, in *chain.GenerateInput) (*wfmodel.GenerationResult, error)
}

// TemplateSource 用户模板来源
type TemplateSource interface {
	Get(ctx context.Context, userID, id string) (*entity.PromptTemplate, error)
	EnsureDefault(ctx context.Context, userID string) (*entity.PromptTemplate, error)
}

// DefaultModel 提供默认模型 ID
type DefaultModel interface {
	Default() string
}

// GenerateRequest 生成请求，UniverseID 为空表示新宇宙
type GenerateRequest struct {
	ActingUserID string
	UniverseID   string
	Prompt       string
	ModelID      string
	TemplateID   string
}

// Generation 生成结果及所用模板
type Generation struct {
	Result     *wfmodel.GenerationResult
	TemplateID string
	UniverseID string
}

// Generator 解析模板、模型与提示后执行生成，不写存储
type Generator struct {
	universes repository.UniverseRepository
	templates repository.PromptTemplateRepository
	userTpls  TemplateSource
	gate      *access.Gate
	runner    GenerationRunner
	models    DefaultModel
}

// NewGenerator 创建生成器
func NewGenerator(
	universes repository.UniverseRepository,
	templates repository.PromptTemplateRepository,
	userTpls TemplateSource,
	gate *access.Gate,
	runner GenerationRunner,
	models DefaultModel,
) *Generator {
	return &Generator{
		universes: universes,
		templates: templates,
		userTpls:  userTpls,
		gate:      gate,
		runner:    runner,
		models:    models,
	}
}

// RegeneratePrompt 已有宇宙没有保存提示时使用的提示
func RegeneratePrompt(name string) string {
	return fmt.Sprintf("Regenerate content for universe: %s", name)
}

// Generate 执行一次生成
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*Generation, error) {
	var universe *entity.Universe
	workflow := llmctx.WorkflowUniverseGenerate
	prompt := strings.TrimSpace(req.Prompt)

	if req.UniverseID != "" {
		u, err := g.universes.GetByID(ctx, req.UniverseID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, apperrors.ErrUniverseNotFound
		}
		if err := g.gate.RequireEdit(ctx, u, req.ActingUserID); err != nil {
			return nil, err
		}
		universe = u
		workflow = llmctx.WorkflowUniverseRegenerate
		ctx = logger.WithContext(ctx, logger.UniverseIDKey, u.ID)

		if prompt == "" {
			prompt = strings.TrimSpace(u.Prompt)
		}
		if prompt == "" {
			prompt = RegeneratePrompt(u.Name)
		}
	} else if prompt == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("prompt is required")
	}

	tpl, err := g.resolveTemplate(ctx, req, universe)
	if err != nil {
		return nil, err
	}

	modelID := strings.TrimSpace(req.ModelID)
	if modelID == "" {
		modelID = tpl.Model
	}
	if modelID == "" {
		modelID = g.models.Default()
	}

	start := time.Now()
	result, err := g.runner.Invoke(ctx, &chain.GenerateInput{
		Template:   tpl.Content,
		UserPrompt: prompt,
		ModelID:    modelID,
		Workflow:   workflow,
	})
	metrics.GenerationDuration.WithLabelValues(workflow).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(workflow, "error").Inc()
		logger.Error(ctx, "universe generation failed", err, "template_id", tpl.ID, "model", modelID)
		return nil, err
	}
	metrics.GenerationTotal.WithLabelValues(workflow, "success").Inc()

	logger.Info(ctx, "universe generated",
		"template_id", tpl.ID,
		"model", result.Model,
		"shape", string(result.Shape),
		"chapters", len(result.Chapters),
		"scenes", result.SceneCount(),
	)

	out := &Generation{Result: result, TemplateID: tpl.ID}
	if universe != nil {
		out.UniverseID = universe.ID
	}
	return out, nil
}

// resolveTemplate 请求指定模板 -> 宇宙关联模板 -> 用户默认模板
// 宇宙关联模板只在属于宇宙所有者或调用者时使用，否则回退到默认模板
func (g *Generator) resolveTemplate(ctx context.Context, req GenerateRequest, universe *entity.Universe) (*entity.PromptTemplate, error) {
	if req.TemplateID != "" {
		return g.userTpls.Get(ctx, req.ActingUserID, req.TemplateID)
	}
	if universe != nil && universe.PromptTemplateID != nil && *universe.PromptTemplateID != "" {
		tpl, err := g.ownedTemplate(ctx, *universe.PromptTemplateID, universe.UserID, req.ActingUserID)
		switch {
		case err == nil:
			return tpl, nil
		case apperrors.Is(err, apperrors.ErrTemplateNotFound):
			logger.Warn(ctx, "universe template unavailable, using default", "template_id", *universe.PromptTemplateID)
		default:
			return nil, err
		}
	}
	return g.userTpls.EnsureDefault(ctx, req.ActingUserID)
}

// ownedTemplate 加载模板，模板不存在或不属于 owners 中任何用户时返回 ErrTemplateNotFound
func (g *Generator) ownedTemplate(ctx context.Context, id string, owners ...string) (*entity.PromptTemplate, error) {
	tpl, err := g.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, apperrors.ErrTemplateNotFound
	}
	for _, owner := range owners {
		if owner != "" && tpl.UserID == owner {
			return tpl, nil
		}
	}
	return nil, apperrors.ErrTemplateNotFound
}
