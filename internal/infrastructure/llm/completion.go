package llm

import (
	"context"
	"errors"
	"regexp"
	"strconv"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"mana-universe-api/internal/config"
	llmctx "mana-universe-api/internal/domain/service"
	workflowport "mana-universe-api/internal/workflow/port"
	apperrors "mana-universe-api/pkg/errors"
	"mana-universe-api/pkg/logger"
)

// MessageBuilder 将用户指令组装为 [系统, 用户] 消息
type MessageBuilder interface {
	Messages(ctx context.Context, instruction string) ([]*schema.Message, error)
}

// CompletionClient 基于 Eino ChatModel 的补全客户端
type CompletionClient struct {
	factory   workflowport.ChatModelFactory
	catalog   *ModelCatalog
	messages  MessageBuilder
	provider  string
	maxTokens int
}

// NewCompletionClient 创建补全客户端
func NewCompletionClient(cfg *config.Config, factory workflowport.ChatModelFactory, catalog *ModelCatalog, messages MessageBuilder) *CompletionClient {
	provider := cfg.LLM.DefaultProvider
	return &CompletionClient{
		factory:   factory,
		catalog:   catalog,
		messages:  messages,
		provider:  provider,
		maxTokens: cfg.LLM.Providers[provider].MaxTokens,
	}
}

// Complete 发送单次补全请求
// 模型不在白名单内时回退到默认模型；任何失败都以 ProviderError 返回
func (c *CompletionClient) Complete(ctx context.Context, instruction, modelID string) (*workflowport.Completion, error) {
	resolved, fellBack := c.catalog.Resolve(modelID)
	if fellBack {
		logger.Warn(ctx, "requested model not allowed, using default",
			"requested", modelID,
			"model", resolved,
		)
	}

	ctx = llmctx.WithProvider(ctx, c.provider)
	chatModel, err := c.factory.Get(ctx, c.provider)
	if err != nil {
		return nil, &apperrors.ProviderError{Body: err.Error(), Err: err}
	}

	msgs, err := c.messages.Messages(ctx, instruction)
	if err != nil {
		return nil, &apperrors.ProviderError{Body: "failed to build messages", Err: err}
	}

	opts := []model.Option{model.WithModel(resolved)}
	if c.maxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(c.maxTokens))
	}

	msg, err := chatModel.Generate(ctx, msgs, opts...)
	if err != nil {
		return nil, toProviderError(err)
	}
	if msg == nil {
		return nil, &apperrors.ProviderError{Body: "empty completion response"}
	}

	out := &workflowport.Completion{RawText: msg.Content, Model: resolved}
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		out.PromptTokens = msg.ResponseMeta.Usage.PromptTokens
		out.CompletionTokens = msg.ResponseMeta.Usage.CompletionTokens
	}
	return out, nil
}

var statusCodeRe = regexp.MustCompile(`status code: (\d{3})`)

// toProviderError 从上游错误文本中提取 HTTP 状态码，传输层错误状态码为 0
func toProviderError(err error) *apperrors.ProviderError {
	var pe *apperrors.ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	msg := err.Error()
	out := &apperrors.ProviderError{Body: msg, Err: err}
	if m := statusCodeRe.FindStringSubmatch(msg); len(m) == 2 {
		out.StatusCode, _ = strconv.Atoi(m[1])
	}
	if errors.Is(err, context.DeadlineExceeded) {
		out.StatusCode = 0
	}
	return out
}
