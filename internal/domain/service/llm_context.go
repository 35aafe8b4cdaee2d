// Package service 定义跨层共享的调用上下文约定
package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyWorkflow llmCtxKey = "llm_workflow"
	llmCtxKeyProvider llmCtxKey = "llm_provider"
)

const unknown = "unknown"

// 工作流名称，用于指标与追踪标签
const (
	WorkflowUniverseGenerate   = "universe_generate"
	WorkflowUniverseRegenerate = "universe_regenerate"
)

// WithWorkflow 标记当前 LLM 调用所属工作流
func WithWorkflow(ctx context.Context, workflow string) context.Context {
	return withValue(ctx, llmCtxKeyWorkflow, workflow)
}

// WithProvider 标记当前 LLM 提供商
func WithProvider(ctx context.Context, provider string) context.Context {
	return withValue(ctx, llmCtxKeyProvider, provider)
}

// WithWorkflowProvider 同时标记工作流与提供商
func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	return WithProvider(WithWorkflow(ctx, workflow), provider)
}

// WorkflowFromContext 读取工作流名称，缺失时返回 unknown
func WorkflowFromContext(ctx context.Context) string {
	return valueOrUnknown(ctx, llmCtxKeyWorkflow)
}

// ProviderFromContext 读取提供商，缺失时返回 unknown
func ProviderFromContext(ctx context.Context) string {
	return valueOrUnknown(ctx, llmCtxKeyProvider)
}

func withValue(ctx context.Context, key llmCtxKey, value string) context.Context {
	if ctx == nil {
		return nil
	}
	v := strings.TrimSpace(value)
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func valueOrUnknown(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return unknown
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return unknown
	}
	return s
}
