// Package port 定义工作流层对外部能力的最小依赖
package port

import (
	"context"

	"github.com/cloudwego/eino/components/model"
)

// Completion 一次补全调用的结果
type Completion struct {
	RawText string
	// Model 实际使用的模型，白名单回退后可能与请求不同
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// CompletionClient 发送单次补全请求，不重试不流式
type CompletionClient interface {
	Complete(ctx context.Context, instruction, modelID string) (*Completion, error)
}

// ChatModelFactory 按提供商返回可复用的 ChatModel
// 同一提供商下的不同模型共用一个客户端，模型在调用时通过 model.WithModel 指定
type ChatModelFactory interface {
	Get(ctx context.Context, provider string) (model.BaseChatModel, error)
}
