// Package chain 使用 Eino compose 编排生成链路
package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/compose"

	llmctx "mana-universe-api/internal/domain/service"
	wfmodel "mana-universe-api/internal/workflow/model"
	wfnode "mana-universe-api/internal/workflow/node"
	workflowport "mana-universe-api/internal/workflow/port"
	workflowprompt "mana-universe-api/internal/workflow/prompt"
	"mana-universe-api/pkg/logger"
	"mana-universe-api/pkg/metrics"
)

// GenerateInput 生成链输入
type GenerateInput struct {
	Template   string
	UserPrompt string
	ModelID    string
	// Workflow 指标与追踪标签，为空时使用 universe_generate
	Workflow string
}

// GenerationChain template -> llm -> extract -> normalize
type GenerationChain struct {
	client workflowport.CompletionClient

	chainOnce sync.Once
	chain     compose.Runnable[*GenerateInput, *wfmodel.GenerationResult]
	chainErr  error
}

// NewGenerationChain 创建生成链
func NewGenerationChain(client workflowport.CompletionClient) *GenerationChain {
	return &GenerationChain{client: client}
}

type generationState struct {
	In          *GenerateInput
	Instruction string
	Completion  *workflowport.Completion
	Extracted   wfnode.ExtractResult
}

// errHolder 保留节点返回的原始错误，避免被编排层包装后丢失类型
type errHolder struct {
	err error
}

type errHolderKey struct{}

func keep(ctx context.Context, err error) error {
	if h, ok := ctx.Value(errHolderKey{}).(*errHolder); ok && h.err == nil {
		h.err = err
	}
	return err
}

// Invoke 执行生成，模板缺失与模型调用失败原样返回，解析失败不视为错误
func (c *GenerationChain) Invoke(ctx context.Context, in *GenerateInput) (*wfmodel.GenerationResult, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("completion client not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}

	holder := &errHolder{}
	ctx = context.WithValue(ctx, errHolderKey{}, holder)
	out, err := chain.Invoke(ctx, in)
	if holder.err != nil {
		return nil, holder.err
	}
	return out, err
}

func (c *GenerationChain) getChain() (compose.Runnable[*GenerateInput, *wfmodel.GenerationResult], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *GenerationChain) buildChain(ctx context.Context) (compose.Runnable[*GenerateInput, *wfmodel.GenerationResult], error) {
	chain := compose.NewChain[*GenerateInput, *wfmodel.GenerationResult]()

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, in *GenerateInput) (*generationState, error) {
			instruction, err := workflowprompt.Resolve(in.Template, in.UserPrompt)
			if err != nil {
				return nil, keep(ctx, err)
			}
			return &generationState{In: in, Instruction: instruction}, nil
		}),
		compose.WithNodeName("universe.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *generationState) (*generationState, error) {
			workflow := strings.TrimSpace(st.In.Workflow)
			if workflow == "" {
				workflow = llmctx.WorkflowUniverseGenerate
			}
			ctx = llmctx.WithWorkflow(ctx, workflow)

			completion, err := c.client.Complete(ctx, st.Instruction, st.In.ModelID)
			if err != nil {
				return nil, keep(ctx, err)
			}
			st.Completion = completion
			return st, nil
		}),
		compose.WithNodeName("universe.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *generationState) (*generationState, error) {
			st.Extracted = wfnode.Extract(st.Completion.RawText)
			if f := st.Extracted.Failure; f != nil {
				logger.Warn(ctx, "model response not parseable, using fallback content",
					"reason", f.Reason,
					"offset", f.Offset,
					"response_length", len(st.Completion.RawText),
				)
			}
			return st, nil
		}),
		compose.WithNodeName("universe.extract"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *generationState) (*wfmodel.GenerationResult, error) {
			result := wfnode.Normalize(st.Extracted, st.In.UserPrompt)
			result.Model = st.Completion.Model
			metrics.GenerationShapeTotal.WithLabelValues(string(result.Shape)).Inc()
			return result, nil
		}),
		compose.WithNodeName("universe.normalize"),
	)

	return chain.Compile(ctx)
}
