package eino

import (
	"context"
	"errors"
	"testing"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

func TestChatModelHandlerTracksStartAndModel(t *testing.T) {
	h := newChatModelCallbackHandler()

	ctx := h.OnStart(context.Background(), nil, &model.CallbackInput{Config: &model.Config{Model: "x-ai/grok-4-fast"}})
	if modelNameFromContext(ctx) != "x-ai/grok-4-fast" {
		t.Fatalf("model name not stored on start")
	}
	time.Sleep(time.Millisecond)
	if elapsedSeconds(ctx) <= 0 {
		t.Fatalf("start time not stored")
	}

	out := &model.CallbackOutput{
		Message:    schema.AssistantMessage("ok", nil),
		TokenUsage: &model.TokenUsage{PromptTokens: 10, CompletionTokens: 20},
	}
	if got := h.OnEnd(ctx, nil, out); got == nil {
		t.Fatalf("OnEnd returned nil context")
	}
	if got := h.OnError(ctx, nil, errors.New("boom")); got == nil {
		t.Fatalf("OnError returned nil context")
	}
}

func TestElapsedSecondsWithoutStart(t *testing.T) {
	if elapsedSeconds(context.Background()) != 0 {
		t.Fatalf("expected zero without start time")
	}
	if modelNameFromInput(nil) != "" || modelNameFromOutput(&model.CallbackOutput{}) != "" {
		t.Fatalf("nil configs should yield empty model names")
	}
}

func TestNodeHandlerOnlyTracksGenerationNodes(t *testing.T) {
	h := newNodeCallbackHandler()

	ctx := h.OnStart(context.Background(), &einocb.RunInfo{Name: "other.lambda"}, nil)
	if _, ok := ctx.Value(nodeSpanKey{}).(*nodeSpan); ok {
		t.Fatalf("non-generation node should not start a span")
	}

	ctx = h.OnStart(context.Background(), &einocb.RunInfo{Name: "universe.extract"}, nil)
	if _, ok := ctx.Value(nodeSpanKey{}).(*nodeSpan); !ok {
		t.Fatalf("generation node span not stored")
	}
	if got := h.OnError(ctx, &einocb.RunInfo{Name: "universe.extract"}, errors.New("boom")); got == nil {
		t.Fatalf("OnError returned nil context")
	}
	if isGenerationNode(nil) {
		t.Fatalf("nil run info is not a generation node")
	}
}
