package eino

import (
	"context"
	"strings"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mana-universe-api/pkg/logger"
)

// generationNodePrefix 生成链节点名前缀，其余 Lambda 不记录
const generationNodePrefix = "universe."

type nodeSpanKey struct{}

type nodeSpan struct {
	span  trace.Span
	start time.Time
}

// newNodeCallbackHandler 为生成链的每个节点创建子 span
func newNodeCallbackHandler() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			if !isGenerationNode(info) {
				return ctx
			}
			spanCtx, span := otel.Tracer("eino").Start(ctx, "chain."+info.Name,
				trace.WithAttributes(attribute.String("eino.node_name", info.Name)),
			)
			return context.WithValue(spanCtx, nodeSpanKey{}, &nodeSpan{span: span, start: time.Now()})
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackOutput) context.Context {
			finishNode(ctx, info, nil)
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			finishNode(ctx, info, err)
			return ctx
		}).
		Build()
}

func isGenerationNode(info *einocb.RunInfo) bool {
	return info != nil && strings.HasPrefix(info.Name, generationNodePrefix)
}

func finishNode(ctx context.Context, info *einocb.RunInfo, err error) {
	if !isGenerationNode(info) {
		return
	}
	ns, ok := ctx.Value(nodeSpanKey{}).(*nodeSpan)
	if !ok {
		return
	}
	if err != nil {
		ns.span.RecordError(err)
		ns.span.SetStatus(codes.Error, err.Error())
	}
	ns.span.End()
	logger.Debug(ctx, "generation node finished",
		"node", info.Name,
		"duration_ms", time.Since(ns.start).Milliseconds(),
		"failed", err != nil,
	)
}
