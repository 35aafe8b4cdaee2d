package middleware

import (
	"net/http"

	"mana-universe-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Trace OpenTelemetry 追踪中间件，探活与指标抓取不产生 span
func Trace(serviceName string, skipPaths []string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		for _, p := range skipPaths {
			if r.URL.Path == p {
				return false
			}
		}
		return true
	}))
}

// TraceContext 将 trace/span ID 写入日志上下文和响应头
// 路由带 :uid 时同时标注宇宙 ID，便于按宇宙检索生成与保存链路
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span := trace.SpanFromContext(ctx)

		if uid := c.Param("uid"); uid != "" {
			ctx = logger.WithContext(ctx, logger.UniverseIDKey, uid)
			span.SetAttributes(attribute.String("universe.id", uid))
		}

		if sc := span.SpanContext(); sc.IsValid() {
			traceID := sc.TraceID().String()
			spanID := sc.SpanID().String()
			c.Set("trace_id", traceID)
			c.Set("span_id", spanID)
			ctx = logger.WithContext(ctx, logger.TraceIDKey, traceID)
			ctx = logger.WithContext(ctx, logger.SpanIDKey, spanID)
			c.Header("X-Trace-ID", traceID)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
