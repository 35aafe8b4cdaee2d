package service

import (
	"context"
	"testing"
)

func TestWorkflowProviderRoundTrip(t *testing.T) {
	ctx := WithWorkflowProvider(context.Background(), " universe_generate ", "openrouter")
	if got := WorkflowFromContext(ctx); got != WorkflowUniverseGenerate {
		t.Fatalf("workflow = %q", got)
	}
	if got := ProviderFromContext(ctx); got != "openrouter" {
		t.Fatalf("provider = %q", got)
	}
	if got := ProviderFromContext(WithProvider(context.Background(), "  ")); got != "unknown" {
		t.Fatalf("blank provider = %q", got)
	}
}
