package prompt

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	apperrors "mana-universe-api/pkg/errors"
)

func TestResolveReplacesEveryPlaceholder(t *testing.T) {
	got, err := Resolve("A {USER_PROMPT} and again {USER_PROMPT}.", "dragon {x}")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "A dragon {x} and again dragon {x}." {
		t.Fatalf("Resolve = %q", got)
	}
}

func TestResolveWithoutPlaceholderReturnsTemplate(t *testing.T) {
	got, err := Resolve("Fixed text", "ignored")
	if err != nil || got != "Fixed text" {
		t.Fatalf("Resolve = %q, %v", got, err)
	}
}

func TestResolveEmptyTemplate(t *testing.T) {
	for _, tpl := range []string{"", "   \n\t"} {
		if _, err := Resolve(tpl, "x"); !apperrors.Is(err, apperrors.ErrTemplateMissing) {
			t.Fatalf("Resolve(%q) err = %v, want ErrTemplateMissing", tpl, err)
		}
	}
}

func TestRegistryDefaultTemplateHasPlaceholder(t *testing.T) {
	r := NewRegistry("")
	if !strings.Contains(r.DefaultTemplate(), UserPromptPlaceholder) {
		t.Fatalf("default template lacks %s", UserPromptPlaceholder)
	}
	if !strings.Contains(r.SystemInstruction(), "cinematic story assistant") {
		t.Fatalf("unexpected system instruction %q", r.SystemInstruction())
	}
}

func TestRegistryMessagesKeepsBracesVerbatim(t *testing.T) {
	r := NewRegistry("Custom {system}")
	instruction := `Return {"title": "x"}`
	msgs, err := r.Messages(context.Background(), instruction)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != schema.System || msgs[0].Content != "Custom {system}" {
		t.Fatalf("system message = %+v", msgs[0])
	}
	if msgs[1].Role != schema.User || msgs[1].Content != instruction {
		t.Fatalf("user message = %+v", msgs[1])
	}
}
