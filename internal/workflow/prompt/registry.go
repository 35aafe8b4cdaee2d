// Package prompt 管理宇宙生成使用的提示词
package prompt

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// PromptID 内置提示词标识
type PromptID string

const (
	// PromptUniverseSystem 生成时固定的系统指令
	PromptUniverseSystem PromptID = "universe_system"
	// PromptUniverseDefault 新用户默认模板，含 {USER_PROMPT} 占位符
	PromptUniverseDefault PromptID = "universe_default"
)

// instructionVar 用户消息的模板变量
const instructionVar = "instruction"

// Registry 缓存内置文本与 Eino ChatTemplate
type Registry struct {
	systemOverride string

	mu    sync.RWMutex
	texts map[PromptID]string
	chat  einoprompt.ChatTemplate
}

// NewRegistry 创建提示词注册表，systemOverride 非空时替换内置系统指令
func NewRegistry(systemOverride string) *Registry {
	return &Registry{
		systemOverride: strings.TrimSpace(systemOverride),
		texts:          make(map[PromptID]string),
	}
}

// Text 返回内置文本
func (r *Registry) Text(id PromptID) (string, error) {
	if r == nil {
		return "", fmt.Errorf("prompt registry is nil")
	}
	if id == PromptUniverseSystem && r.systemOverride != "" {
		return r.systemOverride, nil
	}

	r.mu.RLock()
	if s, ok := r.texts[id]; ok {
		r.mu.RUnlock()
		return s, nil
	}
	r.mu.RUnlock()

	s, err := readEmbeddedText("templates/" + string(id) + ".txt")
	if err != nil {
		return "", fmt.Errorf("unknown prompt id %s: %w", id, err)
	}

	r.mu.Lock()
	r.texts[id] = s
	r.mu.Unlock()
	return s, nil
}

// DefaultTemplate 返回默认模板内容
func (r *Registry) DefaultTemplate() string {
	s, _ := r.Text(PromptUniverseDefault)
	return s
}

// SystemInstruction 返回系统指令
func (r *Registry) SystemInstruction() string {
	s, _ := r.Text(PromptUniverseSystem)
	return s
}

// Messages 构造 [系统指令, 用户指令] 两条消息
// 用户指令作为变量值注入，其中的花括号不会被再次解析
func (r *Registry) Messages(ctx context.Context, instruction string) ([]*schema.Message, error) {
	tpl, err := r.chatTemplate()
	if err != nil {
		return nil, err
	}
	return tpl.Format(ctx, map[string]any{instructionVar: instruction})
}

func (r *Registry) chatTemplate() (einoprompt.ChatTemplate, error) {
	r.mu.RLock()
	tpl := r.chat
	r.mu.RUnlock()
	if tpl != nil {
		return tpl, nil
	}

	system, err := r.Text(PromptUniverseSystem)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.chat == nil {
		// 系统指令不含变量，按字面消息处理
		r.chat = einoprompt.FromMessages(
			schema.FString,
			&schema.Message{Role: schema.System, Content: escapeBraces(system)},
			schema.UserMessage("{"+instructionVar+"}"),
		)
	}
	return r.chat, nil
}

func escapeBraces(s string) string {
	return strings.NewReplacer("{", "{{", "}", "}}").Replace(s)
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
