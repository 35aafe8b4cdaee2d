package llm

import (
	"strings"

	"mana-universe-api/internal/config"
)

// ModelCatalog 允许使用的模型白名单
type ModelCatalog struct {
	defaultID string
	options   []config.ModelOption
	allowed   map[string]struct{}
}

// NewModelCatalog 从配置构建白名单，默认模型总是被允许
func NewModelCatalog(cfg *config.Config) *ModelCatalog {
	defaultID := strings.TrimSpace(cfg.LLM.DefaultModel)
	if defaultID == "" {
		defaultID = config.DefaultModelID
	}

	c := &ModelCatalog{defaultID: defaultID, allowed: make(map[string]struct{})}
	for _, m := range cfg.LLM.Models {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			continue
		}
		if _, dup := c.allowed[id]; dup {
			continue
		}
		c.allowed[id] = struct{}{}
		label := m.Label
		if label == "" {
			label = id
		}
		c.options = append(c.options, config.ModelOption{ID: id, Label: label})
	}
	if _, ok := c.allowed[defaultID]; !ok {
		c.allowed[defaultID] = struct{}{}
		c.options = append(c.options, config.ModelOption{ID: defaultID, Label: defaultID})
	}
	return c
}

// Default 默认模型 ID
func (c *ModelCatalog) Default() string {
	return c.defaultID
}

// Allowed 是否在白名单内
func (c *ModelCatalog) Allowed(id string) bool {
	_, ok := c.allowed[strings.TrimSpace(id)]
	return ok
}

// Resolve 返回可用模型 ID，未知或为空时回退到默认模型
func (c *ModelCatalog) Resolve(id string) (resolved string, fellBack bool) {
	id = strings.TrimSpace(id)
	if c.Allowed(id) {
		return id, false
	}
	return c.defaultID, true
}

// Options 白名单列表
func (c *ModelCatalog) Options() []config.ModelOption {
	out := make([]config.ModelOption, len(c.options))
	copy(out, c.options)
	return out
}
