package prompt

import (
	"strings"

	apperrors "mana-universe-api/pkg/errors"
)

// UserPromptPlaceholder 模板中被用户输入替换的占位符
const UserPromptPlaceholder = "{USER_PROMPT}"

// Resolve 将模板中所有占位符替换为用户输入，原样替换不做转义
// 模板为空或仅含空白时返回 ErrTemplateMissing；没有占位符时原样返回模板
func Resolve(template, userPrompt string) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", apperrors.ErrTemplateMissing
	}
	return strings.ReplaceAll(template, UserPromptPlaceholder, userPrompt), nil
}
