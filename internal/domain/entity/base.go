package entity

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// 校验错误
var (
	ErrNameRequired        = errors.New("name is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrUniverseRequired    = errors.New("universe is required")
	ErrOwnerRequired       = errors.New("owner is required")
	ErrContentRequired     = errors.New("content is required")
	ErrInvalidPermission   = errors.New("permission level must be view or edit")
)

// 字符串列宽度（按字符计）
const (
	NameMaxRunes  = 255
	LabelMaxRunes = 128
)

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
