// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User 用户实体
// 账户注册与登录由外部系统负责，这里只保留身份信息
type User struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 分配主键
func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// NewUser 创建新用户
func NewUser(email, name string) *User {
	return &User{
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  name,
	}
}
