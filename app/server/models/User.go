package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	// 基础信息
	Name        string `gorm:"column:name;not null" json:"name"`               // 显示名称
	Email       string `gorm:"column:email;uniqueIndex;not null" json:"email"` // 邮箱，全局唯一，小写储存
	IsAdmin     bool   `gorm:"column:is_admin" json:"isAdmin"`                 // 是否为管理员
	Deactivated bool   `gorm:"column:deactivated" json:"deactivated"`          // 是否已被管理员停用

	// 登录与授权认证相关
	Password string `gorm:"column:password;not null" json:"-"` // 密码，使用 argon2id 储存，永远不输出

	CreatedAt time.Time `gorm:"column:created_at" json:"date"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
