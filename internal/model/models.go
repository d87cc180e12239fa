package model

import (
	"time"
)

// TokenType 表示令牌类型。
type TokenType string

const (
	// TokenAccess 短期访问令牌，用于普通 API 调用。
	TokenAccess TokenType = "ACCESS"
	// TokenRefresh 长期刷新令牌，用于注销时定位持有者。
	TokenRefresh TokenType = "REFRESH"
)

// Token 表示一条已签发的令牌记录。
//
// 同一用户同一类型在任意时刻最多保留一行（签发时先删后插）。
// 注销时按持有者整体删除，而不是只删除出示的那一条。
type Token struct {
	ID        uint      `gorm:"primaryKey"` // 记录 ID
	CreatedAt time.Time // 签发时间

	UserID      uint      `gorm:"not null;index"`                   // 持有者用户 ID
	User        User      `gorm:"foreignKey:UserID"`                // 持有者
	Token       string    `gorm:"type:varchar(512);not null;index"` // 签名后的完整令牌串
	Type        TokenType `gorm:"type:varchar(16);not null;index"`  // ACCESS / REFRESH
	ExpiresAt   time.Time `gorm:"not null"`                         // 绝对过期时间
	Blacklisted bool      `gorm:"default:false"`                    // 拉黑标记，命中则拒绝鉴权
}

// Task 表示一条用户任务。
//
// 所有查询与变更都按 OwnerID 过滤，非所有者查不到对应记录（表现为 not found）。
type Task struct {
	ID        uint      `gorm:"primaryKey"` // 任务 ID
	CreatedAt time.Time // 创建时间
	UpdatedAt time.Time // 更新时间

	Title       string  `gorm:"type:varchar(191);not null"` // 标题
	Description *string `gorm:"type:varchar(512)"`          // 描述（可空）
	Completed   bool    `gorm:"default:false"`              // 完成标记
	OwnerID     uint    `gorm:"not null;index"`             // 所属用户 ID
	Owner       User    `gorm:"foreignKey:OwnerID"`         // 所属用户
}
