package model

import "time"

// User 表示系统用户。
type User struct {
	ID        uint      `gorm:"primaryKey"`                               // 用户 ID
	Email     string    `gorm:"type:varchar(191);uniqueIndex;not null"`   // 邮箱（唯一）
	Name      *string   `gorm:"type:varchar(191)"`                        // 昵称（可空）
	Password  string    `gorm:"not null" json:"-"`                        // bcrypt 哈希，永不下发
	CreatedAt time.Time // 创建时间
	UpdatedAt time.Time // 更新时间

	Tasks  []Task  `gorm:"foreignKey:OwnerID"`
	Tokens []Token `gorm:"foreignKey:UserID"`
}
