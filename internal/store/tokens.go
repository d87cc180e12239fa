package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sevennguyen07/task-management/internal/model"
)

// Tokens 是令牌表的数据访问对象。
type Tokens struct {
	db *gorm.DB
}

// NewTokens 创建令牌存取器。
func NewTokens(db *gorm.DB) *Tokens {
	return &Tokens{db: db}
}

// Replace 删除同用户同类型的全部旧行后插入新行。
//
// 两次写入未加事务，与既有契约一致；并发登录可能短暂留下多行。
func (s *Tokens) Replace(ctx context.Context, t *model.Token) error {
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", t.UserID, t.Type).
		Delete(&model.Token{}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(t).Error
}

// Find 按令牌串查找任意类型的记录。
func (s *Tokens) Find(ctx context.Context, token string) (*model.Token, error) {
	var row model.Token
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindRefresh 按令牌串查找 REFRESH 记录。
func (s *Tokens) FindRefresh(ctx context.Context, token string) (*model.Token, error) {
	var row model.Token
	err := s.db.WithContext(ctx).
		Where("token = ? AND type = ?", token, model.TokenRefresh).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// DeleteForUser 删除该用户的全部令牌记录。
func (s *Tokens) DeleteForUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Token{}).Error
}
