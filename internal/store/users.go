// Package store 提供基于 gorm 的持久化实现。
//
// 查询未命中一律返回 (nil, nil)，由调用方决定映射为何种业务错误。
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sevennguyen07/task-management/internal/model"
)

// Users 是用户表的数据访问对象。
type Users struct {
	db *gorm.DB
}

// NewUsers 创建用户存取器。
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Create 插入新用户。
func (s *Users) Create(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

// FindByEmail 按邮箱查找用户（含密码哈希，供登录校验）。
func (s *Users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID 按 ID 查找用户。
func (s *Users) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken 判断邮箱是否已被占用。
func (s *Users) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update 按字段更新用户。
func (s *Users) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除用户及其全部任务和令牌，单个事务内完成。
func (s *Users) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Token{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.User{}).Error
	})
}
