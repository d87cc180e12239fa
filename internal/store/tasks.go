package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sevennguyen07/task-management/internal/model"
)

// Tasks 是任务表的数据访问对象，所有操作都按所有者过滤。
type Tasks struct {
	db *gorm.DB
}

// NewTasks 创建任务存取器。
func NewTasks(db *gorm.DB) *Tasks {
	return &Tasks{db: db}
}

// Create 插入新任务。
func (s *Tasks) Create(ctx context.Context, t *model.Task) error {
	return s.db.WithContext(ctx).Create(t).Error
}

// ListByOwner 列出该用户的全部任务。
func (s *Tasks) ListByOwner(ctx context.Context, ownerID uint) ([]model.Task, error) {
	tasks := []model.Task{}
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByIDAndOwner 按 ID 与所有者查找任务。
//
// 记录存在但属于他人时同样返回 (nil, nil)，对外表现与不存在一致。
func (s *Tasks) FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*model.Task, error) {
	var task model.Task
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update 按所有者范围更新任务并返回更新后的记录。
func (s *Tasks) Update(ctx context.Context, id, ownerID uint, updates map[string]interface{}) (*model.Task, error) {
	if err := s.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.FindByIDAndOwner(ctx, id, ownerID)
}

// Delete 按所有者范围删除任务。
func (s *Tasks) Delete(ctx context.Context, id, ownerID uint) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Task{}).Error
}
