package api

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sevennguyen07/task-management/internal/auth"
	"github.com/sevennguyen07/task-management/internal/model"
)

// SeedDemoData 初始化演示数据（仅非生产环境，且需显式开启）。
func (s *Server) SeedDemoData(ctx context.Context) error {
	if !s.cfg.App.SeedDemoData || s.cfg.App.Env == "production" {
		return nil
	}

	const demoEmail = "demo@example.com"
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", demoEmail).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, hashErr := auth.HashPassword("Password1")
		if hashErr != nil {
			return hashErr
		}
		name := "Demo User"
		user = model.User{
			Email:    demoEmail,
			Name:     &name,
			Password: hash,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return err
		}
	}

	var taskCount int64
	if err := s.db.WithContext(ctx).Model(&model.Task{}).Where("owner_id = ?", user.ID).Count(&taskCount).Error; err != nil {
		return err
	}
	if taskCount == 0 {
		groceries := "Milk, eggs, bread"
		seedTasks := []model.Task{
			{Title: "Buy groceries", Description: &groceries, OwnerID: user.ID},
			{Title: "Walk the dog", OwnerID: user.ID, Completed: true},
		}
		if err := s.db.WithContext(ctx).Create(&seedTasks).Error; err != nil {
			return err
		}
	}

	return nil
}
