package repository

import (
	"context"

	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	GetByQuestID(ctx context.Context, questID string) ([]entity.Task, error)
	Update(ctx context.Context, task *entity.Task) error
	Delete(ctx context.Context, id string) error
	IncreaseCompletions(ctx context.Context, id string) error
}

type taskRepository struct{}

func NewTaskRepository() *taskRepository {
	return &taskRepository{}
}

func (r *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	return xcontext.DB(ctx).Create(task).Error
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	result := entity.Task{}
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *taskRepository) GetByQuestID(ctx context.Context, questID string) ([]entity.Task, error) {
	result := []entity.Task{}
	err := xcontext.DB(ctx).
		Where("quest_id=?", questID).
		Order("`order` ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *taskRepository) Update(ctx context.Context, task *entity.Task) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Task{}).
		Where("id=?", task.ID).
		Updates(map[string]any{
			"title":            task.Title,
			"description":      task.Description,
			"is_required":      task.IsRequired,
			"order":            task.Order,
			"privilege_points": task.PrivilegePoints,
			"config":           task.Config,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Task{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *taskRepository) IncreaseCompletions(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Task{}).
		Where("id=?", id).
		Update("total_completions", gorm.Expr("total_completions+1"))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
