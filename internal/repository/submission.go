package repository

import (
	"context"

	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
)

type TaskSubmissionCount struct {
	TaskID string
	Count  int64
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *entity.Submission) error
	Get(ctx context.Context, userID, questID, taskID string) (*entity.Submission, error)
	GetByUser(ctx context.Context, userID, questID string) ([]entity.Submission, error)
	CountByTask(ctx context.Context, questID string) ([]TaskSubmissionCount, error)
	CountByTaskID(ctx context.Context, taskID string) (int64, error)
}

type submissionRepository struct{}

func NewSubmissionRepository() *submissionRepository {
	return &submissionRepository{}
}

func (r *submissionRepository) Create(ctx context.Context, submission *entity.Submission) error {
	return xcontext.DB(ctx).Create(submission).Error
}

func (r *submissionRepository) Get(
	ctx context.Context, userID, questID, taskID string,
) (*entity.Submission, error) {
	result := entity.Submission{}
	err := xcontext.DB(ctx).
		Where("user_id=? AND quest_id=? AND task_id=?", userID, questID, taskID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *submissionRepository) GetByUser(
	ctx context.Context, userID, questID string,
) ([]entity.Submission, error) {
	result := []entity.Submission{}
	err := xcontext.DB(ctx).
		Where("user_id=? AND quest_id=?", userID, questID).
		Order("submitted_at ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *submissionRepository) CountByTask(
	ctx context.Context, questID string,
) ([]TaskSubmissionCount, error) {
	result := []TaskSubmissionCount{}
	err := xcontext.DB(ctx).
		Model(&entity.Submission{}).
		Select("task_id, COUNT(*) AS count").
		Where("quest_id=?", questID).
		Group("task_id").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *submissionRepository) CountByTaskID(ctx context.Context, taskID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Submission{}).
		Where("task_id=?", taskID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
