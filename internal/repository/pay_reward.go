package repository

import (
	"context"

	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
)

type PayRewardRepository interface {
	Create(ctx context.Context, payReward *entity.PayReward) error
	GetByQuestID(ctx context.Context, questID string) ([]entity.PayReward, error)
}

type payRewardRepository struct{}

func NewPayRewardRepository() *payRewardRepository {
	return &payRewardRepository{}
}

func (r *payRewardRepository) Create(ctx context.Context, payReward *entity.PayReward) error {
	return xcontext.DB(ctx).Create(payReward).Error
}

func (r *payRewardRepository) GetByQuestID(ctx context.Context, questID string) ([]entity.PayReward, error) {
	result := []entity.PayReward{}
	err := xcontext.DB(ctx).
		Where("quest_id=?", questID).
		Order("created_at ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
