package repository

import (
	"context"
	"time"

	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"gorm.io/gorm"
)

type QuestFilter struct {
	CommunityID string

	// Status filters by the effective status at Now.
	Status entity.QuestStatusType
	Now    time.Time
}

type QuestRepository interface {
	Create(ctx context.Context, quest *entity.Quest) error
	GetByID(ctx context.Context, id string) (*entity.Quest, error)
	GetList(ctx context.Context, filter QuestFilter, offset, limit int) ([]entity.Quest, error)
	UpdateStatus(ctx context.Context, id string, from []entity.QuestStatusType, to entity.QuestStatusType) error
	IncreaseParticipants(ctx context.Context, id string) error
	IncreaseSubmissions(ctx context.Context, id string) error
	BumpVersion(ctx context.Context, id string, version int64) error
	SetWinnersSelected(ctx context.Context, id string, selected bool) error
}

type questRepository struct{}

func NewQuestRepository() *questRepository {
	return &questRepository{}
}

func (r *questRepository) Create(ctx context.Context, quest *entity.Quest) error {
	return xcontext.DB(ctx).Create(quest).Error
}

func (r *questRepository) GetByID(ctx context.Context, id string) (*entity.Quest, error) {
	result := entity.Quest{}
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *questRepository) GetList(
	ctx context.Context, filter QuestFilter, offset, limit int,
) ([]entity.Quest, error) {
	result := []entity.Quest{}
	tx := xcontext.DB(ctx).
		Offset(offset).
		Limit(limit).
		Order("start_date DESC, id ASC")

	if filter.CommunityID != "" {
		tx = tx.Where("community_id=?", filter.CommunityID)
	}

	switch filter.Status {
	case "":
	case entity.QuestActive:
		tx = tx.Where("status=? AND end_date>?", entity.QuestActive, filter.Now)
	case entity.QuestEnded:
		tx = tx.Where("(status=? OR (status=? AND end_date<=?))",
			entity.QuestEnded, entity.QuestActive, filter.Now)
	default:
		tx = tx.Where("status=?", filter.Status)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateStatus changes the quest status only if the current status is one of
// from. It returns gorm.ErrRecordNotFound when no row matched.
func (r *questRepository) UpdateStatus(
	ctx context.Context, id string, from []entity.QuestStatusType, to entity.QuestStatusType,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Quest{}).
		Where("id=? AND status IN (?)", id, from).
		Updates(map[string]any{
			"status":  to,
			"version": gorm.Expr("version+1"),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *questRepository) IncreaseParticipants(ctx context.Context, id string) error {
	return r.increase(ctx, id, "total_participants")
}

func (r *questRepository) IncreaseSubmissions(ctx context.Context, id string) error {
	return r.increase(ctx, id, "total_submissions")
}

func (r *questRepository) increase(ctx context.Context, id, field string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Quest{}).
		Where("id=?", id).
		Update(field, gorm.Expr(field+"+1"))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// BumpVersion increases the version of quest if it is still equal to the
// given version, otherwise returns ErrVersionConflict.
func (r *questRepository) BumpVersion(ctx context.Context, id string, version int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Quest{}).
		Where("id=? AND version=?", id, version).
		Update("version", gorm.Expr("version+1"))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrVersionConflict
	}

	return nil
}

func (r *questRepository) SetWinnersSelected(ctx context.Context, id string, selected bool) error {
	return xcontext.DB(ctx).
		Model(&entity.Quest{}).
		Where("id=?", id).
		Update("winners_selected", selected).Error
}
