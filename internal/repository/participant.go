package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"gorm.io/gorm"
)

type ParticipantStatusCount struct {
	Status entity.ParticipantStatusType
	Count  int64
}

type ParticipantRepository interface {
	Create(ctx context.Context, participant *entity.Participant) error
	Get(ctx context.Context, userID, questID string) (*entity.Participant, error)
	GetByID(ctx context.Context, id string) (*entity.Participant, error)
	GetByQuestID(ctx context.Context, questID string) ([]entity.Participant, error)
	GetEligible(ctx context.Context, questID string) ([]entity.Participant, error)
	GetWinners(ctx context.Context, questID string) ([]entity.Participant, error)
	CountWinners(ctx context.Context, questID string) (int64, error)
	CountByStatus(ctx context.Context, questID string) ([]ParticipantStatusCount, error)
	GetLeaderboard(ctx context.Context, questID string, offset, limit int) ([]entity.Participant, error)
	UpdateProgress(ctx context.Context, participant *entity.Participant) error
	MarkWinners(ctx context.Context, questID string, ids []string) (int64, error)
	Disqualify(ctx context.Context, id, reason, by string, at time.Time) error
	MarkRewardClaimed(ctx context.Context, id string) error
	ReleaseRewardClaim(ctx context.Context, id string) error
}

type participantRepository struct{}

func NewParticipantRepository() *participantRepository {
	return &participantRepository{}
}

func (r *participantRepository) Create(ctx context.Context, participant *entity.Participant) error {
	return xcontext.DB(ctx).Create(participant).Error
}

func (r *participantRepository) Get(ctx context.Context, userID, questID string) (*entity.Participant, error) {
	var result entity.Participant
	err := xcontext.DB(ctx).Where("user_id=? AND quest_id=?", userID, questID).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *participantRepository) GetByID(ctx context.Context, id string) (*entity.Participant, error) {
	var result entity.Participant
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *participantRepository) GetByQuestID(ctx context.Context, questID string) ([]entity.Participant, error) {
	result := []entity.Participant{}
	err := xcontext.DB(ctx).
		Where("quest_id=?", questID).
		Order("id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *participantRepository) GetEligible(ctx context.Context, questID string) ([]entity.Participant, error) {
	result := []entity.Participant{}
	err := xcontext.DB(ctx).
		Where("quest_id=? AND status IN (?)", questID, entity.EligibleStatuses).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *participantRepository) GetWinners(ctx context.Context, questID string) ([]entity.Participant, error) {
	result := []entity.Participant{}
	err := xcontext.DB(ctx).
		Where("quest_id=? AND is_winner=?", questID, true).
		Order("id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *participantRepository) CountWinners(ctx context.Context, questID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Participant{}).
		Where("quest_id=? AND is_winner=?", questID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *participantRepository) CountByStatus(
	ctx context.Context, questID string,
) ([]ParticipantStatusCount, error) {
	result := []ParticipantStatusCount{}
	err := xcontext.DB(ctx).
		Model(&entity.Participant{}).
		Select("status, COUNT(*) AS count").
		Where("quest_id=?", questID).
		Group("status").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetLeaderboard returns non-disqualified participants ordered by privilege
// points, then by completion time (unfinished participants last), then by id.
func (r *participantRepository) GetLeaderboard(
	ctx context.Context, questID string, offset, limit int,
) ([]entity.Participant, error) {
	result := []entity.Participant{}
	err := xcontext.DB(ctx).
		Where("quest_id=? AND status<>?", questID, entity.ParticipantDisqualified).
		Order("total_privilege_points DESC").
		Order("completed_at IS NULL").
		Order("completed_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateProgress writes the progress fields of participant if its version is
// unchanged since it was read, then increases the version.
func (r *participantRepository) UpdateProgress(ctx context.Context, participant *entity.Participant) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Participant{}).
		Where("id=? AND version=?", participant.ID, participant.Version).
		Updates(map[string]any{
			"status":                 participant.Status,
			"completed_at":           participant.CompletedAt,
			"completed_tasks":        participant.CompletedTasks,
			"total_tasks_completed":  participant.TotalTasksCompleted,
			"total_privilege_points": participant.TotalPrivilegePoints,
			"version":                gorm.Expr("version+1"),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrVersionConflict
	}

	participant.Version++
	return nil
}

// MarkWinners flags the given participants as winners. Participants which are
// already winners or are no longer eligible are skipped, the returned value is
// the number of rows actually changed.
func (r *participantRepository) MarkWinners(ctx context.Context, questID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx := xcontext.DB(ctx).
		Model(&entity.Participant{}).
		Where("quest_id=? AND id IN (?) AND is_winner=? AND status IN (?)",
			questID, ids, false, entity.EligibleStatuses).
		Updates(map[string]any{
			"is_winner": true,
			"status":    entity.ParticipantWinner,
			"version":   gorm.Expr("version+1"),
		})
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

func (r *participantRepository) Disqualify(
	ctx context.Context, id, reason, by string, at time.Time,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Participant{}).
		Where("id=?", id).
		Updates(map[string]any{
			"status":              entity.ParticipantDisqualified,
			"is_winner":           false,
			"disqualified_reason": reason,
			"disqualified_by":     by,
			"disqualified_at":     sql.NullTime{Valid: true, Time: at},
			"version":             gorm.Expr("version+1"),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// MarkRewardClaimed sets reward_claimed of a winner before its reward is
// transferred. It returns ErrVersionConflict if the reward was already
// claimed or the participant is no longer a winner.
func (r *participantRepository) MarkRewardClaimed(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Participant{}).
		Where("id=? AND is_winner=? AND reward_claimed=?", id, true, false).
		Updates(map[string]any{
			"reward_claimed": true,
			"version":        gorm.Expr("version+1"),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrVersionConflict
	}

	return nil
}

// ReleaseRewardClaim clears reward_claimed after a failed transfer so that the
// reward can be distributed again.
func (r *participantRepository) ReleaseRewardClaim(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Participant{}).
		Where("id=? AND reward_claimed=?", id, true).
		Updates(map[string]any{
			"reward_claimed": false,
			"version":        gorm.Expr("version+1"),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrVersionConflict
	}

	return nil
}
