package domain

import (
	"context"
	"errors"
	"time"

	"github.com/questx-lab/quest-engine/internal/common"
	"github.com/questx-lab/quest-engine/internal/domain/selection"
	"github.com/questx-lab/quest-engine/internal/domain/statistic"
	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/internal/model"
	"github.com/questx-lab/quest-engine/internal/repository"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"gorm.io/gorm"
)

type WinnerDomain interface {
	SelectWinners(context.Context, *model.SelectWinnersRequest) (*model.SelectWinnersResponse, error)
	SelectReplacementWinners(
		context.Context, *model.SelectReplacementWinnersRequest,
	) (*model.SelectReplacementWinnersResponse, error)
	DisqualifyParticipant(
		context.Context, *model.DisqualifyParticipantRequest,
	) (*model.DisqualifyParticipantResponse, error)
}

type winnerDomain struct {
	questRepo       repository.QuestRepository
	participantRepo repository.ParticipantRepository
	roleVerifier    *common.QuestRoleVerifier
	leaderboard     statistic.Leaderboard
	publisher       *EventPublisher
}

func NewWinnerDomain(
	questRepo repository.QuestRepository,
	participantRepo repository.ParticipantRepository,
	roleVerifier *common.QuestRoleVerifier,
	leaderboard statistic.Leaderboard,
	publisher *EventPublisher,
) *winnerDomain {
	return &winnerDomain{
		questRepo:       questRepo,
		participantRepo: participantRepo,
		roleVerifier:    roleVerifier,
		leaderboard:     leaderboard,
		publisher:       publisher,
	}
}

type selectionResult struct {
	quest        *entity.Quest
	winners      []entity.Participant
	totalWinners int64
}

func (d *winnerDomain) SelectWinners(
	ctx context.Context, req *model.SelectWinnersRequest,
) (*model.SelectWinnersResponse, error) {
	result, err := d.selectWinners(ctx, req.QuestID, func(capacity int) int {
		return capacity
	})
	if err != nil {
		return nil, err
	}

	return &model.SelectWinnersResponse{
		Winners:         model.ConvertParticipants(result.winners),
		TotalWinners:    result.totalWinners,
		WinnersSelected: result.quest.WinnersSelected,
	}, nil
}

func (d *winnerDomain) SelectReplacementWinners(
	ctx context.Context, req *model.SelectReplacementWinnersRequest,
) (*model.SelectReplacementWinnersResponse, error) {
	if req.Count <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Count of replacements must be positive")
	}

	result, err := d.selectWinners(ctx, req.QuestID, func(capacity int) int {
		if req.Count < capacity {
			return req.Count
		}
		return capacity
	})
	if err != nil {
		return nil, err
	}

	return &model.SelectReplacementWinnersResponse{
		Winners:         model.ConvertParticipants(result.winners),
		TotalWinners:    result.totalWinners,
		WinnersSelected: result.quest.WinnersSelected,
		Shortfall:       req.Count - len(result.winners),
	}, nil
}

// selectWinners marks new winners of a quest. The number of new winners is
// target(capacity), where capacity is the count of free winner slots.
func (d *winnerDomain) selectWinners(
	ctx context.Context, questID string, target func(capacity int) int,
) (*selectionResult, error) {
	quest, err := getQuest(ctx, d.questRepo, questID)
	if err != nil {
		return nil, err
	}

	if err := d.roleVerifier.Verify(ctx, quest); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify permission: %v", err)
		return nil, err
	}

	switch quest.Status {
	case entity.QuestDraft:
		return nil, errorx.New(errorx.Unavailable, "Quest has not been published yet")
	case entity.QuestCancelled:
		return nil, errorx.New(errorx.Unavailable, "Quest has been cancelled")
	}

	selector, err := selection.New(quest.SelectionMethod)
	if err != nil {
		return nil, err
	}

	result, err := d.runSelection(ctx, quest.ID, selector, target)
	if err != nil {
		return nil, err
	}

	if len(result.winners) > 0 {
		common.PromCounters[common.WinnerSelectedTotal].
			WithLabelValues(string(quest.SelectionMethod)).
			Add(float64(len(result.winners)))

		for _, w := range result.winners {
			d.publisher.Publish(ctx, EventWinnerSelected, quest.ID, w.UserID, map[string]any{
				"participant_id": w.ID,
			})
		}

		if quest.SelectionMethod == entity.SelectionLeaderboard {
			d.leaderboard.Invalidate(ctx, quest.ID)
		}
	}

	return result, nil
}

// runSelection is the single-writer section of a quest. Every write is
// rolled back if another selection bumped the quest version first.
func (d *winnerDomain) runSelection(
	ctx context.Context, questID string, selector selection.Selector, target func(int) int,
) (*selectionResult, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	quest, err := getQuest(ctx, d.questRepo, questID)
	if err != nil {
		return nil, err
	}

	currentWinners, err := d.participantRepo.CountWinners(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count winners: %v", err)
		return nil, errorx.Unknown
	}

	eligible, err := d.participantRepo.GetEligible(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get eligible participants: %v", err)
		return nil, errorx.Unknown
	}

	candidates := selection.Candidates(eligible)
	capacity := quest.ParticipantLimit - int(currentWinners)
	winners := []entity.Participant{}
	if n := target(capacity); n > 0 {
		winners = selector.Select(candidates, n)
	}

	ids := []string{}
	for i := range winners {
		ids = append(ids, winners[i].ID)
		winners[i].IsWinner = true
		winners[i].Status = entity.ParticipantWinner
	}

	marked, err := d.participantRepo.MarkWinners(ctx, quest.ID, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark winners: %v", err)
		return nil, errorx.Unknown
	}

	if marked != int64(len(ids)) {
		return nil, errorx.New(errorx.AlreadyExists, "Winner selection is in progress")
	}

	if err := d.questRepo.BumpVersion(ctx, quest.ID, quest.Version); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, errorx.New(errorx.AlreadyExists, "Winner selection is in progress")
		}

		xcontext.Logger(ctx).Errorf("Cannot bump quest version: %v", err)
		return nil, errorx.Unknown
	}

	totalWinners := currentWinners + marked
	poolExhausted := len(candidates) == len(winners)
	ended := quest.EffectiveStatus(time.Now()) == entity.QuestEnded
	if !quest.WinnersSelected && (totalWinners >= int64(quest.ParticipantLimit) || (ended && poolExhausted)) {
		if err := d.questRepo.SetWinnersSelected(ctx, quest.ID, true); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot set winners selected: %v", err)
			return nil, errorx.Unknown
		}

		quest.WinnersSelected = true
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit winner selection: %v", err)
		return nil, errorx.Unknown
	}

	return &selectionResult{quest: quest, winners: winners, totalWinners: totalWinners}, nil
}

func (d *winnerDomain) DisqualifyParticipant(
	ctx context.Context, req *model.DisqualifyParticipantRequest,
) (*model.DisqualifyParticipantResponse, error) {
	quest, err := getQuest(ctx, d.questRepo, req.QuestID)
	if err != nil {
		return nil, err
	}

	if err := d.roleVerifier.Verify(ctx, quest); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify permission: %v", err)
		return nil, err
	}

	participant, err := d.getQuestParticipant(ctx, quest.ID, req.ParticipantID)
	if err != nil {
		return nil, err
	}

	if participant.Status == entity.ParticipantDisqualified {
		return &model.DisqualifyParticipantResponse{
			Participant: model.ConvertParticipant(participant),
		}, nil
	}

	var wasWinner bool
	err = withRetry(ctx, func() error {
		participant, wasWinner, err = d.disqualify(ctx, quest.ID, req.ParticipantID, req.Reason)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, errorx.New(errorx.AlreadyExists, "Winner selection is in progress")
		}

		return nil, err
	}

	d.publisher.Publish(ctx, EventParticipantDisqualified, quest.ID, participant.UserID, map[string]any{
		"participant_id": participant.ID,
		"reason":         req.Reason,
		"was_winner":     wasWinner,
	})

	if quest.SelectionMethod == entity.SelectionLeaderboard {
		d.leaderboard.Invalidate(ctx, quest.ID)
	}

	return &model.DisqualifyParticipantResponse{
		Participant: model.ConvertParticipant(participant),
	}, nil
}

func (d *winnerDomain) getQuestParticipant(
	ctx context.Context, questID, participantID string,
) (*entity.Participant, error) {
	participant, err := d.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found participant")
		}

		xcontext.Logger(ctx).Errorf("Cannot get participant: %v", err)
		return nil, errorx.Unknown
	}

	if participant.QuestID != questID {
		return nil, errorx.New(errorx.NotFound, "Not found participant in this quest")
	}

	return participant, nil
}

// disqualify removes a participant from the eligible set. Removing a winner
// reopens the winner selection of the quest, so it competes for the quest
// version with concurrent selections.
func (d *winnerDomain) disqualify(
	ctx context.Context, questID, participantID, reason string,
) (*entity.Participant, bool, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	quest, err := getQuest(ctx, d.questRepo, questID)
	if err != nil {
		return nil, false, err
	}

	participant, err := d.getQuestParticipant(ctx, questID, participantID)
	if err != nil {
		return nil, false, err
	}

	if participant.Status == entity.ParticipantDisqualified {
		return participant, false, nil
	}

	now := time.Now()
	by := xcontext.RequestUserID(ctx)
	if err := d.participantRepo.Disqualify(ctx, participant.ID, reason, by, now); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot disqualify participant: %v", err)
		return nil, false, errorx.Unknown
	}

	wasWinner := participant.IsWinner
	if wasWinner {
		if err := d.questRepo.BumpVersion(ctx, quest.ID, quest.Version); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return nil, false, err
			}

			xcontext.Logger(ctx).Errorf("Cannot bump quest version: %v", err)
			return nil, false, errorx.Unknown
		}

		if quest.WinnersSelected {
			if err := d.questRepo.SetWinnersSelected(ctx, quest.ID, false); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot reset winners selected: %v", err)
				return nil, false, errorx.Unknown
			}
		}
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit disqualification: %v", err)
		return nil, false, errorx.Unknown
	}

	participant.Status = entity.ParticipantDisqualified
	participant.IsWinner = false
	participant.DisqualifiedReason = reason
	participant.DisqualifiedBy = by
	participant.DisqualifiedAt.Valid = true
	participant.DisqualifiedAt.Time = now

	return participant, wasWinner, nil
}
