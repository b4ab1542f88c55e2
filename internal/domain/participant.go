package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/quest-engine/internal/domain/taskclaim"
	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/internal/model"
	"github.com/questx-lab/quest-engine/internal/repository"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"gorm.io/gorm"
)

type ParticipantDomain interface {
	Join(context.Context, *model.JoinQuestRequest) (*model.JoinQuestResponse, error)
	CheckParticipationStatus(
		context.Context, *model.CheckParticipationStatusRequest,
	) (*model.CheckParticipationStatusResponse, error)
}

type participantDomain struct {
	questRepo       repository.QuestRepository
	taskRepo        repository.TaskRepository
	participantRepo repository.ParticipantRepository
	publisher       *EventPublisher
}

func NewParticipantDomain(
	questRepo repository.QuestRepository,
	taskRepo repository.TaskRepository,
	participantRepo repository.ParticipantRepository,
	publisher *EventPublisher,
) *participantDomain {
	return &participantDomain{
		questRepo:       questRepo,
		taskRepo:        taskRepo,
		participantRepo: participantRepo,
		publisher:       publisher,
	}
}

func (d *participantDomain) Join(
	ctx context.Context, req *model.JoinQuestRequest,
) (*model.JoinQuestResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	quest, err := getQuest(ctx, d.questRepo, req.QuestID)
	if err != nil {
		return nil, err
	}

	switch quest.Status {
	case entity.QuestDraft:
		return nil, errorx.New(errorx.Unavailable, "Quest has not been published yet")
	case entity.QuestEnded:
		return nil, errorx.New(errorx.Unavailable, "Quest has been ended")
	case entity.QuestCancelled:
		return nil, errorx.New(errorx.Unavailable, "Quest has been cancelled")
	}

	now := time.Now()
	if now.Before(quest.StartDate) {
		return nil, errorx.New(errorx.Unavailable, "Quest has not started yet")
	}

	if !now.Before(quest.EndDate) {
		return nil, errorx.New(errorx.Unavailable, "Quest already ended")
	}

	_, err = d.participantRepo.Get(ctx, userID, quest.ID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Already participating in this quest")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get participant: %v", err)
		return nil, errorx.Unknown
	}

	if req.WalletAddress != "" && !taskclaim.IsValidWalletAddress(req.WalletAddress) {
		return nil, errorx.New(errorx.BadRequest, "Invalid wallet address")
	}

	participant := &entity.Participant{
		Base:           entity.Base{ID: uuid.NewString()},
		UserID:         userID,
		QuestID:        quest.ID,
		Status:         entity.ParticipantRegistered,
		JoinedAt:       now,
		CompletedTasks: entity.Array[string]{},
		WalletAddress:  req.WalletAddress,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.participantRepo.Create(ctx, participant); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, errorx.New(errorx.AlreadyExists, "Already participating in this quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot create participant: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.questRepo.IncreaseParticipants(ctx, quest.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase participants: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, errorx.New(errorx.AlreadyExists, "Already participating in this quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot commit joining: %v", err)
		return nil, errorx.Unknown
	}

	d.publisher.Publish(ctx, EventParticipantJoined, quest.ID, userID, map[string]any{
		"participant_id": participant.ID,
	})

	return &model.JoinQuestResponse{Participant: model.ConvertParticipant(participant)}, nil
}

func (d *participantDomain) CheckParticipationStatus(
	ctx context.Context, req *model.CheckParticipationStatusRequest,
) (*model.CheckParticipationStatusResponse, error) {
	quest, err := getQuest(ctx, d.questRepo, req.QuestID)
	if err != nil {
		return nil, err
	}

	tasks, err := d.taskRepo.GetByQuestID(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tasks: %v", err)
		return nil, errorx.Unknown
	}

	required := requiredTaskIDs(tasks)
	resp := &model.CheckParticipationStatusResponse{TotalRequiredTasks: len(required)}

	participant, err := d.participantRepo.Get(ctx, xcontext.RequestUserID(ctx), quest.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get participant: %v", err)
		return nil, errorx.Unknown
	}

	for _, id := range required {
		if participant.HasCompleted(id) {
			resp.CompletedRequiredTasks++
		}
	}

	p := model.ConvertParticipant(participant)
	resp.IsParticipating = true
	resp.Participant = &p
	resp.IsWinner = participant.IsWinner
	resp.RewardClaimed = participant.RewardClaimed

	return resp, nil
}
