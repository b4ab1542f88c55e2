package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/internal/repository"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"github.com/shopspring/decimal"
)

const (
	QuestCreator = "creator"
	Admin        = "admin"
	WalletA      = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	WalletB      = "0xEA674fdDe714fd979de3EdF0F56AA9716B898ec8"
)

// NewQuest returns an active quest which started an hour ago and ends in a
// day, with a token pool of 100 USDT.
func NewQuest(method entity.SelectionMethodType, participantLimit int) *entity.Quest {
	now := time.Now().UTC()
	return &entity.Quest{
		Base:             entity.Base{ID: uuid.NewString()},
		CommunityID:      "community1",
		CreatedBy:        QuestCreator,
		Title:            "Quest",
		StartDate:        now.Add(-time.Hour),
		EndDate:          now.Add(24 * time.Hour),
		SelectionMethod:  method,
		ParticipantLimit: participantLimit,
		RewardPool: entity.RewardPool{
			Amount:   decimal.NewFromInt(100),
			Currency: "USDT",
			Type:     entity.TokenReward,
		},
		Status: entity.QuestActive,
	}
}

func NewTask(questID string, order int, required bool, points int) *entity.Task {
	return &entity.Task{
		Base:            entity.Base{ID: uuid.NewString()},
		QuestID:         questID,
		Title:           "Join community",
		Type:            entity.TaskJoinCommunity,
		IsRequired:      required,
		Order:           order,
		PrivilegePoints: points,
		Config:          entity.Map{"community_id": "community1"},
	}
}

func InsertQuest(ctx context.Context, quest *entity.Quest, tasks ...*entity.Task) {
	if err := repository.NewQuestRepository().Create(ctx, quest); err != nil {
		panic(err)
	}

	taskRepo := repository.NewTaskRepository()
	for _, task := range tasks {
		task.QuestID = quest.ID
		if err := taskRepo.Create(ctx, task); err != nil {
			panic(err)
		}
	}
}

// InsertCompletedParticipant inserts a participant who finished every task
// at completedAt.
func InsertCompletedParticipant(
	ctx context.Context,
	quest *entity.Quest,
	userID string,
	completedAt time.Time,
	points int,
) *entity.Participant {
	p := &entity.Participant{
		Base:                 entity.Base{ID: uuid.NewString()},
		UserID:               userID,
		QuestID:              quest.ID,
		Status:               entity.ParticipantCompleted,
		JoinedAt:             quest.StartDate,
		CompletedAt:          sql.NullTime{Valid: true, Time: completedAt},
		TotalPrivilegePoints: points,
		WalletAddress:        WalletA,
	}

	if err := repository.NewParticipantRepository().Create(ctx, p); err != nil {
		panic(err)
	}

	if err := repository.NewQuestRepository().IncreaseParticipants(ctx, quest.ID); err != nil {
		panic(err)
	}

	return p
}

// UpdateEndDate moves the end date of a quest, used to age quests out.
func UpdateEndDate(ctx context.Context, questID string, endDate time.Time) error {
	return xcontext.DB(ctx).
		Model(&entity.Quest{}).
		Where("id=?", questID).
		Update("end_date", endDate.UTC()).Error
}
