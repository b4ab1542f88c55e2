package domain

import (
	"context"
	"testing"
	"time"

	"github.com/questx-lab/quest-engine/internal/common"
	"github.com/questx-lab/quest-engine/internal/domain/statistic"
	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/internal/model"
	"github.com/questx-lab/quest-engine/internal/repository"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type testDomains struct {
	quest       *questDomain
	task        *taskDomain
	participant *participantDomain
	submission  *submissionDomain
	winner      *winnerDomain
	reward      *rewardDomain
	statistic   *statisticDomain

	questRepo       repository.QuestRepository
	participantRepo repository.ParticipantRepository
	submissionRepo  repository.SubmissionRepository
	payRewardRepo   repository.PayRewardRepository

	storage     *testutil.MockStorage
	transferer  *testutil.MockRewardTransferer
	redisClient *testutil.MockRedisClient
}

func newTestDomains() *testDomains {
	questRepo := repository.NewQuestRepository()
	taskRepo := repository.NewTaskRepository()
	participantRepo := repository.NewParticipantRepository()
	submissionRepo := repository.NewSubmissionRepository()
	payRewardRepo := repository.NewPayRewardRepository()
	roleVerifier := common.NewQuestRoleVerifier()

	storage := &testutil.MockStorage{}
	transferer := &testutil.MockRewardTransferer{}
	redisClient := &testutil.MockRedisClient{}
	leaderboard := statistic.New(participantRepo, redisClient)

	return &testDomains{
		quest: NewQuestDomain(questRepo, taskRepo, roleVerifier),
		task: NewTaskDomain(
			questRepo, taskRepo, participantRepo, submissionRepo, roleVerifier, leaderboard),
		participant: NewParticipantDomain(questRepo, taskRepo, participantRepo, nil),
		submission: NewSubmissionDomain(
			questRepo, taskRepo, participantRepo, submissionRepo, storage, leaderboard, nil),
		winner: NewWinnerDomain(questRepo, participantRepo, roleVerifier, leaderboard, nil),
		reward: NewRewardDomain(
			questRepo, participantRepo, payRewardRepo, roleVerifier, transferer, nil),
		statistic: NewStatisticDomain(questRepo, taskRepo, participantRepo, submissionRepo, leaderboard),

		questRepo:       questRepo,
		participantRepo: participantRepo,
		submissionRepo:  submissionRepo,
		payRewardRepo:   payRewardRepo,

		storage:     storage,
		transferer:  transferer,
		redisClient: redisClient,
	}
}

func requireErrorCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errorx.Is(err, code), "expected code %d, got %v", code, err)
}

// joinAndComplete joins userID to quest and submits every task.
func (d *testDomains) joinAndComplete(
	t *testing.T, ctx context.Context, quest *entity.Quest, userID string, tasks ...*entity.Task,
) *model.Participant {
	t.Helper()

	userCtx := testutil.AsUser(ctx, userID)
	_, err := d.participant.Join(userCtx, &model.JoinQuestRequest{
		QuestID:       quest.ID,
		WalletAddress: testutil.WalletA,
	})
	require.NoError(t, err)

	var participant model.Participant
	for _, task := range tasks {
		resp, err := d.submission.SubmitTask(userCtx, &model.SubmitTaskRequest{
			QuestID: quest.ID,
			TaskID:  task.ID,
		})
		require.NoError(t, err)
		participant = resp.Participant
	}

	return &participant
}

func (d *testDomains) getQuest(t *testing.T, ctx context.Context, id string) *entity.Quest {
	t.Helper()
	quest, err := d.questRepo.GetByID(ctx, id)
	require.NoError(t, err)
	return quest
}

func endQuest(t *testing.T, ctx context.Context, quest *entity.Quest) {
	t.Helper()
	quest.EndDate = time.Now().Add(-time.Minute)
	err := testutil.UpdateEndDate(ctx, quest.ID, quest.EndDate)
	require.NoError(t, err)
}
