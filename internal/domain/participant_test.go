package domain

import (
	"sync"
	"testing"
	"time"

	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/internal/model"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_participantDomain_Join(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 1)
	testutil.InsertQuest(ctx, quest, testutil.NewTask("", 0, true, 0))

	userCtx := testutil.AsUser(ctx, "user1")
	resp, err := d.participant.Join(userCtx, &model.JoinQuestRequest{
		QuestID:       quest.ID,
		WalletAddress: testutil.WalletA,
	})
	require.NoError(t, err)
	require.Equal(t, "registered", resp.Participant.Status)
	require.Equal(t, "user1", resp.Participant.UserID)
	require.Empty(t, resp.Participant.CompletedTasks)
	require.False(t, resp.Participant.IsWinner)

	// Joining twice is a conflict and does not count twice.
	_, err = d.participant.Join(userCtx, &model.JoinQuestRequest{QuestID: quest.ID})
	requireErrorCode(t, err, errorx.AlreadyExists)
	require.EqualValues(t, 1, d.getQuest(t, ctx, quest.ID).TotalParticipants)

	status, err := d.participant.CheckParticipationStatus(userCtx, &model.CheckParticipationStatusRequest{
		QuestID: quest.ID,
	})
	require.NoError(t, err)
	require.True(t, status.IsParticipating)
	require.Equal(t, 1, status.TotalRequiredTasks)
	require.Equal(t, 0, status.CompletedRequiredTasks)

	status, err = d.participant.CheckParticipationStatus(
		testutil.AsUser(ctx, "user2"), &model.CheckParticipationStatusRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.False(t, status.IsParticipating)
	require.Nil(t, status.Participant)
}

func Test_participantDomain_Join_QuestState(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()
	userCtx := testutil.AsUser(ctx, "user1")

	tests := []struct {
		name    string
		modify  func(q *entity.Quest)
		code    errorx.Code
		message string
	}{
		{
			name:    "draft",
			modify:  func(q *entity.Quest) { q.Status = entity.QuestDraft },
			code:    errorx.Unavailable,
			message: "Quest has not been published yet",
		},
		{
			name:    "ended",
			modify:  func(q *entity.Quest) { q.Status = entity.QuestEnded },
			code:    errorx.Unavailable,
			message: "Quest has been ended",
		},
		{
			name:    "cancelled",
			modify:  func(q *entity.Quest) { q.Status = entity.QuestCancelled },
			code:    errorx.Unavailable,
			message: "Quest has been cancelled",
		},
		{
			name:    "not started",
			modify:  func(q *entity.Quest) { q.StartDate = time.Now().UTC().Add(time.Hour) },
			code:    errorx.Unavailable,
			message: "Quest has not started yet",
		},
		{
			name:    "end date passed",
			modify:  func(q *entity.Quest) { q.EndDate = time.Now().UTC().Add(-time.Second) },
			code:    errorx.Unavailable,
			message: "Quest already ended",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quest := testutil.NewQuest(entity.SelectionFCFS, 1)
			tt.modify(quest)
			testutil.InsertQuest(ctx, quest)

			_, err := d.participant.Join(userCtx, &model.JoinQuestRequest{QuestID: quest.ID})
			requireErrorCode(t, err, tt.code)
			require.Equal(t, tt.message, err.Error())
		})
	}

	_, err := d.participant.Join(userCtx, &model.JoinQuestRequest{QuestID: "unknown"})
	requireErrorCode(t, err, errorx.NotFound)
}

func Test_participantDomain_Join_InvalidWallet(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 1)
	testutil.InsertQuest(ctx, quest)

	_, err := d.participant.Join(testutil.AsUser(ctx, "user1"), &model.JoinQuestRequest{
		QuestID:       quest.ID,
		WalletAddress: "not-a-wallet",
	})
	requireErrorCode(t, err, errorx.BadRequest)
	require.EqualValues(t, 0, d.getQuest(t, ctx, quest.ID).TotalParticipants)
}

func Test_participantDomain_Join_Concurrent(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 1)
	testutil.InsertQuest(ctx, quest)

	userCtx := testutil.AsUser(ctx, "user1")
	n := 5
	errs := make([]error, n)
	wg := sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = d.participant.Join(userCtx, &model.JoinQuestRequest{QuestID: quest.ID})
		}(i)
	}
	wg.Wait()

	success := 0
	for _, err := range errs {
		if err == nil {
			success++
		} else {
			requireErrorCode(t, err, errorx.AlreadyExists)
		}
	}

	require.Equal(t, 1, success)
	require.EqualValues(t, 1, d.getQuest(t, ctx, quest.ID).TotalParticipants)
}
