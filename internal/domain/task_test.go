package domain

import (
	"context"
	"testing"
	"time"

	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/internal/model"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_taskDomain_CreateUpdateDelete(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 1)
	testutil.InsertQuest(ctx, quest)

	creatorCtx := testutil.AsUser(ctx, testutil.QuestCreator)
	created, err := d.task.Create(creatorCtx, &model.CreateTaskRequest{
		QuestID: quest.ID,
		CreateTaskData: model.CreateTaskData{
			Title:  "Visit our site",
			Type:   "visit_link",
			Config: map[string]any{"link": "https://example.com"},
		},
	})
	require.NoError(t, err)

	_, err = d.task.Create(testutil.AsUser(ctx, "stranger"), &model.CreateTaskRequest{
		QuestID:        quest.ID,
		CreateTaskData: model.CreateTaskData{Title: "x", Type: "custom"},
	})
	requireErrorCode(t, err, errorx.PermissionDenied)

	_, err = d.task.Update(creatorCtx, &model.UpdateTaskRequest{
		ID:              created.ID,
		Title:           "Visit our blog",
		IsRequired:      true,
		PrivilegePoints: 3,
		Config:          map[string]any{"link": "https://example.com/blog"},
	})
	require.NoError(t, err)

	tasks, err := d.task.GetQuestTasks(ctx, &model.GetQuestTasksRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Len(t, tasks.Tasks, 1)
	require.Equal(t, "Visit our blog", tasks.Tasks[0].Title)
	require.True(t, tasks.Tasks[0].IsRequired)
	require.Equal(t, 3, tasks.Tasks[0].PrivilegePoints)

	// Status is only available to an authenticated caller.
	_, err = d.task.GetQuestTasks(ctx, &model.GetQuestTasksRequest{QuestID: quest.ID, WithStatus: true})
	requireErrorCode(t, err, errorx.Unauthenticated)

	d.joinAndComplete(t, ctx, quest, "user1", &entity.Task{Base: entity.Base{ID: created.ID}})

	_, err = d.task.Delete(creatorCtx, &model.DeleteTaskRequest{ID: created.ID})
	requireErrorCode(t, err, errorx.Unavailable)
}

func Test_taskDomain_Delete(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 1)
	task := testutil.NewTask("", 0, true, 0)
	testutil.InsertQuest(ctx, quest, task)

	creatorCtx := testutil.AsUser(ctx, testutil.QuestCreator)
	_, err := d.task.Delete(creatorCtx, &model.DeleteTaskRequest{ID: task.ID})
	require.NoError(t, err)

	tasks, err := d.task.GetQuestTasks(ctx, &model.GetQuestTasksRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Empty(t, tasks.Tasks)
}

func Test_taskDomain_EndedQuestIsNotEditable(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 1)
	task := testutil.NewTask("", 0, true, 0)
	testutil.InsertQuest(ctx, quest, task)
	endQuest(t, ctx, quest)

	_, err := d.task.Update(testutil.AsUser(ctx, testutil.QuestCreator), &model.UpdateTaskRequest{
		ID:     task.ID,
		Title:  "new",
		Config: map[string]any{"community_id": "community1"},
	})
	requireErrorCode(t, err, errorx.Unavailable)
}

func Test_taskDomain_NewRequiredTaskReopensParticipants(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 1)
	t1 := testutil.NewTask("", 0, true, 0)
	testutil.InsertQuest(ctx, quest, t1)

	p := d.joinAndComplete(t, ctx, quest, "user1", t1)
	require.Equal(t, "completed", p.Status)

	creatorCtx := testutil.AsUser(ctx, testutil.QuestCreator)
	created, err := d.task.Create(creatorCtx, &model.CreateTaskRequest{
		QuestID: quest.ID,
		CreateTaskData: model.CreateTaskData{
			Title:      "Visit our site",
			Type:       "visit_link",
			IsRequired: true,
			Config:     map[string]any{"link": "https://example.com"},
		},
	})
	require.NoError(t, err)

	participant, err := d.participantRepo.Get(ctx, "user1", quest.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ParticipantInProgress, participant.Status)
	require.False(t, participant.CompletedAt.Valid)

	resp, err := d.winner.SelectWinners(creatorCtx, &model.SelectWinnersRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Empty(t, resp.Winners)
	require.False(t, resp.WinnersSelected)

	_, err = d.submission.SubmitTask(testutil.AsUser(ctx, "user1"), &model.SubmitTaskRequest{
		QuestID: quest.ID,
		TaskID:  created.ID,
	})
	require.NoError(t, err)

	participant, err = d.participantRepo.Get(ctx, "user1", quest.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ParticipantCompleted, participant.Status)
	require.True(t, participant.CompletedAt.Valid)

	resp, err = d.winner.SelectWinners(creatorCtx, &model.SelectWinnersRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"user1"}, winnerUserIDs(resp.Winners))
}

func Test_taskDomain_UpdateRecomputesParticipants(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionLeaderboard, 1)
	t1 := testutil.NewTask("", 0, true, 5)
	t2 := testutil.NewTask("", 1, false, 0)
	testutil.InsertQuest(ctx, quest, t1, t2)

	d.joinAndComplete(t, ctx, quest, "user1", t1)

	invalidated := 0
	d.redisClient.ScanKeysFunc = func(ctx context.Context, pattern string) ([]string, error) {
		invalidated++
		return nil, nil
	}

	creatorCtx := testutil.AsUser(ctx, testutil.QuestCreator)
	_, err := d.task.Update(creatorCtx, &model.UpdateTaskRequest{
		ID:              t1.ID,
		Title:           t1.Title,
		IsRequired:      true,
		PrivilegePoints: 12,
		Config:          map[string]any{"community_id": "community1"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, invalidated)

	participant, err := d.participantRepo.Get(ctx, "user1", quest.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ParticipantCompleted, participant.Status)
	require.Equal(t, 12, participant.TotalPrivilegePoints)

	// The optional task becomes required, so user1 is no longer done.
	_, err = d.task.Update(creatorCtx, &model.UpdateTaskRequest{
		ID:         t2.ID,
		Title:      t2.Title,
		IsRequired: true,
		Config:     map[string]any{"community_id": "community1"},
	})
	require.NoError(t, err)

	participant, err = d.participantRepo.Get(ctx, "user1", quest.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ParticipantInProgress, participant.Status)
	require.False(t, participant.CompletedAt.Valid)
	require.Equal(t, 12, participant.TotalPrivilegePoints)

	resp, err := d.winner.SelectWinners(creatorCtx, &model.SelectWinnersRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Empty(t, resp.Winners)
}

func Test_taskDomain_DeleteRequiredTaskCompletesParticipants(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 1)
	t1 := testutil.NewTask("", 0, true, 0)
	t2 := testutil.NewTask("", 1, true, 0)
	testutil.InsertQuest(ctx, quest, t1, t2)

	p := d.joinAndComplete(t, ctx, quest, "user1", t1)
	require.Equal(t, "in_progress", p.Status)

	creatorCtx := testutil.AsUser(ctx, testutil.QuestCreator)
	before := time.Now().UTC().Add(-time.Second)
	_, err := d.task.Delete(creatorCtx, &model.DeleteTaskRequest{ID: t2.ID})
	require.NoError(t, err)

	participant, err := d.participantRepo.Get(ctx, "user1", quest.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ParticipantCompleted, participant.Status)
	require.True(t, participant.CompletedAt.Valid)
	require.True(t, participant.CompletedAt.Time.After(before))
	require.Equal(t, 1, participant.TotalTasksCompleted)

	resp, err := d.winner.SelectWinners(creatorCtx, &model.SelectWinnersRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"user1"}, winnerUserIDs(resp.Winners))
}
