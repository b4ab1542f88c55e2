package domain

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/internal/model"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func winnerUserIDs(ps []model.Participant) []string {
	ids := []string{}
	for _, p := range ps {
		ids = append(ids, p.UserID)
	}
	sort.Strings(ids)
	return ids
}

// Scenario A: fcfs picks the two earliest completers.
func Test_winnerDomain_SelectWinners_FCFS(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 2)
	testutil.InsertQuest(ctx, quest)

	t1 := time.Now().UTC().Add(-30 * time.Minute)
	testutil.InsertCompletedParticipant(ctx, quest, "user3", t1.Add(2*time.Minute), 0)
	testutil.InsertCompletedParticipant(ctx, quest, "user1", t1, 0)
	testutil.InsertCompletedParticipant(ctx, quest, "user2", t1.Add(time.Minute), 0)

	adminCtx := testutil.AsUser(ctx, testutil.QuestCreator)
	resp, err := d.winner.SelectWinners(adminCtx, &model.SelectWinnersRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"user1", "user2"}, winnerUserIDs(resp.Winners))
	require.EqualValues(t, 2, resp.TotalWinners)
	require.True(t, resp.WinnersSelected)
	require.True(t, d.getQuest(t, ctx, quest.ID).WinnersSelected)

	// Re-running is a no-op success.
	resp, err = d.winner.SelectWinners(adminCtx, &model.SelectWinnersRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Empty(t, resp.Winners)
	require.EqualValues(t, 2, resp.TotalWinners)

	winners, err := d.participantRepo.GetWinners(ctx, quest.ID)
	require.NoError(t, err)
	require.Len(t, winners, 2)
	for _, w := range winners {
		require.Equal(t, entity.ParticipantWinner, w.Status)
	}
}

func Test_winnerDomain_SelectWinners_Deterministic(t *testing.T) {
	base := time.Now().UTC().Add(-30 * time.Minute)

	var previous []string
	for i := 0; i < 3; i++ {
		ctx := testutil.MockContext()
		d := newTestDomains()

		quest := testutil.NewQuest(entity.SelectionFCFS, 3)
		testutil.InsertQuest(ctx, quest)
		for j, user := range []string{"a", "b", "c", "d", "e"} {
			testutil.InsertCompletedParticipant(ctx, quest, user, base.Add(time.Duration(5-j)*time.Second), 0)
		}

		resp, err := d.winner.SelectWinners(testutil.AsUser(ctx, testutil.QuestCreator),
			&model.SelectWinnersRequest{QuestID: quest.ID})
		require.NoError(t, err)

		ids := winnerUserIDs(resp.Winners)
		require.Equal(t, []string{"c", "d", "e"}, ids)
		if previous != nil {
			require.Equal(t, previous, ids)
		}
		previous = ids
	}
}

func Test_winnerDomain_SelectWinners_Leaderboard(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionLeaderboard, 2)
	testutil.InsertQuest(ctx, quest)

	base := time.Now().UTC().Add(-30 * time.Minute)
	testutil.InsertCompletedParticipant(ctx, quest, "low", base, 5)
	testutil.InsertCompletedParticipant(ctx, quest, "late-high", base.Add(2*time.Minute), 30)
	testutil.InsertCompletedParticipant(ctx, quest, "early-high", base.Add(time.Minute), 30)
	testutil.InsertCompletedParticipant(ctx, quest, "mid", base, 20)

	resp, err := d.winner.SelectWinners(testutil.AsUser(ctx, testutil.QuestCreator),
		&model.SelectWinnersRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"early-high", "late-high"}, winnerUserIDs(resp.Winners))
}

func Test_winnerDomain_SelectWinners_Random(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionRandom, 3)
	testutil.InsertQuest(ctx, quest)

	base := time.Now().UTC().Add(-30 * time.Minute)
	users := []string{"a", "b", "c", "d", "e", "f"}
	for i, user := range users {
		testutil.InsertCompletedParticipant(ctx, quest, user, base.Add(time.Duration(i)*time.Second), 0)
	}

	resp, err := d.winner.SelectWinners(testutil.AsUser(ctx, testutil.QuestCreator),
		&model.SelectWinnersRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Len(t, resp.Winners, 3)
	for _, id := range winnerUserIDs(resp.Winners) {
		require.Contains(t, users, id)
	}
}

func Test_winnerDomain_SelectWinners_OnlyEligible(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 3)
	task := testutil.NewTask("", 0, true, 0)
	testutil.InsertQuest(ctx, quest, task)

	d.joinAndComplete(t, ctx, quest, "done", task)

	// Joined but did not finish the required task.
	_, err := d.participant.Join(testutil.AsUser(ctx, "idle"), &model.JoinQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	resp, err := d.winner.SelectWinners(testutil.AsUser(ctx, testutil.QuestCreator),
		&model.SelectWinnersRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"done"}, winnerUserIDs(resp.Winners))

	// Quest is still running with free slots.
	require.False(t, resp.WinnersSelected)

	// Once the quest ended with an exhausted pool, selection is complete.
	endQuest(t, ctx, quest)
	resp, err = d.winner.SelectWinners(testutil.AsUser(ctx, testutil.QuestCreator),
		&model.SelectWinnersRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Empty(t, resp.Winners)
	require.True(t, resp.WinnersSelected)
}

func Test_winnerDomain_SelectWinners_Permission(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 1)
	testutil.InsertQuest(ctx, quest)

	_, err := d.winner.SelectWinners(testutil.AsUser(ctx, "user1"), &model.SelectWinnersRequest{QuestID: quest.ID})
	requireErrorCode(t, err, errorx.PermissionDenied)

	_, err = d.winner.SelectWinners(testutil.AsAdmin(ctx, testutil.Admin), &model.SelectWinnersRequest{QuestID: quest.ID})
	require.NoError(t, err)

	cancelled := testutil.NewQuest(entity.SelectionFCFS, 1)
	cancelled.Status = entity.QuestCancelled
	testutil.InsertQuest(ctx, cancelled)
	_, err = d.winner.SelectWinners(testutil.AsAdmin(ctx, testutil.Admin), &model.SelectWinnersRequest{QuestID: cancelled.ID})
	requireErrorCode(t, err, errorx.Unavailable)
}

func Test_winnerDomain_SelectWinners_ConcurrentCap(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionRandom, 3)
	testutil.InsertQuest(ctx, quest)

	base := time.Now().UTC().Add(-30 * time.Minute)
	for i := 0; i < 10; i++ {
		testutil.InsertCompletedParticipant(ctx, quest, string(rune('a'+i)), base.Add(time.Duration(i)*time.Second), 0)
	}

	adminCtx := testutil.AsUser(ctx, testutil.QuestCreator)
	errs := make([]error, 5)
	wg := sync.WaitGroup{}
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = d.winner.SelectWinners(adminCtx, &model.SelectWinnersRequest{QuestID: quest.ID})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			requireErrorCode(t, err, errorx.AlreadyExists)
		}
	}

	count, err := d.participantRepo.CountWinners(ctx, quest.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)
}

// Scenario D: a disqualified winner is replaced by the next eligible one.
func Test_winnerDomain_DisqualifyAndReplace(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 1)
	testutil.InsertQuest(ctx, quest)

	base := time.Now().UTC().Add(-30 * time.Minute)
	w := testutil.InsertCompletedParticipant(ctx, quest, "w", base, 0)
	testutil.InsertCompletedParticipant(ctx, quest, "next", base.Add(time.Minute), 0)

	adminCtx := testutil.AsUser(ctx, testutil.QuestCreator)
	resp, err := d.winner.SelectWinners(adminCtx, &model.SelectWinnersRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"w"}, winnerUserIDs(resp.Winners))

	disqualified, err := d.winner.DisqualifyParticipant(adminCtx, &model.DisqualifyParticipantRequest{
		QuestID:       quest.ID,
		ParticipantID: w.ID,
		Reason:        "sybil",
	})
	require.NoError(t, err)
	require.Equal(t, "disqualified", disqualified.Participant.Status)
	require.False(t, disqualified.Participant.IsWinner)
	require.Equal(t, "sybil", disqualified.Participant.DisqualifiedReason)
	require.Equal(t, testutil.QuestCreator, disqualified.Participant.DisqualifiedBy)
	require.False(t, d.getQuest(t, ctx, quest.ID).WinnersSelected)

	// Disqualifying twice changes nothing.
	again, err := d.winner.DisqualifyParticipant(adminCtx, &model.DisqualifyParticipantRequest{
		QuestID:       quest.ID,
		ParticipantID: w.ID,
		Reason:        "other reason",
	})
	require.NoError(t, err)
	require.Equal(t, "sybil", again.Participant.DisqualifiedReason)

	replacement, err := d.winner.SelectReplacementWinners(adminCtx, &model.SelectReplacementWinnersRequest{
		QuestID: quest.ID,
		Count:   1,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"next"}, winnerUserIDs(replacement.Winners))
	require.Equal(t, 0, replacement.Shortfall)
	require.True(t, replacement.WinnersSelected)

	dbW, err := d.participantRepo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	require.False(t, dbW.IsWinner)
	require.Equal(t, entity.ParticipantDisqualified, dbW.Status)
}

func Test_winnerDomain_SelectReplacementWinners_Shortfall(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 3)
	testutil.InsertQuest(ctx, quest)

	base := time.Now().UTC().Add(-30 * time.Minute)
	testutil.InsertCompletedParticipant(ctx, quest, "a", base, 0)

	adminCtx := testutil.AsUser(ctx, testutil.QuestCreator)
	resp, err := d.winner.SelectReplacementWinners(adminCtx, &model.SelectReplacementWinnersRequest{
		QuestID: quest.ID,
		Count:   2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Winners, 1)
	require.Equal(t, 1, resp.Shortfall)

	_, err = d.winner.SelectReplacementWinners(adminCtx, &model.SelectReplacementWinnersRequest{
		QuestID: quest.ID,
	})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_winnerDomain_SelectReplacementWinners_Capacity(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 1)
	testutil.InsertQuest(ctx, quest)

	base := time.Now().UTC().Add(-30 * time.Minute)
	testutil.InsertCompletedParticipant(ctx, quest, "a", base, 0)
	testutil.InsertCompletedParticipant(ctx, quest, "b", base.Add(time.Second), 0)
	testutil.InsertCompletedParticipant(ctx, quest, "c", base.Add(2*time.Second), 0)

	adminCtx := testutil.AsUser(ctx, testutil.QuestCreator)
	_, err := d.winner.SelectWinners(adminCtx, &model.SelectWinnersRequest{QuestID: quest.ID})
	require.NoError(t, err)

	// No winner slot is free, nothing is selected.
	resp, err := d.winner.SelectReplacementWinners(adminCtx, &model.SelectReplacementWinnersRequest{
		QuestID: quest.ID,
		Count:   2,
	})
	require.NoError(t, err)
	require.Empty(t, resp.Winners)
	require.Equal(t, 2, resp.Shortfall)

	count, err := d.participantRepo.CountWinners(ctx, quest.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func Test_winnerDomain_DisqualifyParticipant_NotFound(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains()

	quest := testutil.NewQuest(entity.SelectionFCFS, 1)
	testutil.InsertQuest(ctx, quest)
	other := testutil.NewQuest(entity.SelectionFCFS, 1)
	testutil.InsertQuest(ctx, other)

	p := testutil.InsertCompletedParticipant(ctx, other, "a", time.Now().UTC(), 0)

	adminCtx := testutil.AsUser(ctx, testutil.QuestCreator)
	_, err := d.winner.DisqualifyParticipant(adminCtx, &model.DisqualifyParticipantRequest{
		QuestID:       quest.ID,
		ParticipantID: p.ID,
	})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = d.winner.DisqualifyParticipant(adminCtx, &model.DisqualifyParticipantRequest{
		QuestID:       quest.ID,
		ParticipantID: "unknown",
	})
	requireErrorCode(t, err, errorx.NotFound)
}
