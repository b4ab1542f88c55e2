package statistic_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/questx-lab/quest-engine/internal/domain/statistic"
	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/internal/repository"
	"github.com/questx-lab/quest-engine/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestLeaderboard_CacheMiss(t *testing.T) {
	ctx := testutil.MockContext()
	quest := testutil.NewQuest(entity.SelectionLeaderboard, 3)
	testutil.InsertQuest(ctx, quest)

	now := time.Now().UTC()
	testutil.InsertCompletedParticipant(ctx, quest, "a", now, 10)
	testutil.InsertCompletedParticipant(ctx, quest, "b", now, 30)
	testutil.InsertCompletedParticipant(ctx, quest, "c", now, 20)

	var cachedKey string
	redisClient := &testutil.MockRedisClient{
		SetObjFunc: func(ctx context.Context, key string, obj any, ttl time.Duration) error {
			cachedKey = key
			return errors.New("redis is down")
		},
	}

	lb := statistic.New(repository.NewParticipantRepository(), redisClient)
	entries, err := lb.GetLeaderboard(ctx, quest.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "c", entries[0].UserID)
	require.Equal(t, 2, entries[0].Rank)
	require.Equal(t, "a", entries[1].UserID)
	require.Equal(t, 3, entries[1].Rank)
	require.Contains(t, cachedKey, quest.ID)
}

func TestLeaderboard_Invalidate(t *testing.T) {
	ctx := testutil.MockContext()

	var deleted []string
	redisClient := &testutil.MockRedisClient{
		ScanKeysFunc: func(ctx context.Context, pattern string) ([]string, error) {
			require.Equal(t, "leaderboard:quest1:*", pattern)
			return []string{"leaderboard:quest1:0:10", "leaderboard:quest1:10:10"}, nil
		},
		DelFunc: func(ctx context.Context, keys ...string) error {
			deleted = keys
			return nil
		},
	}

	lb := statistic.New(repository.NewParticipantRepository(), redisClient)
	lb.Invalidate(ctx, "quest1")
	require.Equal(t, []string{"leaderboard:quest1:0:10", "leaderboard:quest1:10:10"}, deleted)

	// Cache failures are swallowed.
	redisClient.ScanKeysFunc = func(ctx context.Context, pattern string) ([]string, error) {
		return nil, errors.New("redis is down")
	}
	deleted = nil
	lb.Invalidate(ctx, "quest1")
	require.Nil(t, deleted)
}
