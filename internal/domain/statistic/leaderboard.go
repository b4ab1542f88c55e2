package statistic

import (
	"context"
	"errors"

	"github.com/questx-lab/quest-engine/internal/common"
	"github.com/questx-lab/quest-engine/internal/model"
	"github.com/questx-lab/quest-engine/internal/repository"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"github.com/questx-lab/quest-engine/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

type Leaderboard interface {
	// GetLeaderboard returns a page of ranked entries of a quest. Ranks start
	// at offset+1.
	GetLeaderboard(ctx context.Context, questID string, offset, limit int) ([]model.LeaderboardEntry, error)

	// Invalidate drops every cached page of a quest. It never fails, cache
	// errors are only logged.
	Invalidate(ctx context.Context, questID string)
}

type leaderboard struct {
	participantRepo repository.ParticipantRepository
	redisClient     xredis.Client
}

func New(
	participantRepo repository.ParticipantRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{participantRepo: participantRepo, redisClient: redisClient}
}

func (l *leaderboard) GetLeaderboard(
	ctx context.Context, questID string, offset, limit int,
) ([]model.LeaderboardEntry, error) {
	key := common.RedisKeyLeaderboardPage(questID, offset, limit)

	entries := []model.LeaderboardEntry{}
	err := l.redisClient.GetObj(ctx, key, &entries)
	if err == nil {
		return entries, nil
	}

	if !errors.Is(err, redis.Nil) {
		xcontext.Logger(ctx).Warnf("Cannot get leaderboard from redis: %v", err)
	}

	participants, err := l.participantRepo.GetLeaderboard(ctx, questID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard from database: %v", err)
		return nil, errorx.Unknown
	}

	entries = []model.LeaderboardEntry{}
	for i := range participants {
		entries = append(entries, model.ConvertLeaderboardEntry(offset+i+1, &participants[i]))
	}

	ttl := xcontext.Configs(ctx).Redis.LeaderboardTTL
	if err := l.redisClient.SetObj(ctx, key, entries, ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot save leaderboard to redis: %v", err)
	}

	return entries, nil
}

func (l *leaderboard) Invalidate(ctx context.Context, questID string) {
	keys, err := l.redisClient.ScanKeys(ctx, common.RedisKeyLeaderboardPattern(questID))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get leaderboard keys: %v", err)
		return
	}

	if err := l.redisClient.Del(ctx, keys...); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot delete leaderboard keys: %v", err)
	}
}
