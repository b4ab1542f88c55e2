package common

import "fmt"

func RedisKeyLeaderboardPage(questID string, offset, limit int) string {
	return fmt.Sprintf("leaderboard:%s:%d:%d", questID, offset, limit)
}

func RedisKeyLeaderboardPattern(questID string) string {
	return fmt.Sprintf("leaderboard:%s:*", questID)
}
