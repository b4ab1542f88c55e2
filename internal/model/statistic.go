package model

type TaskStatistic struct {
	TaskID         string  `json:"task_id"`
	Title          string  `json:"title"`
	Completions    int64   `json:"completions"`
	CompletionRate float64 `json:"completion_rate"`
}

type GetQuestStatsRequest struct {
	QuestID string `json:"quest_id"`
}

type GetQuestStatsResponse struct {
	TotalParticipants     int64           `json:"total_participants"`
	TotalSubmissions      int64           `json:"total_submissions"`
	CompletedParticipants int64           `json:"completed_participants"`
	Winners               int64           `json:"winners"`
	Disqualified          int64           `json:"disqualified"`
	Tasks                 []TaskStatistic `json:"tasks"`
}

type LeaderboardEntry struct {
	Rank                 int    `json:"rank"`
	ParticipantID        string `json:"participant_id"`
	UserID               string `json:"user_id"`
	TotalPrivilegePoints int    `json:"total_privilege_points"`
	TotalTasksCompleted  int    `json:"total_tasks_completed"`
	CompletedAt          string `json:"completed_at,omitempty"`
	IsWinner             bool   `json:"is_winner"`
}

type GetLeaderboardRequest struct {
	QuestID string `json:"quest_id"`
	Offset  int    `json:"offset"`
	Limit   int    `json:"limit"`
}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}
