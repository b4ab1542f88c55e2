package model

type AccessToken struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

type RewardPool struct {
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	Type         string `json:"type"`
	CustomReward string `json:"custom_reward,omitempty"`
}

type Quest struct {
	ID                string     `json:"id"`
	CommunityID       string     `json:"community_id"`
	CreatedBy         string     `json:"created_by"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	StartDate         string     `json:"start_date"`
	EndDate           string     `json:"end_date"`
	SelectionMethod   string     `json:"selection_method"`
	ParticipantLimit  int        `json:"participant_limit"`
	RewardPool        RewardPool `json:"reward_pool"`
	Status            string     `json:"status"`
	TotalParticipants int64      `json:"total_participants"`
	TotalSubmissions  int64      `json:"total_submissions"`
	WinnersSelected   bool       `json:"winners_selected"`
	Tasks             []Task     `json:"tasks,omitempty"`
	CreatedAt         string     `json:"created_at"`
	UpdatedAt         string     `json:"updated_at"`
}

type Task struct {
	ID               string         `json:"id"`
	QuestID          string         `json:"quest_id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Type             string         `json:"type"`
	IsRequired       bool           `json:"is_required"`
	Order            int            `json:"order"`
	PrivilegePoints  int            `json:"privilege_points"`
	Config           map[string]any `json:"config"`
	TotalCompletions int64          `json:"total_completions"`

	// Only set when the caller asks for its own progress.
	Completed        bool   `json:"completed,omitempty"`
	SubmissionStatus string `json:"submission_status,omitempty"`
}

type Participant struct {
	ID                   string   `json:"id"`
	UserID               string   `json:"user_id"`
	QuestID              string   `json:"quest_id"`
	Status               string   `json:"status"`
	JoinedAt             string   `json:"joined_at"`
	CompletedAt          string   `json:"completed_at,omitempty"`
	CompletedTasks       []string `json:"completed_tasks"`
	TotalTasksCompleted  int      `json:"total_tasks_completed"`
	TotalPrivilegePoints int      `json:"total_privilege_points"`
	IsWinner             bool     `json:"is_winner"`
	RewardClaimed        bool     `json:"reward_claimed"`
	WalletAddress        string   `json:"wallet_address,omitempty"`
	DisqualifiedReason   string   `json:"disqualified_reason,omitempty"`
	DisqualifiedBy       string   `json:"disqualified_by,omitempty"`
	DisqualifiedAt       string   `json:"disqualified_at,omitempty"`
}

type SubmissionData struct {
	Text          string `json:"text,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	LinkURL       string `json:"link_url,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	TxHash        string `json:"tx_hash,omitempty"`
}

type Submission struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	QuestID        string         `json:"quest_id"`
	TaskID         string         `json:"task_id"`
	SubmissionData SubmissionData `json:"submission_data"`
	Status         string         `json:"status"`
	SubmittedAt    string         `json:"submitted_at"`
}

type PayReward struct {
	ID            string `json:"id"`
	QuestID       string `json:"quest_id"`
	ParticipantID string `json:"participant_id"`
	ToUserID      string `json:"to_user_id"`
	ToAddress     string `json:"to_address,omitempty"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency,omitempty"`
	Note          string `json:"note,omitempty"`
	TxHash        string `json:"tx_hash,omitempty"`
	Status        string `json:"status"`
	FailureReason string `json:"failure_reason,omitempty"`
}
