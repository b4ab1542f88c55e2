package model

type JoinQuestRequest struct {
	QuestID       string `json:"quest_id"`
	WalletAddress string `json:"wallet_address"`
}

type JoinQuestResponse struct {
	Participant Participant `json:"participant"`
}

type CheckParticipationStatusRequest struct {
	QuestID string `json:"quest_id"`
}

type CheckParticipationStatusResponse struct {
	IsParticipating        bool         `json:"is_participating"`
	Participant            *Participant `json:"participant,omitempty"`
	CompletedRequiredTasks int          `json:"completed_required_tasks"`
	TotalRequiredTasks     int          `json:"total_required_tasks"`
	IsWinner               bool         `json:"is_winner"`
	RewardClaimed          bool         `json:"reward_claimed"`
}
