package model

type DistributeRewardsRequest struct {
	QuestID string `json:"quest_id"`
}

type RewardDistributionResult struct {
	ParticipantID string `json:"participant_id"`
	UserID        string `json:"user_id"`
	Success       bool   `json:"success"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency,omitempty"`
	TxHash        string `json:"tx_hash,omitempty"`
	ErrorCode     int64  `json:"error_code,omitempty"`
	Error         string `json:"error,omitempty"`
}

type DistributeRewardsResponse struct {
	Results []RewardDistributionResult `json:"results"`
}

type GetPayRewardsRequest struct {
	QuestID string `json:"quest_id"`
}

type GetPayRewardsResponse struct {
	PayRewards []PayReward `json:"pay_rewards"`
}
