package model

import "time"

type CreateQuestRequest struct {
	CommunityID      string           `json:"community_id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	SelectionMethod  string           `json:"selection_method"`
	ParticipantLimit int              `json:"participant_limit"`
	RewardPool       RewardPool       `json:"reward_pool"`
	Status           string           `json:"status"`
	Tasks            []CreateTaskData `json:"tasks"`
}

type CreateQuestResponse struct {
	ID string `json:"id"`
}

type StartQuestRequest struct {
	ID string `json:"id"`
}

type StartQuestResponse struct{}

type EndQuestRequest struct {
	ID string `json:"id"`
}

type EndQuestResponse struct{}

type CancelQuestRequest struct {
	ID string `json:"id"`
}

type CancelQuestResponse struct{}

type GetQuestRequest struct {
	ID string `json:"id"`
}

type GetQuestResponse Quest

type GetListQuestRequest struct {
	CommunityID string `json:"community_id"`
	Status      string `json:"status"`
	Offset      int    `json:"offset"`
	Limit       int    `json:"limit"`
}

type GetListQuestResponse struct {
	Quests []Quest `json:"quests"`
}
