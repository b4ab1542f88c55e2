package model

type SelectWinnersRequest struct {
	QuestID string `json:"quest_id"`
}

type SelectWinnersResponse struct {
	Winners         []Participant `json:"winners"`
	TotalWinners    int64         `json:"total_winners"`
	WinnersSelected bool          `json:"winners_selected"`
}

type SelectReplacementWinnersRequest struct {
	QuestID string `json:"quest_id"`
	Count   int    `json:"count"`
}

type SelectReplacementWinnersResponse struct {
	Winners         []Participant `json:"winners"`
	TotalWinners    int64         `json:"total_winners"`
	WinnersSelected bool          `json:"winners_selected"`

	// Shortfall is the number of requested replacements which could not be
	// selected because the eligible pool or the winner capacity ran out.
	Shortfall int `json:"shortfall"`
}

type DisqualifyParticipantRequest struct {
	QuestID       string `json:"quest_id"`
	ParticipantID string `json:"participant_id"`
	Reason        string `json:"reason"`
}

type DisqualifyParticipantResponse struct {
	Participant Participant `json:"participant"`
}
