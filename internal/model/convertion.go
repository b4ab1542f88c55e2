package model

import (
	"database/sql"
	"time"

	"github.com/questx-lab/quest-engine/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func formatNullTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}

	return t.Time.Format(DefaultTimeLayout)
}

func ConvertRewardPool(pool entity.RewardPool) RewardPool {
	return RewardPool{
		Amount:       pool.Amount.String(),
		Currency:     pool.Currency,
		Type:         string(pool.Type),
		CustomReward: pool.CustomReward,
	}
}

// ConvertQuest reports the effective status of quest at now.
func ConvertQuest(quest *entity.Quest, now time.Time, tasks ...Task) Quest {
	if quest == nil {
		return Quest{}
	}

	return Quest{
		ID:                quest.ID,
		CommunityID:       quest.CommunityID,
		CreatedBy:         quest.CreatedBy,
		Title:             quest.Title,
		Description:       quest.Description,
		StartDate:         quest.StartDate.Format(DefaultTimeLayout),
		EndDate:           quest.EndDate.Format(DefaultTimeLayout),
		SelectionMethod:   string(quest.SelectionMethod),
		ParticipantLimit:  quest.ParticipantLimit,
		RewardPool:        ConvertRewardPool(quest.RewardPool),
		Status:            string(quest.EffectiveStatus(now)),
		TotalParticipants: quest.TotalParticipants,
		TotalSubmissions:  quest.TotalSubmissions,
		WinnersSelected:   quest.WinnersSelected,
		Tasks:             tasks,
		CreatedAt:         quest.CreatedAt.Format(DefaultTimeLayout),
		UpdatedAt:         quest.UpdatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertTask(task *entity.Task) Task {
	if task == nil {
		return Task{}
	}

	return Task{
		ID:               task.ID,
		QuestID:          task.QuestID,
		Title:            task.Title,
		Description:      task.Description,
		Type:             string(task.Type),
		IsRequired:       task.IsRequired,
		Order:            task.Order,
		PrivilegePoints:  task.PrivilegePoints,
		Config:           task.Config,
		TotalCompletions: task.TotalCompletions,
	}
}

func ConvertParticipant(p *entity.Participant) Participant {
	if p == nil {
		return Participant{}
	}

	completedTasks := []string(p.CompletedTasks)
	if completedTasks == nil {
		completedTasks = []string{}
	}

	return Participant{
		ID:                   p.ID,
		UserID:               p.UserID,
		QuestID:              p.QuestID,
		Status:               string(p.Status),
		JoinedAt:             p.JoinedAt.Format(DefaultTimeLayout),
		CompletedAt:          formatNullTime(p.CompletedAt),
		CompletedTasks:       completedTasks,
		TotalTasksCompleted:  p.TotalTasksCompleted,
		TotalPrivilegePoints: p.TotalPrivilegePoints,
		IsWinner:             p.IsWinner,
		RewardClaimed:        p.RewardClaimed,
		WalletAddress:        p.WalletAddress,
		DisqualifiedReason:   p.DisqualifiedReason,
		DisqualifiedBy:       p.DisqualifiedBy,
		DisqualifiedAt:       formatNullTime(p.DisqualifiedAt),
	}
}

func ConvertParticipants(ps []entity.Participant) []Participant {
	result := []Participant{}
	for i := range ps {
		result = append(result, ConvertParticipant(&ps[i]))
	}

	return result
}

func ConvertSubmissionData(d entity.SubmissionData) SubmissionData {
	return SubmissionData{
		Text:          d.Text,
		ImageURL:      d.ImageURL,
		LinkURL:       d.LinkURL,
		WalletAddress: d.WalletAddress,
		TxHash:        d.TxHash,
	}
}

func ConvertSubmission(s *entity.Submission) Submission {
	if s == nil {
		return Submission{}
	}

	return Submission{
		ID:             s.ID,
		UserID:         s.UserID,
		QuestID:        s.QuestID,
		TaskID:         s.TaskID,
		SubmissionData: ConvertSubmissionData(s.SubmissionData),
		Status:         string(s.Status),
		SubmittedAt:    s.SubmittedAt.Format(DefaultTimeLayout),
	}
}

func ConvertPayReward(p *entity.PayReward) PayReward {
	if p == nil {
		return PayReward{}
	}

	return PayReward{
		ID:            p.ID,
		QuestID:       p.QuestID,
		ParticipantID: p.ParticipantID,
		ToUserID:      p.ToUserID,
		ToAddress:     p.ToAddress,
		Type:          string(p.Type),
		Amount:        p.Amount.String(),
		Currency:      p.Currency,
		Note:          p.Note,
		TxHash:        p.TxHash,
		Status:        string(p.Status),
		FailureReason: p.FailureReason,
	}
}

func ConvertLeaderboardEntry(rank int, p *entity.Participant) LeaderboardEntry {
	return LeaderboardEntry{
		Rank:                 rank,
		ParticipantID:        p.ID,
		UserID:               p.UserID,
		TotalPrivilegePoints: p.TotalPrivilegePoints,
		TotalTasksCompleted:  p.TotalTasksCompleted,
		CompletedAt:          formatNullTime(p.CompletedAt),
		IsWinner:             p.IsWinner,
	}
}
