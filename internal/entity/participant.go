package entity

import (
	"database/sql"
	"time"

	"github.com/questx-lab/quest-engine/pkg/enum"
)

type ParticipantStatusType string

var (
	ParticipantRegistered   = enum.New(ParticipantStatusType("registered"))
	ParticipantInProgress   = enum.New(ParticipantStatusType("in_progress"))
	ParticipantCompleted    = enum.New(ParticipantStatusType("completed"))
	ParticipantWinner       = enum.New(ParticipantStatusType("winner"))
	ParticipantDisqualified = enum.New(ParticipantStatusType("disqualified"))
)

// EligibleStatuses are the statuses of participants who finished every
// required task.
var EligibleStatuses = []ParticipantStatusType{ParticipantCompleted, ParticipantWinner}

type Participant struct {
	Base

	UserID  string `gorm:"uniqueIndex:idx_participant_user_quest"`
	QuestID string `gorm:"uniqueIndex:idx_participant_user_quest;index"`

	Status               ParticipantStatusType
	JoinedAt             time.Time
	CompletedAt          sql.NullTime
	CompletedTasks       Array[string]
	TotalTasksCompleted  int
	TotalPrivilegePoints int
	IsWinner             bool
	RewardClaimed        bool
	WalletAddress        string

	DisqualifiedReason string
	DisqualifiedBy     string
	DisqualifiedAt     sql.NullTime

	Version int64
}

func (p *Participant) HasCompleted(taskID string) bool {
	for _, id := range p.CompletedTasks {
		if id == taskID {
			return true
		}
	}

	return false
}
