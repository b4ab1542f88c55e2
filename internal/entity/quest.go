package entity

import (
	"time"

	"github.com/questx-lab/quest-engine/pkg/enum"
	"github.com/shopspring/decimal"
)

type QuestStatusType string

var (
	QuestDraft     = enum.New(QuestStatusType("draft"))
	QuestActive    = enum.New(QuestStatusType("active"))
	QuestEnded     = enum.New(QuestStatusType("ended"))
	QuestCancelled = enum.New(QuestStatusType("cancelled"))
)

type SelectionMethodType string

var (
	SelectionFCFS        = enum.New(SelectionMethodType("fcfs"))
	SelectionRandom      = enum.New(SelectionMethodType("random"))
	SelectionLeaderboard = enum.New(SelectionMethodType("leaderboard"))
)

type RewardType string

var (
	TokenReward  = enum.New(RewardType("token"))
	NFTReward    = enum.New(RewardType("nft"))
	PointsReward = enum.New(RewardType("points"))
	CustomReward = enum.New(RewardType("custom"))
)

type RewardPool struct {
	Amount       decimal.Decimal `gorm:"type:decimal(36,18)"`
	Currency     string
	Type         RewardType
	CustomReward string
}

type Quest struct {
	Base

	CommunityID string `gorm:"index"`
	CreatedBy   string

	Title       string
	Description string `gorm:"type:text"`
	StartDate   time.Time
	EndDate     time.Time

	SelectionMethod  SelectionMethodType
	ParticipantLimit int
	RewardPool       RewardPool `gorm:"embedded;embeddedPrefix:reward_"`

	Status            QuestStatusType
	TotalParticipants int64
	TotalSubmissions  int64
	WinnersSelected   bool

	// Version is bumped by every write which must not interleave with winner
	// selection.
	Version int64
}

// EffectiveStatus reports ended for an active quest whose end date has
// passed. The stored status is only changed by explicit admin actions.
func (q *Quest) EffectiveStatus(now time.Time) QuestStatusType {
	if q.Status == QuestActive && !now.Before(q.EndDate) {
		return QuestEnded
	}

	return q.Status
}
