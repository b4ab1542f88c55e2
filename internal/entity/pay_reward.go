package entity

import (
	"github.com/questx-lab/quest-engine/pkg/enum"
	"github.com/shopspring/decimal"
)

type PayRewardStatusType string

var (
	PayRewardSuccess = enum.New(PayRewardStatusType("success"))
	PayRewardFailed  = enum.New(PayRewardStatusType("failed"))
)

// PayReward is the audit record of one reward transfer attempt.
type PayReward struct {
	Base

	QuestID       string `gorm:"index"`
	ParticipantID string `gorm:"index"`

	ToUserID  string
	ToAddress string

	Type     RewardType
	Amount   decimal.Decimal `gorm:"type:decimal(36,18)"`
	Currency string
	Note     string

	TxHash        string
	Status        PayRewardStatusType
	FailureReason string
}
