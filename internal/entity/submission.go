package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/questx-lab/quest-engine/pkg/enum"
)

type SubmissionStatusType string

var (
	SubmissionPending  = enum.New(SubmissionStatusType("pending"))
	SubmissionApproved = enum.New(SubmissionStatusType("approved"))
	SubmissionRejected = enum.New(SubmissionStatusType("rejected"))
)

type SubmissionData struct {
	Text          string `json:"text,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	LinkURL       string `json:"link_url,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	TxHash        string `json:"tx_hash,omitempty"`
}

func (d *SubmissionData) Scan(value any) error {
	switch t := value.(type) {
	case string:
		return json.Unmarshal([]byte(t), d)
	case []byte:
		return json.Unmarshal(t, d)
	default:
		return fmt.Errorf("cannot scan invalid data type %T", value)
	}
}

func (d SubmissionData) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

type Submission struct {
	Base

	UserID  string `gorm:"uniqueIndex:idx_submission_user_quest_task"`
	QuestID string `gorm:"uniqueIndex:idx_submission_user_quest_task;index"`
	TaskID  string `gorm:"uniqueIndex:idx_submission_user_quest_task;index"`

	SubmissionData SubmissionData `gorm:"type:text"`
	Status         SubmissionStatusType
	SubmittedAt    time.Time
}
