package entity

import "github.com/questx-lab/quest-engine/pkg/enum"

type TaskType string

var (
	TaskJoinCommunity    = enum.New(TaskType("join_community"))
	TaskFollowUser       = enum.New(TaskType("follow_user"))
	TaskSocialPost       = enum.New(TaskType("social_post"))
	TaskTwitterPost      = enum.New(TaskType("twitter_post"))
	TaskUploadScreenshot = enum.New(TaskType("upload_screenshot"))
	TaskNFTHold          = enum.New(TaskType("nft_hold"))
	TaskTokenHold        = enum.New(TaskType("token_hold"))
	TaskWalletConnect    = enum.New(TaskType("wallet_connect"))
	TaskVisitLink        = enum.New(TaskType("visit_link"))
	TaskText             = enum.New(TaskType("text"))
	TaskCustom           = enum.New(TaskType("custom"))
)

type Task struct {
	Base

	QuestID string `gorm:"index"`

	Title           string
	Description     string `gorm:"type:text"`
	Type            TaskType
	IsRequired      bool
	Order           int
	PrivilegePoints int
	Config          Map

	TotalCompletions int64
}
