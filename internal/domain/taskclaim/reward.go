package taskclaim

import (
	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RewardShare is what one winner receives from the reward pool of a quest.
type RewardShare struct {
	Type     entity.RewardType
	Amount   decimal.Decimal
	Currency string
	Note     string
}

// NeedWallet reports whether the share is transferred to a wallet address.
func (s RewardShare) NeedWallet() bool {
	return slices.Contains([]entity.RewardType{entity.TokenReward, entity.NFTReward}, s.Type)
}

// ComputeRewardShare splits token and point pools evenly across the winner
// slots, rounding down to places decimals. Every nft winner gets one unit and
// custom rewards carry only their description.
func ComputeRewardShare(pool entity.RewardPool, participantLimit int, places int32) RewardShare {
	share := RewardShare{
		Type:     pool.Type,
		Amount:   decimal.Zero,
		Currency: pool.Currency,
	}

	switch pool.Type {
	case entity.TokenReward, entity.PointsReward:
		if participantLimit > 0 {
			share.Amount = pool.Amount.Div(decimal.NewFromInt(int64(participantLimit))).RoundDown(places)
		}

	case entity.NFTReward:
		share.Amount = decimal.NewFromInt(1)

	case entity.CustomReward:
		share.Note = pool.CustomReward
	}

	return share
}
