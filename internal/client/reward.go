package client

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"github.com/shopspring/decimal"
)

type RewardTransfer struct {
	QuestID       string          `json:"quest_id"`
	ParticipantID string          `json:"participant_id"`
	UserID        string          `json:"user_id"`
	ToAddress     string          `json:"to_address"`
	RewardType    string          `json:"reward_type"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Note          string          `json:"note"`
}

type RewardTransferResult struct {
	TxHash string `json:"tx_hash"`
}

// RewardTransferer moves a reward to its recipient. How the transfer is
// executed is up to the remote service.
type RewardTransferer interface {
	Transfer(ctx context.Context, transfer RewardTransfer) (RewardTransferResult, error)
	Close()
}

type rewardTransferer struct {
	client *rpc.Client
}

func NewRewardTransferer(client *rpc.Client) *rewardTransferer {
	return &rewardTransferer{client: client}
}

func (c *rewardTransferer) Transfer(
	ctx context.Context, transfer RewardTransfer,
) (RewardTransferResult, error) {
	var result RewardTransferResult
	err := c.client.CallContext(ctx, &result, c.fname(ctx, "transfer"), transfer)
	if err != nil {
		return RewardTransferResult{}, err
	}

	return result, nil
}

func (c *rewardTransferer) Close() {
	c.client.Close()
}

func (c *rewardTransferer) fname(ctx context.Context, funcName string) string {
	return fmt.Sprintf("%s_%s", xcontext.Configs(ctx).Reward.RPCName, funcName)
}
