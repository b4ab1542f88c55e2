package testutil

import (
	"context"

	"github.com/questx-lab/quest-engine/internal/client"
	"github.com/questx-lab/quest-engine/pkg/errorx"
)

type MockRewardTransferer struct {
	TransferFunc func(context.Context, client.RewardTransfer) (client.RewardTransferResult, error)
}

func (m *MockRewardTransferer) Transfer(
	ctx context.Context, transfer client.RewardTransfer,
) (client.RewardTransferResult, error) {
	if m.TransferFunc != nil {
		return m.TransferFunc(ctx, transfer)
	}

	return client.RewardTransferResult{}, errorx.New(errorx.NotImplemented, "Not implemented")
}

func (m *MockRewardTransferer) Close() {}
