package domain

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/questx-lab/quest-engine/internal/client"
	"github.com/questx-lab/quest-engine/internal/common"
	"github.com/questx-lab/quest-engine/internal/domain/taskclaim"
	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/internal/model"
	"github.com/questx-lab/quest-engine/internal/repository"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

type RewardDomain interface {
	DistributeRewards(context.Context, *model.DistributeRewardsRequest) (*model.DistributeRewardsResponse, error)
	GetPayRewards(context.Context, *model.GetPayRewardsRequest) (*model.GetPayRewardsResponse, error)
}

type rewardDomain struct {
	questRepo        repository.QuestRepository
	participantRepo  repository.ParticipantRepository
	payRewardRepo    repository.PayRewardRepository
	roleVerifier     *common.QuestRoleVerifier
	rewardTransferer client.RewardTransferer
	publisher        *EventPublisher
}

func NewRewardDomain(
	questRepo repository.QuestRepository,
	participantRepo repository.ParticipantRepository,
	payRewardRepo repository.PayRewardRepository,
	roleVerifier *common.QuestRoleVerifier,
	rewardTransferer client.RewardTransferer,
	publisher *EventPublisher,
) *rewardDomain {
	return &rewardDomain{
		questRepo:        questRepo,
		participantRepo:  participantRepo,
		payRewardRepo:    payRewardRepo,
		roleVerifier:     roleVerifier,
		rewardTransferer: rewardTransferer,
		publisher:        publisher,
	}
}

func (d *rewardDomain) DistributeRewards(
	ctx context.Context, req *model.DistributeRewardsRequest,
) (*model.DistributeRewardsResponse, error) {
	quest, err := getQuest(ctx, d.questRepo, req.QuestID)
	if err != nil {
		return nil, err
	}

	if err := d.roleVerifier.Verify(ctx, quest); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify permission: %v", err)
		return nil, err
	}

	if !quest.WinnersSelected {
		return nil, errorx.New(errorx.Unavailable, "Winners have not been selected yet")
	}

	winners, err := d.participantRepo.GetWinners(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get winners: %v", err)
		return nil, errorx.Unknown
	}

	cfg := xcontext.Configs(ctx).Reward
	share := taskclaim.ComputeRewardShare(quest.RewardPool, quest.ParticipantLimit, cfg.DecimalPlaces)

	mutex := sync.Mutex{}
	results := []model.RewardDistributionResult{}

	g := errgroup.Group{}
	if cfg.MaxConcurrentTransfers > 0 {
		g.SetLimit(cfg.MaxConcurrentTransfers)
	}

	for i := range winners {
		winner := winners[i]
		if winner.RewardClaimed {
			continue
		}

		g.Go(func() error {
			result := d.distribute(ctx, quest, &winner, share)

			mutex.Lock()
			defer mutex.Unlock()
			results = append(results, result)
			return nil
		})
	}

	// Every winner is isolated, the group never returns an error.
	_ = g.Wait()

	return &model.DistributeRewardsResponse{Results: results}, nil
}

// distribute transfers the share of one winner. The winner is claimed before
// the transfer so that concurrent distributions never pay it twice. A failure
// only affects this winner, releases the claim and is reported in the result.
func (d *rewardDomain) distribute(
	ctx context.Context,
	quest *entity.Quest,
	winner *entity.Participant,
	share taskclaim.RewardShare,
) model.RewardDistributionResult {
	result := model.RewardDistributionResult{
		ParticipantID: winner.ID,
		UserID:        winner.UserID,
		Amount:        share.Amount.String(),
		Currency:      share.Currency,
	}

	payReward := &entity.PayReward{
		Base:          entity.Base{ID: uuid.NewString()},
		QuestID:       quest.ID,
		ParticipantID: winner.ID,
		ToUserID:      winner.UserID,
		ToAddress:     winner.WalletAddress,
		Type:          share.Type,
		Amount:        share.Amount,
		Currency:      share.Currency,
		Note:          share.Note,
	}

	fail := func(err error) model.RewardDistributionResult {
		common.PromCounters[common.RewardTransferFailure].WithLabelValues(string(share.Type)).Inc()

		payReward.Status = entity.PayRewardFailed
		payReward.FailureReason = err.Error()
		if err := d.payRewardRepo.Create(ctx, payReward); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record failed pay reward: %v", err)
		}

		d.publisher.Publish(ctx, EventRewardFailed, quest.ID, winner.UserID, map[string]any{
			"participant_id": winner.ID,
			"error":          err.Error(),
		})

		var errx errorx.Error
		if !errors.As(err, &errx) {
			errx = errorx.New(errorx.DependencyFailure, "Cannot transfer reward: %v", err)
		}

		result.Success = false
		result.ErrorCode = int64(errx.Code)
		result.Error = errx.Message
		return result
	}

	if share.NeedWallet() && winner.WalletAddress == "" {
		return fail(errorx.New(errorx.BadRequest, "Winner has no wallet address"))
	}

	if err := d.participantRepo.MarkRewardClaimed(ctx, winner.ID); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			result.ErrorCode = int64(errorx.AlreadyExists)
			result.Error = "Reward already claimed"
			return result
		}

		xcontext.Logger(ctx).Errorf("Cannot claim reward of participant %s: %v", winner.ID, err)
		result.ErrorCode = int64(errorx.Unknown.Code)
		result.Error = errorx.Unknown.Message
		return result
	}

	transfer, err := d.rewardTransferer.Transfer(ctx, client.RewardTransfer{
		QuestID:       quest.ID,
		ParticipantID: winner.ID,
		UserID:        winner.UserID,
		ToAddress:     winner.WalletAddress,
		RewardType:    string(share.Type),
		Amount:        share.Amount,
		Currency:      share.Currency,
		Note:          share.Note,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot transfer reward to participant %s: %v", winner.ID, err)
		if err := d.participantRepo.ReleaseRewardClaim(ctx, winner.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot release reward claim of participant %s: %v", winner.ID, err)
		}

		return fail(errorx.New(errorx.DependencyFailure, "Cannot transfer reward: %v", err))
	}

	// The transfer already happened, the claim stays even if the audit row
	// cannot be written.
	payReward.TxHash = transfer.TxHash
	payReward.Status = entity.PayRewardSuccess
	if err := d.payRewardRepo.Create(ctx, payReward); err != nil {
		xcontext.Logger(ctx).Errorf(
			"Cannot record pay reward of participant %s (tx %s, amount %s %s): %v",
			winner.ID, transfer.TxHash, share.Amount, share.Currency, err)
	}

	d.publisher.Publish(ctx, EventRewardDistributed, quest.ID, winner.UserID, map[string]any{
		"participant_id": winner.ID,
		"amount":         share.Amount.String(),
		"tx_hash":        transfer.TxHash,
	})

	result.Success = true
	result.TxHash = transfer.TxHash
	return result
}

func (d *rewardDomain) GetPayRewards(
	ctx context.Context, req *model.GetPayRewardsRequest,
) (*model.GetPayRewardsResponse, error) {
	quest, err := getQuest(ctx, d.questRepo, req.QuestID)
	if err != nil {
		return nil, err
	}

	if err := d.roleVerifier.Verify(ctx, quest); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify permission: %v", err)
		return nil, err
	}

	payRewards, err := d.payRewardRepo.GetByQuestID(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pay rewards: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.PayReward{}
	for i := range payRewards {
		result = append(result, model.ConvertPayReward(&payRewards[i]))
	}

	return &model.GetPayRewardsResponse{PayRewards: result}, nil
}
