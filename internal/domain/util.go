package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/internal/repository"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"gorm.io/gorm"
)

func getQuest(ctx context.Context, questRepo repository.QuestRepository, id string) (*entity.Quest, error) {
	if id == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty quest id")
	}

	quest, err := questRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	return quest, nil
}

func getQuestTask(
	ctx context.Context, taskRepo repository.TaskRepository, questID, taskID string,
) (*entity.Task, error) {
	task, err := taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found task")
		}

		xcontext.Logger(ctx).Errorf("Cannot get task: %v", err)
		return nil, errorx.Unknown
	}

	if task.QuestID != questID {
		return nil, errorx.New(errorx.NotFound, "Not found task in this quest")
	}

	return task, nil
}

func checkLimit(ctx context.Context, limit int) (int, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if limit == 0 {
		return apiCfg.DefaultLimit, nil
	}

	if limit < 0 {
		return 0, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if limit > apiCfg.MaxLimit {
		return 0, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	return limit, nil
}

func requiredTaskIDs(tasks []entity.Task) []string {
	ids := []string{}
	for _, t := range tasks {
		if t.IsRequired {
			ids = append(ids, t.ID)
		}
	}

	return ids
}

// withRetry runs f again while it loses an optimistic version check, at most
// Quest.MaxWriteRetries extra times.
func withRetry(ctx context.Context, f func() error) error {
	retries := xcontext.Configs(ctx).Quest.MaxWriteRetries
	for i := 0; ; i++ {
		err := f()
		if !errors.Is(err, repository.ErrVersionConflict) || i >= retries {
			return err
		}

		xcontext.Logger(ctx).Debugf("Retry after version conflict (%d/%d)", i+1, retries)
	}
}
