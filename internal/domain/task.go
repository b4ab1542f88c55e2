package domain

import (
	"context"
	"errors"
	"time"

	"github.com/questx-lab/quest-engine/internal/common"
	"github.com/questx-lab/quest-engine/internal/domain/statistic"
	"github.com/questx-lab/quest-engine/internal/domain/taskclaim"
	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/internal/model"
	"github.com/questx-lab/quest-engine/internal/repository"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"gorm.io/gorm"
)

type TaskDomain interface {
	Create(context.Context, *model.CreateTaskRequest) (*model.CreateTaskResponse, error)
	Update(context.Context, *model.UpdateTaskRequest) (*model.UpdateTaskResponse, error)
	Delete(context.Context, *model.DeleteTaskRequest) (*model.DeleteTaskResponse, error)
	GetQuestTasks(context.Context, *model.GetQuestTasksRequest) (*model.GetQuestTasksResponse, error)
}

type taskDomain struct {
	questRepo       repository.QuestRepository
	taskRepo        repository.TaskRepository
	participantRepo repository.ParticipantRepository
	submissionRepo  repository.SubmissionRepository
	roleVerifier    *common.QuestRoleVerifier
	leaderboard     statistic.Leaderboard
}

func NewTaskDomain(
	questRepo repository.QuestRepository,
	taskRepo repository.TaskRepository,
	participantRepo repository.ParticipantRepository,
	submissionRepo repository.SubmissionRepository,
	roleVerifier *common.QuestRoleVerifier,
	leaderboard statistic.Leaderboard,
) *taskDomain {
	return &taskDomain{
		questRepo:       questRepo,
		taskRepo:        taskRepo,
		participantRepo: participantRepo,
		submissionRepo:  submissionRepo,
		roleVerifier:    roleVerifier,
		leaderboard:     leaderboard,
	}
}

// getEditableQuest returns the quest if the requester may change its tasks.
func (d *taskDomain) getEditableQuest(ctx context.Context, questID string) (*entity.Quest, error) {
	quest, err := getQuest(ctx, d.questRepo, questID)
	if err != nil {
		return nil, err
	}

	if err := d.roleVerifier.Verify(ctx, quest); err != nil {
		return nil, err
	}

	status := quest.EffectiveStatus(time.Now())
	if status != entity.QuestDraft && status != entity.QuestActive {
		return nil, errorx.New(errorx.Unavailable, "Tasks of a %s quest cannot be changed", status)
	}

	return quest, nil
}

func (d *taskDomain) Create(
	ctx context.Context, req *model.CreateTaskRequest,
) (*model.CreateTaskResponse, error) {
	quest, err := d.getEditableQuest(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}

	task, err := newTask(ctx, quest.ID, req.CreateTaskData)
	if err != nil {
		return nil, err
	}

	err = d.changeTasks(ctx, quest, func(ctx context.Context) error {
		if err := d.taskRepo.Create(ctx, task); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create task: %v", err)
			return errorx.Unknown
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.CreateTaskResponse{ID: task.ID}, nil
}

func (d *taskDomain) getTask(ctx context.Context, id string) (*entity.Task, error) {
	if id == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty task id")
	}

	task, err := d.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found task")
		}

		xcontext.Logger(ctx).Errorf("Cannot get task: %v", err)
		return nil, errorx.Unknown
	}

	return task, nil
}

func (d *taskDomain) Update(
	ctx context.Context, req *model.UpdateTaskRequest,
) (*model.UpdateTaskResponse, error) {
	task, err := d.getTask(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	quest, err := d.getEditableQuest(ctx, task.QuestID)
	if err != nil {
		return nil, err
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty task title")
	}

	if req.PrivilegePoints < 0 {
		return nil, errorx.New(errorx.BadRequest, "Privilege points must not be negative")
	}

	config, err := taskclaim.NormalizeConfig(ctx, task.Type, req.Config)
	if err != nil {
		return nil, err
	}

	task.Title = req.Title
	task.Description = req.Description
	task.IsRequired = req.IsRequired
	task.Order = req.Order
	task.PrivilegePoints = req.PrivilegePoints
	task.Config = config

	err = d.changeTasks(ctx, quest, func(ctx context.Context) error {
		if err := d.taskRepo.Update(ctx, task); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update task: %v", err)
			return errorx.Unknown
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.UpdateTaskResponse{}, nil
}

func (d *taskDomain) Delete(
	ctx context.Context, req *model.DeleteTaskRequest,
) (*model.DeleteTaskResponse, error) {
	task, err := d.getTask(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	quest, err := d.getEditableQuest(ctx, task.QuestID)
	if err != nil {
		return nil, err
	}

	err = d.changeTasks(ctx, quest, func(ctx context.Context) error {
		count, err := d.submissionRepo.CountByTaskID(ctx, task.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count submissions: %v", err)
			return errorx.Unknown
		}

		if count > 0 {
			return errorx.New(errorx.Unavailable, "Task already has submissions")
		}

		if err := d.taskRepo.Delete(ctx, task.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete task: %v", err)
			return errorx.Unknown
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.DeleteTaskResponse{}, nil
}

// changeTasks applies change and recomputes the progress of every participant
// of quest against the new task list, in one transaction. The participant and
// quest versions are bumped, so a submission or winner selection running
// against the old task list fails its version check and is retried.
func (d *taskDomain) changeTasks(
	ctx context.Context, quest *entity.Quest, change func(context.Context) error,
) error {
	err := withRetry(ctx, func() error {
		return d.changeTasksOnce(ctx, quest.ID, change)
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return errorx.New(errorx.TooManyRequests, "Quest is being updated, please try again")
		}

		return err
	}

	if quest.SelectionMethod == entity.SelectionLeaderboard {
		d.leaderboard.Invalidate(ctx, quest.ID)
	}

	return nil
}

func (d *taskDomain) changeTasksOnce(
	ctx context.Context, questID string, change func(context.Context) error,
) error {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	quest, err := d.questRepo.GetByID(ctx, questID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return errorx.Unknown
	}

	if err := change(ctx); err != nil {
		return err
	}

	tasks, err := d.taskRepo.GetByQuestID(ctx, questID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tasks: %v", err)
		return errorx.Unknown
	}

	participants, err := d.participantRepo.GetByQuestID(ctx, questID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participants: %v", err)
		return errorx.Unknown
	}

	now := time.Now().UTC()
	for i := range participants {
		participant := &participants[i]
		if participant.Status == entity.ParticipantDisqualified {
			continue
		}

		refreshProgress(quest, participant, tasks, now)
		if err := d.participantRepo.UpdateProgress(ctx, participant); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return err
			}

			xcontext.Logger(ctx).Errorf("Cannot update participant progress: %v", err)
			return errorx.Unknown
		}
	}

	if err := d.questRepo.BumpVersion(ctx, quest.ID, quest.Version); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return err
		}

		xcontext.Logger(ctx).Errorf("Cannot bump quest version: %v", err)
		return errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit task change: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *taskDomain) GetQuestTasks(
	ctx context.Context, req *model.GetQuestTasksRequest,
) (*model.GetQuestTasksResponse, error) {
	quest, err := getQuest(ctx, d.questRepo, req.QuestID)
	if err != nil {
		return nil, err
	}

	tasks, err := d.taskRepo.GetByQuestID(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tasks: %v", err)
		return nil, errorx.Unknown
	}

	submissionStatus := map[string]entity.SubmissionStatusType{}
	if req.WithStatus {
		userID := xcontext.RequestUserID(ctx)
		if userID == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate to get task status")
		}

		submissions, err := d.submissionRepo.GetByUser(ctx, userID, quest.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get submissions: %v", err)
			return nil, errorx.Unknown
		}

		for _, s := range submissions {
			submissionStatus[s.TaskID] = s.Status
		}
	}

	result := []model.Task{}
	for i := range tasks {
		task := model.ConvertTask(&tasks[i])
		if status, ok := submissionStatus[task.ID]; ok {
			task.Completed = true
			task.SubmissionStatus = string(status)
		}

		result = append(result, task)
	}

	return &model.GetQuestTasksResponse{Tasks: result}, nil
}
