package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/quest-engine/internal/common"
	"github.com/questx-lab/quest-engine/internal/domain/taskclaim"
	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/internal/model"
	"github.com/questx-lab/quest-engine/internal/repository"
	"github.com/questx-lab/quest-engine/pkg/enum"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type QuestDomain interface {
	Create(context.Context, *model.CreateQuestRequest) (*model.CreateQuestResponse, error)
	Start(context.Context, *model.StartQuestRequest) (*model.StartQuestResponse, error)
	End(context.Context, *model.EndQuestRequest) (*model.EndQuestResponse, error)
	Cancel(context.Context, *model.CancelQuestRequest) (*model.CancelQuestResponse, error)
	Get(context.Context, *model.GetQuestRequest) (*model.GetQuestResponse, error)
	GetList(context.Context, *model.GetListQuestRequest) (*model.GetListQuestResponse, error)
}

type questDomain struct {
	questRepo    repository.QuestRepository
	taskRepo     repository.TaskRepository
	roleVerifier *common.QuestRoleVerifier
}

func NewQuestDomain(
	questRepo repository.QuestRepository,
	taskRepo repository.TaskRepository,
	roleVerifier *common.QuestRoleVerifier,
) *questDomain {
	return &questDomain{
		questRepo:    questRepo,
		taskRepo:     taskRepo,
		roleVerifier: roleVerifier,
	}
}

func (d *questDomain) Create(
	ctx context.Context, req *model.CreateQuestRequest,
) (*model.CreateQuestResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() || !req.StartDate.Before(req.EndDate) {
		return nil, errorx.New(errorx.BadRequest, "Start date must be before end date")
	}

	if req.ParticipantLimit <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Participant limit must be positive")
	}

	selectionMethod, err := enum.ToEnum[entity.SelectionMethodType](req.SelectionMethod)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid selection method: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid selection method")
	}

	status := entity.QuestDraft
	if req.Status != "" {
		status, err = enum.ToEnum[entity.QuestStatusType](req.Status)
		if err != nil || (status != entity.QuestDraft && status != entity.QuestActive) {
			return nil, errorx.New(errorx.BadRequest, "Quest can only be created as draft or active")
		}
	}

	rewardPool, err := parseRewardPool(ctx, req.RewardPool)
	if err != nil {
		return nil, err
	}

	quest := &entity.Quest{
		Base:             entity.Base{ID: uuid.NewString()},
		CommunityID:      req.CommunityID,
		CreatedBy:        xcontext.RequestUserID(ctx),
		Title:            req.Title,
		Description:      req.Description,
		StartDate:        req.StartDate.UTC(),
		EndDate:          req.EndDate.UTC(),
		SelectionMethod:  selectionMethod,
		ParticipantLimit: req.ParticipantLimit,
		RewardPool:       rewardPool,
		Status:           status,
	}

	tasks := []*entity.Task{}
	for _, data := range req.Tasks {
		task, err := newTask(ctx, quest.ID, data)
		if err != nil {
			return nil, err
		}

		tasks = append(tasks, task)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.questRepo.Create(ctx, quest); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create quest: %v", err)
		return nil, errorx.Unknown
	}

	for _, task := range tasks {
		if err := d.taskRepo.Create(ctx, task); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create task: %v", err)
			return nil, errorx.Unknown
		}
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit quest creation: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateQuestResponse{ID: quest.ID}, nil
}

func (d *questDomain) Start(
	ctx context.Context, req *model.StartQuestRequest,
) (*model.StartQuestResponse, error) {
	err := d.changeStatus(ctx, req.ID,
		[]entity.QuestStatusType{entity.QuestDraft}, entity.QuestActive,
		"Only draft quest can be started")
	if err != nil {
		return nil, err
	}

	return &model.StartQuestResponse{}, nil
}

func (d *questDomain) End(
	ctx context.Context, req *model.EndQuestRequest,
) (*model.EndQuestResponse, error) {
	err := d.changeStatus(ctx, req.ID,
		[]entity.QuestStatusType{entity.QuestActive}, entity.QuestEnded,
		"Only active quest can be ended")
	if err != nil {
		return nil, err
	}

	return &model.EndQuestResponse{}, nil
}

func (d *questDomain) Cancel(
	ctx context.Context, req *model.CancelQuestRequest,
) (*model.CancelQuestResponse, error) {
	err := d.changeStatus(ctx, req.ID,
		[]entity.QuestStatusType{entity.QuestDraft, entity.QuestActive}, entity.QuestCancelled,
		"Only draft or active quest can be cancelled")
	if err != nil {
		return nil, err
	}

	return &model.CancelQuestResponse{}, nil
}

func (d *questDomain) changeStatus(
	ctx context.Context,
	id string,
	from []entity.QuestStatusType,
	to entity.QuestStatusType,
	invalidMsg string,
) error {
	quest, err := getQuest(ctx, d.questRepo, id)
	if err != nil {
		return err
	}

	if err := d.roleVerifier.Verify(ctx, quest); err != nil {
		return err
	}

	if err := d.questRepo.UpdateStatus(ctx, id, from, to); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.Unavailable, invalidMsg)
		}

		xcontext.Logger(ctx).Errorf("Cannot update quest status: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *questDomain) Get(
	ctx context.Context, req *model.GetQuestRequest,
) (*model.GetQuestResponse, error) {
	quest, err := getQuest(ctx, d.questRepo, req.ID)
	if err != nil {
		return nil, err
	}

	tasks, err := d.taskRepo.GetByQuestID(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tasks: %v", err)
		return nil, errorx.Unknown
	}

	modelTasks := []model.Task{}
	for i := range tasks {
		modelTasks = append(modelTasks, model.ConvertTask(&tasks[i]))
	}

	resp := model.GetQuestResponse(model.ConvertQuest(quest, time.Now(), modelTasks...))
	return &resp, nil
}

func (d *questDomain) GetList(
	ctx context.Context, req *model.GetListQuestRequest,
) (*model.GetListQuestResponse, error) {
	limit, err := checkLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	if req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	filter := repository.QuestFilter{CommunityID: req.CommunityID, Now: time.Now().UTC()}
	if req.Status != "" {
		filter.Status, err = enum.ToEnum[entity.QuestStatusType](req.Status)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid quest status: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid quest status")
		}
	}

	quests, err := d.questRepo.GetList(ctx, filter, req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list of quests: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Quest{}
	for i := range quests {
		result = append(result, model.ConvertQuest(&quests[i], filter.Now))
	}

	return &model.GetListQuestResponse{Quests: result}, nil
}

func parseRewardPool(ctx context.Context, pool model.RewardPool) (entity.RewardPool, error) {
	rewardType, err := enum.ToEnum[entity.RewardType](pool.Type)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid reward type: %v", err)
		return entity.RewardPool{}, errorx.New(errorx.BadRequest, "Invalid reward type")
	}

	amount := decimal.Zero
	if pool.Amount != "" {
		amount, err = decimal.NewFromString(pool.Amount)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid reward amount: %v", err)
			return entity.RewardPool{}, errorx.New(errorx.BadRequest, "Invalid reward amount")
		}
	}

	if amount.IsNegative() {
		return entity.RewardPool{}, errorx.New(errorx.BadRequest, "Reward amount must not be negative")
	}

	if rewardType == entity.TokenReward && pool.Currency == "" {
		return entity.RewardPool{}, errorx.New(errorx.BadRequest, "Token reward needs a currency")
	}

	if rewardType == entity.CustomReward && pool.CustomReward == "" {
		return entity.RewardPool{}, errorx.New(errorx.BadRequest, "Custom reward needs a description")
	}

	return entity.RewardPool{
		Amount:       amount,
		Currency:     pool.Currency,
		Type:         rewardType,
		CustomReward: pool.CustomReward,
	}, nil
}

func newTask(ctx context.Context, questID string, data model.CreateTaskData) (*entity.Task, error) {
	if data.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty task title")
	}

	if data.PrivilegePoints < 0 {
		return nil, errorx.New(errorx.BadRequest, "Privilege points must not be negative")
	}

	taskType, err := enum.ToEnum[entity.TaskType](data.Type)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid task type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid task type")
	}

	config, err := taskclaim.NormalizeConfig(ctx, taskType, data.Config)
	if err != nil {
		return nil, err
	}

	return &entity.Task{
		Base:            entity.Base{ID: uuid.NewString()},
		QuestID:         questID,
		Title:           data.Title,
		Description:     data.Description,
		Type:            taskType,
		IsRequired:      data.IsRequired,
		Order:           data.Order,
		PrivilegePoints: data.PrivilegePoints,
		Config:          config,
	}, nil
}
