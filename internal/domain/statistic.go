package domain

import (
	"context"

	"github.com/questx-lab/quest-engine/internal/domain/statistic"
	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/internal/model"
	"github.com/questx-lab/quest-engine/internal/repository"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
)

type StatisticDomain interface {
	GetQuestStats(context.Context, *model.GetQuestStatsRequest) (*model.GetQuestStatsResponse, error)
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
}

type statisticDomain struct {
	questRepo       repository.QuestRepository
	taskRepo        repository.TaskRepository
	participantRepo repository.ParticipantRepository
	submissionRepo  repository.SubmissionRepository
	leaderboard     statistic.Leaderboard
}

func NewStatisticDomain(
	questRepo repository.QuestRepository,
	taskRepo repository.TaskRepository,
	participantRepo repository.ParticipantRepository,
	submissionRepo repository.SubmissionRepository,
	leaderboard statistic.Leaderboard,
) *statisticDomain {
	return &statisticDomain{
		questRepo:       questRepo,
		taskRepo:        taskRepo,
		participantRepo: participantRepo,
		submissionRepo:  submissionRepo,
		leaderboard:     leaderboard,
	}
}

func (d *statisticDomain) GetQuestStats(
	ctx context.Context, req *model.GetQuestStatsRequest,
) (*model.GetQuestStatsResponse, error) {
	quest, err := getQuest(ctx, d.questRepo, req.QuestID)
	if err != nil {
		return nil, err
	}

	statusCounts, err := d.participantRepo.CountByStatus(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count participants by status: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetQuestStatsResponse{
		TotalParticipants: quest.TotalParticipants,
		TotalSubmissions:  quest.TotalSubmissions,
		Tasks:             []model.TaskStatistic{},
	}

	for _, c := range statusCounts {
		switch c.Status {
		case entity.ParticipantCompleted:
			resp.CompletedParticipants += c.Count
		case entity.ParticipantWinner:
			// Winners finished every required task too.
			resp.CompletedParticipants += c.Count
			resp.Winners += c.Count
		case entity.ParticipantDisqualified:
			resp.Disqualified += c.Count
		}
	}

	tasks, err := d.taskRepo.GetByQuestID(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tasks: %v", err)
		return nil, errorx.Unknown
	}

	taskCounts, err := d.submissionRepo.CountByTask(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count submissions by task: %v", err)
		return nil, errorx.Unknown
	}

	completions := map[string]int64{}
	for _, c := range taskCounts {
		completions[c.TaskID] = c.Count
	}

	for _, t := range tasks {
		stat := model.TaskStatistic{
			TaskID:      t.ID,
			Title:       t.Title,
			Completions: completions[t.ID],
		}

		if quest.TotalParticipants > 0 {
			stat.CompletionRate = float64(stat.Completions) / float64(quest.TotalParticipants)
		}

		resp.Tasks = append(resp.Tasks, stat)
	}

	return resp, nil
}

func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	quest, err := getQuest(ctx, d.questRepo, req.QuestID)
	if err != nil {
		return nil, err
	}

	if quest.SelectionMethod != entity.SelectionLeaderboard {
		return nil, errorx.New(errorx.Unavailable, "Leaderboard is only available for leaderboard quests")
	}

	if req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	limit, err := checkLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	entries, err := d.leaderboard.GetLeaderboard(ctx, quest.ID, req.Offset, limit)
	if err != nil {
		return nil, err
	}

	return &model.GetLeaderboardResponse{Entries: entries}, nil
}
