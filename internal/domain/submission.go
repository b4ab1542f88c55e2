package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/quest-engine/internal/domain/statistic"
	"github.com/questx-lab/quest-engine/internal/domain/taskclaim"
	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/internal/model"
	"github.com/questx-lab/quest-engine/internal/repository"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/storage"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"gorm.io/gorm"
)

const submissionImageField = "image"

type SubmissionDomain interface {
	SubmitTask(context.Context, *model.SubmitTaskRequest) (*model.SubmitTaskResponse, error)
	GetMySubmissions(context.Context, *model.GetMySubmissionsRequest) (*model.GetMySubmissionsResponse, error)
	UploadSubmissionImage(
		context.Context, *model.UploadSubmissionImageRequest,
	) (*model.UploadSubmissionImageResponse, error)
}

type submissionDomain struct {
	questRepo       repository.QuestRepository
	taskRepo        repository.TaskRepository
	participantRepo repository.ParticipantRepository
	submissionRepo  repository.SubmissionRepository
	storage         storage.Storage
	leaderboard     statistic.Leaderboard
	publisher       *EventPublisher
}

func NewSubmissionDomain(
	questRepo repository.QuestRepository,
	taskRepo repository.TaskRepository,
	participantRepo repository.ParticipantRepository,
	submissionRepo repository.SubmissionRepository,
	storage storage.Storage,
	leaderboard statistic.Leaderboard,
	publisher *EventPublisher,
) *submissionDomain {
	return &submissionDomain{
		questRepo:       questRepo,
		taskRepo:        taskRepo,
		participantRepo: participantRepo,
		submissionRepo:  submissionRepo,
		storage:         storage,
		leaderboard:     leaderboard,
		publisher:       publisher,
	}
}

func (d *submissionDomain) getParticipant(
	ctx context.Context, userID, questID string,
) (*entity.Participant, error) {
	participant, err := d.participantRepo.Get(ctx, userID, questID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not participating in this quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get participant: %v", err)
		return nil, errorx.Unknown
	}

	return participant, nil
}

func (d *submissionDomain) SubmitTask(
	ctx context.Context, req *model.SubmitTaskRequest,
) (*model.SubmitTaskResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	quest, err := getQuest(ctx, d.questRepo, req.QuestID)
	if err != nil {
		return nil, err
	}

	task, err := getQuestTask(ctx, d.taskRepo, quest.ID, req.TaskID)
	if err != nil {
		return nil, err
	}

	participant, err := d.getParticipant(ctx, userID, quest.ID)
	if err != nil {
		return nil, err
	}

	if participant.Status == entity.ParticipantDisqualified {
		return nil, errorx.New(errorx.Unavailable, "Participant has been disqualified")
	}

	_, err = d.submissionRepo.Get(ctx, userID, quest.ID, task.ID)
	if err == nil || participant.HasCompleted(task.ID) {
		return nil, errorx.New(errorx.AlreadyExists, "Task already submitted")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get submission: %v", err)
		return nil, errorx.Unknown
	}

	data := entity.SubmissionData{
		Text:          strings.TrimSpace(req.SubmissionData.Text),
		ImageURL:      req.SubmissionData.ImageURL,
		LinkURL:       req.SubmissionData.LinkURL,
		WalletAddress: req.SubmissionData.WalletAddress,
		TxHash:        req.SubmissionData.TxHash,
	}

	processor, err := taskclaim.NewProcessor(ctx, task.Type, task.Config, false)
	if err != nil {
		return nil, err
	}

	if err := processor.Validate(ctx, data); err != nil {
		return nil, err
	}

	now := time.Now()
	switch {
	case quest.Status == entity.QuestDraft:
		return nil, errorx.New(errorx.Unavailable, "Quest has not been published yet")
	case quest.Status == entity.QuestCancelled:
		return nil, errorx.New(errorx.Unavailable, "Quest has been cancelled")
	case quest.EffectiveStatus(now) == entity.QuestEnded:
		return nil, errorx.New(errorx.Unavailable, "Quest ended, no submissions accepted")
	case now.Before(quest.StartDate):
		return nil, errorx.New(errorx.Unavailable, "Quest has not started yet")
	}

	participantID := participant.ID
	var submission *entity.Submission
	var newlyCompleted bool
	err = withRetry(ctx, func() error {
		submission = &entity.Submission{
			Base:           entity.Base{ID: uuid.NewString()},
			UserID:         userID,
			QuestID:        quest.ID,
			TaskID:         task.ID,
			SubmissionData: data,
			Status:         entity.SubmissionPending,
			SubmittedAt:    now,
		}

		participant, newlyCompleted, err = d.recordSubmission(ctx, quest, submission, participantID)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, errorx.New(errorx.TooManyRequests, "Participant is being updated, please try again")
		}

		return nil, err
	}

	d.publisher.Publish(ctx, EventTaskSubmitted, quest.ID, userID, map[string]any{
		"task_id":       task.ID,
		"submission_id": submission.ID,
	})

	if newlyCompleted {
		d.publisher.Publish(ctx, EventParticipantCompleted, quest.ID, userID, map[string]any{
			"participant_id": participant.ID,
		})
	}

	if quest.SelectionMethod == entity.SelectionLeaderboard {
		d.leaderboard.Invalidate(ctx, quest.ID)
	}

	return &model.SubmitTaskResponse{
		Submission:  model.ConvertSubmission(submission),
		Participant: model.ConvertParticipant(participant),
	}, nil
}

// recordSubmission inserts the submission and applies it to the participant
// progress and the counters in one transaction. It returns
// repository.ErrVersionConflict if the participant changed concurrently.
func (d *submissionDomain) recordSubmission(
	ctx context.Context,
	quest *entity.Quest,
	submission *entity.Submission,
	participantID string,
) (*entity.Participant, bool, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	participant, err := d.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participant: %v", err)
		return nil, false, errorx.Unknown
	}

	if participant.Status == entity.ParticipantDisqualified {
		return nil, false, errorx.New(errorx.Unavailable, "Participant has been disqualified")
	}

	if participant.HasCompleted(submission.TaskID) {
		return nil, false, errorx.New(errorx.AlreadyExists, "Task already submitted")
	}

	if err := d.submissionRepo.Create(ctx, submission); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, false, errorx.New(errorx.AlreadyExists, "Task already submitted")
		}

		xcontext.Logger(ctx).Errorf("Cannot create submission: %v", err)
		return nil, false, errorx.Unknown
	}

	tasks, err := d.taskRepo.GetByQuestID(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tasks: %v", err)
		return nil, false, errorx.Unknown
	}

	newlyCompleted := applySubmission(quest, participant, tasks, submission)
	if err := d.participantRepo.UpdateProgress(ctx, participant); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, false, err
		}

		xcontext.Logger(ctx).Errorf("Cannot update participant progress: %v", err)
		return nil, false, errorx.Unknown
	}

	if err := d.taskRepo.IncreaseCompletions(ctx, submission.TaskID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase task completions: %v", err)
		return nil, false, errorx.Unknown
	}

	if err := d.questRepo.IncreaseSubmissions(ctx, quest.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase quest submissions: %v", err)
		return nil, false, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, false, errorx.New(errorx.AlreadyExists, "Task already submitted")
		}

		xcontext.Logger(ctx).Errorf("Cannot commit submission: %v", err)
		return nil, false, errorx.Unknown
	}

	return participant, newlyCompleted, nil
}

// applySubmission updates the in-memory progress of participant and reports
// whether the participant has just completed every required task.
func applySubmission(
	quest *entity.Quest,
	participant *entity.Participant,
	tasks []entity.Task,
	submission *entity.Submission,
) bool {
	participant.CompletedTasks = append(participant.CompletedTasks, submission.TaskID)
	return refreshProgress(quest, participant, tasks, submission.SubmittedAt)
}

// refreshProgress recomputes the status, completion time and points of
// participant against the current tasks of the quest. It reports whether the
// participant has just completed every required task, in which case at
// becomes its completion time. Winners and disqualified participants keep
// their status.
func refreshProgress(
	quest *entity.Quest,
	participant *entity.Participant,
	tasks []entity.Task,
	at time.Time,
) bool {
	existing := map[string]bool{}
	for _, t := range tasks {
		existing[t.ID] = true
	}

	completed := entity.Array[string]{}
	for _, id := range participant.CompletedTasks {
		if existing[id] {
			completed = append(completed, id)
		}
	}
	participant.CompletedTasks = completed
	participant.TotalTasksCompleted = len(completed)

	if quest.SelectionMethod == entity.SelectionLeaderboard {
		points := 0
		for _, t := range tasks {
			if participant.HasCompleted(t.ID) {
				points += t.PrivilegePoints
			}
		}
		participant.TotalPrivilegePoints = points
	}

	if participant.Status == entity.ParticipantWinner ||
		participant.Status == entity.ParticipantDisqualified {
		return false
	}

	// Nothing submitted yet.
	if len(completed) == 0 {
		participant.Status = entity.ParticipantRegistered
		participant.CompletedAt = sql.NullTime{}
		return false
	}

	allRequired := true
	for _, id := range requiredTaskIDs(tasks) {
		if !participant.HasCompleted(id) {
			allRequired = false
			break
		}
	}

	if !allRequired {
		participant.Status = entity.ParticipantInProgress
		participant.CompletedAt = sql.NullTime{}
		return false
	}

	participant.Status = entity.ParticipantCompleted
	if participant.CompletedAt.Valid {
		return false
	}

	participant.CompletedAt = sql.NullTime{Valid: true, Time: at}
	return true
}

func (d *submissionDomain) GetMySubmissions(
	ctx context.Context, req *model.GetMySubmissionsRequest,
) (*model.GetMySubmissionsResponse, error) {
	quest, err := getQuest(ctx, d.questRepo, req.QuestID)
	if err != nil {
		return nil, err
	}

	submissions, err := d.submissionRepo.GetByUser(ctx, xcontext.RequestUserID(ctx), quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get submissions: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Submission{}
	for i := range submissions {
		result = append(result, model.ConvertSubmission(&submissions[i]))
	}

	return &model.GetMySubmissionsResponse{Submissions: result}, nil
}

func (d *submissionDomain) UploadSubmissionImage(
	ctx context.Context, req *model.UploadSubmissionImageRequest,
) (*model.UploadSubmissionImageResponse, error) {
	quest, err := getQuest(ctx, d.questRepo, req.QuestID)
	if err != nil {
		return nil, err
	}

	if _, err := d.getParticipant(ctx, xcontext.RequestUserID(ctx), quest.ID); err != nil {
		return nil, err
	}

	httpReq := xcontext.HTTPRequest(ctx)
	if httpReq == nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	maxSize := int64(xcontext.Configs(ctx).File.MaxSize)
	if err := httpReq.ParseMultipartForm(maxSize); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot parse multipart form: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	file, header, err := httpReq.FormFile(submissionImageField)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get form file: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Error retrieving the file")
	}
	defer file.Close()

	b, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read file: %v", err)
		return nil, errorx.Unknown
	}

	if int64(len(b)) > maxSize {
		return nil, errorx.New(errorx.BadRequest, "File is larger than %d bytes", maxSize)
	}

	mime := http.DetectContentType(b)
	if !strings.HasPrefix(mime, "image/") {
		return nil, errorx.New(errorx.BadRequest, "Only image is accepted, got %s", mime)
	}

	resp, err := d.storage.Upload(ctx, &storage.UploadObject{
		Bucket:   xcontext.Configs(ctx).Storage.Bucket,
		Prefix:   fmt.Sprintf("submissions/%s", quest.ID),
		FileName: header.Filename,
		Mime:     mime,
		Data:     b,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload image: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UploadSubmissionImageResponse{Url: resp.Url}, nil
}
