package model

type SubmitTaskRequest struct {
	QuestID        string         `json:"quest_id"`
	TaskID         string         `json:"task_id"`
	SubmissionData SubmissionData `json:"submission_data"`
}

type SubmitTaskResponse struct {
	Submission  Submission  `json:"submission"`
	Participant Participant `json:"participant"`
}

type GetMySubmissionsRequest struct {
	QuestID string `json:"quest_id"`
}

type GetMySubmissionsResponse struct {
	Submissions []Submission `json:"submissions"`
}

// UploadSubmissionImageRequest carries the quest id only, the image is read
// from the multipart form field "image".
type UploadSubmissionImageRequest struct {
	QuestID string `json:"quest_id"`
}

type UploadSubmissionImageResponse struct {
	Url string `json:"url"`
}
