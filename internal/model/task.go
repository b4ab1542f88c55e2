package model

type CreateTaskData struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Type            string         `json:"type"`
	IsRequired      bool           `json:"is_required"`
	Order           int            `json:"order"`
	PrivilegePoints int            `json:"privilege_points"`
	Config          map[string]any `json:"config"`
}

type CreateTaskRequest struct {
	QuestID string `json:"quest_id"`
	CreateTaskData
}

type CreateTaskResponse struct {
	ID string `json:"id"`
}

type UpdateTaskRequest struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	IsRequired      bool           `json:"is_required"`
	Order           int            `json:"order"`
	PrivilegePoints int            `json:"privilege_points"`
	Config          map[string]any `json:"config"`
}

type UpdateTaskResponse struct{}

type DeleteTaskRequest struct {
	ID string `json:"id"`
}

type DeleteTaskResponse struct{}

type GetQuestTasksRequest struct {
	QuestID    string `json:"quest_id"`
	WithStatus bool   `json:"with_status"`
}

type GetQuestTasksResponse struct {
	Tasks []Task `json:"tasks"`
}
