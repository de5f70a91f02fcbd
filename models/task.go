package models

import "time"

// ============================================================================
// TASK MODEL
// ============================================================================

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"
)

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ProjectID   string     `json:"project_id"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	ProjectName string   `json:"project_name,omitempty"`
	Assignee    *UserRef `json:"assignee,omitempty"`
	Creator     *UserRef `json:"creator,omitempty"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	ProjectID   string     `json:"projectId" binding:"required"`
	AssignedTo  string     `json:"assignedTo"`
	Status      string     `json:"status" binding:"omitempty,oneof=todo in-progress review done"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *string    `json:"assignedTo"`
	Status      *string    `json:"status" binding:"omitempty,oneof=todo in-progress review done"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        *[]string  `json:"tags"`
}

type AssignTaskRequest struct {
	AssigneeID string `json:"assigneeId" binding:"required"`
}
