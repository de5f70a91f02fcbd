package handlers

import (
	"database/sql"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/lifetrack/lifetrack-api/middleware"
	"github.com/lifetrack/lifetrack-api/models"
	"github.com/lifetrack/lifetrack-api/services"
	"github.com/lifetrack/lifetrack-api/utils"
)

// ============================================================================
// TASK HANDLER
//
// Task access derives entirely from parent-project membership. Deletion is
// the one asymmetric rule: project owner or task creator.
// ============================================================================

type TaskHandler struct {
	DB    *sql.DB
	Guard *services.ProjectGuard
	Hub   *WSHub
}

func NewTaskHandler(db *sql.DB, guard *services.ProjectGuard, hub *WSHub) *TaskHandler {
	return &TaskHandler{DB: db, Guard: guard, Hub: hub}
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	project, err := h.Guard.ResolveProject(c.Request.Context(), req.ProjectID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	var assignedTo interface{}
	if req.AssignedTo != "" {
		if !project.HasMember(req.AssignedTo) {
			utils.FailStatus(c, 400, "Assignee must be a project member")
			return
		}
		assignedTo = req.AssignedTo
	}

	status := req.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	taskID := uuid.NewString()
	_, err = h.DB.ExecContext(c.Request.Context(), `
		INSERT INTO tasks (id, title, description, project_id, assigned_to, status, priority, due_date, tags, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, taskID, req.Title, req.Description, project.ID, assignedTo, status, priority,
		req.DueDate, pq.Array(tags), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	task, _, err := h.Guard.ResolveTask(c.Request.Context(), taskID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.Hub.BroadcastProject(project.ID, "task.created", task)
	utils.OK(c, 201, task)
}

// List returns tasks across every project the caller belongs to, with
// optional project/status/priority/assignee filters.
func (h *TaskHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := parsePagination(c)

	projectIDs, err := services.MemberProjectIDs(c.Request.Context(), h.DB, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if projectID := c.Query("projectId"); projectID != "" {
		if _, err := h.Guard.ResolveProject(c.Request.Context(), projectID, userID); err != nil {
			utils.Fail(c, err)
			return
		}
		projectIDs = []string{projectID}
	}
	if len(projectIDs) == 0 {
		utils.Paginated(c, []models.Task{}, utils.NewPagination(page, limit, 0))
		return
	}

	where := `WHERE t.project_id = ANY($1)`
	args := []interface{}{pq.Array(projectIDs)}
	if status := c.Query("status"); status != "" {
		args = append(args, status)
		where += ` AND t.status = $` + strconv.Itoa(len(args))
	}
	if priority := c.Query("priority"); priority != "" {
		args = append(args, priority)
		where += ` AND t.priority = $` + strconv.Itoa(len(args))
	}
	if assignee := c.Query("assignedTo"); assignee != "" {
		args = append(args, assignee)
		where += ` AND t.assigned_to = $` + strconv.Itoa(len(args))
	}

	var count int
	if err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT COUNT(*) FROM tasks t `+where, args...).Scan(&count); err != nil {
		utils.Fail(c, err)
		return
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := h.DB.QueryContext(c.Request.Context(),
		services.TaskSelect+` `+where+`
		ORDER BY t.updated_at DESC
		LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := services.ScanTaskRow(rows)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Paginated(c, tasks, utils.NewPagination(page, limit, count))
}

func (h *TaskHandler) Get(c *gin.Context) {
	task, _, err := h.Guard.ResolveTask(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	task, project, err := h.Guard.ResolveTask(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			task.AssignedTo = nil
		} else {
			if !project.HasMember(*req.AssignedTo) {
				utils.FailStatus(c, 400, "Assignee must be a project member")
				return
			}
			task.AssignedTo = req.AssignedTo
		}
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
	}

	_, err = h.DB.ExecContext(c.Request.Context(), `
		UPDATE tasks
		SET title = $1, description = $2, assigned_to = $3, status = $4, priority = $5,
		    due_date = $6, tags = $7, updated_at = NOW()
		WHERE id = $8
	`, task.Title, task.Description, task.AssignedTo, task.Status, task.Priority,
		task.DueDate, pq.Array(task.Tags), task.ID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	updated, _, err := h.Guard.ResolveTask(c.Request.Context(), task.ID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.Hub.BroadcastProject(project.ID, "task.updated", updated)
	utils.OK(c, 200, updated)
}

// Assign sets the task's assignee; "" is not accepted here, use Update to
// clear an assignment.
func (h *TaskHandler) Assign(c *gin.Context) {
	var req models.AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	task, project, err := h.Guard.ResolveTask(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if !project.HasMember(req.AssigneeID) {
		utils.FailStatus(c, 400, "Assignee must be a project member")
		return
	}

	_, err = h.DB.ExecContext(c.Request.Context(),
		`UPDATE tasks SET assigned_to = $1, updated_at = NOW() WHERE id = $2`,
		req.AssigneeID, task.ID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	updated, _, err := h.Guard.ResolveTask(c.Request.Context(), task.ID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.Hub.BroadcastProject(project.ID, "task.assigned", updated)
	utils.OK(c, 200, updated)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	task, err := h.Guard.ResolveTaskForDelete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if _, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM tasks WHERE id = $1`, task.ID); err != nil {
		utils.Fail(c, err)
		return
	}

	h.Hub.BroadcastProject(task.ProjectID, "task.deleted", gin.H{"id": task.ID})
	utils.Message(c, 200, "Task deleted")
}
