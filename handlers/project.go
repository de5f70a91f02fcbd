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
// PROJECT HANDLER
//
// Visibility is membership-based; core-field mutation, deletion and member
// management are owner-only. The guard keeps missing (404) and foreign (403)
// projects distinguishable.
// ============================================================================

type ProjectHandler struct {
	DB    *sql.DB
	Guard *services.ProjectGuard
	Hub   *WSHub
}

func NewProjectHandler(db *sql.DB, guard *services.ProjectGuard, hub *WSHub) *ProjectHandler {
	return &ProjectHandler{DB: db, Guard: guard, Hub: hub}
}

// Create inserts the project and the owner's membership row in one
// transaction so visibility queries never see a half-created project.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	status := req.Status
	if status == "" {
		status = models.ProjectStatusPlanning
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	userID := middleware.GetUserID(c)
	projectID := uuid.NewString()

	tx, err := h.DB.BeginTx(c.Request.Context(), nil)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(c.Request.Context(), `
		INSERT INTO projects (id, name, description, owner_id, status, priority, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, projectID, req.Name, req.Description, userID, status, priority, req.StartDate, req.EndDate)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	_, err = tx.ExecContext(c.Request.Context(), `
		INSERT INTO project_members (id, project_id, user_id) VALUES ($1, $2, $3)
	`, uuid.NewString(), projectID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := tx.Commit(); err != nil {
		utils.Fail(c, err)
		return
	}

	project, err := h.Guard.ResolveProject(c.Request.Context(), projectID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 201, project)
}

// List returns the caller's projects (owned or member) with optional status
// and priority filters.
func (h *ProjectHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := parsePagination(c)

	projectIDs, err := services.MemberProjectIDs(c.Request.Context(), h.DB, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if len(projectIDs) == 0 {
		utils.Paginated(c, []models.Project{}, utils.NewPagination(page, limit, 0))
		return
	}

	where := `WHERE id = ANY($1)`
	args := []interface{}{pq.Array(projectIDs)}
	if status := c.Query("status"); status != "" {
		args = append(args, status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}
	if priority := c.Query("priority"); priority != "" {
		args = append(args, priority)
		where += ` AND priority = $` + strconv.Itoa(len(args))
	}

	var count int
	if err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT COUNT(*) FROM projects `+where, args...).Scan(&count); err != nil {
		utils.Fail(c, err)
		return
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := h.DB.QueryContext(c.Request.Context(), `
		SELECT id FROM projects `+where+`
		ORDER BY updated_at DESC
		LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			utils.Fail(c, err)
			return
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		utils.Fail(c, err)
		return
	}

	// N+1 over the page is fine at limit<=100; each load also pulls the
	// member list the summary view renders.
	projects := []models.Project{}
	for _, id := range ids {
		p, err := h.Guard.ResolveProject(c.Request.Context(), id, userID)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		projects = append(projects, *p)
	}

	utils.Paginated(c, projects, utils.NewPagination(page, limit, count))
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.Guard.ResolveProject(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	project, err := h.Guard.ResolveOwner(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Priority != nil {
		project.Priority = *req.Priority
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}

	err = h.DB.QueryRowContext(c.Request.Context(), `
		UPDATE projects
		SET name = $1, description = $2, status = $3, priority = $4, start_date = $5, end_date = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`, project.Name, project.Description, project.Status, project.Priority,
		project.StartDate, project.EndDate, project.ID).Scan(&project.UpdatedAt)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.Hub.BroadcastProject(project.ID, "project.updated", project)
	utils.OK(c, 200, project)
}

// Delete removes the project; tasks and membership rows go with it via
// ON DELETE CASCADE.
func (h *ProjectHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	project, err := h.Guard.ResolveOwner(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if _, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM projects WHERE id = $1`, project.ID); err != nil {
		utils.Fail(c, err)
		return
	}

	h.Hub.BroadcastProject(project.ID, "project.deleted", gin.H{"id": project.ID})
	utils.Message(c, 200, "Project deleted")
}

func (h *ProjectHandler) AddMember(c *gin.Context) {
	var req models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	project, err := h.Guard.ResolveOwner(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	var exists bool
	err = h.DB.QueryRowContext(c.Request.Context(),
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, req.UserID).Scan(&exists)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if !exists {
		utils.FailStatus(c, 404, "User not found")
		return
	}
	if project.HasMember(req.UserID) {
		utils.FailStatus(c, 409, "User is already a member")
		return
	}

	if _, err := h.DB.ExecContext(c.Request.Context(),
		`INSERT INTO project_members (id, project_id, user_id) VALUES ($1, $2, $3)`,
		uuid.NewString(), project.ID, req.UserID); err != nil {
		utils.Fail(c, err)
		return
	}

	updated, err := h.Guard.ResolveProject(c.Request.Context(), project.ID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.Hub.BroadcastProject(project.ID, "project.member_added", updated)
	utils.OK(c, 200, updated)
}

func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID := middleware.GetUserID(c)
	memberID := c.Param("userId")

	project, err := h.Guard.ResolveOwner(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if memberID == project.OwnerID {
		utils.FailStatus(c, 409, "Cannot remove project owner")
		return
	}

	result, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		project.ID, memberID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		utils.FailStatus(c, 404, "Member not found")
		return
	}

	// Orphaned assignments fall back to unassigned.
	if _, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE tasks SET assigned_to = NULL, updated_at = NOW() WHERE project_id = $1 AND assigned_to = $2`,
		project.ID, memberID); err != nil {
		utils.Fail(c, err)
		return
	}

	updated, err := h.Guard.ResolveProject(c.Request.Context(), project.ID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.Hub.BroadcastProject(project.ID, "project.member_removed", updated)
	utils.OK(c, 200, updated)
}
