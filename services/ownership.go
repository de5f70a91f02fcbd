package services

import (
	"context"
	"database/sql"

	"github.com/lifetrack/lifetrack-api/models"
)

// ProjectGuard resolves whether a caller may see or mutate a project or task.
// The two failure modes stay distinguishable: a missing resource is 404, an
// existing resource the caller has no relation to is 403.
type ProjectGuard struct {
	DB *sql.DB
}

// ResolveProject loads a project with its member list and checks the caller
// is the owner or a member.
func (g *ProjectGuard) ResolveProject(ctx context.Context, projectID, userID string) (*models.Project, error) {
	project, err := g.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.HasMember(userID) {
		return nil, models.ErrForbidden("Not authorized to access this project")
	}
	return project, nil
}

// ResolveOwner is ResolveProject restricted to the owner. Core-field
// mutation, deletion, and member management are owner-only.
func (g *ProjectGuard) ResolveOwner(ctx context.Context, projectID, userID string) (*models.Project, error) {
	project, err := g.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsOwner(userID) {
		return nil, models.ErrForbidden("Only the project owner can do this")
	}
	return project, nil
}

// ResolveTask loads a task and checks membership against its parent project.
func (g *ProjectGuard) ResolveTask(ctx context.Context, taskID, userID string) (*models.Task, *models.Project, error) {
	task, err := g.loadTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}

	project, err := g.loadProject(ctx, task.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if !project.HasMember(userID) {
		return nil, nil, models.ErrForbidden("Not authorized to access this task")
	}
	return task, project, nil
}

// ResolveTaskForDelete allows the project owner or the task's creator.
func (g *ProjectGuard) ResolveTaskForDelete(ctx context.Context, taskID, userID string) (*models.Task, error) {
	task, err := g.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	project, err := g.loadProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.IsOwner(userID) && task.CreatedBy != userID {
		return nil, models.ErrForbidden("Not authorized to delete this task")
	}
	return task, nil
}

func (g *ProjectGuard) loadProject(ctx context.Context, projectID string) (*models.Project, error) {
	var p models.Project
	var startDate, endDate sql.NullTime
	err := g.DB.QueryRowContext(ctx, `
		SELECT id, name, description, owner_id, status, priority, start_date, end_date, created_at, updated_at
		FROM projects
		WHERE id = $1
	`, projectID).Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.Status, &p.Priority,
		&startDate, &endDate, &p.CreatedAt, &p.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound("Project not found")
	}
	if err != nil {
		return nil, err
	}
	if startDate.Valid {
		p.StartDate = &startDate.Time
	}
	if endDate.Valid {
		p.EndDate = &endDate.Time
	}

	rows, err := g.DB.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, COALESCE(u.avatar, '')
		FROM project_members pm
		INNER JOIN users u ON pm.user_id = u.id
		WHERE pm.project_id = $1
		ORDER BY pm.joined_at
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	p.Members = []models.UserRef{}
	for rows.Next() {
		var m models.UserRef
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Avatar); err != nil {
			return nil, err
		}
		p.Members = append(p.Members, m)
		if m.ID == p.OwnerID {
			owner := m
			p.Owner = &owner
		}
	}
	return &p, rows.Err()
}

func (g *ProjectGuard) loadTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := ScanTaskRow(g.DB.QueryRowContext(ctx, TaskSelect+` WHERE t.id = $1`, taskID))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound("Task not found")
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// MemberProjectIDs returns the ids of every project the user belongs to.
// This is the scope every task query and analytics rollup is bound to.
func MemberProjectIDs(ctx context.Context, db *sql.DB, userID string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT project_id FROM project_members WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
