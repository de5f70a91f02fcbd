package services

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/lifetrack/lifetrack-api/models"
)

// TaskSelect pulls a task together with its lightweight cross-references:
// project name, assignee, creator.
const TaskSelect = `
	SELECT t.id, t.title, t.description, t.project_id, t.assigned_to,
	       t.status, t.priority, t.due_date, t.tags, t.created_by,
	       t.created_at, t.updated_at,
	       p.name,
	       au.id, au.name, au.email, COALESCE(au.avatar, ''),
	       cu.name, cu.email, COALESCE(cu.avatar, '')
	FROM tasks t
	INNER JOIN projects p ON t.project_id = p.id
	LEFT JOIN users au ON t.assigned_to = au.id
	INNER JOIN users cu ON t.created_by = cu.id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func ScanTaskRow(row rowScanner) (*models.Task, error) {
	var t models.Task
	var assignedTo sql.NullString
	var dueDate sql.NullTime
	var assignee struct {
		id, name, email, avatar sql.NullString
	}
	var creatorName, creatorEmail, creatorAvatar string

	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &assignedTo,
		&t.Status, &t.Priority, &dueDate, pq.Array(&t.Tags), &t.CreatedBy,
		&t.CreatedAt, &t.UpdatedAt,
		&t.ProjectName,
		&assignee.id, &assignee.name, &assignee.email, &assignee.avatar,
		&creatorName, &creatorEmail, &creatorAvatar)
	if err != nil {
		return nil, err
	}

	if t.Tags == nil {
		t.Tags = []string{}
	}
	if assignedTo.Valid {
		t.AssignedTo = &assignedTo.String
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if assignee.id.Valid {
		t.Assignee = &models.UserRef{
			ID:     assignee.id.String,
			Name:   assignee.name.String,
			Email:  assignee.email.String,
			Avatar: assignee.avatar.String,
		}
	}
	t.Creator = &models.UserRef{
		ID:     t.CreatedBy,
		Name:   creatorName,
		Email:  creatorEmail,
		Avatar: creatorAvatar,
	}
	return &t, nil
}
