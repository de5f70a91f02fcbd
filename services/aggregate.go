package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/lifetrack/lifetrack-api/models"
)

// ============================================================================
// PROJECT / TASK AGGREGATION
// ============================================================================

type AnalyticsOverview struct {
	TotalProjects     int              `json:"totalProjects"`
	ActiveProjects    int              `json:"activeProjects"`
	CompletedProjects int              `json:"completedProjects"`
	TotalTasks        int              `json:"totalTasks"`
	CompletedTasks    int              `json:"completedTasks"`
	PendingTasks      int              `json:"pendingTasks"`
	TasksByStatus     map[string]int   `json:"tasksByStatus"`
	TasksByPriority   map[string]int   `json:"tasksByPriority"`
	ProjectsByStatus  map[string]int   `json:"projectsByStatus"`
	RecentActivity    []models.Task    `json:"recentActivity"`
}

type ProjectStats struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	TotalTasks     int       `json:"totalTasks"`
	CompletedTasks int       `json:"completedTasks"`
	CompletionRate float64   `json:"completionRate"`
	CreatedAt      time.Time `json:"created_at"`
}

type TaskAnalytics struct {
	Tasks        []models.Task  `json:"tasks"`
	TasksByMonth map[string]int `json:"tasksByMonth"`
}

// BuildOverview reduces the caller's projects and tasks into the dashboard
// snapshot. Maps are always non-nil, so an empty account serializes as
// empty objects rather than null.
func BuildOverview(projects []models.Project, tasks []models.Task, recent []models.Task) AnalyticsOverview {
	o := AnalyticsOverview{
		TasksByStatus:    map[string]int{},
		TasksByPriority:  map[string]int{},
		ProjectsByStatus: map[string]int{},
		RecentActivity:   recent,
	}
	if o.RecentActivity == nil {
		o.RecentActivity = []models.Task{}
	}

	o.TotalProjects = len(projects)
	for _, p := range projects {
		o.ProjectsByStatus[p.Status]++
		switch p.Status {
		case models.ProjectStatusActive:
			o.ActiveProjects++
		case models.ProjectStatusCompleted:
			o.CompletedProjects++
		}
	}

	o.TotalTasks = len(tasks)
	for _, t := range tasks {
		o.TasksByStatus[t.Status]++
		o.TasksByPriority[t.Priority]++
		if t.Status == models.TaskStatusDone {
			o.CompletedTasks++
		}
	}
	o.PendingTasks = o.TotalTasks - o.CompletedTasks

	return o
}

// TasksByMonth buckets tasks by creation month (YYYY-MM, UTC).
func TasksByMonth(tasks []models.Task) map[string]int {
	byMonth := map[string]int{}
	for _, t := range tasks {
		byMonth[t.CreatedAt.UTC().Format("2006-01")]++
	}
	return byMonth
}

// CompletionRate is the done percentage; zero tasks means zero percent.
func CompletionRate(total, completed int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// ============================================================================
// SERVICE
// ============================================================================

type ProjectAnalyticsService struct {
	DB *sql.DB
}

func NewProjectAnalyticsService(db *sql.DB) *ProjectAnalyticsService {
	return &ProjectAnalyticsService{DB: db}
}

func (s *ProjectAnalyticsService) Overview(ctx context.Context, userID string) (*AnalyticsOverview, error) {
	projects, err := s.memberProjects(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	tasks, err := s.tasksInProjects(ctx, ids, nil, nil)
	if err != nil {
		return nil, err
	}

	recent, err := s.recentTasks(ctx, ids, 10)
	if err != nil {
		return nil, err
	}

	overview := BuildOverview(projects, tasks, recent)
	return &overview, nil
}

func (s *ProjectAnalyticsService) ProjectStats(ctx context.Context, userID string) ([]ProjectStats, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT p.id, p.name, p.status, p.created_at,
		       COUNT(t.id), COUNT(t.id) FILTER (WHERE t.status = 'done')
		FROM projects p
		INNER JOIN project_members pm ON p.id = pm.project_id
		LEFT JOIN tasks t ON t.project_id = p.id
		WHERE pm.user_id = $1
		GROUP BY p.id, p.name, p.status, p.created_at
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []ProjectStats{}
	for rows.Next() {
		var ps ProjectStats
		if err := rows.Scan(&ps.ID, &ps.Name, &ps.Status, &ps.CreatedAt,
			&ps.TotalTasks, &ps.CompletedTasks); err != nil {
			return nil, err
		}
		ps.CompletionRate = CompletionRate(ps.TotalTasks, ps.CompletedTasks)
		stats = append(stats, ps)
	}
	return stats, rows.Err()
}

func (s *ProjectAnalyticsService) TaskAnalytics(ctx context.Context, userID string, from, to *time.Time) (*TaskAnalytics, error) {
	ids, err := MemberProjectIDs(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasksInProjects(ctx, ids, from, to)
	if err != nil {
		return nil, err
	}

	return &TaskAnalytics{Tasks: tasks, TasksByMonth: TasksByMonth(tasks)}, nil
}

func (s *ProjectAnalyticsService) memberProjects(ctx context.Context, userID string) ([]models.Project, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, p.owner_id, p.status, p.priority, p.created_at, p.updated_at
		FROM projects p
		INNER JOIN project_members pm ON p.id = pm.project_id
		WHERE pm.user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.Status,
			&p.Priority, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *ProjectAnalyticsService) tasksInProjects(ctx context.Context, projectIDs []string, from, to *time.Time) ([]models.Task, error) {
	if len(projectIDs) == 0 {
		return []models.Task{}, nil
	}

	query := TaskSelect + ` WHERE t.project_id = ANY($1)`
	args := []interface{}{pq.Array(projectIDs)}
	if from != nil {
		args = append(args, *from)
		query += ` AND t.created_at >= $2`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += ` AND t.created_at <= $3`
		} else {
			query += ` AND t.created_at <= $2`
		}
	}
	query += ` ORDER BY t.created_at DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := ScanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (s *ProjectAnalyticsService) recentTasks(ctx context.Context, projectIDs []string, limit int) ([]models.Task, error) {
	if len(projectIDs) == 0 {
		return []models.Task{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, TaskSelect+`
		WHERE t.project_id = ANY($1)
		ORDER BY t.updated_at DESC
		LIMIT $2
	`, pq.Array(projectIDs), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := ScanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}
