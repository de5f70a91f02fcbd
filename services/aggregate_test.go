package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lifetrack/lifetrack-api/models"
)

func TestBuildOverviewEmpty(t *testing.T) {
	o := BuildOverview(nil, nil, nil)

	assert.Equal(t, 0, o.TotalProjects)
	assert.Equal(t, 0, o.TotalTasks)
	assert.NotNil(t, o.TasksByStatus)
	assert.NotNil(t, o.TasksByPriority)
	assert.NotNil(t, o.ProjectsByStatus)
	assert.NotNil(t, o.RecentActivity)
	assert.Empty(t, o.RecentActivity)
}

func TestBuildOverviewCounts(t *testing.T) {
	projects := []models.Project{
		{Status: models.ProjectStatusActive},
		{Status: models.ProjectStatusActive},
		{Status: models.ProjectStatusCompleted},
		{Status: models.ProjectStatusPlanning},
	}
	tasks := []models.Task{
		{Status: models.TaskStatusDone, Priority: models.PriorityHigh},
		{Status: models.TaskStatusTodo, Priority: models.PriorityLow},
		{Status: models.TaskStatusInProgress, Priority: models.PriorityHigh},
	}

	o := BuildOverview(projects, tasks, tasks[:1])

	assert.Equal(t, 4, o.TotalProjects)
	assert.Equal(t, 2, o.ActiveProjects)
	assert.Equal(t, 1, o.CompletedProjects)
	assert.Equal(t, 3, o.TotalTasks)
	assert.Equal(t, 1, o.CompletedTasks)
	assert.Equal(t, 2, o.PendingTasks)
	assert.Equal(t, 2, o.TasksByPriority[models.PriorityHigh])
	assert.Equal(t, 1, o.TasksByStatus[models.TaskStatusDone])
	assert.Equal(t, 2, o.ProjectsByStatus[models.ProjectStatusActive])
	assert.Len(t, o.RecentActivity, 1)
}

func TestTasksByMonth(t *testing.T) {
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	byMonth := TasksByMonth([]models.Task{
		{CreatedAt: jan}, {CreatedAt: jan}, {CreatedAt: feb},
	})
	assert.Equal(t, 2, byMonth["2026-01"])
	assert.Equal(t, 1, byMonth["2026-02"])
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0.0, CompletionRate(0, 0))
	assert.Equal(t, 50.0, CompletionRate(4, 2))
	assert.Equal(t, 100.0, CompletionRate(3, 3))
}

func TestProjectMembership(t *testing.T) {
	p := models.Project{
		OwnerID: "owner",
		Members: []models.UserRef{{ID: "member"}},
	}

	assert.True(t, p.IsOwner("owner"))
	assert.False(t, p.IsOwner("member"))
	assert.True(t, p.HasMember("owner"))
	assert.True(t, p.HasMember("member"))
	assert.False(t, p.HasMember("stranger"))
}
