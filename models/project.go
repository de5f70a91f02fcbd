package models

import "time"

// ============================================================================
// PROJECT MODEL
// ============================================================================

const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusOnHold    = "on-hold"
)

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	OwnerID     string     `json:"owner_id"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Owner   *UserRef  `json:"owner,omitempty"`
	Members []UserRef `json:"members,omitempty"`
}

// IsOwner reports whether the given user owns the project.
func (p *Project) IsOwner(userID string) bool {
	return p.OwnerID == userID
}

// HasMember reports whether the given user may see the project: the owner or
// any listed member. The owner is always a member by construction, but the
// check covers both so a missing membership row cannot lock the owner out.
func (p *Project) HasMember(userID string) bool {
	if p.OwnerID == userID {
		return true
	}
	for _, m := range p.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status" binding:"omitempty,oneof=planning active completed on-hold"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,oneof=planning active completed on-hold"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}
