package service

import (
	"math"
	"time"

	"github.com/dukerupert/choretrack/internal/model"
	"github.com/dukerupert/choretrack/internal/store"
)

type AssignmentService struct {
	assignments *store.AssignmentStore
	users       *store.UserStore
	chores      *store.ChoreStore
}

func NewAssignmentService(assignments *store.AssignmentStore, users *store.UserStore, chores *store.ChoreStore) *AssignmentService {
	return &AssignmentService{assignments: assignments, users: users, chores: chores}
}

// Create checks that the referenced user and chore exist, then inserts a
// pending assignment. A nil dueAt derives the due date from the chore's
// cadence; an explicit dueAt must be in the future.
func (s *AssignmentService) Create(userID, choreID int64, dueAt *time.Time, now time.Time) (*model.Assignment, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, validation("user not found")
	}

	chore, err := s.chores.GetByID(choreID)
	if err != nil {
		return nil, err
	}
	if chore == nil {
		return nil, validation("chore not found")
	}

	var due time.Time
	if dueAt == nil {
		due = chore.Cadence.NextDue(now)
	} else {
		due = *dueAt
		if !due.After(now) {
			return nil, validation("due date must be in the future")
		}
	}

	return s.assignments.Create(userID, choreID, due)
}

func (s *AssignmentService) Get(id int64) (*model.Assignment, error) {
	a, err := s.assignments.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFound("assignment not found")
	}
	return a, nil
}

func (s *AssignmentService) List() ([]model.Assignment, error) {
	return s.assignments.List()
}

func (s *AssignmentService) ListByUser(userID int64) ([]model.Assignment, error) {
	return s.assignments.ListByUser(userID)
}

func (s *AssignmentService) ListByStatus(status model.AssignmentStatus) ([]model.Assignment, error) {
	if !status.Valid() {
		return nil, validation("invalid status: must be one of pending, in_progress, completed, overdue")
	}
	return s.assignments.ListByStatus(status)
}

// UpdateStatus applies a caller-driven status change. Requesting a
// non-completed status on an assignment past its due date records overdue
// instead. Entering completed stamps completed_at; leaving it clears it.
func (s *AssignmentService) UpdateStatus(id int64, status model.AssignmentStatus, now time.Time) (*model.Assignment, error) {
	if !status.Valid() {
		return nil, validation("invalid status: must be one of pending, in_progress, completed, overdue")
	}

	a, err := s.assignments.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFound("assignment not found")
	}

	if a.DueAt.Before(now) && status != model.StatusCompleted {
		status = model.StatusOverdue
	}

	var completedAt *time.Time
	if status == model.StatusCompleted {
		completedAt = &now
	}

	return s.assignments.UpdateStatus(id, status, completedAt)
}

func (s *AssignmentService) Delete(id int64) error {
	existing, err := s.assignments.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return notFound("assignment not found")
	}
	return s.assignments.Delete(id)
}

// Statistics summarizes assignments. Overdue counts every assignment past
// its due date that is not completed, regardless of stored status.
type Statistics struct {
	TotalAssignments     int     `json:"total_assignments"`
	CompletedAssignments int     `json:"completed_assignments"`
	PendingAssignments   int     `json:"pending_assignments"`
	OverdueAssignments   int     `json:"overdue_assignments"`
	CompletionRate       float64 `json:"completion_rate"`
}

// GetStatistics aggregates assignment counts, optionally for a single user.
func (s *AssignmentService) GetStatistics(now time.Time, userID *int64) (Statistics, error) {
	counts, err := s.assignments.CountByStatus(now, userID)
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{
		TotalAssignments:     counts.Total,
		CompletedAssignments: counts.Completed,
		PendingAssignments:   counts.Pending,
		OverdueAssignments:   counts.Overdue,
	}
	if counts.Total > 0 {
		rate := float64(counts.Completed) / float64(counts.Total) * 100
		stats.CompletionRate = math.Round(rate*100) / 100
	}
	return stats, nil
}
