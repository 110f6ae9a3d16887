package service

import (
	"testing"
	"time"

	"github.com/dukerupert/choretrack/internal/model"
)

// seedUserAndChore creates one user and one chore for assignment tests.
func seedUserAndChore(t *testing.T, us *UserService, cs *ChoreService, cadence model.Cadence) (int64, int64) {
	t.Helper()
	user, err := us.Create("Alice", "alice@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	chore, err := cs.Create("Wash dishes", cadence)
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	return user.ID, chore.ID
}

func TestAssignmentCreateReferentialChecks(t *testing.T) {
	us, cs, as := newTestServices(t)
	userID, choreID := seedUserAndChore(t, us, cs, model.CadenceDaily)
	now := time.Now()
	due := now.Add(24 * time.Hour)

	_, err := as.Create(9999, choreID, &due, now)
	wantValidation(t, err)

	_, err = as.Create(userID, 9999, &due, now)
	wantValidation(t, err)

	if _, err := as.Create(userID, choreID, &due, now); err != nil {
		t.Errorf("create with valid references: %v", err)
	}
}

func TestAssignmentCreatePastDueRejected(t *testing.T) {
	us, cs, as := newTestServices(t)
	userID, choreID := seedUserAndChore(t, us, cs, model.CadenceDaily)
	now := time.Now()
	past := now.Add(-time.Hour)

	_, err := as.Create(userID, choreID, &past, now)
	wantValidation(t, err)

	_, err = as.Create(userID, choreID, &now, now)
	wantValidation(t, err)
}

func TestAssignmentCadenceDerivedDueDate(t *testing.T) {
	tests := []struct {
		cadence model.Cadence
		days    int
	}{
		{model.CadenceDaily, 1},
		{model.CadenceWeekly, 7},
	}
	for _, tt := range tests {
		t.Run(string(tt.cadence), func(t *testing.T) {
			us, cs, as := newTestServices(t)
			userID, choreID := seedUserAndChore(t, us, cs, tt.cadence)
			now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

			a, err := as.Create(userID, choreID, nil, now)
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			want := now.AddDate(0, 0, tt.days)
			if !a.DueAt.Equal(want) {
				t.Errorf("due_at = %v, want %v", a.DueAt, want)
			}
		})
	}
}

func TestAssignmentCadenceDerivedMonthlyYearly(t *testing.T) {
	us, cs, as := newTestServices(t)
	userID, _ := seedUserAndChore(t, us, cs, model.CadenceDaily)
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	monthly, err := cs.Create("Deep clean", model.CadenceMonthly)
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	a, err := as.Create(userID, monthly.ID, nil, now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !a.DueAt.Equal(now.AddDate(0, 1, 0)) {
		t.Errorf("monthly due_at = %v, want %v", a.DueAt, now.AddDate(0, 1, 0))
	}

	yearly, err := cs.Create("Clean gutters", model.CadenceYearly)
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	a, err = as.Create(userID, yearly.ID, nil, now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !a.DueAt.Equal(now.AddDate(1, 0, 0)) {
		t.Errorf("yearly due_at = %v, want %v", a.DueAt, now.AddDate(1, 0, 0))
	}
}

func TestAssignmentStatusTransitions(t *testing.T) {
	us, cs, as := newTestServices(t)
	userID, choreID := seedUserAndChore(t, us, cs, model.CadenceDaily)
	now := time.Now()
	due := now.Add(24 * time.Hour)

	a, err := as.Create(userID, choreID, &due, now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// pending -> in_progress
	updated, err := as.UpdateStatus(a.ID, model.StatusInProgress, now)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.StatusInProgress {
		t.Errorf("status = %q, want in_progress", updated.Status)
	}
	if updated.CompletedAt != nil {
		t.Error("completed_at should be nil for in_progress")
	}

	// in_progress -> completed stamps completed_at
	updated, err = as.UpdateStatus(a.ID, model.StatusCompleted, now)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.StatusCompleted {
		t.Errorf("status = %q, want completed", updated.Status)
	}
	if updated.CompletedAt == nil {
		t.Error("completed_at should be set for completed")
	}

	// completed -> pending clears completed_at
	updated, err = as.UpdateStatus(a.ID, model.StatusPending, now)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", updated.Status)
	}
	if updated.CompletedAt != nil {
		t.Error("completed_at should be cleared when leaving completed")
	}
}

func TestAssignmentInvalidStatusRejected(t *testing.T) {
	us, cs, as := newTestServices(t)
	userID, choreID := seedUserAndChore(t, us, cs, model.CadenceDaily)
	now := time.Now()
	due := now.Add(24 * time.Hour)

	a, err := as.Create(userID, choreID, &due, now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = as.UpdateStatus(a.ID, "done", now)
	wantValidation(t, err)
}

func TestAssignmentOverdueCoercion(t *testing.T) {
	us, cs, as := newTestServices(t)
	userID, choreID := seedUserAndChore(t, us, cs, model.CadenceDaily)
	now := time.Now()
	due := now.Add(time.Hour)

	a, err := as.Create(userID, choreID, &due, now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// After the due date, a non-completed update is recorded as overdue
	later := due.Add(time.Hour)
	updated, err := as.UpdateStatus(a.ID, model.StatusInProgress, later)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.StatusOverdue {
		t.Errorf("status = %q, want overdue", updated.Status)
	}

	// Completing a past-due assignment is still allowed
	updated, err = as.UpdateStatus(a.ID, model.StatusCompleted, later)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.StatusCompleted {
		t.Errorf("status = %q, want completed", updated.Status)
	}
	if updated.CompletedAt == nil {
		t.Error("completed_at should be set")
	}
}

func TestAssignmentNotFound(t *testing.T) {
	_, _, as := newTestServices(t)
	now := time.Now()

	_, err := as.Get(9999)
	wantNotFound(t, err)

	_, err = as.UpdateStatus(9999, model.StatusCompleted, now)
	wantNotFound(t, err)

	wantNotFound(t, as.Delete(9999))
}

func TestStatisticsEmpty(t *testing.T) {
	_, _, as := newTestServices(t)

	stats, err := as.GetStatistics(time.Now(), nil)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalAssignments != 0 || stats.CompletionRate != 0 {
		t.Errorf("expected zeroed statistics, got %+v", stats)
	}
}

func TestStatisticsAggregation(t *testing.T) {
	us, cs, as := newTestServices(t)
	userID, choreID := seedUserAndChore(t, us, cs, model.CadenceDaily)
	now := time.Now()
	due := now.Add(24 * time.Hour)

	var ids []int64
	for i := 0; i < 3; i++ {
		a, err := as.Create(userID, choreID, &due, now)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, a.ID)
	}

	if _, err := as.UpdateStatus(ids[0], model.StatusCompleted, now); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := as.UpdateStatus(ids[1], model.StatusInProgress, now); err != nil {
		t.Fatalf("update: %v", err)
	}

	stats, err := as.GetStatistics(now, nil)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalAssignments != 3 {
		t.Errorf("total = %d, want 3", stats.TotalAssignments)
	}
	if stats.CompletedAssignments != 1 {
		t.Errorf("completed = %d, want 1", stats.CompletedAssignments)
	}
	if stats.PendingAssignments != 1 {
		t.Errorf("pending = %d, want 1", stats.PendingAssignments)
	}
	if stats.OverdueAssignments != 0 {
		t.Errorf("overdue = %d, want 0", stats.OverdueAssignments)
	}
	if stats.CompletionRate != 33.33 {
		t.Errorf("completion_rate = %v, want 33.33", stats.CompletionRate)
	}
}

func TestStatisticsOverdueDerived(t *testing.T) {
	us, cs, as := newTestServices(t)
	userID, choreID := seedUserAndChore(t, us, cs, model.CadenceDaily)
	now := time.Now()
	due := now.Add(time.Hour)

	a, err := as.Create(userID, choreID, &due, now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Still pending in the store, but past due when statistics are computed
	later := due.Add(time.Hour)
	stats, err := as.GetStatistics(later, nil)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.OverdueAssignments != 1 {
		t.Errorf("overdue = %d, want 1", stats.OverdueAssignments)
	}

	// Completing it removes it from the overdue count
	if _, err := as.UpdateStatus(a.ID, model.StatusCompleted, later); err != nil {
		t.Fatalf("update: %v", err)
	}
	stats, err = as.GetStatistics(later, nil)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.OverdueAssignments != 0 {
		t.Errorf("overdue after completion = %d, want 0", stats.OverdueAssignments)
	}
}

func TestStatisticsPerUserFilter(t *testing.T) {
	us, cs, as := newTestServices(t)
	userID, choreID := seedUserAndChore(t, us, cs, model.CadenceDaily)
	now := time.Now()
	due := now.Add(24 * time.Hour)

	bob, err := us.Create("Bob", "bob@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := as.Create(userID, choreID, &due, now); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := as.Create(bob.ID, choreID, &due, now); err != nil {
		t.Fatalf("create: %v", err)
	}

	stats, err := as.GetStatistics(now, &bob.ID)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalAssignments != 1 {
		t.Errorf("total for bob = %d, want 1", stats.TotalAssignments)
	}
}

func TestAssignmentListByStatus(t *testing.T) {
	us, cs, as := newTestServices(t)
	userID, choreID := seedUserAndChore(t, us, cs, model.CadenceDaily)
	now := time.Now()

	var ids []int64
	for i := 0; i < 3; i++ {
		a, err := as.Create(userID, choreID, nil, now)
		if err != nil {
			t.Fatalf("create assignment %d: %v", i, err)
		}
		ids = append(ids, a.ID)
	}
	if _, err := as.UpdateStatus(ids[0], model.StatusCompleted, now); err != nil {
		t.Fatalf("complete: %v", err)
	}

	completed, err := as.ListByStatus(model.StatusCompleted)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 1 {
		t.Errorf("completed = %d, want 1", len(completed))
	}

	pending, err := as.ListByStatus(model.StatusPending)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("pending = %d, want 2", len(pending))
	}

	_, err = as.ListByStatus("almost_done")
	wantValidation(t, err)
}
