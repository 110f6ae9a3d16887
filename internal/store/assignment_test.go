package store

import (
	"testing"
	"time"

	"github.com/dukerupert/choretrack/internal/database"
	"github.com/dukerupert/choretrack/internal/model"
	"github.com/dukerupert/choretrack/internal/secure"
)

// setupAssignmentTestDB creates the stores plus one user and one chore to
// satisfy the foreign keys.
func setupAssignmentTestDB(t *testing.T) (*AssignmentStore, int64, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	box, err := secure.NewBox("test-passphrase")
	if err != nil {
		t.Fatalf("new box: %v", err)
	}

	user, err := NewUserStore(db, box).Create("Alice", "alice@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	chore, err := NewChoreStore(db).Create("Wash dishes", model.CadenceDaily)
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}

	return NewAssignmentStore(db), user.ID, chore.ID
}

func TestAssignmentCRUD(t *testing.T) {
	as, userID, choreID := setupAssignmentTestDB(t)
	due := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)

	// Create
	a, err := as.Create(userID, choreID, due)
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	if a.Status != model.StatusPending {
		t.Errorf("status = %q, want %q", a.Status, model.StatusPending)
	}
	if a.CompletedAt != nil {
		t.Error("completed_at should be nil on creation")
	}
	if !a.DueAt.Equal(due) {
		t.Errorf("due_at = %v, want %v", a.DueAt, due)
	}

	// Get
	got, err := as.GetByID(a.ID)
	if err != nil {
		t.Fatalf("get assignment: %v", err)
	}
	if got.UserID != userID || got.ChoreID != choreID {
		t.Errorf("got user_id=%d chore_id=%d, want %d %d", got.UserID, got.ChoreID, userID, choreID)
	}

	// Update status
	now := time.Now().UTC()
	updated, err := as.UpdateStatus(a.ID, model.StatusCompleted, &now)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != model.StatusCompleted {
		t.Errorf("status = %q, want %q", updated.Status, model.StatusCompleted)
	}
	if updated.CompletedAt == nil {
		t.Error("completed_at not set")
	}

	// Clearing completed_at
	reverted, err := as.UpdateStatus(a.ID, model.StatusPending, nil)
	if err != nil {
		t.Fatalf("revert status: %v", err)
	}
	if reverted.CompletedAt != nil {
		t.Error("completed_at should be cleared")
	}

	// Delete
	if err := as.Delete(a.ID); err != nil {
		t.Fatalf("delete assignment: %v", err)
	}
	got, err = as.GetByID(a.ID)
	if err != nil {
		t.Fatalf("get deleted assignment: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted assignment")
	}
}

func TestAssignmentForeignKeys(t *testing.T) {
	as, userID, choreID := setupAssignmentTestDB(t)
	due := time.Now().Add(time.Hour)

	if _, err := as.Create(9999, choreID, due); err == nil {
		t.Error("expected foreign key violation for unknown user")
	}
	if _, err := as.Create(userID, 9999, due); err == nil {
		t.Error("expected foreign key violation for unknown chore")
	}
}

func TestAssignmentListByUserAndStatus(t *testing.T) {
	as, userID, choreID := setupAssignmentTestDB(t)
	due := time.Now().Add(time.Hour)

	a1, err := as.Create(userID, choreID, due)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := as.Create(userID, choreID, due); err != nil {
		t.Fatalf("create: %v", err)
	}

	now := time.Now().UTC()
	if _, err := as.UpdateStatus(a1.ID, model.StatusCompleted, &now); err != nil {
		t.Fatalf("update status: %v", err)
	}

	byUser, err := as.ListByUser(userID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(byUser) != 2 {
		t.Fatalf("expected 2 assignments for user, got %d", len(byUser))
	}

	completed, err := as.ListByStatus(model.StatusCompleted)
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(completed) != 1 {
		t.Fatalf("expected 1 completed assignment, got %d", len(completed))
	}
	if completed[0].ID != a1.ID {
		t.Errorf("completed[0].ID = %d, want %d", completed[0].ID, a1.ID)
	}
}

func TestAssignmentCountByStatus(t *testing.T) {
	as, userID, choreID := setupAssignmentTestDB(t)
	now := time.Now().UTC()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	// One pending (future), one completed, one past due still pending
	if _, err := as.Create(userID, choreID, future); err != nil {
		t.Fatalf("create: %v", err)
	}
	a2, err := as.Create(userID, choreID, future)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := as.UpdateStatus(a2.ID, model.StatusCompleted, &now); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if _, err := as.Create(userID, choreID, past); err != nil {
		t.Fatalf("create: %v", err)
	}

	counts, err := as.CountByStatus(now, nil)
	if err != nil {
		t.Fatalf("count by status: %v", err)
	}
	if counts.Total != 3 {
		t.Errorf("total = %d, want 3", counts.Total)
	}
	if counts.Completed != 1 {
		t.Errorf("completed = %d, want 1", counts.Completed)
	}
	if counts.Pending != 2 {
		t.Errorf("pending = %d, want 2", counts.Pending)
	}
	if counts.Overdue != 1 {
		t.Errorf("overdue = %d, want 1", counts.Overdue)
	}

	// Per-user filter with an unknown user is empty
	unknown := int64(9999)
	counts, err = as.CountByStatus(now, &unknown)
	if err != nil {
		t.Fatalf("count by status: %v", err)
	}
	if counts.Total != 0 {
		t.Errorf("total for unknown user = %d, want 0", counts.Total)
	}
}
