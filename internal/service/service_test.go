package service

import (
	"testing"

	"github.com/dukerupert/choretrack/internal/database"
	"github.com/dukerupert/choretrack/internal/secure"
	"github.com/dukerupert/choretrack/internal/store"
)

// newTestServices builds the full service stack on an in-memory database.
func newTestServices(t *testing.T) (*UserService, *ChoreService, *AssignmentService) {
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

	users := store.NewUserStore(db, box)
	chores := store.NewChoreStore(db)
	assignments := store.NewAssignmentStore(db)

	return NewUserService(users), NewChoreService(chores), NewAssignmentService(assignments, users, chores)
}

// wantValidation fails the test unless err is a domain validation error.
func wantValidation(t *testing.T, err error) {
	t.Helper()
	svcErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("err = %v, want *service.Error", err)
	}
	if svcErr.Code != CodeValidation {
		t.Errorf("code = %q, want %q", svcErr.Code, CodeValidation)
	}
}

// wantNotFound fails the test unless err is a domain not-found error.
func wantNotFound(t *testing.T, err error) {
	t.Helper()
	svcErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("err = %v, want *service.Error", err)
	}
	if svcErr.Code != CodeNotFound {
		t.Errorf("code = %q, want %q", svcErr.Code, CodeNotFound)
	}
}
