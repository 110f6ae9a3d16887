package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/choretrack/internal/model"
)

type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

func scanAssignment(scanner interface{ Scan(...any) error }) (*model.Assignment, error) {
	var a model.Assignment
	var completedAt sql.NullTime
	err := scanner.Scan(
		&a.ID, &a.UserID, &a.ChoreID, &a.DueAt, &a.Status,
		&a.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		a.CompletedAt = &t
	}
	return &a, nil
}

const assignmentCols = `id, user_id, chore_id, due_at, status, created_at, completed_at`

func (s *AssignmentStore) Create(userID, choreID int64, dueAt time.Time) (*model.Assignment, error) {
	result, err := s.db.Exec(
		`INSERT INTO assignments (user_id, chore_id, due_at) VALUES (?, ?, ?)`,
		userID, choreID, dueAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *AssignmentStore) GetByID(id int64) (*model.Assignment, error) {
	row := s.db.QueryRow(`SELECT `+assignmentCols+` FROM assignments WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

func (s *AssignmentStore) List() ([]model.Assignment, error) {
	return s.queryList(`SELECT ` + assignmentCols + ` FROM assignments ORDER BY id ASC`)
}

func (s *AssignmentStore) ListByUser(userID int64) ([]model.Assignment, error) {
	return s.queryList(`SELECT `+assignmentCols+` FROM assignments WHERE user_id = ? ORDER BY id ASC`, userID)
}

func (s *AssignmentStore) ListByStatus(status model.AssignmentStatus) ([]model.Assignment, error) {
	return s.queryList(`SELECT `+assignmentCols+` FROM assignments WHERE status = ? ORDER BY id ASC`, string(status))
}

func (s *AssignmentStore) queryList(query string, args ...any) ([]model.Assignment, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// UpdateStatus sets the status and completed_at in one statement.
// A nil completedAt clears the column.
func (s *AssignmentStore) UpdateStatus(id int64, status model.AssignmentStatus, completedAt *time.Time) (*model.Assignment, error) {
	var ca sql.NullTime
	if completedAt != nil {
		ca = sql.NullTime{Time: completedAt.UTC(), Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE assignments SET status = ?, completed_at = ? WHERE id = ?`,
		string(status), ca, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update assignment status: %w", err)
	}
	return s.GetByID(id)
}

func (s *AssignmentStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

// Counts holds the aggregate numbers behind the statistics endpoint.
// Overdue is derived from due_at, not from the stored status, so rows the
// caller never touched after their deadline still count.
type Counts struct {
	Total     int
	Completed int
	Pending   int
	Overdue   int
}

// CountByStatus aggregates assignments, optionally restricted to one user.
func (s *AssignmentStore) CountByStatus(now time.Time, userID *int64) (Counts, error) {
	query := `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN due_at < ? AND status != 'completed' THEN 1 ELSE 0 END), 0)
	FROM assignments`
	args := []any{now.UTC()}
	if userID != nil {
		query += ` WHERE user_id = ?`
		args = append(args, *userID)
	}

	var c Counts
	err := s.db.QueryRow(query, args...).Scan(&c.Total, &c.Completed, &c.Pending, &c.Overdue)
	if err != nil {
		return Counts{}, fmt.Errorf("count assignments: %w", err)
	}
	return c, nil
}
