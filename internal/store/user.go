package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/choretrack/internal/model"
	"github.com/dukerupert/choretrack/internal/secure"
)

// UserStore persists users. Email is personal data: the email column holds
// AES-GCM ciphertext and email_hash holds a digest used for uniqueness and
// lookup. Callers always see plaintext.
type UserStore struct {
	db  *sql.DB
	box *secure.Box
}

func NewUserStore(db *sql.DB, box *secure.Box) *UserStore {
	return &UserStore{db: db, box: box}
}

const userCols = `id, name, email, created_at`

func (s *UserStore) scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var encEmail string
	if err := scanner.Scan(&u.ID, &u.Name, &encEmail, &u.CreatedAt); err != nil {
		return nil, err
	}
	email, err := s.box.Decrypt(encEmail)
	if err != nil {
		return nil, fmt.Errorf("decrypt email: %w", err)
	}
	u.Email = email
	return &u, nil
}

func (s *UserStore) Create(name, email string) (*model.User, error) {
	encEmail, err := s.box.Encrypt(email)
	if err != nil {
		return nil, fmt.Errorf("encrypt email: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO users (name, email, email_hash) VALUES (?, ?, ?)`,
		name, encEmail, secure.Digest(email),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := s.scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail looks a user up by email digest.
func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email_hash = ?`, secure.Digest(email))
	u, err := s.scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) List() ([]model.User, error) {
	rows, err := s.db.Query(`SELECT ` + userCols + ` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := s.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *UserStore) Update(id int64, name, email string) (*model.User, error) {
	encEmail, err := s.box.Encrypt(email)
	if err != nil {
		return nil, fmt.Errorf("encrypt email: %w", err)
	}

	_, err = s.db.Exec(
		`UPDATE users SET name = ?, email = ?, email_hash = ? WHERE id = ?`,
		name, encEmail, secure.Digest(email), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
