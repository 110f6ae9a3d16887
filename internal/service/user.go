package service

import (
	"regexp"
	"strings"

	"github.com/dukerupert/choretrack/internal/model"
	"github.com/dukerupert/choretrack/internal/store"
)

const maxNameLength = 100

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type UserService struct {
	users *store.UserStore
}

func NewUserService(users *store.UserStore) *UserService {
	return &UserService{users: users}
}

// normalizeUser validates and canonicalizes user input. Emails are
// lowercased so uniqueness is case-insensitive.
func normalizeUser(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", validation("name is required")
	}
	if len(name) > maxNameLength {
		return "", "", validation("name too long (max 100 characters)")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegexp.MatchString(email) {
		return "", "", validation("invalid email format")
	}

	return name, email, nil
}

func (s *UserService) Create(name, email string) (*model.User, error) {
	name, email, err := normalizeUser(name, email)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, validation("user with this email already exists")
	}

	return s.users.Create(name, email)
}

func (s *UserService) Get(id int64) (*model.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("user not found")
	}
	return user, nil
}

func (s *UserService) List() ([]model.User, error) {
	return s.users.List()
}

// Update replaces name and email (PUT semantics).
func (s *UserService) Update(id int64, name, email string) (*model.User, error) {
	name, email, err := normalizeUser(name, email)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, notFound("user not found")
	}

	other, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != id {
		return nil, validation("user with this email already exists")
	}

	return s.users.Update(id, name, email)
}

func (s *UserService) Delete(id int64) error {
	existing, err := s.users.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return notFound("user not found")
	}
	return s.users.Delete(id)
}
