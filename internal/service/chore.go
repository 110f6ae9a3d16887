package service

import (
	"strings"

	"github.com/dukerupert/choretrack/internal/model"
	"github.com/dukerupert/choretrack/internal/store"
)

const maxTitleLength = 200

type ChoreService struct {
	chores *store.ChoreStore
}

func NewChoreService(chores *store.ChoreStore) *ChoreService {
	return &ChoreService{chores: chores}
}

func normalizeChore(title string, cadence model.Cadence) (string, model.Cadence, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", validation("title is required")
	}
	if len(title) > maxTitleLength {
		return "", "", validation("title too long (max 200 characters)")
	}

	cadence = model.Cadence(strings.ToLower(strings.TrimSpace(string(cadence))))
	if !cadence.Valid() {
		return "", "", validation("invalid cadence: must be one of daily, weekly, monthly, yearly")
	}

	return title, cadence, nil
}

func (s *ChoreService) Create(title string, cadence model.Cadence) (*model.Chore, error) {
	title, cadence, err := normalizeChore(title, cadence)
	if err != nil {
		return nil, err
	}
	return s.chores.Create(title, cadence)
}

func (s *ChoreService) Get(id int64) (*model.Chore, error) {
	chore, err := s.chores.GetByID(id)
	if err != nil {
		return nil, err
	}
	if chore == nil {
		return nil, notFound("chore not found")
	}
	return chore, nil
}

func (s *ChoreService) List() ([]model.Chore, error) {
	return s.chores.List()
}

// Update replaces title and cadence (PUT semantics).
func (s *ChoreService) Update(id int64, title string, cadence model.Cadence) (*model.Chore, error) {
	title, cadence, err := normalizeChore(title, cadence)
	if err != nil {
		return nil, err
	}

	existing, err := s.chores.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, notFound("chore not found")
	}

	return s.chores.Update(id, title, cadence)
}

func (s *ChoreService) Delete(id int64) error {
	existing, err := s.chores.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return notFound("chore not found")
	}
	return s.chores.Delete(id)
}
