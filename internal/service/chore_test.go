package service

import (
	"strings"
	"testing"

	"github.com/dukerupert/choretrack/internal/model"
)

func TestChoreCadenceValidation(t *testing.T) {
	_, cs, _ := newTestServices(t)

	for _, cadence := range []model.Cadence{"daily", "weekly", "monthly", "yearly"} {
		if _, err := cs.Create("Chore "+string(cadence), cadence); err != nil {
			t.Errorf("Create with cadence %q: %v", cadence, err)
		}
	}

	for _, cadence := range []model.Cadence{"", "hourly", "once", "biweekly", "DAILYX"} {
		_, err := cs.Create("Bad chore", cadence)
		wantValidation(t, err)
	}
}

func TestChoreCadenceCaseInsensitive(t *testing.T) {
	_, cs, _ := newTestServices(t)

	chore, err := cs.Create("Vacuum", "Weekly")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if chore.Cadence != model.CadenceWeekly {
		t.Errorf("cadence = %q, want %q", chore.Cadence, model.CadenceWeekly)
	}
}

func TestChoreTitleValidation(t *testing.T) {
	_, cs, _ := newTestServices(t)

	_, err := cs.Create("", model.CadenceDaily)
	wantValidation(t, err)

	_, err = cs.Create("   ", model.CadenceDaily)
	wantValidation(t, err)

	_, err = cs.Create(strings.Repeat("x", 201), model.CadenceDaily)
	wantValidation(t, err)
}

func TestChoreUpdateFullReplace(t *testing.T) {
	_, cs, _ := newTestServices(t)

	chore, err := cs.Create("Vacuum", model.CadenceWeekly)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := cs.Update(chore.ID, "Vacuum upstairs", model.CadenceMonthly)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Vacuum upstairs" || updated.Cadence != model.CadenceMonthly {
		t.Errorf("got %q %q", updated.Title, updated.Cadence)
	}

	_, err = cs.Update(chore.ID, "Vacuum", "hourly")
	wantValidation(t, err)
}

func TestChoreNotFound(t *testing.T) {
	_, cs, _ := newTestServices(t)

	_, err := cs.Get(9999)
	wantNotFound(t, err)

	_, err = cs.Update(9999, "Ghost chore", model.CadenceDaily)
	wantNotFound(t, err)

	wantNotFound(t, cs.Delete(9999))
}

func TestChoreRoundTrip(t *testing.T) {
	_, cs, _ := newTestServices(t)

	created, err := cs.Create("Take out trash", model.CadenceDaily)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := cs.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != created.Title || got.Cadence != created.Cadence {
		t.Errorf("round trip mismatch: %+v vs %+v", got, created)
	}
}
