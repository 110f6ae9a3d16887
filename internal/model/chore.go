package model

import "time"

// Cadence is how often a chore recurs.
type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

// Valid reports whether c is one of the known cadences.
func (c Cadence) Valid() bool {
	switch c {
	case CadenceDaily, CadenceWeekly, CadenceMonthly, CadenceYearly:
		return true
	}
	return false
}

// NextDue returns the due date one cadence interval after from.
func (c Cadence) NextDue(from time.Time) time.Time {
	switch c {
	case CadenceWeekly:
		return from.AddDate(0, 0, 7)
	case CadenceMonthly:
		return from.AddDate(0, 1, 0)
	case CadenceYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 0, 1)
	}
}

type Chore struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Cadence   Cadence   `json:"cadence"`
	CreatedAt time.Time `json:"created_at"`
}
