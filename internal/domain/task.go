package domain

import "time"

// Domain entity: the business object, independent of Gin, Postgres, Redis.
// StartDate and DueDate are calendar days carried as midnight UTC.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	StartDate   time.Time
	DueDate     *time.Time
	Completed   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps reports whether the closed interval [start, due] shares at least
// one day with the task's own [StartDate, DueDate] interval. A nil due date
// means the interval is open-ended and extends indefinitely; that holds
// symmetrically for either side of the comparison.
func (t Task) Overlaps(start time.Time, due *time.Time) bool {
	// [s1,d1] and [s2,d2] overlap iff s1 <= d2 and s2 <= d1,
	// with a missing end treated as +infinity.
	if due != nil && due.Before(t.StartDate) {
		return false
	}
	if t.DueDate != nil && t.DueDate.Before(start) {
		return false
	}
	return true
}
