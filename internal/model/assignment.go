package model

import (
	"encoding/json"
	"time"
)

// Assignment is a task posted by a professor with a deadline.
//
// Open/closed state is NOT a column: it is derived from Deadline at read time
// (see IsOverdue) and emitted as the computed "overdue" JSON field.
type Assignment struct {
	ID           string    `json:"id"           db:"id"`
	Title        string    `json:"title"        db:"title"`
	Description  string    `json:"description"  db:"description"`
	Deadline     time.Time `json:"deadline"     db:"deadline"`
	Instructions string    `json:"instructions" db:"instructions"`
	CreatedBy    string    `json:"createdBy"    db:"created_by"`
	CreatedAt    time.Time `json:"createdAt"    db:"created_at"`
}

// IsOverdue reports whether now is strictly after deadline.
// A submission made exactly at the deadline is still on time.
func IsOverdue(deadline, now time.Time) bool {
	return now.After(deadline)
}

// Overdue is IsOverdue against the wall clock.
func (a Assignment) Overdue() bool {
	return IsOverdue(a.Deadline, time.Now())
}

// MarshalJSON adds the derived "overdue" flag to the stored fields.
func (a Assignment) MarshalJSON() ([]byte, error) {
	type plain Assignment // drops the method set, avoiding recursion
	return json.Marshal(struct {
		plain
		Overdue bool `json:"overdue"`
	}{plain(a), a.Overdue()})
}
