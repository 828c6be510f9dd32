package model

import "time"

// AssignmentStats is one row of a professor's per-assignment breakdown.
type AssignmentStats struct {
	AssignmentID string    `json:"assignmentId" db:"assignment_id"`
	Title        string    `json:"title"        db:"title"`
	Deadline     time.Time `json:"deadline"     db:"deadline"`
	Submissions  int       `json:"submissions"  db:"submissions"`
	Overdue      bool      `json:"overdue"      db:"-"`
}

// ProfessorSummary is the analytics payload for a professor.
type ProfessorSummary struct {
	Assignments       int               `json:"assignments"`
	OpenAssignments   int               `json:"openAssignments"`
	ClosedAssignments int               `json:"closedAssignments"`
	Submissions       int               `json:"submissions"`
	Students          int               `json:"students"`
	PerAssignment     []AssignmentStats `json:"perAssignment"`
}

// StudentSummary is the analytics payload for a student.
type StudentSummary struct {
	Assignments int `json:"assignments"`
	Submitted   int `json:"submitted"`
	Pending     int `json:"pending"`
	Missed      int `json:"missed"`
}

// Summary carries exactly one of the role-specific payloads.
type Summary struct {
	Role      Role              `json:"role"`
	Professor *ProfessorSummary `json:"professor,omitempty"`
	Student   *StudentSummary   `json:"student,omitempty"`
}
