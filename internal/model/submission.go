package model

import "time"

// SubmissionStatus is stored with a CHECK constraint. Only StatusSubmitted is
// ever written by the service; late and graded are schema-legal placeholders.
type SubmissionStatus string

const (
	StatusSubmitted SubmissionStatus = "submitted"
	StatusLate      SubmissionStatus = "late"
	StatusGraded    SubmissionStatus = "graded"
)

// Submission is a student's repository link for one assignment.
// (AssignmentID, StudentID) is unique at the storage layer.
type Submission struct {
	ID           string           `json:"id"           db:"id"`
	AssignmentID string           `json:"assignmentId" db:"assignment_id"`
	StudentID    string           `json:"studentId"    db:"student_id"`
	RepoLink     string           `json:"repoLink"     db:"repo_link"`
	SubmittedAt  time.Time        `json:"submittedAt"  db:"submitted_at"`
	Status       SubmissionStatus `json:"status"       db:"status"`
}

// SubmissionView is a Submission joined with the display fields a listing
// needs. Student fields are only populated for professors.
type SubmissionView struct {
	Submission
	AssignmentTitle string `json:"assignmentTitle"        db:"assignment_title"`
	StudentName     string `json:"studentName,omitempty"  db:"student_name"`
	StudentEmail    string `json:"studentEmail,omitempty" db:"student_email"`
}
