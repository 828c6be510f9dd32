// Package notify fans domain events out to connected live-update clients.
//
// Delivery is best effort: no replay, no acknowledgement, and a client that
// cannot keep up is disconnected instead of slowing anyone else down.
package notify

import "github.com/sakif/assignment-hub/internal/model"

type EventType string

const (
	AssignmentCreated EventType = "assignment_created"
	SubmissionCreated EventType = "submission_created"
	SubmissionUpdated EventType = "submission_updated"
)

// Event is the wire shape sent to clients: {"type": "...", "data": {...}}.
//
// Recipients and Roles narrow the audience: a client receives the event when
// its user id is in Recipients or its role is in Roles. Both nil means every
// client. Neither is serialized.
type Event struct {
	Type       EventType    `json:"type"`
	Data       any          `json:"data"`
	Recipients []string     `json:"-"`
	Roles      []model.Role `json:"-"`
}

func (e Event) deliverableTo(c *Client) bool {
	if e.Recipients == nil && e.Roles == nil {
		return true
	}
	for _, id := range e.Recipients {
		if id == c.UserID {
			return true
		}
	}
	for _, r := range e.Roles {
		if r == c.Role {
			return true
		}
	}
	return false
}
