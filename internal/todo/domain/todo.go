package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status is the todo item lifecycle state.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ParseStatus returns the Status for s, or an error for an unknown value.
// The empty string maps to StatusNotStarted, the creation default.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "":
		return StatusNotStarted, nil
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// TodoItem is a unit of work scoped to one organization.
type TodoItem struct {
	ID          string
	Title       string
	Description string
	Status      Status
	OrgID       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTodoItem constructs a validated todo item. An empty status defaults to
// not_started. Returns an error describing the first validation failure.
func NewTodoItem(id, title, description string, status Status, orgID string) (*TodoItem, error) {
	if id == "" {
		return nil, errors.New("id is required")
	}
	if title == "" {
		return nil, errors.New("title is required")
	}
	if description == "" {
		return nil, errors.New("description is required")
	}
	if orgID == "" {
		return nil, errors.New("organization id is required")
	}
	st, err := ParseStatus(string(status))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &TodoItem{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      st,
		OrgID:       orgID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
