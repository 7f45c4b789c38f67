package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only accepted wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date parses a JSON string in the fixed YYYY-MM-DD format and stores it as
// midnight UTC. Any other format is rejected. JSON null (or an empty string)
// carries no value but still counts as present, so partial updates can tell
// an explicit null from an absent field.
type Date struct {
	t   *time.Time
	set bool
}

func (d *Date) UnmarshalJSON(data []byte) error {
	d.set = true
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	d.t = &parsed
	return nil
}

// Ptr returns *time.Time for use in service/domain.
func (d Date) Ptr() *time.Time { return d.t }

// Set reports whether the field appeared in the JSON body, null included.
func (d Date) Set() bool { return d.set }

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"max=1000"`
	StartDate   Date   `json:"start_date" binding:"required"`
	DueDate     Date   `json:"due_date"` // optional: null or absent = open-ended
	Completed   bool   `json:"completed"`
}

// UpdateTaskRequest carries a partial update. An absent field means "leave
// unchanged"; a due_date present as null clears the due date.
type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	StartDate   Date    `json:"start_date"`
	DueDate     Date    `json:"due_date"`
	Completed   *bool   `json:"completed"`
}

type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   string    `json:"start_date"`
	DueDate     *string   `json:"due_date"`
	Completed   bool      `json:"completed"`
	UserID      int64     `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
