package eisenhower

import (
	"time"
)

type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	SessionID   string     `json:"sessionId"`
}

// NewTask holds the caller-supplied fields of a task. ID, CreatedAt and
// SessionID are assigned by the TaskStore.
type NewTask struct {
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time
	Priority    Priority
}

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tags      []string  `json:"tags"`
}

type NewNote struct {
	Title   string
	Content string
	Tags    []string
}

// Priority is one of the four Eisenhower quadrants.
type Priority string

const (
	PriorityUrgentImportant       Priority = "urgent-important"
	PriorityImportantNotUrgent    Priority = "important-not-urgent"
	PriorityUrgentNotImportant    Priority = "urgent-not-important"
	PriorityNotUrgentNotImportant Priority = "not-urgent-not-important"

	DefaultPriority = PriorityImportantNotUrgent
)

// Priorities returns the quadrants in display order (1-4).
func Priorities() []Priority {
	return []Priority{
		PriorityUrgentImportant,
		PriorityImportantNotUrgent,
		PriorityUrgentNotImportant,
		PriorityNotUrgentNotImportant,
	}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgentImportant, PriorityImportantNotUrgent, PriorityUrgentNotImportant, PriorityNotUrgentNotImportant:
		return true
	}
	return false
}

func (p Priority) Urgent() bool {
	return p == PriorityUrgentImportant || p == PriorityUrgentNotImportant
}

func (p Priority) Important() bool {
	return p == PriorityUrgentImportant || p == PriorityImportantNotUrgent
}

func (p Priority) Label() string {
	switch p {
	case PriorityUrgentImportant:
		return "Urgent & Important"
	case PriorityImportantNotUrgent:
		return "Important, Not Urgent"
	case PriorityUrgentNotImportant:
		return "Urgent, Not Important"
	case PriorityNotUrgentNotImportant:
		return "Not Urgent, Not Important"
	}
	return string(p)
}

// PriorityFromQuadrant maps quadrant numbers 1-4 to priorities.
func PriorityFromQuadrant(n int) (Priority, bool) {
	ps := Priorities()
	if n < 1 || n > len(ps) {
		return "", false
	}
	return ps[n-1], true
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme treats anything other than "dark" as light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
