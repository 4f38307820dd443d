package models

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	CategoryWork     = "work"
	CategoryPersonal = "personal"
	CategoryShopping = "shopping"
	CategoryOther    = "other"
)

type Task struct {
	ID          int64
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string
	Status      string
	Category    string
	Location    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PriorityRank maps a priority to its sort rank. High urgency sorts
// first, which "high" < "low" < "medium" alphabetically would not give.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

func IsValidStatus(status string) bool {
	return status == StatusPending ||
		status == StatusCompleted
}

func IsValidPriority(priority string) bool {
	return priority == PriorityHigh ||
		priority == PriorityMedium ||
		priority == PriorityLow
}

// IsValidCategory reports whether category belongs to the known set.
// An unset category is allowed and handled by the callers since the
// field itself is optional.
func IsValidCategory(category string) bool {
	return category == CategoryWork ||
		category == CategoryPersonal ||
		category == CategoryShopping ||
		category == CategoryOther
}
