package models

import "time"

// Detailed opening statuses managed from the back office.
const (
	OpeningStatusActive     = "active"
	OpeningStatusInProgress = "in_progress"
	OpeningStatusFilled     = "filled"
	OpeningStatusPaused     = "paused"
	OpeningStatusCancelled  = "cancelled"
)

// OpeningDetailedStatuses is the allowed detailed status set.
var OpeningDetailedStatuses = []string{
	OpeningStatusActive,
	OpeningStatusInProgress,
	OpeningStatusFilled,
	OpeningStatusPaused,
	OpeningStatusCancelled,
}

// coarseStatus mirrors the detailed status onto the legacy coarse column that
// older consumers still read. Only in_progress collapses; everything else maps
// onto itself.
var coarseStatus = map[string]string{
	OpeningStatusActive:     OpeningStatusActive,
	OpeningStatusInProgress: OpeningStatusActive,
	OpeningStatusFilled:     OpeningStatusFilled,
	OpeningStatusPaused:     OpeningStatusPaused,
	OpeningStatusCancelled:  OpeningStatusCancelled,
}

// CoarseStatus returns the legacy status the given detailed status mirrors to.
func CoarseStatus(detailed string) string {
	if coarse, ok := coarseStatus[detailed]; ok {
		return coarse
	}
	return detailed
}

// JobOpening is a client position the agency is trying to fill. Client contact
// fields are stored encrypted.
type JobOpening struct {
	ID             string     `db:"id" json:"id"`
	Title          string     `db:"title" json:"title"`
	RoleType       string     `db:"role_type" json:"role_type"`
	Description    *string    `db:"description" json:"description,omitempty"`
	City           *string    `db:"city" json:"city,omitempty"`
	District       *string    `db:"district" json:"district,omitempty"`
	Salary         *string    `db:"salary" json:"salary,omitempty"`
	Workload       *string    `db:"workload" json:"workload,omitempty"`
	ClientName     *string    `db:"client_name" json:"client_name,omitempty"`
	ClientEmail    *string    `db:"client_email" json:"client_email,omitempty"`
	ClientPhone    *string    `db:"client_phone" json:"client_phone,omitempty"`
	Urgent         bool       `db:"urgent" json:"urgent"`
	Status         string     `db:"status" json:"status"`
	StatusDetailed string     `db:"status_detailed" json:"status_detailed"`
	FilledAt       *time.Time `db:"filled_at" json:"filled_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// OpeningFilter encapsulates allowed list parameters.
type OpeningFilter struct {
	Search    string
	RoleType  string
	City      string
	Status    string
	Urgent    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Opening note categories.
const (
	NoteCategoryGeneral       = "general"
	NoteCategoryCandidateSent = "candidate_sent"
	NoteCategoryStatusChange  = "status_change"
)

// NoteCategories is the allowed note category set.
var NoteCategories = []string{
	NoteCategoryGeneral,
	NoteCategoryCandidateSent,
	NoteCategoryStatusChange,
}

// OpeningNote is a timestamped annotation on an opening.
type OpeningNote struct {
	ID        string    `db:"id" json:"id"`
	OpeningID string    `db:"opening_id" json:"opening_id"`
	Category  string    `db:"category" json:"category"`
	Body      string    `db:"body" json:"body"`
	Author    string    `db:"author" json:"author"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
