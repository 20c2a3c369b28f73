package models

import (
	"encoding/json"
	"time"
)

// Candidate lifecycle statuses.
const (
	CandidateStatusAvailable = "available"
	CandidateStatusInProcess = "in_process"
	CandidateStatusHired     = "hired"
	CandidateStatusInactive  = "inactive"
)

// CandidateStatuses is the allowed status set.
var CandidateStatuses = []string{
	CandidateStatusAvailable,
	CandidateStatusInProcess,
	CandidateStatusHired,
	CandidateStatusInactive,
}

// Candidate is a person registered through one of the intake forms. Contact
// and document fields are stored encrypted; repositories return them as
// persisted and services decrypt on the way out.
type Candidate struct {
	ID             string          `db:"id" json:"id"`
	FullName       string          `db:"full_name" json:"full_name"`
	BirthDate      *time.Time      `db:"birth_date" json:"birth_date,omitempty"`
	NationalID     *string         `db:"national_id" json:"national_id,omitempty"`
	IDDocument     *string         `db:"id_document" json:"id_document,omitempty"`
	Email          *string         `db:"email" json:"email,omitempty"`
	Phone          *string         `db:"phone" json:"phone,omitempty"`
	Whatsapp       *string         `db:"whatsapp" json:"whatsapp,omitempty"`
	Address        *string         `db:"address" json:"address,omitempty"`
	StreetNumber   *string         `db:"street_number" json:"street_number,omitempty"`
	AddressExtra   *string         `db:"address_extra" json:"address_extra,omitempty"`
	District       *string         `db:"district" json:"district,omitempty"`
	City           *string         `db:"city" json:"city,omitempty"`
	RoleType       string          `db:"role_type" json:"role_type"`
	Status         string          `db:"status" json:"status"`
	Qualified      bool            `db:"qualified" json:"qualified"`
	FichaGenerated bool            `db:"ficha_generated" json:"ficha_generated"`
	// Profile holds the role-specific form bucket as raw JSON. Pointer so a
	// NULL column scans cleanly.
	Profile *json.RawMessage `db:"profile" json:"profile,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// CandidateFilter encapsulates allowed list parameters.
type CandidateFilter struct {
	Search    string
	RoleType  string
	City      string
	Status    string
	Qualified *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// RoleTypeLabels translates machine form identifiers into display text.
var RoleTypeLabels = map[string]string{
	"nanny":       "Nanny",
	"caretaker":   "Caretaker",
	"butler":      "Butler",
	"cook":        "Cook",
	"governess":   "Governess",
	"housemaid":   "Housemaid",
	"housekeeper": "Housekeeper",
}

// RoleTypeLabel returns the display label for a role type, falling back to
// the raw identifier.
func RoleTypeLabel(roleType string) string {
	if label, ok := RoleTypeLabels[roleType]; ok {
		return label
	}
	if roleType == "" {
		return "Role not specified"
	}
	return roleType
}
