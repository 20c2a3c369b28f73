package models

import "time"

// Link process statuses. A link tracks one candidate being worked on one
// opening, from first send to a terminal outcome.
const (
	ProcessStatusSent               = "sent"
	ProcessStatusInReview           = "in_review"
	ProcessStatusInterviewScheduled = "interview_scheduled"
	ProcessStatusApproved           = "approved"
	ProcessStatusRejected           = "rejected"
	ProcessStatusHired              = "hired"
	ProcessStatusCancelled          = "cancelled"
	ProcessStatusFinalized          = "finalized"
	ProcessStatusExpired            = "expired"
)

// ProcessStatuses is the allowed process status set.
var ProcessStatuses = []string{
	ProcessStatusSent,
	ProcessStatusInReview,
	ProcessStatusInterviewScheduled,
	ProcessStatusApproved,
	ProcessStatusRejected,
	ProcessStatusHired,
	ProcessStatusCancelled,
	ProcessStatusFinalized,
	ProcessStatusExpired,
}

// terminalStatuses are the statuses that take a link out of the active set.
// Everything else counts against the per-opening cap and blocks the candidate
// from entering another process.
var terminalStatuses = map[string]bool{
	ProcessStatusHired:     true,
	ProcessStatusRejected:  true,
	ProcessStatusCancelled: true,
	ProcessStatusFinalized: true,
	ProcessStatusExpired:   true,
}

// IsTerminalStatus reports whether the status ends a link's process.
func IsTerminalStatus(status string) bool {
	return terminalStatuses[status]
}

// ActiveProcessStatuses lists the non-terminal statuses, for IN clauses.
func ActiveProcessStatuses() []string {
	active := make([]string, 0, len(ProcessStatuses))
	for _, s := range ProcessStatuses {
		if !terminalStatuses[s] {
			active = append(active, s)
		}
	}
	return active
}

// Finalize outcomes accepted from the back office.
const (
	OutcomeHired     = "hired"
	OutcomeRejected  = "rejected"
	OutcomeCancelled = "cancelled"
	OutcomeWithdrew  = "withdrew"
	OutcomeOther     = "other"
)

// FinalizeOutcomes is the allowed outcome set.
var FinalizeOutcomes = []string{
	OutcomeHired,
	OutcomeRejected,
	OutcomeCancelled,
	OutcomeWithdrew,
	OutcomeOther,
}

// StatusForOutcome maps a finalize outcome onto the terminal process status
// recorded on the link. Withdrawals and free-form outcomes are folded into
// finalized; the detail survives in the observation log.
func StatusForOutcome(outcome string) string {
	switch outcome {
	case OutcomeHired:
		return ProcessStatusHired
	case OutcomeRejected:
		return ProcessStatusRejected
	case OutcomeCancelled:
		return ProcessStatusCancelled
	default:
		return ProcessStatusFinalized
	}
}

// LinkTTL is how long a link may sit in a non-terminal status before the
// sweep expires it.
const LinkTTL = 90 * 24 * time.Hour

// CandidateOpeningLink records one candidate being presented to one opening.
type CandidateOpeningLink struct {
	ID            string     `db:"id" json:"id"`
	CandidateID   string     `db:"candidate_id" json:"candidate_id"`
	OpeningID     string     `db:"opening_id" json:"opening_id"`
	ProcessStatus string     `db:"process_status" json:"process_status"`
	Observations  string     `db:"observations" json:"observations"`
	SentAt        time.Time  `db:"sent_at" json:"sent_at"`
	InterviewAt   *time.Time `db:"interview_at" json:"interview_at,omitempty"`
	FinalizedAt   *time.Time `db:"finalized_at" json:"finalized_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// LinkDetail is a link joined with the names the dashboard lists alongside it.
type LinkDetail struct {
	CandidateOpeningLink
	CandidateName     string `db:"candidate_name" json:"candidate_name"`
	CandidateRoleType string `db:"candidate_role_type" json:"candidate_role_type"`
	OpeningTitle      string `db:"opening_title" json:"opening_title"`
	OpeningStatus     string `db:"opening_status" json:"opening_status"`
}

// LinkFilter encapsulates allowed list parameters.
type LinkFilter struct {
	CandidateID string
	OpeningID   string
	Status      string
	ActiveOnly  bool
	Page        int
	PageSize    int
}
