// Package domain contains the affiliation request ledger models and the
// contracts of the affiliation state machine.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	actordomain "github.com/smallbiznis/crewlink/internal/actor/domain"
)

// Direction tags who initiated an affiliation request.
type Direction string

const (
	DirectionWorkerInitiated Direction = "WORKER_INITIATED"
	DirectionAgencyInitiated Direction = "AGENCY_INITIATED"
)

// Status is the request lifecycle. CANCELLED exists in the schema but no
// operation sets it; a withdraw operation would have to be added explicitly.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal reports whether the status is a terminal state.
func (s Status) Terminal() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusCancelled:
		return true
	case StatusPending:
		return false
	default:
		return false
	}
}

// AffiliationRequest is the transactional record of a proposed worker-agency
// relationship. At most one PENDING record exists per
// (worker, agency, direction); the partial unique index is the backstop.
type AffiliationRequest struct {
	ID              snowflake.ID     `gorm:"primaryKey" json:"id"`
	WorkerID        snowflake.ID     `gorm:"not null;index" json:"worker_id"`
	AgencyID        snowflake.ID     `gorm:"not null;index" json:"agency_id"`
	Direction       Direction        `gorm:"type:text;not null" json:"direction"`
	Status          Status           `gorm:"type:text;not null" json:"status"`
	ProposedRole    actordomain.Role `gorm:"type:text;not null" json:"proposed_role"`
	Message         string           `gorm:"type:text;not null;default:''" json:"message"`
	ResponseMessage string           `gorm:"type:text;not null;default:''" json:"response_message"`
	CreatedAt       time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	RespondedAt     *time.Time       `json:"responded_at"`
}

// TableName sets the database table name.
func (AffiliationRequest) TableName() string { return "affiliation_requests" }

// RequestListItem is the read projection returned by the query surface.
type RequestListItem struct {
	ID              snowflake.ID `json:"id"`
	WorkerID        snowflake.ID `json:"worker_id"`
	WorkerName      string       `json:"worker_name"`
	WorkerType      string       `json:"worker_type"`
	AgencyID        snowflake.ID `json:"agency_id"`
	AgencyName      string       `json:"agency_name"`
	Direction       Direction    `json:"direction"`
	Status          Status       `json:"status"`
	ProposedRole    string       `json:"proposed_role"`
	Message         string       `json:"message"`
	ResponseMessage string       `json:"response_message"`
	CreatedAt       time.Time    `json:"created_at"`
	RespondedAt     *time.Time   `json:"responded_at"`
}
