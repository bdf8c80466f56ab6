package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	SubmitJoinRequest(ctx context.Context, actorID snowflake.ID, req JoinRequest) (*SubmitResponse, error)
	SendInvitation(ctx context.Context, actorID snowflake.ID, req InvitationRequest) (*SubmitResponse, error)

	RespondToInvitation(ctx context.Context, actorID snowflake.ID, requestID string, req RespondRequest) (*RespondResponse, error)
	RespondToJoinRequest(ctx context.Context, actorID snowflake.ID, requestID string, req RespondRequest) (*RespondResponse, error)

	ListWorkerRequests(ctx context.Context, actorID snowflake.ID) ([]RequestListItem, error)
	ListWorkerInvitations(ctx context.Context, actorID snowflake.ID) ([]RequestListItem, error)
	ListAgencyPendingRequests(ctx context.Context, actorID snowflake.ID) ([]RequestListItem, error)
	ListAgencySentInvitations(ctx context.Context, actorID snowflake.ID) ([]RequestListItem, error)
}

type JoinRequest struct {
	AgencyID string
	Message  string
}

type InvitationRequest struct {
	WorkerID     string
	ProposedRole string
	Message      string
}

type RespondRequest struct {
	Accept          bool
	ResponseMessage string
}

type SubmitResponse struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
}

type RespondResponse struct {
	RequestID string `json:"request_id"`
	Status    Status `json:"status"`
	Message   string `json:"message"`
}

var (
	// Authorization failures.
	ErrWorkerProfileRequired = errors.New("worker_profile_required")
	ErrAgencyProfileRequired = errors.New("agency_profile_required")
	ErrRoleForbidden         = errors.New("agency_role_forbidden")
	ErrNotAddressed          = errors.New("request_not_addressed_to_caller")

	// Missing entities.
	ErrWorkerNotFound  = errors.New("worker_not_found")
	ErrAgencyNotFound  = errors.New("agency_not_found")
	ErrRequestNotFound = errors.New("request_not_found")

	// Invariant conflicts.
	ErrAlreadyAffiliated = errors.New("worker_already_affiliated")
	ErrDuplicatePending  = errors.New("duplicate_pending_request")
	ErrWrongDirection    = errors.New("wrong_request_direction")
	ErrAlreadyResolved   = errors.New("request_already_resolved")
	ErrMembershipExists  = errors.New("membership_exists")

	// Validation.
	ErrInvalidRole = errors.New("invalid_role")
)
