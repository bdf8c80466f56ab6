package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is the affiliation request ledger contract.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateRequest(ctx context.Context, req AffiliationRequest) error
	// GetRequest returns (nil, nil) when the request does not exist.
	GetRequest(ctx context.Context, id snowflake.ID) (*AffiliationRequest, error)
	HasPendingRequest(ctx context.Context, workerID, agencyID snowflake.ID, direction Direction) (bool, error)

	// ResolveRequest moves a request from PENDING to a terminal status with a
	// conditional write and reports whether this caller won the transition.
	ResolveRequest(ctx context.Context, id snowflake.ID, status Status, responseMessage string, at time.Time) (bool, error)

	ListForWorker(ctx context.Context, workerID snowflake.ID, direction Direction, pendingOnly bool) ([]RequestListItem, error)
	ListForAgency(ctx context.Context, agencyID snowflake.ID, direction Direction, pendingOnly bool) ([]RequestListItem, error)
}
