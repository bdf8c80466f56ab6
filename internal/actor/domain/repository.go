package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is the directory and roster contract. Lookups return (nil, nil)
// when the record does not exist.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindWorkerByActor(ctx context.Context, actorID snowflake.ID) (*Worker, error)
	FindWorkerByID(ctx context.Context, id snowflake.ID) (*Worker, error)
	FindAgencyByActor(ctx context.Context, actorID snowflake.ID) (*Agency, error)
	FindAgencyByID(ctx context.Context, id snowflake.ID) (*Agency, error)

	CreateWorker(ctx context.Context, worker Worker) error
	CreateAgency(ctx context.Context, agency Agency) error

	GetMember(ctx context.Context, agencyID, actorID snowflake.ID) (*AgencyMember, error)
	AddMember(ctx context.Context, member AgencyMember) error

	// AssignWorkerAgency sets the worker's affiliation only while it is
	// still null, and reports whether the write took effect.
	AssignWorkerAgency(ctx context.Context, workerID, agencyID snowflake.ID, at time.Time) (bool, error)
	IncrementAgencyWorkers(ctx context.Context, agencyID snowflake.ID, delta int64, at time.Time) error
}
