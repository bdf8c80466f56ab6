package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	RegisterWorker(ctx context.Context, actorID snowflake.ID, req RegisterWorkerRequest) (*WorkerResponse, error)
	CreateAgency(ctx context.Context, actorID snowflake.ID, req CreateAgencyRequest) (*AgencyResponse, error)
	GetWorkerProfile(ctx context.Context, actorID snowflake.ID) (*WorkerResponse, error)
	GetAgencyProfile(ctx context.Context, actorID snowflake.ID) (*AgencyResponse, error)
}

type RegisterWorkerRequest struct {
	DisplayName string
	WorkerType  string
}

type CreateAgencyRequest struct {
	Name string
}

type WorkerResponse struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"display_name"`
	WorkerType    string    `json:"worker_type"`
	AgencyID      string    `json:"agency_id,omitempty"`
	JobsCompleted int64     `json:"jobs_completed"`
	RatingAvg     float64   `json:"rating_avg"`
	RatingCount   int64     `json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type AgencyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TotalWorkers int64     `json:"total_workers"`
	RatingAvg    float64   `json:"rating_avg"`
	RatingCount  int64     `json:"rating_count"`
	CreatedAt    time.Time `json:"created_at"`
}

var (
	ErrInvalidActor    = errors.New("invalid_actor")
	ErrInvalidName     = errors.New("invalid_name")
	ErrWorkerExists    = errors.New("worker_profile_exists")
	ErrAgencyNameTaken = errors.New("agency_name_taken")
	ErrWorkerNotFound  = errors.New("worker_profile_not_found")
	ErrAgencyNotFound  = errors.New("agency_profile_not_found")
)
