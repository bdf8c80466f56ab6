package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crewlink/internal/actor/domain"
	"github.com/smallbiznis/crewlink/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	log   *zap.Logger
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
}

func NewService(log *zap.Logger, conn *gorm.DB, repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &service{
		log:   log,
		db:    conn,
		repo:  repo,
		genID: genID,
	}
}

func (s *service) RegisterWorker(ctx context.Context, actorID snowflake.ID, req domain.RegisterWorkerRequest) (*domain.WorkerResponse, error) {
	if actorID == 0 {
		return nil, domain.ErrInvalidActor
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, domain.ErrInvalidName
	}

	existing, err := s.repo.FindWorkerByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrWorkerExists
	}

	now := time.Now().UTC()
	worker := domain.Worker{
		ID:          s.genID.Generate(),
		ActorID:     actorID,
		DisplayName: displayName,
		WorkerType:  strings.TrimSpace(req.WorkerType),
		CreatedAt:   now,
	}

	if err := s.repo.CreateWorker(ctx, worker); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrWorkerExists
		}
		return nil, err
	}

	s.log.Info("worker registered",
		zap.String("worker_id", worker.ID.String()),
		zap.String("actor_id", actorID.String()),
	)

	return workerResponse(worker), nil
}

// CreateAgency creates the agency together with an ADMIN membership for its
// creator in one transaction.
func (s *service) CreateAgency(ctx context.Context, actorID snowflake.ID, req domain.CreateAgencyRequest) (*domain.AgencyResponse, error) {
	if actorID == 0 {
		return nil, domain.ErrInvalidActor
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	agency := domain.Agency{
		ID:        s.genID.Generate(),
		ActorID:   actorID,
		Name:      name,
		CreatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateAgency(ctx, agency); err != nil {
			return err
		}

		member := domain.AgencyMember{
			ID:        s.genID.Generate(),
			AgencyID:  agency.ID,
			ActorID:   actorID,
			Role:      domain.RoleAdmin,
			CreatedAt: now,
		}

		return repo.AddMember(ctx, member)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrAgencyNameTaken
		}
		return nil, err
	}

	s.log.Info("agency created",
		zap.String("agency_id", agency.ID.String()),
		zap.String("actor_id", actorID.String()),
	)

	return agencyResponse(agency), nil
}

func (s *service) GetWorkerProfile(ctx context.Context, actorID snowflake.ID) (*domain.WorkerResponse, error) {
	worker, err := s.repo.FindWorkerByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, domain.ErrWorkerNotFound
	}
	return workerResponse(*worker), nil
}

func (s *service) GetAgencyProfile(ctx context.Context, actorID snowflake.ID) (*domain.AgencyResponse, error) {
	agency, err := s.repo.FindAgencyByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if agency == nil {
		return nil, domain.ErrAgencyNotFound
	}
	return agencyResponse(*agency), nil
}

func workerResponse(worker domain.Worker) *domain.WorkerResponse {
	resp := &domain.WorkerResponse{
		ID:            worker.ID.String(),
		DisplayName:   worker.DisplayName,
		WorkerType:    worker.WorkerType,
		JobsCompleted: worker.JobsCompleted,
		RatingAvg:     worker.RatingAvg,
		RatingCount:   worker.RatingCount,
		CreatedAt:     worker.CreatedAt,
	}
	if worker.AgencyID != nil {
		resp.AgencyID = worker.AgencyID.String()
	}
	return resp
}

func agencyResponse(agency domain.Agency) *domain.AgencyResponse {
	return &domain.AgencyResponse{
		ID:           agency.ID.String(),
		Name:         agency.Name,
		TotalWorkers: agency.TotalWorkers,
		RatingAvg:    agency.RatingAvg,
		RatingCount:  agency.RatingCount,
		CreatedAt:    agency.CreatedAt,
	}
}
