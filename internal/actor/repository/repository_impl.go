package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crewlink/internal/actor/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) FindWorkerByActor(ctx context.Context, actorID snowflake.ID) (*domain.Worker, error) {
	var worker domain.Worker
	err := r.db.WithContext(ctx).First(&worker, "actor_id = ?", actorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *repository) FindWorkerByID(ctx context.Context, id snowflake.ID) (*domain.Worker, error) {
	var worker domain.Worker
	err := r.db.WithContext(ctx).First(&worker, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

// FindAgencyByActor resolves through the membership roster so that any member
// of the agency (not just its creator) resolves to it. The earliest
// membership wins when an actor belongs to more than one agency.
func (r *repository) FindAgencyByActor(ctx context.Context, actorID snowflake.ID) (*domain.Agency, error) {
	var agency domain.Agency
	err := r.db.WithContext(ctx).Raw(
		`SELECT a.id, a.actor_id, a.name, a.total_workers, a.rating_avg, a.rating_count, a.created_at, a.updated_at
		 FROM agencies a
		 JOIN agency_members m ON m.agency_id = a.id
		 WHERE m.actor_id = ?
		 ORDER BY m.created_at ASC
		 LIMIT 1`,
		actorID,
	).Scan(&agency).Error
	if err != nil {
		return nil, err
	}
	if agency.ID == 0 {
		return nil, nil
	}
	return &agency, nil
}

func (r *repository) FindAgencyByID(ctx context.Context, id snowflake.ID) (*domain.Agency, error) {
	var agency domain.Agency
	err := r.db.WithContext(ctx).First(&agency, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agency, nil
}

func (r *repository) CreateWorker(ctx context.Context, worker domain.Worker) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO workers (id, actor_id, display_name, worker_type, jobs_completed, rating_avg, rating_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, 0, 0, ?, ?)`,
		worker.ID,
		worker.ActorID,
		worker.DisplayName,
		worker.WorkerType,
		worker.CreatedAt,
		worker.CreatedAt,
	).Error
}

func (r *repository) CreateAgency(ctx context.Context, agency domain.Agency) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO agencies (id, actor_id, name, total_workers, rating_avg, rating_count, created_at, updated_at)
		 VALUES (?, ?, ?, 0, 0, 0, ?, ?)`,
		agency.ID,
		agency.ActorID,
		agency.Name,
		agency.CreatedAt,
		agency.CreatedAt,
	).Error
}

func (r *repository) GetMember(ctx context.Context, agencyID, actorID snowflake.ID) (*domain.AgencyMember, error) {
	var member domain.AgencyMember
	err := r.db.WithContext(ctx).First(&member, "agency_id = ? AND actor_id = ?", agencyID, actorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) AddMember(ctx context.Context, member domain.AgencyMember) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO agency_members (id, agency_id, actor_id, role, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		member.ID,
		member.AgencyID,
		member.ActorID,
		member.Role,
		member.CreatedAt,
	).Error
}

func (r *repository) AssignWorkerAgency(ctx context.Context, workerID, agencyID snowflake.ID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE workers SET agency_id = ?, updated_at = ? WHERE id = ? AND agency_id IS NULL`,
		agencyID,
		at,
		workerID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) IncrementAgencyWorkers(ctx context.Context, agencyID snowflake.ID, delta int64, at time.Time) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE agencies SET total_workers = total_workers + ?, updated_at = ? WHERE id = ?`,
		delta,
		at,
		agencyID,
	).Error
}
