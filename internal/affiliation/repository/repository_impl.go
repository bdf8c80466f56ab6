package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crewlink/internal/affiliation/domain"
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

func (r *repository) CreateRequest(ctx context.Context, req domain.AffiliationRequest) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO affiliation_requests (id, worker_id, agency_id, direction, status, proposed_role, message, response_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, '', ?)`,
		req.ID,
		req.WorkerID,
		req.AgencyID,
		req.Direction,
		req.Status,
		req.ProposedRole,
		req.Message,
		req.CreatedAt,
	).Error
}

func (r *repository) GetRequest(ctx context.Context, id snowflake.ID) (*domain.AffiliationRequest, error) {
	var req domain.AffiliationRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) HasPendingRequest(ctx context.Context, workerID, agencyID snowflake.ID, direction domain.Direction) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.AffiliationRequest{}).
		Where("worker_id = ? AND agency_id = ? AND direction = ? AND status = ?",
			workerID, agencyID, direction, domain.StatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ResolveRequest is the only write path out of PENDING. The conditional
// WHERE clause guarantees at most one caller wins the transition.
func (r *repository) ResolveRequest(ctx context.Context, id snowflake.ID, status domain.Status, responseMessage string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE affiliation_requests
		 SET status = ?, response_message = ?, responded_at = ?
		 WHERE id = ? AND status = ?`,
		status,
		responseMessage,
		at,
		id,
		domain.StatusPending,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

const listSelect = `
	SELECT r.id, r.worker_id, w.display_name AS worker_name, w.worker_type,
	       r.agency_id, a.name AS agency_name, r.direction, r.status,
	       r.proposed_role, r.message, r.response_message, r.created_at, r.responded_at
	FROM affiliation_requests r
	JOIN workers w ON w.id = r.worker_id
	JOIN agencies a ON a.id = r.agency_id`

func (r *repository) ListForWorker(ctx context.Context, workerID snowflake.ID, direction domain.Direction, pendingOnly bool) ([]domain.RequestListItem, error) {
	query := listSelect + ` WHERE r.worker_id = ? AND r.direction = ?`
	args := []any{workerID, direction}
	if pendingOnly {
		query += ` AND r.status = ?`
		args = append(args, domain.StatusPending)
	}
	query += ` ORDER BY r.created_at DESC`

	var items []domain.RequestListItem
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListForAgency(ctx context.Context, agencyID snowflake.ID, direction domain.Direction, pendingOnly bool) ([]domain.RequestListItem, error) {
	query := listSelect + ` WHERE r.agency_id = ? AND r.direction = ?`
	args := []any{agencyID, direction}
	if pendingOnly {
		query += ` AND r.status = ?`
		args = append(args, domain.StatusPending)
	}
	query += ` ORDER BY r.created_at DESC`

	var items []domain.RequestListItem
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
