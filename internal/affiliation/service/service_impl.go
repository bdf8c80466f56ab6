package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	actordomain "github.com/smallbiznis/crewlink/internal/actor/domain"
	"github.com/smallbiznis/crewlink/internal/affiliation/domain"
	"github.com/smallbiznis/crewlink/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	log      *zap.Logger
	db       *gorm.DB
	requests domain.Repository
	actors   actordomain.Repository
	genID    *snowflake.Node
}

func NewService(log *zap.Logger, conn *gorm.DB, requests domain.Repository, actors actordomain.Repository, genID *snowflake.Node) domain.Service {
	return &service{
		log:      log,
		db:       conn,
		requests: requests,
		actors:   actors,
		genID:    genID,
	}
}

// SubmitJoinRequest files a WORKER_INITIATED request. Workers may only ask
// for the lowest privilege tier; agencies decide the role on invitation.
func (s *service) SubmitJoinRequest(ctx context.Context, actorID snowflake.ID, req domain.JoinRequest) (*domain.SubmitResponse, error) {
	worker, err := s.actors.FindWorkerByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, domain.ErrWorkerProfileRequired
	}

	agencyID, err := snowflake.ParseString(strings.TrimSpace(req.AgencyID))
	if err != nil {
		return nil, domain.ErrAgencyNotFound
	}
	agency, err := s.actors.FindAgencyByID(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	if agency == nil {
		return nil, domain.ErrAgencyNotFound
	}

	if worker.AgencyID != nil {
		return nil, domain.ErrAlreadyAffiliated
	}

	pending, err := s.requests.HasPendingRequest(ctx, worker.ID, agency.ID, domain.DirectionWorkerInitiated)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ErrDuplicatePending
	}

	record := domain.AffiliationRequest{
		ID:           s.genID.Generate(),
		WorkerID:     worker.ID,
		AgencyID:     agency.ID,
		Direction:    domain.DirectionWorkerInitiated,
		Status:       domain.StatusPending,
		ProposedRole: actordomain.RoleWorker,
		Message:      strings.TrimSpace(req.Message),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.requests.CreateRequest(ctx, record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicatePending
		}
		return nil, err
	}

	s.log.Info("join request submitted",
		zap.String("request_id", record.ID.String()),
		zap.String("worker_id", worker.ID.String()),
		zap.String("agency_id", agency.ID.String()),
	)

	return &domain.SubmitResponse{
		RequestID: record.ID.String(),
		Message:   fmt.Sprintf("join request sent to %s", agency.Name),
	}, nil
}

// SendInvitation files an AGENCY_INITIATED request with a caller-chosen role.
func (s *service) SendInvitation(ctx context.Context, actorID snowflake.ID, req domain.InvitationRequest) (*domain.SubmitResponse, error) {
	agency, err := s.actors.FindAgencyByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if agency == nil {
		return nil, domain.ErrAgencyProfileRequired
	}

	if err := s.requireAgencyRole(ctx, agency.ID, actorID, actordomain.RoleAdmin, actordomain.RoleManager); err != nil {
		return nil, err
	}

	role := actordomain.Role(strings.ToUpper(strings.TrimSpace(req.ProposedRole)))
	if role == "" {
		role = actordomain.RoleWorker
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	workerID, err := snowflake.ParseString(strings.TrimSpace(req.WorkerID))
	if err != nil {
		return nil, domain.ErrWorkerNotFound
	}
	worker, err := s.actors.FindWorkerByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, domain.ErrWorkerNotFound
	}

	if worker.AgencyID != nil {
		return nil, domain.ErrAlreadyAffiliated
	}

	pending, err := s.requests.HasPendingRequest(ctx, worker.ID, agency.ID, domain.DirectionAgencyInitiated)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ErrDuplicatePending
	}

	record := domain.AffiliationRequest{
		ID:           s.genID.Generate(),
		WorkerID:     worker.ID,
		AgencyID:     agency.ID,
		Direction:    domain.DirectionAgencyInitiated,
		Status:       domain.StatusPending,
		ProposedRole: role,
		Message:      strings.TrimSpace(req.Message),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.requests.CreateRequest(ctx, record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicatePending
		}
		return nil, err
	}

	s.log.Info("invitation sent",
		zap.String("request_id", record.ID.String()),
		zap.String("worker_id", worker.ID.String()),
		zap.String("agency_id", agency.ID.String()),
		zap.String("proposed_role", string(role)),
	)

	return &domain.SubmitResponse{
		RequestID: record.ID.String(),
		Message:   fmt.Sprintf("invitation sent to %s", worker.DisplayName),
	}, nil
}

// RespondToInvitation lets the addressed worker accept or reject an
// AGENCY_INITIATED request.
func (s *service) RespondToInvitation(ctx context.Context, actorID snowflake.ID, requestID string, req domain.RespondRequest) (*domain.RespondResponse, error) {
	worker, err := s.actors.FindWorkerByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, domain.ErrWorkerProfileRequired
	}

	record, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if record.WorkerID != worker.ID {
		return nil, domain.ErrNotAddressed
	}
	if record.Direction != domain.DirectionAgencyInitiated {
		return nil, domain.ErrWrongDirection
	}
	if record.Status.Terminal() {
		return nil, domain.ErrAlreadyResolved
	}

	return s.resolve(ctx, record, req)
}

// RespondToJoinRequest lets an agency admin or manager accept or reject a
// WORKER_INITIATED request addressed to their agency.
func (s *service) RespondToJoinRequest(ctx context.Context, actorID snowflake.ID, requestID string, req domain.RespondRequest) (*domain.RespondResponse, error) {
	agency, err := s.actors.FindAgencyByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if agency == nil {
		return nil, domain.ErrAgencyProfileRequired
	}

	if err := s.requireAgencyRole(ctx, agency.ID, actorID, actordomain.RoleAdmin, actordomain.RoleManager); err != nil {
		return nil, err
	}

	record, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if record.AgencyID != agency.ID {
		return nil, domain.ErrNotAddressed
	}
	if record.Direction != domain.DirectionWorkerInitiated {
		return nil, domain.ErrWrongDirection
	}
	if record.Status.Terminal() {
		return nil, domain.ErrAlreadyResolved
	}

	return s.resolve(ctx, record, req)
}

func (s *service) ListWorkerRequests(ctx context.Context, actorID snowflake.ID) ([]domain.RequestListItem, error) {
	worker, err := s.actors.FindWorkerByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, domain.ErrWorkerProfileRequired
	}
	return s.requests.ListForWorker(ctx, worker.ID, domain.DirectionWorkerInitiated, false)
}

func (s *service) ListWorkerInvitations(ctx context.Context, actorID snowflake.ID) ([]domain.RequestListItem, error) {
	worker, err := s.actors.FindWorkerByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, domain.ErrWorkerProfileRequired
	}
	return s.requests.ListForWorker(ctx, worker.ID, domain.DirectionAgencyInitiated, true)
}

func (s *service) ListAgencyPendingRequests(ctx context.Context, actorID snowflake.ID) ([]domain.RequestListItem, error) {
	agency, err := s.actors.FindAgencyByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if agency == nil {
		return nil, domain.ErrAgencyProfileRequired
	}
	return s.requests.ListForAgency(ctx, agency.ID, domain.DirectionWorkerInitiated, true)
}

func (s *service) ListAgencySentInvitations(ctx context.Context, actorID snowflake.ID) ([]domain.RequestListItem, error) {
	agency, err := s.actors.FindAgencyByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if agency == nil {
		return nil, domain.ErrAgencyProfileRequired
	}
	return s.requests.ListForAgency(ctx, agency.ID, domain.DirectionAgencyInitiated, false)
}

// requireAgencyRole is the authorization gate for agency-side mutations.
func (s *service) requireAgencyRole(ctx context.Context, agencyID, actorID snowflake.ID, required ...actordomain.Role) error {
	member, err := s.actors.GetMember(ctx, agencyID, actorID)
	if err != nil {
		return err
	}
	if !domain.CanActOnAgency(member, required...) {
		return domain.ErrRoleForbidden
	}
	return nil
}

func (s *service) getRequest(ctx context.Context, raw string) (*domain.AffiliationRequest, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}
	record, err := s.requests.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrRequestNotFound
	}
	return record, nil
}

func (s *service) resolve(ctx context.Context, record *domain.AffiliationRequest, req domain.RespondRequest) (*domain.RespondResponse, error) {
	responseMessage := strings.TrimSpace(req.ResponseMessage)

	if !req.Accept {
		won, err := s.requests.ResolveRequest(ctx, record.ID, domain.StatusRejected, responseMessage, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		if !won {
			return nil, domain.ErrAlreadyResolved
		}

		s.log.Info("affiliation request rejected",
			zap.String("request_id", record.ID.String()),
		)

		return &domain.RespondResponse{
			RequestID: record.ID.String(),
			Status:    domain.StatusRejected,
			Message:   "request rejected",
		}, nil
	}

	if err := s.accept(ctx, record, responseMessage); err != nil {
		return nil, err
	}

	return &domain.RespondResponse{
		RequestID: record.ID.String(),
		Status:    domain.StatusAccepted,
		Message:   "request accepted",
	}, nil
}

// accept performs the acceptance unit of work: close the request, assign the
// worker, create the membership with the proposed role, bump the agency
// counter. All four writes commit or none do; the conditional writes make a
// losing concurrent caller indistinguishable from a late one.
func (s *service) accept(ctx context.Context, record *domain.AffiliationRequest, responseMessage string) error {
	now := time.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger := s.requests.WithTx(tx)
		actors := s.actors.WithTx(tx)

		won, err := ledger.ResolveRequest(ctx, record.ID, domain.StatusAccepted, responseMessage, now)
		if err != nil {
			return err
		}
		if !won {
			return domain.ErrAlreadyResolved
		}

		assigned, err := actors.AssignWorkerAgency(ctx, record.WorkerID, record.AgencyID, now)
		if err != nil {
			return err
		}
		if !assigned {
			return domain.ErrAlreadyAffiliated
		}

		worker, err := actors.FindWorkerByID(ctx, record.WorkerID)
		if err != nil {
			return err
		}
		if worker == nil {
			return domain.ErrWorkerNotFound
		}

		member := actordomain.AgencyMember{
			ID:        s.genID.Generate(),
			AgencyID:  record.AgencyID,
			ActorID:   worker.ActorID,
			Role:      record.ProposedRole,
			CreatedAt: now,
		}
		if err := actors.AddMember(ctx, member); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrMembershipExists
			}
			return err
		}

		return actors.IncrementAgencyWorkers(ctx, record.AgencyID, 1, now)
	})
	if err != nil {
		return err
	}

	s.log.Info("affiliation request accepted",
		zap.String("request_id", record.ID.String()),
		zap.String("worker_id", record.WorkerID.String()),
		zap.String("agency_id", record.AgencyID.String()),
		zap.String("role", string(record.ProposedRole)),
	)

	return nil
}
