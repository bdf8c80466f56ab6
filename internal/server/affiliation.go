package server

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	affiliationdomain "github.com/smallbiznis/crewlink/internal/affiliation/domain"
)

type joinRequestBody struct {
	AgencyID string `json:"agencyId"`
	Message  string `json:"message"`
}

type sendInvitationBody struct {
	WorkerID     string `json:"workerId"`
	ProposedRole string `json:"proposedRole"`
	Message      string `json:"message"`
}

type respondBody struct {
	Accept          *bool  `json:"accept"`
	ResponseMessage string `json:"responseMessage"`
}

func (s *Server) SubmitJoinRequest(c *gin.Context) {
	actorID, ok := actorIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req joinRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.AgencyID == "" {
		AbortWithError(c, newValidationError("agencyId", "required", "agency id is required"))
		return
	}

	resp, err := s.affiliationSvc.SubmitJoinRequest(c.Request.Context(), actorID, affiliationdomain.JoinRequest{
		AgencyID: req.AgencyID,
		Message:  req.Message,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) SendInvitation(c *gin.Context) {
	actorID, ok := actorIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req sendInvitationBody
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.WorkerID == "" {
		AbortWithError(c, newValidationError("workerId", "required", "worker id is required"))
		return
	}

	resp, err := s.affiliationSvc.SendInvitation(c.Request.Context(), actorID, affiliationdomain.InvitationRequest{
		WorkerID:     req.WorkerID,
		ProposedRole: req.ProposedRole,
		Message:      req.Message,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) RespondToInvitation(c *gin.Context) {
	actorID, ok := actorIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	req, ok := bindRespondBody(c)
	if !ok {
		return
	}

	resp, err := s.affiliationSvc.RespondToInvitation(c.Request.Context(), actorID, c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RespondToJoinRequest(c *gin.Context) {
	actorID, ok := actorIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	req, ok := bindRespondBody(c)
	if !ok {
		return
	}

	resp, err := s.affiliationSvc.RespondToJoinRequest(c.Request.Context(), actorID, c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func bindRespondBody(c *gin.Context) (affiliationdomain.RespondRequest, bool) {
	var body respondBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return affiliationdomain.RespondRequest{}, false
	}
	if body.Accept == nil {
		AbortWithError(c, newValidationError("accept", "required", "accept is required"))
		return affiliationdomain.RespondRequest{}, false
	}
	return affiliationdomain.RespondRequest{
		Accept:          *body.Accept,
		ResponseMessage: body.ResponseMessage,
	}, true
}

func (s *Server) ListWorkerRequests(c *gin.Context) {
	s.listAffiliation(c, s.affiliationSvc.ListWorkerRequests)
}

func (s *Server) ListWorkerInvitations(c *gin.Context) {
	s.listAffiliation(c, s.affiliationSvc.ListWorkerInvitations)
}

func (s *Server) ListAgencyPendingRequests(c *gin.Context) {
	s.listAffiliation(c, s.affiliationSvc.ListAgencyPendingRequests)
}

func (s *Server) ListAgencySentInvitations(c *gin.Context) {
	s.listAffiliation(c, s.affiliationSvc.ListAgencySentInvitations)
}

func (s *Server) listAffiliation(c *gin.Context, list func(ctx context.Context, actorID snowflake.ID) ([]affiliationdomain.RequestListItem, error)) {
	actorID, ok := actorIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	items, err := list(c.Request.Context(), actorID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if items == nil {
		items = []affiliationdomain.RequestListItem{}
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}
