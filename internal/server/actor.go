package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	actordomain "github.com/smallbiznis/crewlink/internal/actor/domain"
)

type registerWorkerRequest struct {
	DisplayName string `json:"display_name"`
	WorkerType  string `json:"worker_type"`
}

type createAgencyRequest struct {
	Name string `json:"name"`
}

func (s *Server) RegisterWorker(c *gin.Context) {
	actorID, ok := actorIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req registerWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	worker, err := s.actorSvc.RegisterWorker(c.Request.Context(), actorID, actordomain.RegisterWorkerRequest{
		DisplayName: req.DisplayName,
		WorkerType:  req.WorkerType,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": worker})
}

func (s *Server) GetMyWorkerProfile(c *gin.Context) {
	actorID, ok := actorIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	worker, err := s.actorSvc.GetWorkerProfile(c.Request.Context(), actorID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": worker})
}

func (s *Server) CreateAgency(c *gin.Context) {
	actorID, ok := actorIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	agency, err := s.actorSvc.CreateAgency(c.Request.Context(), actorID, actordomain.CreateAgencyRequest{
		Name: req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": agency})
}

func (s *Server) GetMyAgencyProfile(c *gin.Context) {
	actorID, ok := actorIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	agency, err := s.actorSvc.GetAgencyProfile(c.Request.Context(), actorID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": agency})
}

type devTokenRequest struct {
	ActorID string `json:"actor_id"`
}

// IssueDevToken mints a bearer token for local development. Not registered
// in production.
func (s *Server) IssueDevToken(c *gin.Context) {
	var req devTokenRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	var actorID snowflake.ID
	if strings.TrimSpace(req.ActorID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(req.ActorID))
		if err != nil {
			AbortWithError(c, newValidationError("actor_id", "invalid_actor_id", "invalid actor id"))
			return
		}
		actorID = parsed
	} else {
		actorID = s.genID.Generate()
	}

	token, err := s.issuer.Issue(actorID, 24*time.Hour)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"actor_id": actorID.String(),
		"token":    token,
	})
}
