package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	affiliationdomain "github.com/smallbiznis/crewlink/internal/affiliation/domain"
	"github.com/smallbiznis/crewlink/internal/config"
	"github.com/smallbiznis/crewlink/internal/identity"
)

type fakeAffiliationService struct {
	submitCalls  int
	respondCalls int
	listCalls    int
	lastActor    snowflake.ID

	submitResp  *affiliationdomain.SubmitResponse
	respondResp *affiliationdomain.RespondResponse
	items       []affiliationdomain.RequestListItem
	err         error
}

func (f *fakeAffiliationService) SubmitJoinRequest(ctx context.Context, actorID snowflake.ID, req affiliationdomain.JoinRequest) (*affiliationdomain.SubmitResponse, error) {
	f.submitCalls++
	f.lastActor = actorID
	if f.err != nil {
		return nil, f.err
	}
	return f.submitResp, nil
}

func (f *fakeAffiliationService) SendInvitation(ctx context.Context, actorID snowflake.ID, req affiliationdomain.InvitationRequest) (*affiliationdomain.SubmitResponse, error) {
	f.submitCalls++
	f.lastActor = actorID
	if f.err != nil {
		return nil, f.err
	}
	return f.submitResp, nil
}

func (f *fakeAffiliationService) RespondToInvitation(ctx context.Context, actorID snowflake.ID, requestID string, req affiliationdomain.RespondRequest) (*affiliationdomain.RespondResponse, error) {
	f.respondCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.respondResp, nil
}

func (f *fakeAffiliationService) RespondToJoinRequest(ctx context.Context, actorID snowflake.ID, requestID string, req affiliationdomain.RespondRequest) (*affiliationdomain.RespondResponse, error) {
	f.respondCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.respondResp, nil
}

func (f *fakeAffiliationService) ListWorkerRequests(ctx context.Context, actorID snowflake.ID) ([]affiliationdomain.RequestListItem, error) {
	f.listCalls++
	return f.items, f.err
}

func (f *fakeAffiliationService) ListWorkerInvitations(ctx context.Context, actorID snowflake.ID) ([]affiliationdomain.RequestListItem, error) {
	f.listCalls++
	return f.items, f.err
}

func (f *fakeAffiliationService) ListAgencyPendingRequests(ctx context.Context, actorID snowflake.ID) ([]affiliationdomain.RequestListItem, error) {
	f.listCalls++
	return f.items, f.err
}

func (f *fakeAffiliationService) ListAgencySentInvitations(ctx context.Context, actorID snowflake.ID) ([]affiliationdomain.RequestListItem, error) {
	f.listCalls++
	return f.items, f.err
}

func newTestServer(t *testing.T, fake *fakeAffiliationService) (*Server, snowflake.ID, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{Environment: "test"}
	verifier, err := identity.NewVerifier(cfg)
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	issuer, err := identity.NewIssuer(cfg)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	actorID := node.Generate()
	token, err := issuer.Issue(actorID, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	srv := &Server{
		engine:         gin.New(),
		cfg:            cfg,
		verifier:       verifier,
		issuer:         issuer,
		genID:          node,
		affiliationSvc: fake,
	}
	srv.engine.Use(ErrorHandlingMiddleware())
	srv.registerAffiliationRoutes()

	return srv, actorID, token
}

func doJSON(t *testing.T, srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	srv.engine.ServeHTTP(resp, req)
	return resp
}

func TestAffiliationRoutesRequireToken(t *testing.T) {
	fake := &fakeAffiliationService{}
	srv, _, _ := newTestServer(t, fake)

	resp := doJSON(t, srv, http.MethodPost, "/worker-agency-requests/worker/join-request", "", `{"agencyId":"1"}`)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	resp = doJSON(t, srv, http.MethodGet, "/worker-agency-requests/worker/my-requests", "garbage-token", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", resp.Code)
	}
	if fake.submitCalls != 0 || fake.listCalls != 0 {
		t.Fatal("expected service untouched on auth failure")
	}
}

func TestSubmitJoinRequestCreated(t *testing.T) {
	fake := &fakeAffiliationService{
		submitResp: &affiliationdomain.SubmitResponse{RequestID: "42", Message: "join request sent to Acme"},
	}
	srv, actorID, token := newTestServer(t, fake)

	resp := doJSON(t, srv, http.MethodPost, "/worker-agency-requests/worker/join-request", token, `{"agencyId":"123","message":"hi"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", resp.Code, resp.Body.String())
	}
	if fake.lastActor != actorID {
		t.Fatalf("expected actor %s passed through, got %s", actorID, fake.lastActor)
	}

	var payload struct {
		Data affiliationdomain.SubmitResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Data.RequestID != "42" {
		t.Fatalf("unexpected response: %+v", payload.Data)
	}
}

func TestSubmitJoinRequestValidation(t *testing.T) {
	fake := &fakeAffiliationService{}
	srv, _, token := newTestServer(t, fake)

	resp := doJSON(t, srv, http.MethodPost, "/worker-agency-requests/worker/join-request", token, `{"message":"no agency"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing agencyId, got %d", resp.Code)
	}
	if fake.submitCalls != 0 {
		t.Fatal("expected service not called on validation failure")
	}
}

func TestRespondRequiresAcceptField(t *testing.T) {
	fake := &fakeAffiliationService{}
	srv, _, token := newTestServer(t, fake)

	resp := doJSON(t, srv, http.MethodPost, "/worker-agency-requests/worker/invitations/42/respond", token, `{"responseMessage":"?"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing accept, got %d", resp.Code)
	}
	if fake.respondCalls != 0 {
		t.Fatal("expected service not called without accept")
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"worker profile required", affiliationdomain.ErrWorkerProfileRequired, http.StatusUnauthorized},
		{"role forbidden", affiliationdomain.ErrRoleForbidden, http.StatusForbidden},
		{"not addressed", affiliationdomain.ErrNotAddressed, http.StatusForbidden},
		{"request not found", affiliationdomain.ErrRequestNotFound, http.StatusNotFound},
		{"agency not found", affiliationdomain.ErrAgencyNotFound, http.StatusNotFound},
		{"duplicate pending", affiliationdomain.ErrDuplicatePending, http.StatusConflict},
		{"already affiliated", affiliationdomain.ErrAlreadyAffiliated, http.StatusConflict},
		{"already resolved", affiliationdomain.ErrAlreadyResolved, http.StatusConflict},
		{"wrong direction", affiliationdomain.ErrWrongDirection, http.StatusConflict},
		{"invalid role", affiliationdomain.ErrInvalidRole, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeAffiliationService{err: tc.err}
			srv, _, token := newTestServer(t, fake)

			resp := doJSON(t, srv, http.MethodPost, "/worker-agency-requests/agency/requests/42/respond", token, `{"accept":true}`)
			if resp.Code != tc.status {
				t.Fatalf("expected %d for %v, got %d (%s)", tc.status, tc.err, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestListReturnsEmptyArray(t *testing.T) {
	fake := &fakeAffiliationService{}
	srv, _, token := newTestServer(t, fake)

	resp := doJSON(t, srv, http.MethodGet, "/worker-agency-requests/agency/sent-invitations", token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		Data []affiliationdomain.RequestListItem `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Data == nil || len(payload.Data) != 0 {
		t.Fatalf("expected empty data array, got %s", resp.Body.String())
	}
}
