package domain

import (
	"testing"

	actordomain "github.com/smallbiznis/crewlink/internal/actor/domain"
)

func TestCanActOnAgency(t *testing.T) {
	admin := &actordomain.AgencyMember{Role: actordomain.RoleAdmin}
	manager := &actordomain.AgencyMember{Role: actordomain.RoleManager}
	worker := &actordomain.AgencyMember{Role: actordomain.RoleWorker}

	if !CanActOnAgency(admin, actordomain.RoleAdmin, actordomain.RoleManager) {
		t.Fatal("expected ADMIN to pass the gate")
	}
	if !CanActOnAgency(manager, actordomain.RoleAdmin, actordomain.RoleManager) {
		t.Fatal("expected MANAGER to pass the gate")
	}
	if CanActOnAgency(worker, actordomain.RoleAdmin, actordomain.RoleManager) {
		t.Fatal("expected WORKER to be rejected")
	}
	if CanActOnAgency(nil, actordomain.RoleAdmin) {
		t.Fatal("expected missing membership to be rejected")
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Fatal("PENDING must not be terminal")
	}
	for _, status := range []Status{StatusAccepted, StatusRejected, StatusCancelled} {
		if !status.Terminal() {
			t.Fatalf("%s must be terminal", status)
		}
	}
}
