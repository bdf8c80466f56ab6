package domain

import actordomain "github.com/smallbiznis/crewlink/internal/actor/domain"

// CanActOnAgency reports whether the membership grants one of the required
// roles. A missing membership and an insufficient role are indistinguishable
// to callers; both gate to the same authorization failure.
func CanActOnAgency(member *actordomain.AgencyMember, required ...actordomain.Role) bool {
	if member == nil {
		return false
	}
	for _, role := range required {
		if member.Role == role {
			return true
		}
	}
	return false
}
