// Package authz centralizes permission checks. Handlers never test role
// strings inline; they ask for a capability and this package owns the
// role-to-capability mapping.
package authz

// Capability is a named action an agent may or may not perform.
type Capability string

const (
	// CapImportLeads allows running a bulk lead import.
	CapImportLeads Capability = "leads.import"
	// CapDistributeLeads allows distributing a batch across agents.
	CapDistributeLeads Capability = "leads.distribute"
	// CapViewAllScores allows reading every agent's scoreboard entry.
	CapViewAllScores Capability = "scores.view_all"
	// CapAwardXP allows posting manual XP awards.
	CapAwardXP Capability = "scores.award_xp"
)

// roleGrants maps each role to the capabilities it carries.
// Agents always see their own leads and scores; only elevated roles manage
// intake and distribution.
var roleGrants = map[string][]Capability{
	"agent":   {},
	"manager": {CapImportLeads, CapDistributeLeads, CapViewAllScores, CapAwardXP},
	"admin":   {CapImportLeads, CapDistributeLeads, CapViewAllScores, CapAwardXP},
	"founder": {CapImportLeads, CapDistributeLeads, CapViewAllScores, CapAwardXP},
}

// Can reports whether any of the given roles grants the capability.
func Can(roles []string, cap Capability) bool {
	for _, role := range roles {
		for _, granted := range roleGrants[role] {
			if granted == cap {
				return true
			}
		}
	}
	return false
}
