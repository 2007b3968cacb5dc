package authz

import "testing"

func TestCan(t *testing.T) {
	cases := []struct {
		name  string
		roles []string
		cap   Capability
		want  bool
	}{
		{"manager can distribute", []string{"manager"}, CapDistributeLeads, true},
		{"admin can import", []string{"admin"}, CapImportLeads, true},
		{"founder can view all scores", []string{"founder"}, CapViewAllScores, true},
		{"agent cannot distribute", []string{"agent"}, CapDistributeLeads, false},
		{"unknown role has nothing", []string{"intern"}, CapImportLeads, false},
		{"mixed roles use strongest", []string{"agent", "manager"}, CapAwardXP, true},
		{"no roles", nil, CapImportLeads, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Can(tc.roles, tc.cap); got != tc.want {
				t.Fatalf("Can(%v, %s) = %v, want %v", tc.roles, tc.cap, got, tc.want)
			}
		})
	}
}
