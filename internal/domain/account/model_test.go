package account

import "testing"

func TestParseRole_Known(t *testing.T) {
	for _, s := range []string{"super_admin", "hospital", "doctor", "patient"} {
		r := ParseRole(s)
		if string(r) != s { t.Errorf("ParseRole(%q) = %q", s, r) }
		if !r.Valid() { t.Errorf("role %q should be valid", s) }
	}
}

func TestParseRole_Unknown(t *testing.T) {
	for _, s := range []string{"", "admin", "SUPER_ADMIN", "Doctor", "unknown", "nurse"} {
		r := ParseRole(s)
		if r != RoleUnknown { t.Errorf("ParseRole(%q) = %q, want unknown", s, r) }
		if r.Valid() { t.Errorf("ParseRole(%q) should not be valid", s) }
	}
}

func TestRole_RequiresApproval(t *testing.T) {
	cases := map[Role]bool{
		RoleSuperAdmin: false,
		RolePatient:    false,
		RoleHospital:   true,
		RoleDoctor:     true,
		RoleUnknown:    false,
	}
	for role, want := range cases {
		if got := role.RequiresApproval(); got != want {
			t.Errorf("%s.RequiresApproval() = %v, want %v", role, got, want)
		}
	}
}

func TestParseApprovalStatus(t *testing.T) {
	for _, s := range []string{"pending", "approved", "rejected"} {
		if got := ParseApprovalStatus(s); string(got) != s {
			t.Errorf("ParseApprovalStatus(%q) = %q", s, got)
		}
	}
	for _, s := range []string{"", "Approved", "PENDING", "deleted", "garbage"} {
		if got := ParseApprovalStatus(s); got != StatusUnknown {
			t.Errorf("ParseApprovalStatus(%q) = %q, want unknown", s, got)
		}
	}
}

func TestAccount_DisplayName(t *testing.T) {
	cases := []struct {
		first, last, email, want string
	}{
		{"Jane", "Doe", "jane@example.com", "Jane Doe"},
		{"Jane", "", "jane@example.com", "Jane"},
		{"", "Doe", "jane@example.com", "Doe"},
		{"", "", "jane@example.com", "jane@example.com"},
	}
	for _, tc := range cases {
		a := &Account{FirstName: tc.first, LastName: tc.last, Email: tc.email}
		if got := a.DisplayName(); got != tc.want {
			t.Errorf("DisplayName(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}
