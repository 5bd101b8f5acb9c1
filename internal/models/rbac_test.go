package models

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    Role
		wantErr bool
	}{
		{name: "user", value: "user", want: RoleUser},
		{name: "admin", value: "admin", want: RoleAdmin},
		{name: "empty", value: "", wantErr: true},
		{name: "case sensitive", value: "Admin", wantErr: true},
		{name: "unknown", value: "superuser", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestDecisionSatisfies(t *testing.T) {
	admin := DecisionFor("a1", RoleAdmin)
	user := DecisionFor("u1", RoleUser)

	tests := []struct {
		name     string
		decision Decision
		required Access
		want     bool
	}{
		{name: "anonymous meets anonymous", decision: AnonymousDecision, required: Anonymous, want: true},
		{name: "anonymous fails user", decision: AnonymousDecision, required: AuthenticatedUser, want: false},
		{name: "anonymous fails admin", decision: AnonymousDecision, required: AuthenticatedAdmin, want: false},
		{name: "user meets anonymous", decision: user, required: Anonymous, want: true},
		{name: "user meets user", decision: user, required: AuthenticatedUser, want: true},
		{name: "user fails admin", decision: user, required: AuthenticatedAdmin, want: false},
		{name: "admin meets user", decision: admin, required: AuthenticatedUser, want: true},
		{name: "admin meets admin", decision: admin, required: AuthenticatedAdmin, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.decision.Satisfies(tt.required); got != tt.want {
				t.Errorf("%v.Satisfies(%v) = %v, want %v", tt.decision.Access, tt.required, got, tt.want)
			}
		})
	}
}

func TestDecisionFor(t *testing.T) {
	d := DecisionFor("abc", RoleAdmin)
	if d.Access != AuthenticatedAdmin || d.SubjectID != "abc" {
		t.Errorf("DecisionFor(admin) = %+v", d)
	}
	d = DecisionFor("def", RoleUser)
	if d.Access != AuthenticatedUser || d.SubjectID != "def" {
		t.Errorf("DecisionFor(user) = %+v", d)
	}
	if AnonymousDecision.IsAuthenticated() {
		t.Error("anonymous decision must not be authenticated")
	}
	if !d.IsAuthenticated() {
		t.Error("user decision must be authenticated")
	}
}
