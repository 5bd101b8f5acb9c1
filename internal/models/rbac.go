package models

import "fmt"

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts a raw claim or column value into a Role.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// Access is the outcome of the access guard for a single request.
type Access int

const (
	Anonymous Access = iota
	AuthenticatedUser
	AuthenticatedAdmin
)

func (a Access) String() string {
	switch a {
	case AuthenticatedUser:
		return "user"
	case AuthenticatedAdmin:
		return "admin"
	default:
		return "anonymous"
	}
}

// Decision is the authorization decision attached to a request.
type Decision struct {
	Access    Access
	SubjectID string
}

// AnonymousDecision is returned whenever no valid credential was presented.
var AnonymousDecision = Decision{Access: Anonymous}

// DecisionFor maps a verified subject and role to a decision.
func DecisionFor(subjectID string, role Role) Decision {
	if role == RoleAdmin {
		return Decision{Access: AuthenticatedAdmin, SubjectID: subjectID}
	}
	return Decision{Access: AuthenticatedUser, SubjectID: subjectID}
}

// Satisfies reports whether d meets the minimum required access level.
// Admin satisfies user requirements; anonymous satisfies only Anonymous.
func (d Decision) Satisfies(required Access) bool {
	return d.Access >= required
}

// IsAuthenticated reports whether the request carried a valid token.
func (d Decision) IsAuthenticated() bool {
	return d.Access != Anonymous
}
