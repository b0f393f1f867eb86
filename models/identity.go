package models

// Role tags an authenticated identity with the scope it acts under.
type Role string

const (
	RoleSeeker   Role = "SEEKER"
	RoleAdvisor  Role = "ADVISOR"
	RoleOperator Role = "OPERATOR"
)

// Valid reports whether the role is one of the three known scopes.
func (r Role) Valid() bool {
	switch r {
	case RoleSeeker, RoleAdvisor, RoleOperator:
		return true
	}
	return false
}

// Identity is the per-request resolved identity. It is derived from a signed
// token and never persisted; it expires with the token.
type Identity struct {
	SubjectID string `json:"subjectId"`
	Role      Role   `json:"role"`
}
