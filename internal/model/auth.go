package model

// Role identifies which account table a login resolves against.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleChemist Role = "chemist"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleChemist:
		return true
	}
	return false
}

type LoginRequest struct {
	Role     Role   `json:"role" binding:"required"`
	Username string `json:"username" binding:"required"`
	// UID is required for patient logins only.
	UID string `json:"uid"`
}

// Actor is the authenticated caller attached to the request context after
// token validation.
type Actor struct {
	Role     Role   `json:"role"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	// UID is set for patients, ActorID for doctors/chemists.
	UID     string `json:"uid,omitempty"`
	ActorID int64  `json:"actor_id,omitempty"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	Role  Role        `json:"role"`
	User  interface{} `json:"user"`
}
