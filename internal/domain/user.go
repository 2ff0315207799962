package domain

// ============================================================
// Users / Roles
// ============================================================

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole validates a raw role string against the closed set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleEmployee:
		return Role(s), true
	}
	return "", false
}

// User is a staff account, owned by the user service.
type User struct {
	ID                 string `json:"id"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	Role               Role   `json:"role"`
	MustChangePassword bool   `json:"mustChangePassword,omitempty"`
}

// UserRequest is the combined create/update shape for the user service.
// Password is set only on create.
type UserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Password  string `json:"password,omitempty"`
}

// LoginRequest is the credential payload forwarded to the user service.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is what the user service returns on a successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ChangePasswordRequest is forwarded to the user service.
type ChangePasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}
