package types

// Role is the backend-assigned role string of a signed-in user
type Role string

const (
	RoleSuperAdmin    Role = "superadmin"
	RoleCoSuperAdmin  Role = "co-superadmin"
	RoleAdminCreator  Role = "admincreator"
	RoleAdminApprover Role = "adminapprover"
	RoleUser          Role = "user"
	RoleUnknown       Role = ""
)

// ParseRole maps a backend role string onto a known role; anything else is RoleUnknown
func ParseRole(s string) Role {
	switch r := Role(s); r {
	case RoleSuperAdmin, RoleCoSuperAdmin, RoleAdminCreator, RoleAdminApprover, RoleUser:
		return r
	default:
		return RoleUnknown
	}
}

// IsAdmin reports whether the role belongs to the admin hierarchy
func (r Role) IsAdmin() bool {
	switch r {
	case RoleSuperAdmin, RoleCoSuperAdmin, RoleAdminCreator, RoleAdminApprover:
		return true
	}
	return false
}

// Credentials is the login payload. Name is only sent by the landing-page form.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest represents the registration payload
type SignupRequest struct {
	Name       string `json:"name" yaml:"name"`
	Email      string `json:"email" yaml:"email"`
	Password   string `json:"password" yaml:"password"`
	Role       string `json:"role,omitempty" yaml:"role,omitempty"`
	Department string `json:"department,omitempty" yaml:"department,omitempty"`
}

// LoginUser is the user block of a login response
type LoginUser struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// LoginResponse represents the data returned after a successful login
type LoginResponse struct {
	Message      string    `json:"message,omitempty"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	User         LoginUser `json:"user"`
}

// ChangePasswordRequest completes a password reset
type ChangePasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

// MessageResponse is the generic {"message": "..."} acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}
