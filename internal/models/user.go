package models

// Role represents portal user roles
type Role string

const (
	RoleCustomer   Role = "CUSTOMER"
	RoleStaff      Role = "STAFF"
	RoleTechnician Role = "TECHNICIAN"
	RoleAdmin      Role = "ADMIN"
)

// User is the authenticated user profile returned by the backend
type User struct {
	ID              int64  `json:"id"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address,omitempty"`
	Role            Role   `json:"role"`
	ServiceCenterID *int64 `json:"serviceCenterId,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a customer self-registration request
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Claims is the subset of bearer token claims the portal reads
type Claims struct {
	Subject string
	Role    Role
	Exp     int64
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleCustomer, RoleStaff, RoleTechnician, RoleAdmin:
		return true
	default:
		return false
	}
}

// HasPermission reports whether the user's role may perform the portal action.
func (u *User) HasPermission(action string) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleStaff:
		return action != "update_checklist" && action != "manage_users"
	case RoleTechnician:
		return action == "view_receptions" || action == "update_checklist" ||
			action == "add_parts" || action == "view_parts"
	case RoleCustomer:
		return action == "create_booking" || action == "view_bookings" ||
			action == "request_cancel" || action == "pay_deposit" ||
			action == "register_vehicle"
	default:
		return false
	}
}
