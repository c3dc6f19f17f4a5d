package models

// UserRole values understood by the platform.
type UserRole string

const (
	RoleAdmin            UserRole = "ADMIN"
	RoleApprover         UserRole = "APPROVER"
	RoleStoreUser        UserRole = "STORE_USER"
	RoleFulfillmentAgent UserRole = "FULFILLMENT_AGENT"
)

// ValidUserRole reports whether r names a known role.
func ValidUserRole(r string) bool {
	switch UserRole(r) {
	case RoleAdmin, RoleApprover, RoleStoreUser, RoleFulfillmentAgent:
		return true
	}
	return false
}

// AuthUser is the identity the portal derives from a bearer token plus any
// profile fields merged in from the platform session endpoint.
type AuthUser struct {
	Username    string   `json:"username"`
	Role        UserRole `json:"role"`
	DisplayName string   `json:"displayName,omitempty"`
	Email       string   `json:"email,omitempty"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
	Provider    string   `json:"provider,omitempty"`
}

// CurrentUser is the authoritative profile returned by GET /auth/session.
type CurrentUser struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email,omitempty"`
	Role         UserRole `json:"role"`
	AuthProvider string   `json:"authProvider,omitempty"`
	FullName     string   `json:"fullName,omitempty"`
	AvatarURL    string   `json:"avatarUrl,omitempty"`
}

// UserAccount is returned by registration.
type UserAccount struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Role     UserRole `json:"role"`
}

// ManagedUser is a directory entry in the admin console.
type ManagedUser struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email,omitempty"`
	Role         UserRole `json:"role"`
	AuthProvider string   `json:"authProvider,omitempty"`
	FullName     string   `json:"fullName,omitempty"`
	FirstLoginAt string   `json:"firstLoginAt,omitempty"`
	LastLoginAt  string   `json:"lastLoginAt,omitempty"`
	LoginCount   int      `json:"loginCount"`
}

// UserMetrics is the admin signup/activity summary.
type UserMetrics struct {
	TotalUsers        int64 `json:"totalUsers"`
	ActiveUsers       int64 `json:"activeUsers"`
	StoreUsers        int64 `json:"storeUsers"`
	Approvers         int64 `json:"approvers"`
	FulfillmentAgents int64 `json:"fulfillmentAgents"`
	Admins            int64 `json:"admins"`
	LookbackDays      int   `json:"lookbackDays"`
}

// RegisterRequest is the self-service signup payload.
type RegisterRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

// UpdateUserRoleRequest changes a directory entry's role.
type UpdateUserRoleRequest struct {
	Role UserRole `json:"role"`
}
