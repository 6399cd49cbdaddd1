package domain

// Roles known to the policy. A user carries exactly one.
const (
	RoleAdmin  = "ADMIN"
	RoleHR     = "HR"
	RoleViewer = "VIEWER"
)

type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}
