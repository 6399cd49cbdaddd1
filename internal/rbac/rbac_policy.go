package rbac

import "github.com/dilinamewan/Employee-Directory/internal/domain"

const (
	ResourceEmployee = "employee"
	ResourceUser     = "user"

	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type Rule struct {
	Role     string
	Resource string
	Action   string
}

type Policy struct {
	Rules []Rule
	// Inherits maps a role to the roles whose permissions it also gets.
	Inherits map[string][]string
}

// DefaultPolicy: ADMIN can do anything, HR manages employee records,
// VIEWER only reads them.
func DefaultPolicy() Policy {
	return Policy{
		Rules: []Rule{
			{Role: domain.RoleAdmin, Resource: "*", Action: "*"},
			{Role: domain.RoleViewer, Resource: ResourceEmployee, Action: ActionRead},
			{Role: domain.RoleHR, Resource: ResourceEmployee, Action: ActionCreate},
			{Role: domain.RoleHR, Resource: ResourceEmployee, Action: ActionUpdate},
			{Role: domain.RoleHR, Resource: ResourceEmployee, Action: ActionDelete},
		},
		Inherits: map[string][]string{
			domain.RoleHR: {domain.RoleViewer},
		},
	}
}
