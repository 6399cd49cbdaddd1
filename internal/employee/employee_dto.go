package employee

const hireDateLayout = "2006-01-02"

type CreateEmployeeRequest struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
	HireDate   string `json:"hire_date"`
}

// UpdateEmployeeRequest replaces every field of the record. Version must be the
// one the caller last read; a stale version is rejected as a conflict.
type UpdateEmployeeRequest struct {
	CreateEmployeeRequest
	Version int64 `json:"version"`
}

type ListEmployeesQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type EmployeeResponse struct {
	ID             int64  `json:"id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Position       string `json:"position"`
	Department     string `json:"department"`
	Phone          string `json:"phone"`
	HireDate       string `json:"hire_date"`
	YearsOfService int    `json:"years_of_service"`
	Version        int64  `json:"version"`
}

type EmployeeListResponse struct {
	Items      []EmployeeResponse `json:"items"`
	Pagination Pagination         `json:"pagination"`
}
