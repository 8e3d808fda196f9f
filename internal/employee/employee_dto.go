package employee

type CreateEmployeeRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	EmployeeNumber string `json:"employee_number"`
	Position       string `json:"position"`
	ScheduleGroup  string `json:"schedule_group"`
}

type EmployeeResponse struct {
	ID             int64  `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	PublicID       string `json:"public_id,omitempty"`
	Position       string `json:"position,omitempty"`
	ScheduleGroup  string `json:"schedule_group,omitempty"`
	CreatedAt      string `json:"created_at"`
}
