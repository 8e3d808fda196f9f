package face

type EnrollRequest struct {
	EmployeeNumber string    // form field "employee_id"
	Embedding      []float64 // form field "embedding", JSON array
	Expression     *string   // form field "expression", optional
}

type RegisterRequest struct {
	Name       string    `json:"name" binding:"required"`
	Embedding  []float64 `json:"embedding" binding:"required"`
	ImageURL   string    `json:"image_url"`
	Expression *string   `json:"expression"`
}

type EmbeddingResponse struct {
	EntryID    string    `json:"entry_id"`
	Embedding  []float64 `json:"embedding"`
	ImageURL   string    `json:"image_url,omitempty"`
	Expression *string   `json:"expression,omitempty"`
	CreatedAt  string    `json:"created_at"`
}

type EnrollResponse struct {
	EntryID        string `json:"entry_id"`
	EmployeeNumber string `json:"employee_number"`
	PublicID       string `json:"public_id"`
	ImageURL       string `json:"image_url,omitempty"`
}

type RegisterResponse struct {
	EmployeeNumber string `json:"employee_number"`
	PublicID       string `json:"public_id"`
	EntryID        string `json:"entry_id"`
}

type EmployeeFacesResponse struct {
	EmployeeNumber string              `json:"employee_number"`
	PublicID       string              `json:"public_id"`
	FullName       string              `json:"full_name"`
	Faces          []EmbeddingResponse `json:"faces"`
}

type DeleteResponse struct {
	EntryID         string `json:"entry_id"`
	IdentityRemoved bool   `json:"identity_removed"`
}
