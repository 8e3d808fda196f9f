package face

import (
	"encoding/json"
	"net/http"

	"timekeep/internal/shared/apperror"
	"timekeep/internal/shared/response"

	faceerrors "timekeep/internal/face/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Enroll accepts multipart form data: employee_id, embedding (JSON array),
// optional expression, and the face image file.
func (h *Handler) Enroll(c *gin.Context) {
	employeeNumber := c.PostForm("employee_id")
	if employeeNumber == "" {
		writeServiceError(c, apperror.RequiredField("Employee Id"))
		return
	}

	var embedding []float64
	if raw := c.PostForm("embedding"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &embedding); err != nil {
			writeServiceError(c, faceerrors.ErrInvalidEmbedding)
			return
		}
	}
	if len(embedding) == 0 {
		writeServiceError(c, faceerrors.ErrInvalidEmbedding)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		writeServiceError(c, faceerrors.ErrMissingImage)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		writeServiceError(c, faceerrors.ErrMissingImage)
		return
	}
	defer file.Close()

	req := EnrollRequest{
		EmployeeNumber: employeeNumber,
		Embedding:      embedding,
	}
	if expr := c.PostForm("expression"); expr != "" {
		req.Expression = &expr
	}

	resp, err := h.service.Enroll(
		c.Request.Context(),
		req,
		file,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	resp, err := h.service.ListByEmployee(c.Request.Context(), c.Param("number"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	resp, err := h.service.DeleteEntry(c.Request.Context(), c.Param("entryId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
