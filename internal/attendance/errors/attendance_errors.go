package attendanceerrors

import (
	"net/http"
	"timekeep/internal/shared/apperror"
)

var (
	ErrInvalidEventKind = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid event kind",
		http.StatusBadRequest,
	)
	ErrMissingEmployeeRef = apperror.New(
		apperror.CodeInvalidInput,
		"Either employee_number or employee_public_id is required",
		http.StatusBadRequest,
	)
	ErrUnknownEmployee = apperror.New(
		apperror.CodeNotFound,
		"The referenced employee does not exist",
		http.StatusNotFound,
	)
	ErrInvalidBatch = apperror.New(
		apperror.CodeInvalidInput,
		"Sync batch must be a non-empty list of records",
		http.StatusBadRequest,
	)
	ErrInvalidTimestamp = apperror.New(
		apperror.CodeInvalidInput,
		"Timestamps must be RFC 3339 date-times",
		http.StatusBadRequest,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)
)
