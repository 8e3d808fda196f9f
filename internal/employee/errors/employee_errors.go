package employeeerrors

import (
	"net/http"
	"timekeep/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee number already exists",
		http.StatusConflict,
	)
	ErrAmbiguousName = apperror.New(
		apperror.CodeNotFound,
		"Employee name does not resolve to a single record",
		http.StatusNotFound,
	)
	ErrInvalidPublicID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee public ID",
		http.StatusBadRequest,
	)
	ErrMissingRequiredFields = apperror.New(
		apperror.CodeInvalidInput,
		"Missing required fields",
		http.StatusBadRequest,
	)
)
