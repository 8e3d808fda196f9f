package faceerrors

import (
	"net/http"
	"timekeep/internal/shared/apperror"
)

var (
	ErrEmbeddingNotFound = apperror.New(
		apperror.CodeNotFound,
		"Face embedding not found",
		http.StatusNotFound,
	)
	ErrNotEnrolled = apperror.New(
		apperror.CodeNotFound,
		"Employee is not enrolled for face recognition",
		http.StatusNotFound,
	)
	ErrNoFaces = apperror.New(
		apperror.CodeNotFound,
		"Employee has no enrolled faces",
		http.StatusNotFound,
	)
	ErrMissingImage = apperror.New(
		apperror.CodeInvalidInput,
		"An image file is required",
		http.StatusBadRequest,
	)
	ErrInvalidEmbedding = apperror.New(
		apperror.CodeInvalidInput,
		"Embedding must be a non-empty numeric vector",
		http.StatusBadRequest,
	)
	ErrInvalidEntryID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid embedding entry ID",
		http.StatusBadRequest,
	)
)
