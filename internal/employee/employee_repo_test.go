package employee

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRepository_EnsurePublicID_ReturnsStoredValue(t *testing.T) {
	gdb, mock := newTestDB(t)
	repo := NewRepository(gdb)

	candidate := uuid.New()
	winner := uuid.New()

	// COALESCE keeps an already-assigned id: the candidate loses
	mock.ExpectQuery(`(?s)UPDATE employees\s+SET public_id = COALESCE\(public_id, \$1\).*WHERE id = \$2\s+RETURNING public_id`).
		WithArgs(candidate, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"public_id"}).AddRow(winner.String()))

	got, err := repo.EnsurePublicID(context.Background(), 7, candidate)
	assert.NoError(t, err)
	assert.Equal(t, winner, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByName_BoundedLookup(t *testing.T) {
	gdb, mock := newTestDB(t)
	repo := NewRepository(gdb)

	rows := sqlmock.NewRows([]string{"id", "employee_number", "first_name", "last_name"}).
		AddRow(1, "EMP-000001", "Jane", "Doe").
		AddRow(2, "EMP-000002", "Jane", "Doe")
	// Two rows are enough to prove ambiguity, the query never fetches more
	mock.ExpectQuery(`SELECT .* FROM "employees" WHERE first_name = .* AND last_name = .* LIMIT \$3`).
		WithArgs("Jane", "Doe", 2).
		WillReturnRows(rows)

	got, err := repo.FindByName(context.Background(), "Jane", "Doe")
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
