package employee

import (
	"context"
	"testing"

	employeeerrors "timekeep/internal/employee/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn         func(ctx context.Context, e *Employee) error
	findByNumberFn   func(ctx context.Context, number string) (*Employee, error)
	findByPublicIDFn func(ctx context.Context, publicID uuid.UUID) (*Employee, error)
	findByNameFn     func(ctx context.Context, firstName, lastName string) ([]Employee, error)
	findAllFn        func(ctx context.Context) ([]Employee, error)
	ensurePublicIDFn func(ctx context.Context, id int64, candidate uuid.UUID) (uuid.UUID, error)
	deleteFn         func(ctx context.Context, id int64) error
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, e *Employee) error {
	return f.createFn(ctx, e)
}
func (f *fakeRepo) FindByNumber(ctx context.Context, number string) (*Employee, error) {
	return f.findByNumberFn(ctx, number)
}
func (f *fakeRepo) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*Employee, error) {
	return f.findByPublicIDFn(ctx, publicID)
}
func (f *fakeRepo) FindByName(ctx context.Context, firstName, lastName string) ([]Employee, error) {
	return f.findByNameFn(ctx, firstName, lastName)
}
func (f *fakeRepo) FindAll(ctx context.Context) ([]Employee, error) {
	return f.findAllFn(ctx)
}
func (f *fakeRepo) EnsurePublicID(ctx context.Context, id int64, candidate uuid.UUID) (uuid.UUID, error) {
	return f.ensurePublicIDFn(ctx, id, candidate)
}
func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gdb, mock
}

func TestService_Create_GeneratesNumberWhenOmitted(t *testing.T) {
	gdb, mock := newTestDB(t)

	repo := &fakeRepo{
		createFn: func(ctx context.Context, e *Employee) error {
			e.ID = 1
			return nil
		},
	}
	svc := NewService(gdb, repo, &fakeCounter{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FirstName: "Jane",
		LastName:  "Doe",
	})
	assert.NoError(t, err)
	assert.Equal(t, "EMP-000001", resp.EmployeeNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_KeepsProvidedNumber(t *testing.T) {
	gdb, mock := newTestDB(t)

	repo := &fakeRepo{
		createFn: func(ctx context.Context, e *Employee) error {
			assert.Equal(t, "BADGE-7", e.EmployeeNumber)
			return nil
		},
	}
	svc := NewService(gdb, repo, &fakeCounter{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), CreateEmployeeRequest{
		EmployeeNumber: "BADGE-7",
		FirstName:      "Jane",
		LastName:       "Doe",
	})
	assert.NoError(t, err)
	assert.Equal(t, "BADGE-7", resp.EmployeeNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_DuplicateNumberConflict(t *testing.T) {
	gdb, mock := newTestDB(t)

	repo := &fakeRepo{
		createFn: func(ctx context.Context, e *Employee) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_number"}
		},
	}
	svc := NewService(gdb, repo, &fakeCounter{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		EmployeeNumber: "BADGE-7",
		FirstName:      "Jane",
		LastName:       "Doe",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNumberAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ResolveByName(t *testing.T) {
	gdb, _ := newTestDB(t)

	t.Run("single exact match", func(t *testing.T) {
		repo := &fakeRepo{
			findByNameFn: func(ctx context.Context, firstName, lastName string) ([]Employee, error) {
				assert.Equal(t, "Jane", firstName)
				assert.Equal(t, "Doe", lastName)
				return []Employee{{ID: 7, FirstName: "Jane", LastName: "Doe"}}, nil
			},
		}
		svc := NewService(gdb, repo, &fakeCounter{})

		empl, err := svc.ResolveByName(context.Background(), "Jane Doe")
		assert.NoError(t, err)
		assert.Equal(t, int64(7), empl.ID)
	})

	t.Run("no match", func(t *testing.T) {
		repo := &fakeRepo{
			findByNameFn: func(ctx context.Context, firstName, lastName string) ([]Employee, error) {
				return nil, nil
			},
		}
		svc := NewService(gdb, repo, &fakeCounter{})

		_, err := svc.ResolveByName(context.Background(), "Nobody Known")
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("ambiguous", func(t *testing.T) {
		repo := &fakeRepo{
			findByNameFn: func(ctx context.Context, firstName, lastName string) ([]Employee, error) {
				return []Employee{{ID: 1}, {ID: 2}}, nil
			},
		}
		svc := NewService(gdb, repo, &fakeCounter{})

		_, err := svc.ResolveByName(context.Background(), "Jane Doe")
		assert.ErrorIs(t, err, employeeerrors.ErrAmbiguousName)
	})

	t.Run("empty name", func(t *testing.T) {
		svc := NewService(gdb, &fakeRepo{}, &fakeCounter{})

		_, err := svc.ResolveByName(context.Background(), "   ")
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestService_ResolveByPublicID_Malformed(t *testing.T) {
	gdb, _ := newTestDB(t)
	svc := NewService(gdb, &fakeRepo{}, &fakeCounter{})

	_, err := svc.ResolveByPublicID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidPublicID)
}

func TestService_EnsurePublicID(t *testing.T) {
	gdb, _ := newTestDB(t)

	t.Run("already assigned", func(t *testing.T) {
		existing := uuid.New()
		repo := &fakeRepo{
			ensurePublicIDFn: func(ctx context.Context, id int64, candidate uuid.UUID) (uuid.UUID, error) {
				t.Fatal("no write may happen when a public id already exists")
				return uuid.Nil, nil
			},
		}
		svc := NewService(gdb, repo, &fakeCounter{})

		got, err := svc.EnsurePublicID(context.Background(), &Employee{ID: 7, PublicID: &existing})
		assert.NoError(t, err)
		assert.Equal(t, existing, got)
	})

	t.Run("concurrent first assignment keeps stored value", func(t *testing.T) {
		winner := uuid.New()
		repo := &fakeRepo{
			ensurePublicIDFn: func(ctx context.Context, id int64, candidate uuid.UUID) (uuid.UUID, error) {
				// Another caller's candidate was stored first
				return winner, nil
			},
		}
		svc := NewService(gdb, repo, &fakeCounter{})

		empl := &Employee{ID: 7}
		got, err := svc.EnsurePublicID(context.Background(), empl)
		assert.NoError(t, err)
		assert.Equal(t, winner, got)
		assert.Equal(t, winner, *empl.PublicID)
	})
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		in    string
		first string
		last  string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane Anne Doe", "Jane", "Anne Doe"},
		{"Jane", "Jane", ""},
		{"  Jane   Doe  ", "Jane", "Doe"},
		{"", "", ""},
	}
	for _, tc := range cases {
		first, last := SplitName(tc.in)
		assert.Equal(t, tc.first, first, tc.in)
		assert.Equal(t, tc.last, last, tc.in)
	}
}
