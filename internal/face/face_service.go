package face

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"timekeep/internal/employee"
	"timekeep/internal/shared/apperror"
	"timekeep/internal/shared/contextutil"
	"timekeep/internal/shared/counter"
	"timekeep/internal/storage"

	faceerrors "timekeep/internal/face/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const rosterCacheKey = "faces:roster"

//go:generate mockgen -source=face_service.go -destination=mock/face_service_mock.go -package=mock
type Service interface {
	Enroll(ctx context.Context, req EnrollRequest, image io.Reader, filename, contentType string) (EnrollResponse, error)
	Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error)
	ListByEmployee(ctx context.Context, employeeNumber string) (EmployeeFacesResponse, error)
	ListAll(ctx context.Context) ([]EmployeeFacesResponse, error)
	DeleteEntry(ctx context.Context, entryID string) (DeleteResponse, error)
}

type service struct {
	db           *gorm.DB
	repo         Repository
	employeeRepo employee.Repository
	directory    employee.Resolver
	counter      counter.Repository
	blobs        storage.BlobStore
	bucket       string
	rdb          *redis.Client
	sf           *singleflight.Group
	logger       *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	employeeRepo employee.Repository,
	directory employee.Resolver,
	counterRepo counter.Repository,
	blobs storage.BlobStore,
	bucket string,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("face.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("face.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		directory:    directory,
		counter:      counterRepo,
		blobs:        blobs,
		bucket:       bucket,
		rdb:          rdb,
		sf:           &singleflight.Group{},
		logger:       l,
	}
}

func (s *service) Enroll(ctx context.Context, req EnrollRequest, image io.Reader, filename, contentType string) (EnrollResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if len(req.Embedding) == 0 {
		return EnrollResponse{}, faceerrors.ErrInvalidEmbedding
	}
	if image == nil {
		return EnrollResponse{}, faceerrors.ErrMissingImage
	}
	if s.blobs == nil {
		return EnrollResponse{}, apperror.New(
			apperror.CodeServiceUnavailable,
			"Image storage is not configured",
			http.StatusServiceUnavailable,
		)
	}

	empl, err := s.directory.ResolveByNumber(ctx, req.EmployeeNumber)
	if err != nil {
		return EnrollResponse{}, err
	}

	// First enrollment assigns the stable cross-referencing identifier
	publicID, err := s.directory.EnsurePublicID(ctx, empl)
	if err != nil {
		return EnrollResponse{}, err
	}

	objectName := fmt.Sprintf("faces/face-%d%s", time.Now().UnixNano(), safeExt(filename))
	imageURL, err := s.blobs.Upload(ctx, objectName, image, contentType)
	if err != nil {
		log.Error("face image upload failed", zap.Error(err))
		return EnrollResponse{}, err
	}

	vector, err := json.Marshal(req.Embedding)
	if err != nil {
		return EnrollResponse{}, err
	}

	row := &FaceEmbedding{
		EntryID:    uuid.New(),
		EmployeeID: empl.ID,
		Embedding:  string(vector),
		ImageURL:   imageURL,
		Expression: req.Expression,
		IsActive:   true,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return EnrollResponse{}, mapRepositoryError(err)
	}

	s.invalidateRoster(ctx)
	log.Info("face enrolled",
		zap.String("employee_number", empl.EmployeeNumber),
		zap.String("entry_id", row.EntryID.String()),
	)

	return EnrollResponse{
		EntryID:        row.EntryID.String(),
		EmployeeNumber: empl.EmployeeNumber,
		PublicID:       publicID.String(),
		ImageURL:       imageURL,
	}, nil
}

// Register creates a brand-new identity together with its first embedding.
// Both rows commit or neither does.
func (s *service) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if len(req.Embedding) == 0 {
		return RegisterResponse{}, faceerrors.ErrInvalidEmbedding
	}

	first, last := employee.SplitName(req.Name)
	if first == "" {
		return RegisterResponse{}, apperror.RequiredField("Name")
	}

	nextVal, err := s.counter.GetNextValue(ctx, "employee_number")
	if err != nil {
		return RegisterResponse{}, err
	}

	vector, err := json.Marshal(req.Embedding)
	if err != nil {
		return RegisterResponse{}, err
	}

	publicID := uuid.New()
	empl := &employee.Employee{
		EmployeeNumber: fmt.Sprintf("EMP-%06d", nextVal),
		FirstName:      first,
		LastName:       last,
		PublicID:       &publicID,
	}
	row := &FaceEmbedding{
		EntryID:    uuid.New(),
		Embedding:  string(vector),
		ImageURL:   req.ImageURL,
		Expression: req.Expression,
		IsActive:   true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.employeeRepo.WithTx(tx).Create(ctx, empl); err != nil {
			return err
		}
		row.EmployeeID = empl.ID
		return s.repo.WithTx(tx).Create(ctx, row)
	})
	if err != nil {
		log.Error("register identity failed", zap.Error(err))
		return RegisterResponse{}, mapRepositoryError(err)
	}

	s.invalidateRoster(ctx)
	log.Info("identity registered",
		zap.String("employee_number", empl.EmployeeNumber),
	)

	return RegisterResponse{
		EmployeeNumber: empl.EmployeeNumber,
		PublicID:       publicID.String(),
		EntryID:        row.EntryID.String(),
	}, nil
}

func (s *service) ListByEmployee(ctx context.Context, employeeNumber string) (EmployeeFacesResponse, error) {
	empl, err := s.directory.ResolveByNumber(ctx, employeeNumber)
	if err != nil {
		return EmployeeFacesResponse{}, err
	}
	if empl.PublicID == nil {
		return EmployeeFacesResponse{}, faceerrors.ErrNotEnrolled
	}

	rows, err := s.repo.FindActiveByEmployee(ctx, empl.ID)
	if err != nil {
		return EmployeeFacesResponse{}, mapRepositoryError(err)
	}
	if len(rows) == 0 {
		return EmployeeFacesResponse{}, faceerrors.ErrNoFaces
	}

	resp := EmployeeFacesResponse{
		EmployeeNumber: empl.EmployeeNumber,
		PublicID:       empl.PublicID.String(),
		FullName:       empl.FullName(),
		Faces:          make([]EmbeddingResponse, len(rows)),
	}
	for i, row := range rows {
		resp.Faces[i] = mapEmbedding(contextutil.GetLogger(ctx, s.logger), row)
	}
	return resp, nil
}

// ListAll serves the device-side matching roster. Kiosks poll it, so the
// result is cached in Redis and rebuilt through singleflight.
func (s *service) ListAll(ctx context.Context) ([]EmployeeFacesResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, rosterCacheKey).Result(); err == nil {
			var resp []EmployeeFacesResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(rosterCacheKey, func() (interface{}, error) {
		rows, err := s.repo.FindAllActive(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := groupByIdentity(s.logger, rows)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, rosterCacheKey, jsonData, 10*time.Minute)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeFacesResponse), nil
}

func (s *service) DeleteEntry(ctx context.Context, entryID string) (DeleteResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	id, err := uuid.Parse(entryID)
	if err != nil {
		return DeleteResponse{}, faceerrors.ErrInvalidEntryID
	}

	var (
		imageURL        string
		identityRemoved bool
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		row, err := qtx.FindByEntryID(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		imageURL = row.ImageURL

		if err := qtx.Delete(ctx, id); err != nil {
			return mapRepositoryError(err)
		}

		remaining, err := qtx.CountActiveByEmployee(ctx, row.EmployeeID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			// Cascade-on-empty: the last embedding takes the identity with it
			if err := s.employeeRepo.WithTx(tx).Delete(ctx, row.EmployeeID); err != nil {
				return err
			}
			identityRemoved = true
		}
		return nil
	})
	if err != nil {
		return DeleteResponse{}, err
	}

	// Blob deletion stays best-effort and outside the transaction: a failed
	// delete leaves an orphaned object, which is logged, not rolled back.
	if imageURL != "" && s.blobs != nil {
		if objectName := storage.ObjectFromURL(s.bucket, imageURL); objectName != "" {
			if err := s.blobs.Delete(ctx, objectName); err != nil {
				log.Warn("face image blob delete failed",
					zap.String("object", objectName),
					zap.Error(err),
				)
			}
		}
	}

	s.invalidateRoster(ctx)
	log.Info("face embedding deleted",
		zap.String("entry_id", entryID),
		zap.Bool("identity_removed", identityRemoved),
	)

	return DeleteResponse{EntryID: entryID, IdentityRemoved: identityRemoved}, nil
}

func (s *service) invalidateRoster(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, rosterCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate face roster cache",
			zap.Error(err),
			zap.String("key", rosterCacheKey),
		)
	}
}

func groupByIdentity(log *zap.Logger, rows []FaceEmbedding) []EmployeeFacesResponse {
	grouped := make([]EmployeeFacesResponse, 0)
	index := make(map[int64]int)

	for _, row := range rows {
		i, seen := index[row.EmployeeID]
		if !seen {
			entry := EmployeeFacesResponse{}
			if row.Employee != nil {
				entry.EmployeeNumber = row.Employee.EmployeeNumber
				entry.FullName = strings.TrimSpace(row.Employee.FirstName + " " + row.Employee.LastName)
				if row.Employee.PublicID != nil {
					entry.PublicID = row.Employee.PublicID.String()
				}
			}
			grouped = append(grouped, entry)
			i = len(grouped) - 1
			index[row.EmployeeID] = i
		}
		grouped[i].Faces = append(grouped[i].Faces, mapEmbedding(log, row))
	}

	return grouped
}

func mapEmbedding(log *zap.Logger, row FaceEmbedding) EmbeddingResponse {
	var vector []float64
	if err := json.Unmarshal([]byte(row.Embedding), &vector); err != nil {
		// A corrupt stored vector is served as empty rather than failing the
		// whole listing, but it must not vanish silently.
		log.Warn("stored face embedding is not valid JSON",
			zap.String("entry_id", row.EntryID.String()),
			zap.Error(err),
		)
	}

	return EmbeddingResponse{
		EntryID:    row.EntryID.String(),
		Embedding:  vector,
		ImageURL:   row.ImageURL,
		Expression: row.Expression,
		CreatedAt:  row.CreatedAt.Format(time.RFC3339),
	}
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext
	default:
		return ".jpg"
	}
}
