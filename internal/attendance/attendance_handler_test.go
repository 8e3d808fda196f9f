package attendance

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	attendanceerrors "timekeep/internal/attendance/errors"
	"timekeep/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	recordFn  func(ctx context.Context, req RecordEventRequest) (RecordEventResponse, error)
	syncFn    func(ctx context.Context, req SyncBatchRequest) (SyncBatchResponse, error)
	historyFn func(ctx context.Context, employeeNumber, from, to string) ([]DayRecordResponse, error)
}

func (f *fakeService) RecordEvent(ctx context.Context, req RecordEventRequest) (RecordEventResponse, error) {
	return f.recordFn(ctx, req)
}
func (f *fakeService) SyncBatch(ctx context.Context, req SyncBatchRequest) (SyncBatchResponse, error) {
	return f.syncFn(ctx, req)
}
func (f *fakeService) GetHistory(ctx context.Context, employeeNumber, from, to string) ([]DayRecordResponse, error) {
	return f.historyFn(ctx, employeeNumber, from, to)
}

func performRequest(t *testing.T, handler gin.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	w := httptest.NewRecorder()
	_, router := gin.CreateTestContext(w)
	router.Handle(method, "/test", handler)

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_RecordEvent_Created(t *testing.T) {
	svc := &fakeService{
		recordFn: func(ctx context.Context, req RecordEventRequest) (RecordEventResponse, error) {
			assert.Equal(t, "EMP-000042", req.EmployeeNumber)
			return RecordEventResponse{
				EmployeeNumber: "EMP-000042",
				ScheduleDate:   "2024-03-01",
				EventKind:      "time_in",
				RecordedTime:   "08:05:00",
			}, nil
		},
	}
	h := NewHandler(svc)

	w := performRequest(t, h.RecordEvent, http.MethodPost, "/test", RecordEventRequest{
		EmployeeNumber: "EMP-000042",
		EventKind:      "time_in",
		OccurredAt:     "2024-03-01T08:05:00Z",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var envelope response.ApiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Ok)
}

func TestHandler_RecordEvent_InvalidKind(t *testing.T) {
	svc := &fakeService{
		recordFn: func(ctx context.Context, req RecordEventRequest) (RecordEventResponse, error) {
			return RecordEventResponse{}, attendanceerrors.ErrInvalidEventKind
		},
	}
	h := NewHandler(svc)

	w := performRequest(t, h.RecordEvent, http.MethodPost, "/test", RecordEventRequest{
		EmployeeNumber: "EMP-000042",
		EventKind:      "lunch_in",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var envelope struct {
		Ok    bool `json:"ok"`
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Ok)
	assert.Equal(t, "INVALID_INPUT", envelope.Error.Code)
}

func TestHandler_RecordEvent_MissingKind(t *testing.T) {
	h := NewHandler(&fakeService{
		recordFn: func(ctx context.Context, req RecordEventRequest) (RecordEventResponse, error) {
			t.Fatal("service must not be reached on a binding failure")
			return RecordEventResponse{}, nil
		},
	})

	w := performRequest(t, h.RecordEvent, http.MethodPost, "/test", map[string]string{
		"employee_number": "EMP-000042",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_SyncBatch_ReportsResults(t *testing.T) {
	svc := &fakeService{
		syncFn: func(ctx context.Context, req SyncBatchRequest) (SyncBatchResponse, error) {
			return SyncBatchResponse{
				Accepted: 1,
				Skipped:  1,
				Results: []SyncRecordResult{
					{Index: 0, Status: SyncStatusAccepted},
					{Index: 1, Status: SyncStatusSkipped, Reason: "unresolvable name: Nobody Known"},
				},
			}, nil
		},
	}
	h := NewHandler(svc)

	timeIn := "2024-03-01T08:00:00Z"
	w := performRequest(t, h.SyncBatch, http.MethodPost, "/test", SyncBatchRequest{Records: []SyncRecord{
		{Name: "Jane Doe", TimeIn: &timeIn},
		{Name: "Nobody Known", TimeIn: &timeIn},
	}})

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Ok   bool              `json:"ok"`
		Data SyncBatchResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Ok)
	assert.Equal(t, 1, envelope.Data.Accepted)
	assert.Equal(t, 1, envelope.Data.Skipped)
	assert.Len(t, envelope.Data.Results, 2)
}

func TestHandler_SyncBatch_EmptyBatch(t *testing.T) {
	svc := &fakeService{
		syncFn: func(ctx context.Context, req SyncBatchRequest) (SyncBatchResponse, error) {
			return SyncBatchResponse{}, attendanceerrors.ErrInvalidBatch
		},
	}
	h := NewHandler(svc)

	w := performRequest(t, h.SyncBatch, http.MethodPost, "/test", SyncBatchRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetHistory_RequiresEmployee(t *testing.T) {
	h := NewHandler(&fakeService{
		historyFn: func(ctx context.Context, employeeNumber, from, to string) ([]DayRecordResponse, error) {
			t.Fatal("service must not be reached without an employee filter")
			return nil, nil
		},
	})

	w := performRequest(t, h.GetHistory, http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetHistory_Paginates(t *testing.T) {
	rows := make([]DayRecordResponse, 5)
	for i := range rows {
		rows[i] = DayRecordResponse{EmployeeID: 42}
	}
	h := NewHandler(&fakeService{
		historyFn: func(ctx context.Context, employeeNumber, from, to string) ([]DayRecordResponse, error) {
			assert.Equal(t, "EMP-000042", employeeNumber)
			return rows, nil
		},
	})

	w := performRequest(t, h.GetHistory, http.MethodGet, "/test?employee=EMP-000042&page=2&page_size=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Ok   bool                `json:"ok"`
		Data []DayRecordResponse `json:"data"`
		Meta response.PaginationMeta `json:"meta"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
	assert.Equal(t, int64(5), envelope.Meta.Total)
	assert.Equal(t, 2, envelope.Meta.Page)
}
