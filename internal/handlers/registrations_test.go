package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "jpo/internal/errors"
	"jpo/internal/models"
	"jpo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a minimal in-memory RegistrationStore for handler tests.
type memStore struct {
	nextID     int64
	rows       map[int64]*models.Registration
	capacities map[int64]int
}

func newMemStore() *memStore {
	return &memStore{
		rows:       make(map[int64]*models.Registration),
		capacities: make(map[int64]int),
	}
}

func (m *memStore) active(jpoID int64) int {
	n := 0
	for _, r := range m.rows {
		if r.JpoID == jpoID && r.Status == models.StatusRegistered {
			n++
		}
	}
	return n
}

func (m *memStore) List(ctx context.Context, filters models.RegistrationFilters) ([]models.RegistrationDetail, error) {
	var result []models.RegistrationDetail
	for _, r := range m.rows {
		result = append(result, models.RegistrationDetail{ID: r.RegistrationID, Status: r.Status})
	}
	return result, nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*models.RegistrationDetail, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &models.RegistrationDetail{
		ID:               r.RegistrationID,
		RegistrationDate: r.RegistrationDate,
		Status:           r.Status,
		User:             models.RegistrationUser{ID: r.UserID},
		OpenDay:          models.RegistrationOpenDay{ID: r.JpoID},
	}, nil
}

func (m *memStore) GetRow(ctx context.Context, id int64) (*models.Registration, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	copy := *r
	return &copy, nil
}

func (m *memStore) Create(ctx context.Context, reg *models.Registration) error {
	capacity, ok := m.capacities[reg.JpoID]
	if !ok || m.active(reg.JpoID) >= capacity {
		return apperrors.ErrOpenDayFull
	}
	m.nextID++
	reg.RegistrationID = m.nextID
	copy := *reg
	m.rows[reg.RegistrationID] = &copy
	return nil
}

func (m *memStore) Cancel(ctx context.Context, id int64) (bool, error) {
	r, ok := m.rows[id]
	if !ok {
		return false, nil
	}
	r.Status = models.StatusUnregistered
	return true, nil
}

func (m *memStore) Reactivate(ctx context.Context, id int64) error {
	r, ok := m.rows[id]
	if !ok {
		return apperrors.ErrOpenDayFull
	}
	r.Status = models.StatusRegistered
	return nil
}

func (m *memStore) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func (m *memStore) IsUserRegistered(ctx context.Context, userID, jpoID int64) (bool, error) {
	for _, r := range m.rows {
		if r.UserID == userID && r.JpoID == jpoID && r.Status == models.StatusRegistered {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) IsOpenDayFull(ctx context.Context, jpoID int64) (bool, error) {
	capacity, ok := m.capacities[jpoID]
	if !ok {
		return true, nil
	}
	return m.active(jpoID) >= capacity, nil
}

func (m *memStore) Stats(ctx context.Context) (*models.RegistrationStats, error) {
	return &models.RegistrationStats{}, nil
}

func (m *memStore) StatsByOpenDay(ctx context.Context) ([]models.OpenDayStats, error) {
	return nil, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *models.APIError `json:"error"`
}

func setupRouter(store service.RegistrationStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	services := &service.Services{
		Registrations: service.NewRegistrationService(store, nil, nil),
	}
	h := NewHandlers(services, nil, nil, false)

	router := gin.New()
	router.GET("/api/ping", h.Ping)
	router.GET("/api/registrations", h.ListRegistrations)
	router.GET("/api/registrations/:id", h.GetRegistration)
	router.POST("/api/registrations", h.CreateRegistration)
	router.PUT("/api/registrations/:id", h.UpdateRegistration)
	router.DELETE("/api/registrations/:id", h.DeleteRegistration)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestPing(t *testing.T) {
	router := setupRouter(newMemStore())

	w, env := doRequest(router, http.MethodGet, "/api/ping", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), "pong")
}

func TestCreateRegistrationSuccess(t *testing.T) {
	store := newMemStore()
	store.capacities[1] = 10
	router := setupRouter(store)

	w, env := doRequest(router, http.MethodPost, "/api/registrations",
		`{"user_id": 42, "jpo_id": 1}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	var detail models.RegistrationDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, models.StatusRegistered, detail.Status)
	assert.Equal(t, int64(42), detail.User.ID)
}

func TestCreateRegistrationInvalidPayload(t *testing.T) {
	router := setupRouter(newMemStore())

	w, env := doRequest(router, http.MethodPost, "/api/registrations", `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, http.StatusBadRequest, env.Error.Code)
}

func TestCreateRegistrationMissingFields(t *testing.T) {
	router := setupRouter(newMemStore())

	w, env := doRequest(router, http.MethodPost, "/api/registrations", `{"user_id": 42}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, msgInvalidPayload, env.Error.Message)
}

func TestCreateRegistrationDuplicateMessage(t *testing.T) {
	store := newMemStore()
	store.capacities[1] = 10
	router := setupRouter(store)

	w, _ := doRequest(router, http.MethodPost, "/api/registrations",
		`{"user_id": 42, "jpo_id": 1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doRequest(router, http.MethodPost, "/api/registrations",
		`{"user_id": 42, "jpo_id": 1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, msgAlreadyRegistered, env.Error.Message)
}

func TestCreateRegistrationFullMessage(t *testing.T) {
	store := newMemStore()
	store.capacities[1] = 1
	router := setupRouter(store)

	w, _ := doRequest(router, http.MethodPost, "/api/registrations",
		`{"user_id": 1, "jpo_id": 1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doRequest(router, http.MethodPost, "/api/registrations",
		`{"user_id": 2, "jpo_id": 1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, msgOpenDayFull, env.Error.Message)
}

func TestListRegistrationsMalformedFilter(t *testing.T) {
	store := newMemStore()
	store.capacities[1] = 10
	router := setupRouter(store)

	w, _ := doRequest(router, http.MethodPost, "/api/registrations",
		`{"user_id": 1, "jpo_id": 1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doRequest(router, http.MethodGet, "/api/registrations?user_id=abc", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, msgInvalidPayload, env.Error.Message)

	w, env = doRequest(router, http.MethodGet, "/api/registrations?user_id=1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestGetRegistrationInvalidID(t *testing.T) {
	router := setupRouter(newMemStore())

	w, env := doRequest(router, http.MethodGet, "/api/registrations/abc", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, msgInvalidID, env.Error.Message)
}

func TestGetRegistrationNotFound(t *testing.T) {
	router := setupRouter(newMemStore())

	w, env := doRequest(router, http.MethodGet, "/api/registrations/999", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, msgNotFound, env.Error.Message)
}

func TestUpdateRegistrationInvalidStatus(t *testing.T) {
	store := newMemStore()
	store.capacities[1] = 10
	router := setupRouter(store)

	w, _ := doRequest(router, http.MethodPost, "/api/registrations",
		`{"user_id": 1, "jpo_id": 1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doRequest(router, http.MethodPut, "/api/registrations/1",
		`{"status": "pending"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, msgInvalidStatus, env.Error.Message)
}

func TestUpdateRegistrationCancelAndReactivate(t *testing.T) {
	store := newMemStore()
	store.capacities[1] = 10
	router := setupRouter(store)

	w, _ := doRequest(router, http.MethodPost, "/api/registrations",
		`{"user_id": 1, "jpo_id": 1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doRequest(router, http.MethodPut, "/api/registrations/1",
		`{"status": "unregistered"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var detail models.RegistrationDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, models.StatusUnregistered, detail.Status)

	w, env = doRequest(router, http.MethodPut, "/api/registrations/1",
		`{"status": "registered"}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, models.StatusRegistered, detail.Status)
}

func TestDeleteRegistration(t *testing.T) {
	store := newMemStore()
	store.capacities[1] = 10
	router := setupRouter(store)

	w, _ := doRequest(router, http.MethodPost, "/api/registrations",
		`{"user_id": 1, "jpo_id": 1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doRequest(router, http.MethodDelete, "/api/registrations/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, _ = doRequest(router, http.MethodDelete, "/api/registrations/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
