package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripfolio/tripfolio/internal/activity"
	"github.com/tripfolio/tripfolio/internal/api"
	"github.com/tripfolio/tripfolio/internal/api/models"
	"github.com/tripfolio/tripfolio/internal/auth"
	"github.com/tripfolio/tripfolio/internal/database"
	"github.com/tripfolio/tripfolio/internal/itinerary"
	"github.com/tripfolio/tripfolio/internal/template"
	"github.com/tripfolio/tripfolio/internal/trip"
)

// testAuthService creates an auth service for testing.
func testAuthService() *auth.Service {
	userRepo := auth.NewInMemoryUserRepository()
	refreshRepo := auth.NewInMemoryRefreshTokenRepository()

	return auth.NewService(auth.ServiceConfig{
		JWTService:  testJWTService(),
		UserRepo:    userRepo,
		RefreshRepo: refreshRepo,
	})
}

// testJWTService creates a JWT service for generating test tokens.
func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.tripfolio.io",
		Audience:   "tripfolio-api",
	})
}

// generateTestToken generates a valid test token for an agency admin.
func generateTestToken(t *testing.T) string {
	t.Helper()
	jwtService := testJWTService()
	user := &auth.User{
		ID:        "usr_testuser123",
		AgencyID:  "agc_test",
		Email:     "agent@example.com",
		Role:      auth.RoleAdmin,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	token, _, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

// testEnv exposes the in-memory repositories behind a test router so tests
// can seed state that has no write endpoint.
type testEnv struct {
	router        http.Handler
	itineraryRepo *itinerary.InMemoryRepository
	templateRepo  *template.InMemoryRepository
}

func newTestEnv() *testEnv {
	logger := zerolog.New(io.Discard)

	tripRepo := trip.NewInMemoryRepository()
	itineraryRepo := itinerary.NewInMemoryRepository()
	activityRepo := activity.NewInMemoryRepository()
	detailStore := activity.NewInMemoryDetailStore()
	templateRepo := template.NewInMemoryRepository()

	activityService := activity.NewService(activityRepo, detailStore, logger)
	extractor := template.NewExtractor(itineraryRepo, activityRepo, detailStore, logger)
	applier := template.NewApplier(tripRepo, itineraryRepo, activityService, database.NoopTransactor{}, logger)

	router := api.NewRouter(api.RouterConfig{
		Version:          "test",
		BuildTime:        "2024-01-01T00:00:00Z",
		Logger:           logger,
		AuthService:      testAuthService(),
		TripService:      trip.NewService(tripRepo),
		ItineraryService: itinerary.NewService(itineraryRepo, activityRepo, detailStore),
		TemplateService:  template.NewService(templateRepo, extractor, applier, logger),
	})

	return &testEnv{
		router:        router,
		itineraryRepo: itineraryRepo,
		templateRepo:  templateRepo,
	}
}

func newTestRouter() http.Handler {
	return newTestEnv().router
}

// addAuthHeader adds a valid Bearer token to the request.
func addAuthHeader(t *testing.T, req *http.Request) {
	t.Helper()
	token := generateTestToken(t)
	req.Header.Set("Authorization", "Bearer "+token)
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.NotEmpty(t, health.Time)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_SystemStatus(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	err := json.Unmarshal(w.Body.Bytes(), &status)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, status.Status)
	assert.NotEmpty(t, status.Subsystems)
}

func TestRouter_Trips_RequireAuth(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/trips", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_CreateAndGetTrip(t *testing.T) {
	router := newTestRouter()

	input := models.TripCreateRequest{
		Name:       "Japan Honeymoon",
		ClientName: "Riley Quinn",
		StartDate:  strPtr("2026-04-01"),
		EndDate:    strPtr("2026-04-10"),
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/trips", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get("Location"))

	var created models.Trip
	err := json.Unmarshal(w.Body.Bytes(), &created)
	require.NoError(t, err)

	assert.Equal(t, "Japan Honeymoon", created.Name)
	assert.NotEmpty(t, created.ID)

	// Fetch it back
	req = httptest.NewRequest(http.MethodGet, "/v1/trips/"+created.ID, http.NoBody)
	addAuthHeader(t, req)
	w = httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var fetched models.Trip
	err = json.Unmarshal(w.Body.Bytes(), &fetched)
	require.NoError(t, err)

	assert.Equal(t, created.ID, fetched.ID)
	require.NotNil(t, fetched.StartDate)
	assert.Equal(t, "2026-04-01", *fetched.StartDate)
}

func TestRouter_CreateTrip_ValidationError(t *testing.T) {
	router := newTestRouter()

	// Name is required
	body, _ := json.Marshal(models.TripCreateRequest{})

	req := httptest.NewRequest(http.MethodPost, "/v1/trips", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.TraceID)
}

func TestRouter_ListTrips(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/trips", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var trips models.PagedTrips
	err := json.Unmarshal(w.Body.Bytes(), &trips)
	require.NoError(t, err)

	assert.NotNil(t, trips.Items)
	assert.NotZero(t, trips.Meta.Limit)
}

func TestRouter_DeleteTrip_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodDelete, "/v1/trips/trp_missing", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_GetItinerary_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/itineraries/itn_missing", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_ListTemplates_Empty(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/templates", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var list models.TemplateList
	err := json.Unmarshal(w.Body.Bytes(), &list)
	require.NoError(t, err)

	assert.Empty(t, list.Items)
}

func TestRouter_ListTemplates_BadKind(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/templates?kind=hotel", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_SaveTemplate_ItineraryNotFound(t *testing.T) {
	router := newTestRouter()

	input := models.TemplateFromItineraryRequest{
		ItineraryID: "itn_missing",
		Name:        "Kyoto week",
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/templates/from-itinerary", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_SaveTemplate_EmptyItinerary(t *testing.T) {
	env := newTestEnv()

	now := time.Now()
	require.NoError(t, env.itineraryRepo.CreateItinerary(context.Background(), &itinerary.Itinerary{
		ID:        "itn_empty",
		TripID:    "trp_1",
		AgencyID:  "agc_test",
		Name:      "Blank",
		Status:    itinerary.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}))

	input := models.TemplateFromItineraryRequest{
		ItineraryID: "itn_empty",
		Name:        "Blank copy",
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/templates/from-itinerary", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_ApplyTemplate_IncompletePayload(t *testing.T) {
	env := newTestEnv()

	now := time.Now()
	require.NoError(t, env.templateRepo.Create(context.Background(), &template.TripTemplate{
		ID:              "tpl_broken",
		AgencyID:        "agc_test",
		CreatedByUserID: "usr_testuser123",
		Scope:           template.ScopeUser,
		Kind:            template.KindItinerary,
		Name:            "Broken",
		Payload:         json.RawMessage(`{"templateType":"itinerary"}`),
		CreatedAt:       now,
		UpdatedAt:       now,
	}))

	body, _ := json.Marshal(models.TripCreateRequest{Name: "Target trip"})
	req := httptest.NewRequest(http.MethodPost, "/v1/trips", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	applyBody, _ := json.Marshal(models.ApplyToTripRequest{TemplateID: "tpl_broken"})
	req = httptest.NewRequest(http.MethodPost, "/v1/trips/"+created.ID+"/apply-template", bytes.NewReader(applyBody))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req)
	w = httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ApplyTemplate_TemplateNotFound(t *testing.T) {
	router := newTestRouter()

	// Create a trip to apply onto
	body, _ := json.Marshal(models.TripCreateRequest{Name: "Test trip"})
	req := httptest.NewRequest(http.MethodPost, "/v1/trips", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	applyBody, _ := json.Marshal(models.ApplyToTripRequest{TemplateID: "tpl_missing"})
	req = httptest.NewRequest(http.MethodPost, "/v1/trips/"+created.ID+"/apply-template", bytes.NewReader(applyBody))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req)
	w = httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_DevLogin_DisabledByDefault(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RequestID_Generated(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func strPtr(s string) *string {
	return &s
}
