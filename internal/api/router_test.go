package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartmove/smartmove/internal/api"
	"github.com/smartmove/smartmove/internal/api/models"
	"github.com/smartmove/smartmove/internal/geo"
	"github.com/smartmove/smartmove/internal/incident"
	"github.com/smartmove/smartmove/internal/prediction"
	"github.com/smartmove/smartmove/internal/traffic"
	"github.com/smartmove/smartmove/internal/trip"
	"github.com/smartmove/smartmove/internal/weather"
)

// newTestRouter builds a router backed entirely by local fallbacks,
// so no request leaves the process.
func newTestRouter() http.Handler {
	logger := zerolog.New(io.Discard)
	resolver := geo.NewResolver(geo.ResolverConfig{Logger: logger})

	routes := traffic.NewService(traffic.ServiceConfig{
		Resolver: resolver,
		Rand:     rand.New(rand.NewSource(7)),
		Logger:   logger,
	})
	weatherSvc := weather.NewService(weather.ServiceConfig{
		Resolver: resolver,
		Rand:     rand.New(rand.NewSource(7)),
		Logger:   logger,
	})
	incidents := incident.NewService(incident.ServiceConfig{Logger: logger})

	predictions := prediction.NewService(prediction.ServiceConfig{
		Routes:    routes,
		Weather:   weatherSvc,
		Incidents: incidents,
		Logger:    logger,
	})

	trips := trip.NewService(trip.NewInMemoryRepository())

	return api.NewRouter(api.RouterConfig{
		Version:           "test",
		BuildTime:         "2024-01-01T00:00:00Z",
		Logger:            logger,
		PredictionService: predictions,
		TripService:       trips,
	})
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
	assert.Equal(t, "test", health.Details["version"])
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
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	err := json.Unmarshal(w.Body.Bytes(), &status)
	require.NoError(t, err)
	assert.Equal(t, models.HealthStatusOK, status.Status)
}

func TestRouter_Predict(t *testing.T) {
	router := newTestRouter()

	body := `{"origin": "Maarif", "destination": "Casa Port", "transportMode": "driving"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/predictions:predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result prediction.Enriched
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, "Maarif", result.Origin)
	assert.Equal(t, "Casa Port", result.Destination)
	assert.Greater(t, result.PredictedDuration, 0.0)
	assert.GreaterOrEqual(t, result.PredictedDuration, result.BaseDuration)
	assert.Contains(t, []string{"LOW", "MEDIUM", "HIGH"}, result.RiskLevel)

	sum := result.ImpactFactors.Traffic + result.ImpactFactors.Weather +
		result.ImpactFactors.Incidents + result.ImpactFactors.PeakHour
	assert.Equal(t, 100, sum)
}

func TestRouter_Predict_MissingFields(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/predictions:predict", bytes.NewBufferString(`{"origin": "Maarif"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "destination")
}

func TestRouter_Predict_InvalidJSON(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/predictions:predict", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Predict_RequiresJSONContentType(t *testing.T) {
	router := newTestRouter()

	body := `{"origin": "Maarif", "destination": "Casa Port"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/predictions:predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestRouter_QuickPredict(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/predictions/quick?origin=Technopark&destination=Ain+Diab&mode=walking", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result prediction.Enriched
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, "Technopark", result.Origin)
	assert.Greater(t, result.PredictedDuration, 0.0)
	// Walking trips carry no peak or incident surcharge.
	assert.Equal(t, result.BaseDuration, result.PredictedDuration)
}

func TestRouter_QuickPredict_DepartureTime(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/predictions/quick?origin=Maarif&destination=Casa+Port&time=13:30&mode=driving", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result prediction.Enriched
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, "13:30", result.DepartureTime)
}

func TestRouter_QuickPredict_MissingOrigin(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/predictions/quick?destination=Maarif", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "origin")
}

func TestRouter_TripLifecycle(t *testing.T) {
	router := newTestRouter()

	// Create
	body := `{"label": "Morning commute", "origin": "Maarif", "destination": "Technopark", "transportMode": "driving", "originalDurationMinutes": 25}`
	req := httptest.NewRequest(http.MethodPost, "/v1/trips/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "usr_router_test")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, fmt.Sprintf("/v1/trips/%s", created.ID), w.Header().Get("Location"))

	// Get
	req = httptest.NewRequest(http.MethodGet, "/v1/trips/"+created.ID, http.NoBody)
	req.Header.Set("X-User-Id", "usr_router_test")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	// Update
	req = httptest.NewRequest(http.MethodPatch, "/v1/trips/"+created.ID, bytes.NewBufferString(`{"label": "Evening commute"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "usr_router_test")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Evening commute", updated.Label)

	// List
	req = httptest.NewRequest(http.MethodGet, "/v1/trips/", http.NoBody)
	req.Header.Set("X-User-Id", "usr_router_test")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var page models.PagedTrips
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Items, 1)

	// Delete
	req = httptest.NewRequest(http.MethodDelete, "/v1/trips/"+created.ID, http.NoBody)
	req.Header.Set("X-User-Id", "usr_router_test")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	// Gone
	req = httptest.NewRequest(http.MethodGet, "/v1/trips/"+created.ID, http.NoBody)
	req.Header.Set("X-User-Id", "usr_router_test")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_TripsScopedByUser(t *testing.T) {
	router := newTestRouter()

	body := `{"label": "Private trip", "origin": "Maarif", "destination": "Casa Port"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/trips/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "usr_owner")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req = httptest.NewRequest(http.MethodGet, "/v1/trips/"+created.ID, http.NoBody)
	req.Header.Set("X-User-Id", "usr_other")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_TripValidation(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/trips/", bytes.NewBufferString(`{"label": "No places"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "origin")
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/unknown", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_SecurityHeaders(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
