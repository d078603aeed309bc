package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naikprasad87/transport-facility/internal/api/handlers"
	"github.com/naikprasad87/transport-facility/internal/logger"
	"github.com/naikprasad87/transport-facility/internal/metrics"
	"github.com/naikprasad87/transport-facility/internal/repository/memory"
	"github.com/naikprasad87/transport-facility/internal/services"
	"github.com/naikprasad87/transport-facility/pkg/utils"
)

type apiResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Ride    *handlers.RideResponse  `json:"ride"`
	Rides   []handlers.RideResponse `json:"rides"`
	Count   int                     `json:"count"`
	Date    string                  `json:"date"`
}

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	registry := services.NewRideRegistry(
		memory.NewRideStore(),
		services.WithClock(&utils.FixedDayClock{Day: "2024-05-01"}),
		services.WithMetrics(recorder),
		services.WithLogger(logger.Nop()),
	)

	router := NewRouter(handlers.NewRideHandler(registry), nil, RouterOptions{
		AllowedOrigins: []string{"http://localhost:4200"},
		MetricsPath:    "/metrics",
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:         logger.Nop(),
	})
	engine := gin.New()
	router.Setup(engine)
	return engine
}

func do(t *testing.T, engine *gin.Engine, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var reader *bytes.Buffer
	if body == "" {
		reader = &bytes.Buffer{}
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

const carBody = `{"ownerEmployeeId":"e1","vehicleType":"Car","vehicleNo":"KA01","vacantSeats":2,"time":"09:00","pickupPoint":"Gate A","destination":"HQ"}`

func TestHealthEndpoint(t *testing.T) {
	engine := setupTestServer(t)

	w, _ := do(t, engine, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddRideEndpoint(t *testing.T) {
	engine := setupTestServer(t)

	w, resp := do(t, engine, http.MethodPost, "/rides", carBody, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Ride)
	assert.Equal(t, "E1", resp.Ride.OwnerEmployeeID)
	assert.Equal(t, "2024-05-01", resp.Ride.Date)
	assert.Equal(t, "9:00 AM", resp.Ride.DisplayTime)

	w, resp = do(t, engine, http.MethodGet, "/rides", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "2024-05-01", resp.Date)
}

func TestAddRideEndpoint_OwnerFromHeader(t *testing.T) {
	engine := setupTestServer(t)

	body := `{"vehicleType":"Bike","vehicleNo":"KA02","vacantSeats":1,"time":"10:00","pickupPoint":"A","destination":"B"}`
	w, resp := do(t, engine, http.MethodPost, "/rides", body, map[string]string{"X-Employee-ID": "e7"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "E7", resp.Ride.OwnerEmployeeID)
}

func TestAddRideEndpoint_StatusMapping(t *testing.T) {
	engine := setupTestServer(t)
	w, _ := do(t, engine, http.MethodPost, "/rides", carBody, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{
			name:    "missing owner",
			body:    `{"vehicleType":"Car","vehicleNo":"KA09","vacantSeats":1,"time":"09:00","pickupPoint":"A","destination":"B"}`,
			status:  http.StatusBadRequest,
			message: services.MsgEmployeeIDRequired,
		},
		{
			name:    "bad time",
			body:    `{"ownerEmployeeId":"e2","vehicleType":"Car","vehicleNo":"KA09","vacantSeats":1,"time":"9am","pickupPoint":"A","destination":"B"}`,
			status:  http.StatusBadRequest,
			message: services.MsgTimeFormat,
		},
		{
			name:    "vehicle conflict",
			body:    `{"ownerEmployeeId":"e2","vehicleType":"Car","vehicleNo":"KA01","vacantSeats":1,"time":"09:45","pickupPoint":"A","destination":"B"}`,
			status:  http.StatusConflict,
			message: services.MsgVehicleConflict,
		},
		{
			name:    "second ride for owner",
			body:    `{"ownerEmployeeId":"e1","vehicleType":"Bike","vehicleNo":"KA09","vacantSeats":1,"time":"18:00","pickupPoint":"A","destination":"B"}`,
			status:  http.StatusConflict,
			message: services.MsgOwnerRideExists,
		},
		{
			name:    "fractional seats",
			body:    `{"ownerEmployeeId":"e2","vehicleType":"Car","vehicleNo":"KA09","vacantSeats":1.5,"time":"11:00","pickupPoint":"A","destination":"B"}`,
			status:  http.StatusBadRequest,
			message: services.MsgSeatsMin,
		},
		{
			name:    "seats as text",
			body:    `{"ownerEmployeeId":"e2","vehicleType":"Car","vehicleNo":"KA09","vacantSeats":"two","time":"11:00","pickupPoint":"A","destination":"B"}`,
			status:  http.StatusBadRequest,
			message: services.MsgSeatsMin,
		},
		{
			name:    "wrong type elsewhere",
			body:    `{"ownerEmployeeId":42,"vehicleType":"Car","vehicleNo":"KA09","vacantSeats":1,"time":"11:00","pickupPoint":"A","destination":"B"}`,
			status:  http.StatusBadRequest,
			message: "Request body must be a JSON object with the documented fields.",
		},
		{
			name:    "malformed json",
			body:    `{"ownerEmployeeId":`,
			status:  http.StatusBadRequest,
			message: "Request body must be a JSON object with the documented fields.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := do(t, engine, http.MethodPost, "/rides", tt.body, nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.False(t, resp.Success)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Message)
			}
		})
	}
}

func TestBookRideEndpoint(t *testing.T) {
	engine := setupTestServer(t)
	_, added := do(t, engine, http.MethodPost, "/rides", carBody, nil)
	require.NotNil(t, added.Ride)
	path := "/rides/" + added.Ride.ID + "/book"

	w, resp := do(t, engine, http.MethodPost, path, `{"employeeId":"e2"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Ride booked successfully!", resp.Message)
	assert.Equal(t, 1, resp.Ride.VacantSeats)
	assert.Equal(t, []string{"E2"}, resp.Ride.BookedEmployeeIDs)

	// Header only, no body.
	w, resp = do(t, engine, http.MethodPost, path, "", map[string]string{"X-Employee-ID": "e3"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, resp.Ride.VacantSeats)

	w, resp = do(t, engine, http.MethodPost, path, `{"employeeId":"e4"}`, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, services.MsgNoVacantSeats, resp.Message)

	w, resp = do(t, engine, http.MethodPost, path, `{"employeeId":"e1"}`, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, services.MsgOwnerCannotBook, resp.Message)

	w, resp = do(t, engine, http.MethodPost, "/rides/missing/book", `{"employeeId":"e5"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, services.MsgRideNotFound, resp.Message)

	w, resp = do(t, engine, http.MethodPost, path, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.MsgEmployeeIDRequired, resp.Message)
}

func TestSearchRidesEndpoint(t *testing.T) {
	engine := setupTestServer(t)
	do(t, engine, http.MethodPost, "/rides", carBody, nil)
	do(t, engine, http.MethodPost, "/rides",
		`{"ownerEmployeeId":"e2","vehicleType":"Bike","vehicleNo":"KA05","vacantSeats":1,"time":"09:30","pickupPoint":"A","destination":"B"}`, nil)

	w, resp := do(t, engine, http.MethodGet, "/rides/search?time=09:20", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Rides, 2)

	w, resp = do(t, engine, http.MethodGet, "/rides/search?time=09:20&vehicleType=bike", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Rides, 1)
	assert.Equal(t, "KA05", resp.Rides[0].VehicleNo)

	w, resp = do(t, engine, http.MethodGet, "/rides/search?time=09:20&buffer=5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Rides)
	assert.Equal(t, "No matching rides.", resp.Message)

	w, _ = do(t, engine, http.MethodGet, "/rides/search?time=25:00", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, engine, http.MethodGet, "/rides/search?time=09:00&buffer=-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, engine, http.MethodGet, "/rides/search?time=09:00&vehicleType=Bus", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRideAndConflictEndpoints(t *testing.T) {
	engine := setupTestServer(t)
	_, added := do(t, engine, http.MethodPost, "/rides", carBody, nil)

	w, _ := do(t, engine, http.MethodGet, "/rides/"+added.Ride.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, engine, http.MethodGet, "/rides/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, engine, http.MethodGet, "/rides/conflict?vehicleNo=KA01&time=10:00", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"conflict":true`)

	w, _ = do(t, engine, http.MethodGet, "/rides/conflict?vehicleNo=KA01&time=10:01", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"conflict":false`)

	w, _ = do(t, engine, http.MethodGet, "/rides/conflict?vehicleNo=KA01", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearRidesEndpoint(t *testing.T) {
	engine := setupTestServer(t)
	do(t, engine, http.MethodPost, "/rides", carBody, nil)

	w, _ := do(t, engine, http.MethodDelete, "/rides", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := do(t, engine, http.MethodDelete, "/rides?confirm=true", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "All rides have been cleared!", resp.Message)

	_, resp = do(t, engine, http.MethodGet, "/rides", "", nil)
	assert.Equal(t, 0, resp.Count)
}

func TestMetricsEndpoint(t *testing.T) {
	engine := setupTestServer(t)
	do(t, engine, http.MethodPost, "/rides", carBody, nil)
	do(t, engine, http.MethodPost, "/rides", carBody, nil)

	w, _ := do(t, engine, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `carpool_ride_operations_total{operation="add_ride",outcome="success"} 1`)
	assert.Contains(t, body, `carpool_ride_operations_total{operation="add_ride",outcome="conflict"} 1`)
	assert.Contains(t, body, "carpool_rides 1")
}
