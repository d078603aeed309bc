package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/naikprasad87/transport-facility/internal/api/middleware"
	"github.com/naikprasad87/transport-facility/internal/domain/entities"
	"github.com/naikprasad87/transport-facility/internal/services"
	"github.com/naikprasad87/transport-facility/pkg/utils"
)

const (
	msgEnterTime      = "Enter time as HH:mm"
	msgBadBuffer      = "buffer must be a whole number of minutes"
	msgBadVehicleType = "vehicleType must be Bike, Car or All"
	msgNoMatches      = "No matching rides."
	msgRideAdded      = "Ride added successfully."
	msgRideBooked     = "Ride booked successfully!"
	msgRidesCleared   = "All rides have been cleared!"
	msgConfirmClear   = "Pass confirm=true to clear all rides."
	msgBadBody        = "Request body must be a JSON object with the documented fields."
)

type RideHandler struct {
	registry *services.RideRegistry
}

func NewRideHandler(registry *services.RideRegistry) *RideHandler {
	return &RideHandler{registry: registry}
}

// RideResponse is a ride plus its time in 12-hour form for display.
type RideResponse struct {
	entities.Ride
	DisplayTime string `json:"displayTime"`
}

func toResponse(r entities.Ride) RideResponse {
	return RideResponse{Ride: r, DisplayTime: utils.FormatTo12Hour(r.Time)}
}

func toResponses(rides []entities.Ride) []RideResponse {
	out := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		out = append(out, toResponse(r))
	}
	return out
}

// statusFor maps a registry refusal to an HTTP status.
func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindConflict:
		return http.StatusConflict
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeFailure(c *gin.Context, res services.Result) {
	c.JSON(statusFor(res.Kind), gin.H{"success": false, "message": res.Message})
}

// ListRides handles GET /rides
func (h *RideHandler) ListRides(c *gin.Context) {
	rides := h.registry.Rides()
	c.JSON(http.StatusOK, gin.H{
		"date":  h.registry.Today(),
		"count": len(rides),
		"rides": toResponses(rides),
	})
}

// SearchRides handles GET /rides/search?time=HH:mm&buffer=60&vehicleType=Car
func (h *RideHandler) SearchRides(c *gin.Context) {
	desired := c.Query("time")
	if !utils.IsClock(desired) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msgEnterTime})
		return
	}

	var opts []services.SearchOption
	if raw := c.Query("buffer"); raw != "" {
		buffer, err := strconv.Atoi(raw)
		if err != nil || buffer < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msgBadBuffer})
			return
		}
		opts = append(opts, services.WithBuffer(buffer))
	}
	vt, valid := entities.ParseVehicleType(c.Query("vehicleType"))
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msgBadVehicleType})
		return
	}
	opts = append(opts, services.WithVehicleType(vt))

	rides := h.registry.FindRidesNearTime(desired, opts...)
	resp := gin.H{"rides": toResponses(rides)}
	if len(rides) == 0 {
		resp["message"] = msgNoMatches
	}
	c.JSON(http.StatusOK, resp)
}

// GetRide handles GET /rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, found := h.registry.Ride(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": services.MsgRideNotFound})
		return
	}
	c.JSON(http.StatusOK, toResponse(ride))
}

// VehicleConflict handles GET /rides/conflict?vehicleNo=KA01&time=09:30, the
// pre-check the add-ride form runs before submitting.
func (h *RideHandler) VehicleConflict(c *gin.Context) {
	vehicleNo, desired := c.Query("vehicleNo"), c.Query("time")
	if vehicleNo == "" || !utils.IsClock(desired) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "vehicleNo and time (HH:mm) are required"})
		return
	}
	resp := gin.H{"conflict": h.registry.HasVehicleConflict(vehicleNo, desired)}
	if resp["conflict"] == true {
		resp["message"] = services.MsgVehicleConflict
	}
	c.JSON(http.StatusOK, resp)
}

// bindMessage turns a JSON decode error into an employee-facing message.
// Decoder text never reaches clients.
func bindMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "vacantSeats" {
		return services.MsgSeatsMin
	}
	return msgBadBody
}

// AddRide handles POST /rides
func (h *RideHandler) AddRide(c *gin.Context) {
	var req services.AddRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": bindMessage(err)})
		return
	}
	if req.OwnerEmployeeID == "" {
		req.OwnerEmployeeID = middleware.GetEmployeeID(c)
	}

	res := h.registry.AddRide(c.Request.Context(), req)
	if !res.Success {
		writeFailure(c, res)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": msgRideAdded,
		"ride":    toResponse(*res.Ride),
	})
}

type BookRideRequest struct {
	EmployeeID string `json:"employeeId"`
}

// BookRide handles POST /rides/:id/book. The body may be omitted when the
// X-Employee-ID header names the employee.
func (h *RideHandler) BookRide(c *gin.Context) {
	var req BookRideRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": bindMessage(err)})
		return
	}
	if req.EmployeeID == "" {
		req.EmployeeID = middleware.GetEmployeeID(c)
	}

	res := h.registry.BookRide(c.Request.Context(), c.Param("id"), req.EmployeeID)
	if !res.Success {
		writeFailure(c, res)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgRideBooked,
		"ride":    toResponse(*res.Ride),
	})
}

// ClearRides handles DELETE /rides?confirm=true
func (h *RideHandler) ClearRides(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msgConfirmClear})
		return
	}
	res := h.registry.ClearAllRides(c.Request.Context())
	if !res.Success {
		writeFailure(c, res)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgRidesCleared})
}
