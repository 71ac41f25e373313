package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/smartmove/smartmove/internal/api/models"
	"github.com/smartmove/smartmove/internal/api/response"
	"github.com/smartmove/smartmove/internal/prediction"
	"github.com/smartmove/smartmove/internal/trip"
)

// PredictionHandler handles trip prediction endpoints.
type PredictionHandler struct {
	predictions *prediction.Service
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predictions *prediction.Service) *PredictionHandler {
	return &PredictionHandler{predictions: predictions}
}

// Predict handles POST /v1/predictions:predict - full trip prediction.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var input models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if fieldErrors := validatePredictionInput(&input); len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation failed", fieldErrors)
		return
	}

	result := h.predictions.Predict(r.Context(), prediction.Request{
		Origin:        strings.TrimSpace(input.Origin),
		Destination:   strings.TrimSpace(input.Destination),
		DepartureDate: input.DepartureDate,
		DepartureTime: input.DepartureTime,
		TransportMode: input.TransportMode,
	})

	response.JSON(w, r, http.StatusOK, result)
}

// QuickPredict handles GET /v1/predictions/quick - prediction from query parameters.
func (h *PredictionHandler) QuickPredict(w http.ResponseWriter, r *http.Request) {
	origin := strings.TrimSpace(r.URL.Query().Get("origin"))
	destination := strings.TrimSpace(r.URL.Query().Get("destination"))

	var fieldErrors []models.FieldError
	if origin == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "origin", Message: "required", Code: "required"})
	}
	if destination == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "destination", Message: "required", Code: "required"})
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation failed", fieldErrors)
		return
	}

	result := h.predictions.Predict(r.Context(), prediction.Request{
		Origin:        origin,
		Destination:   destination,
		DepartureTime: r.URL.Query().Get("time"),
		TransportMode: r.URL.Query().Get("mode"),
	})

	response.JSON(w, r, http.StatusOK, result)
}

func validatePredictionInput(input *models.PredictionRequest) []models.FieldError {
	var fieldErrors []models.FieldError

	origin := strings.TrimSpace(input.Origin)
	destination := strings.TrimSpace(input.Destination)

	if origin == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "origin", Message: "required", Code: "required"})
	} else if len(origin) > trip.MaxLocationLength {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "origin", Message: "too long", Code: "max_length"})
	}

	if destination == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "destination", Message: "required", Code: "required"})
	} else if len(destination) > trip.MaxLocationLength {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "destination", Message: "too long", Code: "max_length"})
	}

	return fieldErrors
}
