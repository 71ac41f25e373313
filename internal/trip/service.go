package trip

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/smartmove/smartmove/internal/api/models"
	"github.com/smartmove/smartmove/internal/traffic"
)

// Validation constants.
const (
	MaxLabelLength    = 80
	MaxLocationLength = 120
)

// Service provides monitored trip operations.
type Service struct {
	repo Repository
}

// NewService creates a new trip service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves all trips for a user.
func (s *Service) List(ctx context.Context, userID string, limit int) (*models.PagedTrips, error) {
	result, err := s.repo.List(ctx, userID, ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]models.Trip, 0, len(result.Items))
	for _, t := range result.Items {
		items = append(items, s.toAPITrip(t))
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	return &models.PagedTrips{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      limit,
			NextCursor: nextCursor,
		},
	}, nil
}

// Get retrieves a trip by ID for a user.
func (s *Service) Get(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	t, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	result := s.toAPITrip(t)
	return &result, nil
}

// Create creates a new monitored trip for a user.
func (s *Service) Create(ctx context.Context, userID string, input *models.TripCreateRequest) (*models.Trip, error) {
	if fieldErrors := s.validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	tripID := "trp_" + uuid.New().String()[:22]

	t := &MonitoredTrip{
		ID:                      tripID,
		UserID:                  userID,
		Label:                   input.Label,
		Origin:                  input.Origin,
		Destination:             input.Destination,
		TransportMode:           string(traffic.ParseMode(input.TransportMode)),
		OriginalDurationMinutes: input.OriginalDurationMinutes,
		Active:                  true,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	result := s.toAPITrip(t)
	return &result, nil
}

// Update updates an existing trip for a user.
func (s *Service) Update(ctx context.Context, userID, tripID string, input *models.TripUpdateRequest) (*models.Trip, error) {
	t, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	if fieldErrors := s.validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.Label != nil {
		t.Label = *input.Label
	}
	if input.Origin != nil {
		t.Origin = *input.Origin
	}
	if input.Destination != nil {
		t.Destination = *input.Destination
	}
	if input.TransportMode != nil {
		t.TransportMode = string(traffic.ParseMode(*input.TransportMode))
	}
	if input.LastPredictedMinutes != nil {
		t.LastPredictedMinutes = input.LastPredictedMinutes
	}
	if input.Active != nil {
		t.Active = *input.Active
	}
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	result := s.toAPITrip(t)
	return &result, nil
}

// Delete deletes a trip for a user.
func (s *Service) Delete(ctx context.Context, userID, tripID string) error {
	// Verify ownership
	_, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return ErrTripNotFound
		}
		return err
	}

	return s.repo.Delete(ctx, tripID)
}

// RecordPrediction stores the latest predicted duration for a trip.
func (s *Service) RecordPrediction(ctx context.Context, tripID string, predictedMinutes float64) error {
	t, err := s.repo.Get(ctx, tripID)
	if err != nil {
		return err
	}

	t.LastPredictedMinutes = &predictedMinutes
	t.UpdatedAt = time.Now()
	return s.repo.Update(ctx, t)
}

// ListActive retrieves all active trips across users.
func (s *Service) ListActive(ctx context.Context) ([]*MonitoredTrip, error) {
	return s.repo.ListActive(ctx)
}

// validateCreateInput validates the create trip input.
func (s *Service) validateCreateInput(input *models.TripCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Label == "" {
		errs = append(errs, models.FieldError{Field: "label", Message: "is required"})
	} else if len(input.Label) > MaxLabelLength {
		errs = append(errs, models.FieldError{Field: "label", Message: "must be at most 80 characters"})
	}

	errs = append(errs, validateLocationName(input.Origin, "origin", true)...)
	errs = append(errs, validateLocationName(input.Destination, "destination", true)...)

	if input.OriginalDurationMinutes < 0 {
		errs = append(errs, models.FieldError{Field: "originalDurationMinutes", Message: "must not be negative"})
	}

	return errs
}

// validateUpdateInput validates the update trip input.
func (s *Service) validateUpdateInput(input *models.TripUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Label != nil {
		if *input.Label == "" {
			errs = append(errs, models.FieldError{Field: "label", Message: "cannot be empty"})
		} else if len(*input.Label) > MaxLabelLength {
			errs = append(errs, models.FieldError{Field: "label", Message: "must be at most 80 characters"})
		}
	}

	if input.Origin != nil {
		errs = append(errs, validateLocationName(*input.Origin, "origin", true)...)
	}
	if input.Destination != nil {
		errs = append(errs, validateLocationName(*input.Destination, "destination", true)...)
	}

	if input.LastPredictedMinutes != nil && *input.LastPredictedMinutes < 0 {
		errs = append(errs, models.FieldError{Field: "lastPredictedMinutes", Message: "must not be negative"})
	}

	return errs
}

// validateLocationName validates a free-text location name.
func validateLocationName(name, field string, required bool) []models.FieldError {
	if name == "" {
		if required {
			return []models.FieldError{{Field: field, Message: "is required"}}
		}
		return nil
	}
	if len(name) > MaxLocationLength {
		return []models.FieldError{{Field: field, Message: "must be at most 120 characters"}}
	}
	return nil
}

// toAPITrip converts a domain trip to an API trip.
func (s *Service) toAPITrip(t *MonitoredTrip) models.Trip {
	return models.Trip{
		ID:                      t.ID,
		Label:                   t.Label,
		Origin:                  t.Origin,
		Destination:             t.Destination,
		TransportMode:           t.TransportMode,
		OriginalDurationMinutes: t.OriginalDurationMinutes,
		LastPredictedMinutes:    t.LastPredictedMinutes,
		Active:                  t.Active,
		CreatedAt:               models.Timestamp(t.CreatedAt),
		UpdatedAt:               models.Timestamp(t.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
