package trip

import "context"

// ListOptions contains options for listing trips.
type ListOptions struct {
	Limit  int
	Cursor string
}

// ListResult contains the results of listing trips.
type ListResult struct {
	Items      []*MonitoredTrip
	NextCursor string
}

// Repository defines the interface for trip data persistence.
type Repository interface {
	// Get retrieves a trip by ID.
	Get(ctx context.Context, id string) (*MonitoredTrip, error)

	// GetByUserAndID retrieves a trip by user ID and trip ID.
	// Returns ErrTripNotFound if the trip doesn't exist or doesn't belong to the user.
	GetByUserAndID(ctx context.Context, userID, tripID string) (*MonitoredTrip, error)

	// List retrieves all trips for a user with pagination.
	List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error)

	// ListActive retrieves all active trips across users.
	ListActive(ctx context.Context) ([]*MonitoredTrip, error)

	// Create creates a new trip.
	Create(ctx context.Context, trip *MonitoredTrip) error

	// Update updates an existing trip.
	Update(ctx context.Context, trip *MonitoredTrip) error

	// Delete deletes a trip by ID.
	Delete(ctx context.Context, id string) error
}
