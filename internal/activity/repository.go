package activity

import "context"

// Repository defines the interface for activity and pricing persistence.
type Repository interface {
	// Get retrieves an activity by ID.
	Get(ctx context.Context, id string) (*Activity, error)

	// Create creates a new activity.
	Create(ctx context.Context, a *Activity) error

	// ListByDayIDs retrieves all activities attached to any of the given
	// itinerary days, ordered by day then sequence order.
	ListByDayIDs(ctx context.Context, dayIDs []string) ([]*Activity, error)

	// ListChildren retrieves the direct children of a parent activity,
	// ordered by sequence order. One level of nesting only.
	ListChildren(ctx context.Context, parentActivityID string) ([]*Activity, error)

	// CreatePricing creates a pricing row for an activity.
	CreatePricing(ctx context.Context, p *Pricing) error

	// ListPricingByActivityIDs retrieves pricing rows for the given
	// activities in one batch, keyed by activity ID. Activities without
	// pricing are simply absent from the result.
	ListPricingByActivityIDs(ctx context.Context, activityIDs []string) (map[string]*Pricing, error)
}

// DetailStore defines the interface for per-type activity detail records.
// Each orchestrated component type has its own table keyed by activity ID.
type DetailStore interface {
	// ListByActivityIDs retrieves detail records of one component type for
	// the given activities in one batch, keyed by activity ID.
	ListByActivityIDs(ctx context.Context, kind ComponentType, activityIDs []string) (map[string]Details, error)

	// Save writes the detail record for an activity.
	Save(ctx context.Context, activityID string, d Details) error
}
