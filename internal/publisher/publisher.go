// Package publisher propagates finished predictions to downstream
// consumers as fire-and-forget events.
package publisher

import (
	"context"

	"github.com/smartmove/smartmove/internal/prediction"
)

// Publisher sends prediction events downstream. Implementations must
// never block the prediction response path; failures are logged, not
// returned to the caller.
type Publisher interface {
	// Publish sends the prediction asynchronously.
	Publish(ctx context.Context, p *prediction.Enriched)

	// Close releases publisher resources.
	Close() error
}

// Nop is a Publisher that discards everything.
type Nop struct{}

// NewNop creates a no-op publisher.
func NewNop() *Nop { return &Nop{} }

func (*Nop) Publish(context.Context, *prediction.Enriched) {}

func (*Nop) Close() error { return nil }
