package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/smartmove/smartmove/internal/prediction"
)

// DefaultTopicName is the topic predictions are published to.
const DefaultTopicName = "trip-predictions"

// publishTimeout bounds how long a background publish may take.
const publishTimeout = 10 * time.Second

// PubSubConfig holds configuration for the Pub/Sub publisher.
type PubSubConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// PubSub publishes prediction events to a Pub/Sub topic.
type PubSub struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

// NewPubSub creates a new Pub/Sub prediction publisher.
func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	topicName := cfg.TopicName
	if topicName == "" {
		topicName = DefaultTopicName
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &PubSub{
		client:    client,
		publisher: client.Publisher(topicName),
		topicName: topicName,
		logger:    cfg.Logger,
	}, nil
}

// Publish sends the prediction to the topic in the background. The
// caller is never blocked and never sees a publish failure.
func (p *PubSub) Publish(_ context.Context, pred *prediction.Enriched) {
	data, err := json.Marshal(pred)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to encode prediction event")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		result := p.publisher.Publish(ctx, &pubsub.Message{
			Data: data,
			Attributes: map[string]string{
				"origin":      pred.Origin,
				"destination": pred.Destination,
				"riskLevel":   pred.RiskLevel,
			},
		})

		id, err := result.Get(ctx)
		if err != nil {
			p.logger.Warn().
				Err(err).
				Str("topic", p.topicName).
				Msg("failed to publish prediction event")
			return
		}

		p.logger.Debug().
			Str("topic", p.topicName).
			Str("message_id", id).
			Msg("published prediction event")
	}()
}

// Close stops the publisher and releases the client.
func (p *PubSub) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}
