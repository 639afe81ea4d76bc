package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Higherpines/SkoreBot/pkg/models"
)

// StreamPublisher mirrors dispatched intents to Redis streams so other
// consumers (dashboards, archival) see the same notification history the
// chat channel does.
type StreamPublisher struct {
	client *redis.Client
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{
		client: client,
	}
}

// PublishIntent publishes a dispatched intent to the sport-specific stream
func (p *StreamPublisher) PublishIntent(ctx context.Context, intent models.NotificationIntent) error {
	streamKey := fmt.Sprintf("skorebot.intents.%s", intent.SportKey)

	data, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("marshaling intent: %w", err)
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]interface{}{
			"data":    string(data),
			"game_id": intent.Game.GameID,
			"class":   string(intent.Class),
		},
	}).Err()
}
