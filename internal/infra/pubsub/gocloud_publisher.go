package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"

	"storefront/internal/domain/lifecycle"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	gcpubsub "gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/mempubsub" // mem:// topics
)

// goCloudPublisher sends order events to a Go CDK topic opened by URL. The
// payload and attributes match the Google publisher, so a subscriber can
// decode either.
type goCloudPublisher struct {
	topic  *gcpubsub.Topic
	url    string
	logger *slog.Logger
}

// NewGoCloudPublisher opens topicURL with whichever driver registered its scheme.
func NewGoCloudPublisher(ctx context.Context, topicURL string, logger *slog.Logger) (service.EventPublisher, error) {
	topic, err := gcpubsub.OpenTopic(ctx, topicURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open order events topic %s", topicURL)
	}

	logger.Info("Publishing order events to Go CDK topic", slog.String("topic_url", topicURL))

	return &goCloudPublisher{topic: topic, url: topicURL, logger: logger}, nil
}

func (p *goCloudPublisher) PublishOrderEvent(ctx context.Context, event *service.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to encode order event")
	}

	if err := p.topic.Send(ctx, &gcpubsub.Message{
		Body:     payload,
		Metadata: eventAttributes(event),
	}); err != nil {
		return errors.Wrapf(err, "publish order event %s", event.OrderID)
	}

	p.logger.Debug("[GoCloudPubSub] Order event published",
		slog.String("event_type", event.Type),
		slog.String("order_id", event.OrderID),
		slog.String("topic_url", p.url),
	)

	return nil
}

// Close waits for in-flight sends.
func (p *goCloudPublisher) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	return errors.WithStack(p.topic.Shutdown(ctx))
}
