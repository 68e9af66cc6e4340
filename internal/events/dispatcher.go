package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"

	"github.com/spec-kit/symposium-service/internal/config"
	"github.com/spec-kit/symposium-service/internal/observability"
)

const metadataEventType = "event_type"

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler) error
}

// Bus is a Dispatcher over a watermill publisher and subscriber. Each event
// type maps to one topic; handlers run on the subscriber's goroutines.
type Bus struct {
	publisher   message.Publisher
	subscriber  message.Subscriber
	topicPrefix string
	logger      *zap.Logger
	metrics     *observability.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once
}

// NewBus builds the bus selected by cfg: Kafka when brokers are configured,
// an in-process go channel otherwise.
func NewBus(cfg config.EventsConfig, logger *zap.Logger, metrics *observability.Metrics) (*Bus, error) {
	wmLogger := observability.NewWatermillLogger(logger)
	if !cfg.UsesKafka() {
		pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger)
		return newBus(pubSub, pubSub, cfg.TopicPrefix, logger, metrics), nil
	}

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: %w", err)
	}
	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               cfg.KafkaBrokers,
		Unmarshaler:           kafka.DefaultMarshaler{},
		ConsumerGroup:         cfg.ConsumerGroup,
		OverwriteSaramaConfig: kafka.DefaultSaramaSubscriberConfig(),
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("kafka subscriber: %w", err)
	}
	logger.Info("event bus using kafka", zap.Strings("brokers", cfg.KafkaBrokers))
	return newBus(publisher, subscriber, cfg.TopicPrefix, logger, metrics), nil
}

// NewInMemoryBus creates an in-process bus.
func NewInMemoryBus(logger *zap.Logger, metrics *observability.Metrics) *Bus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, observability.NewWatermillLogger(logger))
	return newBus(pubSub, pubSub, "", logger, metrics)
}

func newBus(pub message.Publisher, sub message.Subscriber, prefix string, logger *zap.Logger, metrics *observability.Metrics) *Bus {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{
		publisher:   pub,
		subscriber:  sub,
		topicPrefix: prefix,
		logger:      logger,
		metrics:     metrics,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (b *Bus) topic(eventType EventType) string {
	return b.topicPrefix + string(eventType)
}

// Publish encodes event and sends it to the topic of its type.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	msg := message.NewMessage(event.ID, body)
	msg.Metadata.Set(metadataEventType, string(event.Type))
	msg.SetContext(ctx)

	if err := b.publisher.Publish(b.topic(event.Type), msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	b.metrics.RecordDomainEvent(string(event.Type))
	return nil
}

// Subscribe starts consuming eventType with handler until Close.
func (b *Bus) Subscribe(eventType EventType, handler EventHandler) error {
	messages, err := b.subscriber.Subscribe(b.ctx, b.topic(eventType))
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", eventType, err)
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for msg := range messages {
			b.handle(msg, handler)
		}
	}()
	return nil
}

// handle always acks; a failing handler is logged and not redelivered.
func (b *Bus) handle(msg *message.Message, handler EventHandler) {
	defer msg.Ack()

	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		b.logger.Warn("dropping undecodable event", zap.String("message_id", msg.UUID), zap.Error(err))
		return
	}
	if err := handler(msg.Context(), event); err != nil {
		b.logger.Warn("event handler failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}

// Close stops subscriptions and releases the transport.
func (b *Bus) Close() error {
	var err error
	b.closeOnce.Do(func() {
		b.cancel()
		err = errors.Join(b.subscriber.Close(), b.publisher.Close())
		b.wg.Wait()
	})
	return err
}

var _ Dispatcher = (*Bus)(nil)
