package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/events"
)

// Broadcaster receives events destined for a draft's watchers.
type Broadcaster interface {
	BroadcastToDraft(evt events.Event)
}

type JetStreamConsumerConfig struct {
	URL           string
	StreamName    string
	Durable       string
	Subjects      string // e.g. "mockdraft.events.>"
	MaxDeliver    int
	AckWait       time.Duration
	ReconnectWait time.Duration
}

func DefaultJetStreamConsumerConfig() JetStreamConsumerConfig {
	return JetStreamConsumerConfig{
		URL:           nats.DefaultURL,
		StreamName:    "MOCK_DRAFT_EVENTS",
		Durable:       "mockdraft-gateway",
		Subjects:      "mockdraft.events.>",
		MaxDeliver:    5,
		AckWait:       30 * time.Second,
		ReconnectWait: 2 * time.Second,
	}
}

// EventConsumer relays draft events from a durable JetStream consumer to
// websocket watchers, so the gateway can run apart from the process
// recording picks.
type EventConsumer struct {
	cfg      JetStreamConsumerConfig
	out      Broadcaster
	nc       *nats.Conn
	consumer jetstream.Consumer
}

func NewEventConsumer(ctx context.Context, out Broadcaster, cfg JetStreamConsumerConfig) (*EventConsumer, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Durable),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Str("consumer", cfg.Durable).Msg("NATS disconnected")
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	consumer, err := durableConsumer(ctx, nc, cfg)
	if err != nil {
		nc.Close()
		return nil, err
	}
	log.Info().Str("consumer", cfg.Durable).Str("stream", cfg.StreamName).Msg("JetStream consumer ready")

	return &EventConsumer{cfg: cfg, out: out, nc: nc, consumer: consumer}, nil
}

func durableConsumer(ctx context.Context, nc *nats.Conn, cfg JetStreamConsumerConfig) (jetstream.Consumer, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	stream, err := js.Stream(ctx, cfg.StreamName)
	if err != nil {
		return nil, fmt.Errorf("failed to find stream %s: %w", cfg.StreamName, err)
	}
	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       cfg.Durable,
		Description:   "draft board websocket relay",
		FilterSubject: cfg.Subjects,
		DeliverPolicy: jetstream.DeliverNewPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    cfg.MaxDeliver,
		AckWait:       cfg.AckWait,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer %s: %w", cfg.Durable, err)
	}
	return consumer, nil
}

// Start relays messages until ctx is done.
func (ec *EventConsumer) Start(ctx context.Context) error {
	cc, err := ec.consumer.Consume(ec.relay)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}
	defer cc.Stop()

	<-ctx.Done()
	log.Info().Str("consumer", ec.cfg.Durable).Msg("event consumer stopped")
	return nil
}

func (ec *EventConsumer) relay(msg jetstream.Msg) {
	var evt events.Event
	if err := json.Unmarshal(msg.Data(), &evt); err != nil {
		// redelivery cannot fix a malformed envelope
		log.Error().Err(err).Str("subject", msg.Subject()).Msg("dropping undecodable event")
		if err := msg.Term(); err != nil {
			log.Error().Err(err).Msg("failed to terminate message")
		}
		return
	}

	ec.out.BroadcastToDraft(evt)
	if err := msg.Ack(); err != nil {
		log.Error().Err(err).Str("event_id", evt.ID.String()).Msg("failed to ack event")
	}
}

func (ec *EventConsumer) Stop() error {
	if ec.nc != nil {
		ec.nc.Close()
	}
	return nil
}
