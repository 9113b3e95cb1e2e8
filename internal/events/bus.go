// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package events

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/tomtom215/beautyflow/internal/logging"
	"github.com/tomtom215/beautyflow/internal/metrics"
	"github.com/tomtom215/beautyflow/internal/recommend"
)

// Publisher publishes domain events. Bus implements it; NopPublisher
// discards everything when events are disabled.
type Publisher interface {
	PublishChatCompleted(ctx context.Context, ev ChatCompleted) error
	PublishPipelineBuilt(ctx context.Context, ev PipelineBuilt) error
}

// Config configures the in-process bus.
type Config struct {
	// BufferSize is the per-subscriber output channel buffer.
	BufferSize int64
}

// Bus is an in-process pub/sub built on the Watermill gochannel backend.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

var _ Publisher = (*Bus)(nil)

// NewBus creates a bus. A nil logger routes Watermill logs through the
// service logger.
func NewBus(cfg Config, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NewSlogLogger(logging.NewSlogLogger("events"))
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger),
		logger: logger,
	}
}

// Publish serializes payload and publishes it on topic.
func (b *Bus) Publish(ctx context.Context, topic, eventID string, payload any) (err error) {
	defer func() { metrics.RecordEventPublish(topic, err) }()

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("event bus is closed")
	}

	data, err := encode(payload)
	if err != nil {
		return fmt.Errorf("serialize %s event: %w", topic, err)
	}

	if eventID == "" {
		eventID = uuid.New().String()
	}
	msg := message.NewMessage(eventID, data)
	msg.Metadata.Set("event_type", topic)
	msg.Metadata.Set("schema_version", strconv.Itoa(SchemaVersion))
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set("request_id", id)
	}
	msg.SetContext(ctx)

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// PublishChatCompleted publishes a chat.completed event.
func (b *Bus) PublishChatCompleted(ctx context.Context, ev ChatCompleted) error {
	return b.Publish(ctx, TopicChatCompleted, ev.EventID, ev)
}

// PublishPipelineBuilt publishes a pipeline.built event.
func (b *Bus) PublishPipelineBuilt(ctx context.Context, ev PipelineBuilt) error {
	return b.Publish(ctx, TopicPipelineBuilt, ev.EventID, ev)
}

// Subscribe returns a channel of messages for topic. The channel closes when
// ctx is canceled or the bus is closed. Each message must be acked.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.pubsub.Close()
}

// BuildHook returns an engine hook that publishes pipeline.built.
// Publish failures are logged and never affect the build.
func BuildHook(p Publisher) recommend.BuildHook {
	return func(ctx context.Context, r recommend.BuildResult) {
		if err := p.PublishPipelineBuilt(ctx, NewPipelineBuilt(r)); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Int64("version", r.Version).Msg("Failed to publish pipeline.built")
		}
	}
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) PublishChatCompleted(context.Context, ChatCompleted) error { return nil }
func (NopPublisher) PublishPipelineBuilt(context.Context, PipelineBuilt) error { return nil }
