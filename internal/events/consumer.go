// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/beautyflow/internal/logging"
	"github.com/tomtom215/beautyflow/internal/metrics"
)

// Handler processes one event payload. A handler error is logged and counted;
// the message is still acked since redelivery cannot fix a bad payload.
type Handler func(ctx context.Context, topic string, msg *message.Message) error

// Consumer subscribes to every domain topic and hands each message to a
// handler. It implements suture.Service: Serve blocks until ctx is canceled.
type Consumer struct {
	bus     *Bus
	topics  []string
	handler Handler
}

// NewConsumer creates a consumer over topics. A nil handler logs each event.
func NewConsumer(bus *Bus, topics []string, handler Handler) *Consumer {
	if len(topics) == 0 {
		topics = Topics
	}
	if handler == nil {
		handler = LogHandler
	}
	return &Consumer{bus: bus, topics: topics, handler: handler}
}

// Serve implements suture.Service.
func (c *Consumer) Serve(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, topic := range c.topics {
		ch, err := c.bus.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		wg.Add(1)
		go func(topic string, ch <-chan *message.Message) {
			defer wg.Done()
			c.consume(ctx, topic, ch)
		}(topic, ch)
	}

	<-ctx.Done()
	wg.Wait()
	return ctx.Err()
}

func (c *Consumer) consume(ctx context.Context, topic string, ch <-chan *message.Message) {
	for msg := range ch {
		err := c.handler(ctx, topic, msg)
		metrics.RecordEventConsumed(topic, err)
		if err != nil {
			logging.Warn().Str("topic", topic).Str("event_id", msg.UUID).Err(err).Msg("Event handler failed")
		}
		msg.Ack()
	}
}

// String implements fmt.Stringer for suture logging.
func (c *Consumer) String() string {
	return "event-consumer"
}

// LogHandler writes a structured log line for each known event.
func LogHandler(_ context.Context, topic string, msg *message.Message) error {
	switch topic {
	case TopicChatCompleted:
		var ev ChatCompleted
		if err := Decode(msg.Payload, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", topic, err)
		}
		logging.Info().
			Str("topic", topic).
			Str("event_id", ev.EventID).
			Str("session_id", ev.SessionID).
			Int("cluster", ev.Cluster).
			Int("products", len(ev.ProductIDs)).
			Msg("Questionnaire completed")
	case TopicPipelineBuilt:
		var ev PipelineBuilt
		if err := Decode(msg.Payload, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", topic, err)
		}
		event := logging.Info()
		if !ev.Success {
			event = logging.Warn().Str("error", ev.Error)
		}
		event.
			Str("topic", topic).
			Int64("version", ev.Version).
			Int("population", ev.Population).
			Int64("duration_ms", ev.DurationMS).
			Msg("Pipeline build finished")
	default:
		logging.Debug().Str("topic", topic).Str("event_id", msg.UUID).Msg("Unhandled event")
	}
	return nil
}
