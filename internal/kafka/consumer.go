package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads until ctx is done or handler fails. A canceled context is not an error.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return err
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}

// DecodeBookingEvent parses a message written by Producer.
func DecodeBookingEvent(msg kafka.Message) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event: %w", err)
	}
	return event, nil
}
