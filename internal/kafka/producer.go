package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const EventBookingConfirmed = "booking_confirmed"

type BookingEvent struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	PNR           string    `json:"pnr"`
	FlightID      string    `json:"flight_id"`
	UserID        string    `json:"user_id"`
	PassengerName string    `json:"passenger_name"`
	FinalPrice    int64     `json:"final_price"`
	Email         string    `json:"email,omitempty"`
	BookedAt      time.Time `json:"booked_at"`
}

type Producer struct {
	brokers []string
	writer  *kafka.Writer
	log     *slog.Logger
}

func NewProducer(brokers []string, log *slog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
		log:     log.With(slog.String("component", "kafka.producer")),
	}
}

// Publish writes payload as JSON. Messages with the same key land on the same partition.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.log.Debug("published", slog.String("topic", topic), slog.String("key", key))
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and lists its partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no Kafka brokers configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}

	p.log.Info("connected to Kafka", slog.Int("partitions", len(partitions)))
	return nil
}
