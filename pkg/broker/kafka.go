// Package broker publishes domain events to Kafka.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shashiranjanraj/liftstore/pkg/metrics"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes JSON events to a single topic. Messages are keyed so all
// events for one order land on the same partition.
type Publisher struct {
	w     messageWriter
	topic string
}

func NewKafkaPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
		topic: topic,
	}
}

func (p *Publisher) Topic() string { return p.topic }

// Publish blocks until the brokers acknowledge the message or ctx ends.
func (p *Publisher) Publish(ctx context.Context, key, event string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("broker: marshal %s: %w", event, err)
	}
	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Time:    time.Now(),
		Headers: []kafka.Header{{Key: "event", Value: []byte(event)}},
	})
	if err != nil {
		metrics.BrokerPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("broker: publish %s: %w", event, err)
	}
	metrics.BrokerPublished.WithLabelValues("ok").Inc()
	return nil
}

func (p *Publisher) Close() error { return p.w.Close() }
