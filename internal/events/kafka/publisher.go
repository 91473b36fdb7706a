package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/mishinyura/transaction-risk-service/pkg/crypto"
)

type Publisher struct {
	writer *kafka.Writer
	signer *crypto.Signer
}

// NewPublisher creates a Kafka-backed event publisher. The signer is
// optional; when present each message carries an HMAC signature header so
// consumers can verify the payload origin.
func NewPublisher(brokers []string, topic string, signer *crypto.Signer) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		signer: signer,
	}
}

func (p *Publisher) Publish(ctx context.Context, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{Value: data}
	if p.signer != nil {
		msg.Headers = append(msg.Headers, kafka.Header{
			Key:   "signature",
			Value: []byte(p.signer.Sign(data)),
		})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
