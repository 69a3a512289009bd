// Package notify publishes pipeline step notifications to Kafka.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/zen-systems/ratewatch/pkg/pipeline"
)

const publishTimeout = 5 * time.Second

// StepPublisher is a pipeline observer that publishes each step record as a
// JSON message. Publishing is fire-and-forget: failures are logged and never
// affect the run.
type StepPublisher struct {
	writer *kafka.Writer
}

// NewStepPublisher creates a publisher for the given broker and topic.
func NewStepPublisher(broker, topic string) *StepPublisher {
	return &StepPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// OnStepCompleted publishes the step record.
func (p *StepPublisher) OnStepCompleted(record pipeline.StepRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		log.Printf("notify: failed to marshal step %s: %v", record.Name, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(record.Name),
		Value: data,
	})
	if err != nil {
		log.Printf("notify: failed to publish step %s: %v", record.Name, err)
	}
}

// Close flushes and closes the underlying writer.
func (p *StepPublisher) Close() error {
	return p.writer.Close()
}
