package handler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Event is a batch of queue records as delivered by the event source mapping.
type Event struct {
	Records []Record `json:"Records"`
}

// Record is a single queued message within an Event.
type Record struct {
	MessageID string `json:"messageId"`
	Body      string `json:"body"`
}

// NewProcessor creates a new Processor.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := Processor{
		log: zap.NewNop(),
	}

	for _, opt := range opts {
		opt.applyProcessor(&p)
	}

	return &p
}

// Processor acknowledges queue records. It logs each record and returns
// success regardless of content, so no message is ever sent back to the
// queue for redelivery.
type Processor struct {
	log *zap.Logger
}

// Handle logs every record of the batch and returns a 200 acknowledgment.
func (p *Processor) Handle(_ context.Context, event Event) Response {
	for _, record := range event.Records {
		p.log.Info("received message",
			zap.String("message_id", record.MessageID),
			zap.String("body", record.Body),
		)
	}

	body, _ := json.Marshal("Message processed successfully!")

	return Response{StatusCode: 200, Body: string(body)}
}
