package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OpenSender creates a new Sender using the default AWS configuration.
func OpenSender(ctx context.Context, queueURL string, opts ...SenderOption) (*Sender, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config from default: %w", err)
	}

	return NewSender(awssqs.NewFromConfig(cfg), queueURL, opts...), nil
}

// NewSender creates a new Sender with the given SQS client and queue URL.
func NewSender(svc SQSClient, queueURL string, opts ...SenderOption) *Sender {
	s := Sender{
		svc:      svc,
		queueURL: queueURL,
		newID:    uuid.NewString,
		log:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt.applySender(&s)
	}

	return &s
}

// Sender publishes invocation payloads to the stack's FIFO queue. When the
// payload carries no deduplication id one is generated, and when it carries
// no group id every message lands in DefaultGroupID, serialising the whole
// queue through a single ordering scope.
type Sender struct {
	// sqs service instance where messages are sent.
	svc SQSClient
	// queue url messages are sent to.
	queueURL string
	// generator for deduplication ids when the payload has none.
	newID func() string

	log *zap.Logger
}

// Handle sends the message described by payload to the queue. It always
// returns a Response: 200 with the assigned message id and sequence number,
// or 500 with the failure text.
func (s *Sender) Handle(ctx context.Context, payload []byte) Response {
	inv, err := parseInvocation(payload)
	if err != nil {
		return errorResponse(err)
	}

	body, err := json.Marshal(inv.content)
	if err != nil {
		return errorResponse(fmt.Errorf("encoding message content: %w", err))
	}

	dedupID := inv.dedupID
	if dedupID == "" {
		dedupID = s.newID()
	}

	s.log.Info("sending message",
		zap.String("queue_url", s.queueURL),
		zap.String("deduplication_id", dedupID),
		zap.String("group_id", inv.groupID),
	)

	out, err := s.svc.SendMessage(ctx, &awssqs.SendMessageInput{
		QueueUrl:               aws.String(s.queueURL),
		MessageBody:            aws.String(string(body)),
		MessageDeduplicationId: aws.String(dedupID),
		MessageGroupId:         aws.String(inv.groupID),
	})
	if err != nil {
		return errorResponse(err)
	}

	result, _ := json.Marshal(struct {
		Message        string `json:"message"`
		MessageID      string `json:"messageId"`
		SequenceNumber string `json:"sequenceNumber"`
	}{
		Message:        "Message sent successfully",
		MessageID:      aws.ToString(out.MessageId),
		SequenceNumber: aws.ToString(out.SequenceNumber),
	})

	return Response{StatusCode: 200, Body: string(result)}
}
