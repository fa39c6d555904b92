// Package handler implements the runtime contracts of the two stack
// functions. The sender takes an invocation payload, resolves message
// content, deduplication id and group id, and publishes to the FIFO queue.
// The processor takes a batch of queue records and acknowledges them
// unconditionally. Both report through a Lambda proxy style response,
// never through a Go error: status 200 is success, status 500 carries the
// failure text.
package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// DefaultGroupID is the message group applied when the invocation payload
// carries none. FIFO queues require a group id on every message.
const DefaultGroupID = "default-group"

//go:generate go tool moq -pkg handler_test -stub -out sqs_mock_test.go . SQSClient

// SQSClient defines the AWS SQS methods used by the Sender. This is used for testing purposes.
type SQSClient interface {
	SendMessage(
		context.Context,
		*sqs.SendMessageInput,
		...func(*sqs.Options),
	) (*sqs.SendMessageOutput, error)
}

// Response is the function result shape shared by sender and processor.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func errorResponse(err error) Response {
	body, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: err.Error()})

	return Response{StatusCode: 500, Body: string(body)}
}

// invocation is a sender payload after field resolution.
type invocation struct {
	content any
	dedupID string
	groupID string
}

// parseInvocation resolves an invocation payload. A gateway wrapped event
// carries the real payload JSON encoded under "body"; a direct invocation is
// the payload itself. Message content falls back through the "message" and
// "Message" keys to the whole payload.
func parseInvocation(payload []byte) (invocation, error) {
	var inv invocation

	var event any
	if err := json.Unmarshal(payload, &event); err != nil {
		return inv, fmt.Errorf("decoding payload: %w", err)
	}

	body := event
	if obj, ok := event.(map[string]any); ok {
		if wrapped, ok := obj["body"]; ok {
			body = unwrapBody(wrapped)
		}
	}

	inv.content = body
	if obj, ok := body.(map[string]any); ok {
		if msg, ok := obj["message"]; ok {
			inv.content = msg
		} else if msg, ok := obj["Message"]; ok {
			inv.content = msg
		}
		inv.dedupID, _ = obj["deduplicationId"].(string)
		inv.groupID, _ = obj["groupId"].(string)
	}

	if inv.groupID == "" {
		inv.groupID = DefaultGroupID
	}

	return inv, nil
}

// unwrapBody decodes a JSON encoded body value, keeping it as is when it is
// not a string or does not parse as JSON.
func unwrapBody(wrapped any) any {
	s, ok := wrapped.(string)
	if !ok {
		return wrapped
	}

	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return s
	}

	return decoded
}
