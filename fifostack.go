// Package fifostack describes an SQS FIFO queue stack: the queue itself, a
// processor Lambda consuming it, a sender Lambda publishing to it, the IAM
// roles both functions run as, and the event source mapping wiring the queue
// to the processor. All resource names derive from a single base name, so a
// stack is addressable knowing only that name.
package fifostack

import (
	"errors"
	"fmt"
	"time"
)

// Defaults applied by Config.WithDefaults.
const (
	DefaultRuntime           = "python3.10"
	DefaultTimeout           = int32(30)
	DefaultMemory            = int32(128)
	DefaultBatchSize         = int32(1)
	DefaultVisibilityTimeout = 300 * time.Second
	DefaultReceiveWaitTime   = 20 * time.Second
	DefaultPropagationWait   = 10 * time.Second
)

// ErrEmptyBaseName is returned validating a Config without a base name.
var ErrEmptyBaseName = errors.New("empty base name")

// Config holds the parameters of a stack. Only BaseName is required, the
// zero value of every other field is replaced by WithDefaults.
type Config struct {
	// BaseName seeds every resource name in the stack.
	BaseName string
	// Runtime identifier for both Lambda functions.
	Runtime string
	// Timeout, in seconds, for both Lambda functions.
	Timeout int32
	// Memory, in MB, for both Lambda functions.
	Memory int32
	// BatchSize of the queue to processor event source mapping.
	BatchSize int32
	// VisibilityTimeout of the queue.
	VisibilityTimeout time.Duration
	// ReceiveWaitTime is the queue long poll wait.
	ReceiveWaitTime time.Duration
	// PropagationWait is the pause after each role stage waiting for IAM
	// eventual consistency. It is a fixed heuristic, not a readiness poll.
	PropagationWait time.Duration
}

// WithDefaults returns a copy of the config with zero fields filled in.
func (c Config) WithDefaults() Config {
	if c.Runtime == "" {
		c.Runtime = DefaultRuntime
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Memory == 0 {
		c.Memory = DefaultMemory
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.VisibilityTimeout == 0 {
		c.VisibilityTimeout = DefaultVisibilityTimeout
	}
	if c.ReceiveWaitTime == 0 {
		c.ReceiveWaitTime = DefaultReceiveWaitTime
	}
	if c.PropagationWait == 0 {
		c.PropagationWait = DefaultPropagationWait
	}

	return c
}

// Validate checks the config is usable.
func (c Config) Validate() error {
	if c.BaseName == "" {
		return ErrEmptyBaseName
	}

	return nil
}

// QueueName returns the FIFO queue name. SQS requires the .fifo suffix.
func (c Config) QueueName() string {
	return c.BaseName + ".fifo"
}

// ProcessorFunctionName returns the consuming Lambda name.
func (c Config) ProcessorFunctionName() string {
	return c.BaseName + "_processor"
}

// SenderFunctionName returns the publishing Lambda name.
func (c Config) SenderFunctionName() string {
	return c.BaseName + "_sender"
}

// ProcessorRoleName returns the consuming Lambda execution role name.
func (c Config) ProcessorRoleName() string {
	return c.BaseName + "_processor_role"
}

// SenderRoleName returns the publishing Lambda execution role name.
func (c Config) SenderRoleName() string {
	return c.BaseName + "_sender_role"
}

// Result carries the identifiers of every resource a provisioning run
// created or reused, in a form usable to address the stack afterwards.
type Result struct {
	QueueName            string `json:"queue_name"`
	QueueURL             string `json:"queue_url"`
	QueueARN             string `json:"queue_arn"`
	ProcessorRoleARN     string `json:"processor_role_arn"`
	SenderRoleARN        string `json:"sender_role_arn"`
	ProcessorFunctionARN string `json:"processor_lambda_arn"`
	SenderFunctionARN    string `json:"sender_lambda_arn"`
	EventSourceMappingID string `json:"event_source_mapping_id"`
}

// Stage identifies one step of the provisioning workflow.
type Stage string

// Provisioning stages, in execution order.
const (
	StageQueue             Stage = "queue"
	StageProcessorRole     Stage = "processor_role"
	StageSenderRole        Stage = "sender_role"
	StageProcessorFunction Stage = "processor_function"
	StageSenderFunction    Stage = "sender_function"
	StageTrigger           Stage = "trigger"
)

// StageError wraps a failure with the stage it happened in. The workflow
// aborts at the first failing stage, later stages never run and already
// created resources are left in place, so callers need the stage to know
// where a partial stack stopped.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %s", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}
