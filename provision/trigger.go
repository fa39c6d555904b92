package provision

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"go.uber.org/zap"
)

// bindTrigger subscribes the processor function to the queue. The mapping is
// created unconditionally, without checking for an existing one: rerunning a
// stack accumulates duplicate mappings and with them duplicate consumption.
// Describe reports the accumulated mappings.
func (p *Provisioner) bindTrigger(ctx context.Context, queueARN string) (string, error) {
	function := p.cfg.ProcessorFunctionName()

	p.log.Info("binding queue to processor",
		zap.String("queue_arn", queueARN),
		zap.String("function", function),
		zap.Int32("batch_size", p.cfg.BatchSize),
	)

	out, err := p.lambda.CreateEventSourceMapping(ctx, &lambda.CreateEventSourceMappingInput{
		EventSourceArn: aws.String(queueARN),
		FunctionName:   aws.String(function),
		Enabled:        aws.Bool(true),
		BatchSize:      aws.Int32(p.cfg.BatchSize),
	})
	if err != nil {
		return "", fmt.Errorf("creating event source mapping: %w", err)
	}

	return aws.ToString(out.UUID), nil
}
