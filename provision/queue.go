package provision

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

// createQueue creates the FIFO queue and resolves its ARN. There is no
// existence check: creating a queue whose name is already taken with
// different attributes fails, so a rerun aborts at this stage.
func (p *Provisioner) createQueue(ctx context.Context) (url, arn string, err error) {
	name := p.cfg.QueueName()

	p.log.Info("creating fifo queue", zap.String("queue", name))

	out, err := p.sqs.CreateQueue(ctx, &sqs.CreateQueueInput{
		QueueName:  aws.String(name),
		Attributes: p.queueAttributes(),
	})
	if err != nil {
		return "", "", fmt.Errorf("creating queue %s: %w", name, err)
	}

	attrs, err := p.sqs.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       out.QueueUrl,
		AttributeNames: []types.QueueAttributeName{types.QueueAttributeNameQueueArn},
	})
	if err != nil {
		return "", "", fmt.Errorf("resolving queue arn for %s: %w", name, err)
	}

	return aws.ToString(out.QueueUrl), attrs.Attributes[string(types.QueueAttributeNameQueueArn)], nil
}

// queueAttributes returns the creation attributes: strictly ordered,
// deduplicated only by caller supplied ids, with the configured visibility
// window and long poll wait.
func (p *Provisioner) queueAttributes() map[string]string {
	return map[string]string{
		string(types.QueueAttributeNameFifoQueue):                     "true",
		string(types.QueueAttributeNameContentBasedDeduplication):     "false",
		string(types.QueueAttributeNameVisibilityTimeout):             strconv.Itoa(int(p.cfg.VisibilityTimeout.Seconds())),
		string(types.QueueAttributeNameReceiveMessageWaitTimeSeconds): strconv.Itoa(int(p.cfg.ReceiveWaitTime.Seconds())),
	}
}
