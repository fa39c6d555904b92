package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"golang.org/x/sync/errgroup"
)

// Status is the observed state of a stack's resources.
type Status struct {
	Queue             QueueStatus    `json:"queue"`
	ProcessorRole     RoleStatus     `json:"processor_role"`
	SenderRole        RoleStatus     `json:"sender_role"`
	ProcessorFunction FunctionStatus `json:"processor_function"`
	SenderFunction    FunctionStatus `json:"sender_function"`
	// Mappings lists every event source mapping from the queue to the
	// processor. More than one means reruns have accumulated duplicates.
	Mappings []MappingStatus `json:"mappings"`
}

// QueueStatus is the observed state of the FIFO queue.
type QueueStatus struct {
	Name   string `json:"name"`
	Exists bool   `json:"exists"`
	URL    string `json:"url,omitempty"`
	ARN    string `json:"arn,omitempty"`
}

// RoleStatus is the observed state of one execution role.
type RoleStatus struct {
	Name             string `json:"name"`
	Exists           bool   `json:"exists"`
	ARN              string `json:"arn,omitempty"`
	AttachedPolicies int    `json:"attached_policies"`
}

// FunctionStatus is the observed state of one function.
type FunctionStatus struct {
	Name    string `json:"name"`
	Exists  bool   `json:"exists"`
	ARN     string `json:"arn,omitempty"`
	Runtime string `json:"runtime,omitempty"`
	Timeout int32  `json:"timeout,omitempty"`
	Memory  int32  `json:"memory,omitempty"`
}

// MappingStatus is one queue to processor event source mapping.
type MappingStatus struct {
	UUID      string `json:"uuid"`
	State     string `json:"state"`
	BatchSize int32  `json:"batch_size"`
}

// Describe reports the current state of every stack resource, querying the
// services concurrently. Absent resources are reported, not errored; only
// unexpected API failures abort.
func (p *Provisioner) Describe(ctx context.Context) (*Status, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}

	st := Status{
		Queue:             QueueStatus{Name: p.cfg.QueueName()},
		ProcessorRole:     RoleStatus{Name: p.cfg.ProcessorRoleName()},
		SenderRole:        RoleStatus{Name: p.cfg.SenderRoleName()},
		ProcessorFunction: FunctionStatus{Name: p.cfg.ProcessorFunctionName()},
		SenderFunction:    FunctionStatus{Name: p.cfg.SenderFunctionName()},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := p.describeQueue(ctx, &st.Queue); err != nil || !st.Queue.Exists {
			return err
		}

		mappings, err := p.describeMappings(ctx, st.Queue.ARN)
		if err != nil {
			return err
		}
		st.Mappings = mappings

		return nil
	})
	g.Go(func() error { return p.describeRole(ctx, &st.ProcessorRole) })
	g.Go(func() error { return p.describeRole(ctx, &st.SenderRole) })
	g.Go(func() error { return p.describeFunction(ctx, &st.ProcessorFunction) })
	g.Go(func() error { return p.describeFunction(ctx, &st.SenderFunction) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &st, nil
}

func (p *Provisioner) describeQueue(ctx context.Context, qs *QueueStatus) error {
	urlOut, err := p.sqs.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(qs.Name),
	})
	if err != nil {
		if isQueueNotFound(err) {
			return nil
		}

		return fmt.Errorf("getting queue url for %s: %w", qs.Name, err)
	}

	attrs, err := p.sqs.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       urlOut.QueueUrl,
		AttributeNames: []sqstypes.QueueAttributeName{sqstypes.QueueAttributeNameQueueArn},
	})
	if err != nil {
		return fmt.Errorf("resolving queue arn for %s: %w", qs.Name, err)
	}

	qs.Exists = true
	qs.URL = aws.ToString(urlOut.QueueUrl)
	qs.ARN = attrs.Attributes[string(sqstypes.QueueAttributeNameQueueArn)]

	return nil
}

func (p *Provisioner) describeRole(ctx context.Context, rs *RoleStatus) error {
	got, err := p.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(rs.Name)})
	if err != nil {
		if isRoleNotFound(err) {
			return nil
		}

		return fmt.Errorf("looking up role %s: %w", rs.Name, err)
	}

	attached, err := p.iam.ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
		RoleName: aws.String(rs.Name),
	})
	if err != nil {
		return fmt.Errorf("listing attached policies of role %s: %w", rs.Name, err)
	}

	rs.Exists = true
	rs.ARN = aws.ToString(got.Role.Arn)
	rs.AttachedPolicies = len(attached.AttachedPolicies)

	return nil
}

func (p *Provisioner) describeFunction(ctx context.Context, fs *FunctionStatus) error {
	got, err := p.lambda.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(fs.Name),
	})
	if err != nil {
		if isFunctionNotFound(err) {
			return nil
		}

		return fmt.Errorf("looking up function %s: %w", fs.Name, err)
	}

	fs.Exists = true
	if cfg := got.Configuration; cfg != nil {
		fs.ARN = aws.ToString(cfg.FunctionArn)
		fs.Runtime = string(cfg.Runtime)
		fs.Timeout = aws.ToInt32(cfg.Timeout)
		fs.Memory = aws.ToInt32(cfg.MemorySize)
	}

	return nil
}

func (p *Provisioner) describeMappings(ctx context.Context, queueARN string) ([]MappingStatus, error) {
	out, err := p.lambda.ListEventSourceMappings(ctx, &lambda.ListEventSourceMappingsInput{
		EventSourceArn: aws.String(queueARN),
		FunctionName:   aws.String(p.cfg.ProcessorFunctionName()),
	})
	if err != nil {
		return nil, fmt.Errorf("listing event source mappings: %w", err)
	}

	mappings := make([]MappingStatus, 0, len(out.EventSourceMappings))
	for _, m := range out.EventSourceMappings {
		mappings = append(mappings, MappingStatus{
			UUID:      aws.ToString(m.UUID),
			State:     aws.ToString(m.State),
			BatchSize: aws.ToInt32(m.BatchSize),
		})
	}

	return mappings, nil
}

func isQueueNotFound(err error) bool {
	var notFound *sqstypes.QueueDoesNotExist

	return errors.As(err, &notFound)
}
