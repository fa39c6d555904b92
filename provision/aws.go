// Package provision creates the AWS resources of a fifostack stack: the
// FIFO queue, the two Lambda execution roles, the two functions, and the
// event source mapping between queue and processor. It defines interfaces
// for the subset of SQS, IAM and Lambda operations the provisioner needs,
// enabling easier testing and mocking of AWS services. Provisioning is
// strictly sequential; the output of each stage feeds the next.
package provision

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

//go:generate go tool moq -pkg provision_test -stub -out aws_mock_test.go . SQSClient IAMClient LambdaClient

// SQSClient defines the AWS SQS methods used by the Provisioner. This is used for testing purposes.
type SQSClient interface {
	CreateQueue(
		context.Context,
		*sqs.CreateQueueInput,
		...func(*sqs.Options),
	) (*sqs.CreateQueueOutput, error)
	GetQueueAttributes(
		context.Context,
		*sqs.GetQueueAttributesInput,
		...func(*sqs.Options),
	) (*sqs.GetQueueAttributesOutput, error)
	GetQueueUrl(
		context.Context,
		*sqs.GetQueueUrlInput,
		...func(*sqs.Options),
	) (*sqs.GetQueueUrlOutput, error)
}

// IAMClient defines the AWS IAM methods used by the Provisioner. This is used for testing purposes.
type IAMClient interface {
	GetRole(
		context.Context,
		*iam.GetRoleInput,
		...func(*iam.Options),
	) (*iam.GetRoleOutput, error)
	CreateRole(
		context.Context,
		*iam.CreateRoleInput,
		...func(*iam.Options),
	) (*iam.CreateRoleOutput, error)
	AttachRolePolicy(
		context.Context,
		*iam.AttachRolePolicyInput,
		...func(*iam.Options),
	) (*iam.AttachRolePolicyOutput, error)
	ListAttachedRolePolicies(
		context.Context,
		*iam.ListAttachedRolePoliciesInput,
		...func(*iam.Options),
	) (*iam.ListAttachedRolePoliciesOutput, error)
}

// LambdaClient defines the AWS Lambda methods used by the Provisioner. This is used for testing purposes.
type LambdaClient interface {
	GetFunction(
		context.Context,
		*lambda.GetFunctionInput,
		...func(*lambda.Options),
	) (*lambda.GetFunctionOutput, error)
	CreateFunction(
		context.Context,
		*lambda.CreateFunctionInput,
		...func(*lambda.Options),
	) (*lambda.CreateFunctionOutput, error)
	UpdateFunctionCode(
		context.Context,
		*lambda.UpdateFunctionCodeInput,
		...func(*lambda.Options),
	) (*lambda.UpdateFunctionCodeOutput, error)
	CreateEventSourceMapping(
		context.Context,
		*lambda.CreateEventSourceMappingInput,
		...func(*lambda.Options),
	) (*lambda.CreateEventSourceMappingOutput, error)
	ListEventSourceMappings(
		context.Context,
		*lambda.ListEventSourceMappingsInput,
		...func(*lambda.Options),
	) (*lambda.ListEventSourceMappingsOutput, error)
}
