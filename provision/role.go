package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"go.uber.org/zap"
)

// lambdaTrustPolicy lets the Lambda service assume the execution roles.
const lambdaTrustPolicy = `{
	"Version": "2012-10-17",
	"Statement": [
		{
			"Effect": "Allow",
			"Principal": {"Service": "lambda.amazonaws.com"},
			"Action": "sts:AssumeRole"
		}
	]
}`

// Managed policy sets attached on role creation. The processor consumes the
// queue and may write downstream, the sender only needs to publish.
//
//nolint:gochecknoglobals // fixed policy ARNs
var (
	processorPolicies = []string{
		"arn:aws:iam::aws:policy/service-role/AWSLambdaSQSQueueExecutionRole",
		"arn:aws:iam::aws:policy/AmazonDynamoDBFullAccess",
		"arn:aws:iam::aws:policy/AWSLambdaExecute",
	}

	senderPolicies = []string{
		"arn:aws:iam::aws:policy/AmazonSQSFullAccess",
		"arn:aws:iam::aws:policy/AWSLambdaExecute",
	}
)

// ensureRole returns the ARN of roleName, creating it with the Lambda trust
// policy and attaching the managed policies when absent. An existing role is
// reused untouched: its policies are not reconciled, so a role drifted from
// the expected set stays drifted. Each call ends with the fixed propagation
// pause before the dependent function is created.
func (p *Provisioner) ensureRole(ctx context.Context, roleName, functionName string, policies []string) (string, error) {
	var arn string

	got, err := p.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(roleName)})

	switch {
	case err == nil:
		arn = aws.ToString(got.Role.Arn)
		p.log.Info("using existing role", zap.String("role", roleName), zap.String("arn", arn))

	case isRoleNotFound(err):
		created, err := p.iam.CreateRole(ctx, &iam.CreateRoleInput{
			RoleName:                 aws.String(roleName),
			AssumeRolePolicyDocument: aws.String(lambdaTrustPolicy),
			Description:              aws.String(fmt.Sprintf("Role for %s Lambda function", functionName)),
		})
		if err != nil {
			return "", fmt.Errorf("creating role %s: %w", roleName, err)
		}

		for _, policy := range policies {
			if _, err := p.iam.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
				RoleName:  aws.String(roleName),
				PolicyArn: aws.String(policy),
			}); err != nil {
				return "", fmt.Errorf("attaching policy %s to role %s: %w", policy, roleName, err)
			}
		}

		arn = aws.ToString(created.Role.Arn)
		p.log.Info("created role", zap.String("role", roleName), zap.String("arn", arn))

	default:
		return "", fmt.Errorf("looking up role %s: %w", roleName, err)
	}

	// IAM is eventually consistent and a freshly created role may not yet be
	// assumable by Lambda. A fixed pause, not a readiness poll.
	p.log.Info("waiting for role to propagate",
		zap.String("role", roleName),
		zap.Duration("wait", p.cfg.PropagationWait),
	)
	p.sleep(p.cfg.PropagationWait)

	return arn, nil
}

func isRoleNotFound(err error) bool {
	var notFound *types.NoSuchEntityException

	return errors.As(err, &notFound)
}
