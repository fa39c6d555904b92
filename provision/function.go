package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"go.uber.org/zap"

	"github.com/x4b1/fifostack/archive"
)

const (
	handlerFileName   = "lambda_function.py"
	handlerEntryPoint = "lambda_function.lambda_handler"
)

// functionSpec describes one function deployment.
type functionSpec struct {
	name        string
	roleARN     string
	description string
	source      string
}

// deployFunction packages the handler source and creates the function, or
// replaces only its code when it already exists. Timeout, memory and role of
// an existing function are never reconciled. The package files are removed
// on the success path only; a failure mid stage leaves them in the work dir.
func (p *Provisioner) deployFunction(ctx context.Context, fn functionSpec) (string, error) {
	pkg, err := archive.Build(p.workDir, handlerFileName, []byte(fn.source))
	if err != nil {
		return "", fmt.Errorf("packaging function %s: %w", fn.name, err)
	}

	code, err := pkg.Bytes()
	if err != nil {
		return "", fmt.Errorf("reading package for function %s: %w", fn.name, err)
	}

	var arn string

	_, err = p.lambda.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(fn.name),
	})

	switch {
	case err == nil:
		out, err := p.lambda.UpdateFunctionCode(ctx, &lambda.UpdateFunctionCodeInput{
			FunctionName: aws.String(fn.name),
			ZipFile:      code,
		})
		if err != nil {
			return "", fmt.Errorf("updating code of function %s: %w", fn.name, err)
		}

		arn = aws.ToString(out.FunctionArn)
		p.log.Info("updated function code", zap.String("function", fn.name), zap.String("arn", arn))

	case isFunctionNotFound(err):
		out, err := p.lambda.CreateFunction(ctx, &lambda.CreateFunctionInput{
			FunctionName: aws.String(fn.name),
			Runtime:      types.Runtime(p.cfg.Runtime),
			Role:         aws.String(fn.roleARN),
			Handler:      aws.String(handlerEntryPoint),
			Code:         &types.FunctionCode{ZipFile: code},
			Description:  aws.String(fn.description),
			Timeout:      aws.Int32(p.cfg.Timeout),
			MemorySize:   aws.Int32(p.cfg.Memory),
			Publish:      true,
		})
		if err != nil {
			return "", fmt.Errorf("creating function %s: %w", fn.name, err)
		}

		arn = aws.ToString(out.FunctionArn)
		p.log.Info("created function", zap.String("function", fn.name), zap.String("arn", arn))

	default:
		return "", fmt.Errorf("looking up function %s: %w", fn.name, err)
	}

	if err := pkg.Remove(); err != nil {
		return "", fmt.Errorf("removing package of function %s: %w", fn.name, err)
	}

	return arn, nil
}

func isFunctionNotFound(err error) bool {
	var notFound *types.ResourceNotFoundException

	return errors.As(err, &notFound)
}
