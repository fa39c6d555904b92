package provision

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"github.com/x4b1/fifostack"
)

// Option defines the optional parameters for the Provisioner.
type Option func(*Provisioner)

// WithLogger replaces the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Provisioner) {
		p.log = l
	}
}

// WithSleep replaces the function used for the role propagation pause.
// Tests use it to avoid the fixed waits.
func WithSleep(fn func(time.Duration)) Option {
	return func(p *Provisioner) {
		p.sleep = fn
	}
}

// WithWorkDir replaces the directory deployment packages are built in,
// defaulting to the system temp dir.
func WithWorkDir(dir string) Option {
	return func(p *Provisioner) {
		p.workDir = dir
	}
}

// Open creates a new Provisioner using the default AWS configuration.
func Open(ctx context.Context, cfg fifostack.Config, opts ...Option) (*Provisioner, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config from default: %w", err)
	}

	return New(
		sqs.NewFromConfig(awsCfg),
		iam.NewFromConfig(awsCfg),
		lambda.NewFromConfig(awsCfg),
		cfg,
		opts...,
	), nil
}

// New creates a new Provisioner with the given service clients and stack config.
func New(sqsCli SQSClient, iamCli IAMClient, lambdaCli LambdaClient, cfg fifostack.Config, opts ...Option) *Provisioner {
	p := Provisioner{
		sqs:    sqsCli,
		iam:    iamCli,
		lambda: lambdaCli,
		cfg:    cfg.WithDefaults(),

		log:     zap.NewNop(),
		sleep:   time.Sleep,
		workDir: os.TempDir(),
	}

	for _, opt := range opts {
		opt(&p)
	}

	return &p
}

// Provisioner creates the stack resources in order. It never deletes
// anything: a failing stage aborts the run leaving earlier resources in
// place, and a rerun reuses roles, replaces function code, fails on the
// queue (SQS create is not idempotent here) and would add a duplicate
// event source mapping.
type Provisioner struct {
	sqs    SQSClient
	iam    IAMClient
	lambda LambdaClient

	cfg fifostack.Config

	log     *zap.Logger
	sleep   func(time.Duration)
	workDir string
}

// Run executes the provisioning workflow: queue, processor role, sender
// role, processor function, sender function, trigger. The first failing
// stage aborts the run, wrapped in a fifostack.StageError naming it.
func (p *Provisioner) Run(ctx context.Context) (*fifostack.Result, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}

	p.log.Info("creating stack", zap.String("base_name", p.cfg.BaseName))

	res := fifostack.Result{QueueName: p.cfg.QueueName()}

	var err error

	res.QueueURL, res.QueueARN, err = p.createQueue(ctx)
	if err != nil {
		return nil, &fifostack.StageError{Stage: fifostack.StageQueue, Err: err}
	}

	res.ProcessorRoleARN, err = p.ensureRole(ctx,
		p.cfg.ProcessorRoleName(), p.cfg.ProcessorFunctionName(), processorPolicies)
	if err != nil {
		return nil, &fifostack.StageError{Stage: fifostack.StageProcessorRole, Err: err}
	}

	res.SenderRoleARN, err = p.ensureRole(ctx,
		p.cfg.SenderRoleName(), p.cfg.SenderFunctionName(), senderPolicies)
	if err != nil {
		return nil, &fifostack.StageError{Stage: fifostack.StageSenderRole, Err: err}
	}

	res.ProcessorFunctionARN, err = p.deployFunction(ctx, functionSpec{
		name:        p.cfg.ProcessorFunctionName(),
		roleARN:     res.ProcessorRoleARN,
		description: fmt.Sprintf("Lambda processor for %s FIFO queue", res.QueueName),
		source:      processorSource,
	})
	if err != nil {
		return nil, &fifostack.StageError{Stage: fifostack.StageProcessorFunction, Err: err}
	}

	res.SenderFunctionARN, err = p.deployFunction(ctx, functionSpec{
		name:        p.cfg.SenderFunctionName(),
		roleARN:     res.SenderRoleARN,
		description: fmt.Sprintf("Lambda sender for %s FIFO queue", res.QueueName),
		source:      senderSource(res.QueueURL),
	})
	if err != nil {
		return nil, &fifostack.StageError{Stage: fifostack.StageSenderFunction, Err: err}
	}

	res.EventSourceMappingID, err = p.bindTrigger(ctx, res.QueueARN)
	if err != nil {
		return nil, &fifostack.StageError{Stage: fifostack.StageTrigger, Err: err}
	}

	p.log.Info("stack ready",
		zap.String("queue_url", res.QueueURL),
		zap.String("processor", p.cfg.ProcessorFunctionName()),
		zap.String("sender", p.cfg.SenderFunctionName()),
	)

	return &res, nil
}
