package main

import (
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/spf13/cobra"

	"github.com/x4b1/fifostack"
	"github.com/x4b1/fifostack/handler"
)

func newSendCmd() *cobra.Command {
	var (
		name    string
		payload string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message through the stack's FIFO queue",
		Long: `Send resolves the stack's queue by name and publishes the given payload
with the same semantics as the deployed sender function.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			stackCfg := fifostack.Config{BaseName: name}
			if err := stackCfg.Validate(); err != nil {
				return err
			}

			awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return fmt.Errorf("loading aws config from default: %w", err)
			}

			svc := sqs.NewFromConfig(awsCfg)
			queueName := stackCfg.QueueName()
			queue, err := svc.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
				QueueName: &queueName,
			})
			if err != nil {
				return fmt.Errorf("resolving queue %s: %w", queueName, err)
			}

			log, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			sender := handler.NewSender(svc, *queue.QueueUrl, handler.WithLogger(log))

			resp := sender.Handle(ctx, []byte(payload))

			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if resp.StatusCode != 200 {
				return fmt.Errorf("send failed with status %d", resp.StatusCode)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "base name of the stack")
	cmd.Flags().StringVar(&payload, "payload", "{}", "message payload, raw JSON or an API gateway style event")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
