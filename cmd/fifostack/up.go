package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/x4b1/fifostack"
	"github.com/x4b1/fifostack/provision"
)

type upFlags struct {
	name    string
	runtime string
	timeout int32
	memory  int32
	batch   int32
	verbose bool
}

func newUpCmd() *cobra.Command {
	var flags upFlags

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Create the queue, roles, functions and trigger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger(flags.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cfg := fifostack.Config{
				BaseName:  flags.name,
				Runtime:   flags.runtime,
				Timeout:   flags.timeout,
				Memory:    flags.memory,
				BatchSize: flags.batch,
			}

			p, err := provision.Open(cmd.Context(), cfg, provision.WithLogger(log))
			if err != nil {
				return err
			}

			res, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			fmt.Fprintf(cmd.OutOrStdout(),
				"\nSend a message with:\n  fifostack send --name %s --payload '{\"message\":{\"hello\":\"world\"}}'\n",
				flags.name)

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "", "base name for every stack resource")
	cmd.Flags().StringVar(&flags.runtime, "runtime", fifostack.DefaultRuntime, "lambda runtime identifier")
	cmd.Flags().Int32Var(&flags.timeout, "timeout", fifostack.DefaultTimeout, "lambda timeout in seconds")
	cmd.Flags().Int32Var(&flags.memory, "memory", fifostack.DefaultMemory, "lambda memory in MB")
	cmd.Flags().Int32Var(&flags.batch, "batch-size", fifostack.DefaultBatchSize, "event source mapping batch size")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "log at debug level")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "" // console output needs no timestamps
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return log, nil
}
