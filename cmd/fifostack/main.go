// Command fifostack provisions and inspects FIFO queue stacks: an SQS FIFO
// queue, a processor Lambda consuming it, a sender Lambda publishing to it,
// their IAM roles, and the event source mapping in between.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "fifostack",
		Short:         "Provision an SQS FIFO queue with a sender and processor Lambda pair",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newUpCmd(), newStatusCmd(), newSendCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
