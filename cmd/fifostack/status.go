package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/x4b1/fifostack"
	"github.com/x4b1/fifostack/provision"
)

func newStatusCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report the current state of every stack resource",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := provision.Open(cmd.Context(), fifostack.Config{BaseName: name})
			if err != nil {
				return err
			}

			st, err := p.Describe(cmd.Context())
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if len(st.Mappings) > 1 {
				fmt.Fprintf(cmd.OutOrStdout(),
					"\nwarning: %d event source mappings found, reruns have accumulated duplicate subscriptions\n",
					len(st.Mappings))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "base name of the stack")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
