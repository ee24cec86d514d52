package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"capturewatch/internal/ipc"
)

func newTestAlertCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-alert",
		Short: "Play the configured alert sound via the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TestAlert()
				if err != nil {
					return err
				}
				if !resp.Played {
					if strings.TrimSpace(resp.Message) != "" {
						return fmt.Errorf("alert test failed: %s", resp.Message)
					}
					return fmt.Errorf("alert test failed")
				}
				fmt.Fprintln(stdout, "Alert sound played")
				return nil
			})
		},
	}
}
