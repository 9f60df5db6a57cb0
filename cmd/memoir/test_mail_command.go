package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"memoir/internal/notifications"
)

func newTestMailCommand(ctx *commandContext) *cobra.Command {
	var recipient string

	cmd := &cobra.Command{
		Use:   "test-mail",
		Short: "Send a test email through the configured delivery backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			mailer := notifications.NewMailer(cfg)
			if !mailer.Enabled() {
				fmt.Fprintln(cmd.OutOrStdout(), "Email delivery is disabled (no api key configured)")
				return nil
			}
			if err := mailer.TestDelivery(cmd.Context(), recipient); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test email sent to %s\n", recipient)
			return nil
		},
	}

	cmd.Flags().StringVar(&recipient, "to", "", "Recipient address")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
