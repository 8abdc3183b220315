package main

import (
	"fmt"
	"time"

	"voltdesk/internal/api"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newPingCmd checks that the backend is reachable.
func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			client := a.client()

			start := time.Now()
			resp, err := client.Ping(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s unreachable: %s", client.BaseURL(), api.ErrorDetail(err))
			}
			elapsed := time.Since(start)
			a.logger.Debug("ping", zap.Duration("elapsed", elapsed))

			p.success("%s (%s)", client.BaseURL(), elapsed.Round(time.Millisecond))
			if resp.Message != "" {
				p.plain(resp.Message)
			}
			return nil
		},
	}
}
