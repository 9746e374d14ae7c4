package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pubbench/pubbench/internal/shell"
	"github.com/pubbench/pubbench/pkg/mqtt"
)

func (a *app) newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open an interactive publish/subscribe session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShell(cmd.Context())
		},
	}
}

func (a *app) runShell(ctx context.Context) error {
	a.cfg.ServiceName = "shell"
	client := mqtt.NewClient(a.cfg, a.logger)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		return err
	}
	defer client.Disconnect()

	session := shell.NewSession(client, byte(a.cfg.QoS), os.Stdin, os.Stdout, a.logger)
	return session.Run(ctx)
}
