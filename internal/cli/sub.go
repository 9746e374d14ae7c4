package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pubbench/pubbench/internal/subscriber"
	"github.com/pubbench/pubbench/pkg/mqtt"
)

func (a *app) newSubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sub",
		Short: "Subscribe to topics and print received messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSub(cmd.Context())
		},
	}

	a.cfg.RegisterSubscribeFlags(cmd.Flags())

	return cmd
}

func (a *app) runSub(ctx context.Context) error {
	a.cfg.ServiceName = "sub"
	client := mqtt.NewClient(a.cfg, a.logger)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		return err
	}
	defer client.Disconnect()

	listener := subscriber.NewListener(client, a.cfg.Topics, byte(a.cfg.QoS), os.Stdout, a.logger)
	return listener.Run(ctx)
}
