package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pubbench/pubbench/internal/history"
)

func (a *app) newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent publisher runs from the configured sink",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHistory(cmd.Context(), limit)
		},
	}

	a.cfg.RegisterHistoryFlags(cmd.Flags())
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum records to list")

	return cmd
}

func (a *app) runHistory(ctx context.Context, limit int) error {
	if a.cfg.HistorySink == "none" {
		return fmt.Errorf("no history sink configured (use --history redis or --history postgres)")
	}

	sink, err := history.NewSink(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer sink.Close()

	records, err := sink.Recent(ctx, limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	for _, rec := range records {
		fmt.Println(rec.String())
	}
	return nil
}
