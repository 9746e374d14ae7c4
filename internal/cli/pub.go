package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pubbench/pubbench/internal/history"
	"github.com/pubbench/pubbench/internal/publisher"
	"github.com/pubbench/pubbench/internal/scenario"
	"github.com/pubbench/pubbench/pkg/mqtt"
)

const connectTimeout = 30 * time.Second

func (a *app) newPubCmd() *cobra.Command {
	var scenarioPath string

	cmd := &cobra.Command{
		Use:   "pub",
		Short: "Publish synthetic payloads at a fixed cadence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPub(cmd.Context(), scenarioPath)
		},
	}

	a.cfg.RegisterPublishFlags(cmd.Flags())
	a.cfg.RegisterHistoryFlags(cmd.Flags())
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML file describing a sequence of runs")

	return cmd
}

func (a *app) runPub(ctx context.Context, scenarioPath string) error {
	runs, err := a.buildRuns(scenarioPath)
	if err != nil {
		return err
	}

	a.cfg.ServiceName = "pub"
	client := mqtt.NewClient(a.cfg, a.logger)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		return err
	}
	defer client.Disconnect()

	sink, err := history.NewSink(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer sink.Close()

	for _, rc := range runs {
		runner := publisher.NewRunner(rc, a.logger)
		rep, err := runner.Run(ctx, client)
		if err != nil {
			if errors.Is(err, context.Canceled) && rep != nil {
				fmt.Println(rep.Summary())
				return nil
			}
			return err
		}

		fmt.Println(rep.Summary())
		if rep.Degraded() {
			a.logger.Warn("Run degraded by service failures",
				"service_errors", rep.ServiceErrors,
				"connected", client.IsConnected())
		}

		rec := history.NewRecord(a.cfg.MQTTAddress(), rc, rep)
		if err := sink.Store(ctx, rec); err != nil {
			a.logger.Error("Failed to store run record", "error", err)
		}
	}

	return nil
}

// buildRuns resolves the run list: either the single run described by the
// flags, or each run of a scenario file with flag values as fallbacks
func (a *app) buildRuns(scenarioPath string) ([]publisher.Config, error) {
	base := publisher.Config{
		Topic:       a.cfg.Topic,
		QoS:         byte(a.cfg.QoS),
		Retained:    a.cfg.Retained,
		PayloadSize: a.cfg.PayloadSize,
		Duration:    a.cfg.Duration(),
		Interval:    a.cfg.Interval(),
		Mode:        publisher.Mode(a.cfg.Mode),
	}

	if scenarioPath == "" {
		if err := a.cfg.ValidateRun(); err != nil {
			return nil, err
		}
		return []publisher.Config{base}, nil
	}

	s, err := scenario.Load(scenarioPath)
	if err != nil {
		return nil, err
	}

	runs := make([]publisher.Config, 0, len(s.Runs))
	for _, sr := range s.Runs {
		rc := base
		if sr.Topic != "" {
			rc.Topic = sr.Topic
		}
		if sr.QoS != nil {
			rc.QoS = byte(*sr.QoS)
		}
		if sr.PayloadSize > 0 {
			rc.PayloadSize = sr.PayloadSize
		}
		if sr.DurationSec > 0 {
			rc.Duration = time.Duration(sr.DurationSec * float64(time.Second))
		}
		if sr.IntervalSec != nil {
			rc.Interval = time.Duration(*sr.IntervalSec * float64(time.Second))
		}
		if sr.Mode != "" {
			rc.Mode = publisher.Mode(sr.Mode)
		}
		runs = append(runs, rc)
	}

	return runs, nil
}
