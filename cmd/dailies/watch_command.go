package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dailies/internal/cardwatch"
	"dailies/internal/pipeline"
	"dailies/internal/preflight"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch for camera cards and import them automatically",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Watch.Enabled {
				return fmt.Errorf("watching is disabled; set [watch] enabled = true")
			}
			logger, err := ctx.buildLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			orchestrator, err := pipeline.New(cfg, logger, store)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			handler := func(handlerCtx context.Context, event cardwatch.CardEvent) error {
				for _, check := range preflight.RunAll(handlerCtx, cfg) {
					if !check.Passed {
						return fmt.Errorf("preflight %s: %s", check.Name, check.Detail)
					}
				}
				phases, warnings, err := gatePhases(handlerCtx, cfg, pipeline.ImportPhases())
				if err != nil {
					return err
				}
				for _, warning := range warnings {
					logger.Warn(warning)
				}
				result := orchestrator.Run(handlerCtx, pipeline.Job{
					SourcePath: event.MountPoint,
					Codeword:   event.Label,
					FromDevice: true,
					Phases:     phases,
				})
				if !result.Success() {
					return fmt.Errorf("import of %s failed: %v", event.MountPoint, result.Errors)
				}
				return nil
			}

			monitor := cardwatch.NewMonitor(cfg.Watch, logger, handler)
			if err := monitor.Start(runCtx); err != nil {
				return err
			}
			defer monitor.Stop()

			fmt.Fprintln(cmd.OutOrStdout(), "Watching for camera cards; press Ctrl-C to stop")
			<-runCtx.Done()
			return nil
		},
	}
	return cmd
}
