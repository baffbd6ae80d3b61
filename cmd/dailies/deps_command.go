package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dailies/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external tools and environment readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			binaries := preflight.CheckSystemDeps(cmd.Context(), cfg)
			environment := preflight.RunAll(cmd.Context(), cfg)

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), struct {
					Binaries    interface{} `json:"binaries"`
					Environment interface{} `json:"environment"`
				}{binaries, environment})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := false

			fmt.Fprintln(out, renderSectionHeader("External binaries", colorize))
			for _, status := range binaries {
				kind := statusOK
				message := status.Description
				if !status.Available {
					message = status.Detail
					if status.Optional {
						kind = statusWarn
					} else {
						kind = statusError
						failed = true
					}
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Environment", colorize))
			for _, check := range environment {
				kind := statusOK
				if !check.Passed {
					kind = statusError
					failed = true
				}
				fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}

			if failed {
				return fmt.Errorf("one or more dependency checks failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}
