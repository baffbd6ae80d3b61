package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dailies/internal/markers"
	"dailies/internal/projects"
	"dailies/internal/roughcut"
	"dailies/internal/services/ffmpeg"
)

func newRoughCutCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rough-cut [project]",
		Short: "Assemble the rough-cut timeline for a project",
		Long: "Assembles Timelines/rough_cut.edl for the named project, or the " +
			"session's active project when no name is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.buildLogger()
			if err != nil {
				return err
			}

			name := ""
			if len(args) == 1 {
				name = strings.TrimSpace(args[0])
			}
			if name == "" {
				store, err := ctx.openStore()
				if err != nil {
					return err
				}
				name, err = store.ActiveProject(cmd.Context())
				closeErr := store.Close()
				if err != nil {
					return err
				}
				if closeErr != nil {
					return closeErr
				}
				if name == "" {
					return fmt.Errorf("no project named and no active project in the session")
				}
			}

			project := &projects.Project{Name: name, Root: filepath.Join(cfg.Paths.ProjectsRoot, name)}
			if _, err := os.Stat(project.Root); err != nil {
				return fmt.Errorf("project %s: %w", name, err)
			}

			detector, err := markers.NewKeywordDetector(cfg.Markers)
			if err != nil {
				return err
			}
			assembler := roughcut.New(cfg.RoughCut, logger, detector, ffmpeg.NewProber(cfg.Transcode))
			created, err := assembler.Assemble(cmd.Context(), project)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintln(cmd.OutOrStdout(), "No markers found; no timeline written")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rough cut written to %s\n", project.RoughCutPath())
			return nil
		},
	}
	return cmd
}
