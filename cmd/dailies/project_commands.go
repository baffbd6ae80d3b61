package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"dailies/internal/projects"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Project utilities",
	}
	projectCmd.AddCommand(newProjectListCommand(ctx))
	projectCmd.AddCommand(newProjectActiveCommand(ctx))
	return projectCmd
}

func newProjectListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects under the projects root",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			entries, err := os.ReadDir(cfg.Paths.ProjectsRoot)
			if err != nil {
				return fmt.Errorf("read projects root: %w", err)
			}

			var names []string
			for _, entry := range entries {
				if entry.IsDir() && strings.Contains(entry.Name(), "_Import") {
					names = append(names, entry.Name())
				}
			}
			sort.Strings(names)

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), names)
			}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				p := projects.Project{Name: name}
				rows = append(rows, []string{name, p.Codeword()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Project", "Codeword"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newProjectActiveCommand(ctx *commandContext) *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "active",
		Short: "Show or set the session's active project",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if name := strings.TrimSpace(set); name != "" {
				if err := store.SetActiveProject(cmd.Context(), name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Active project set to %s\n", name)
				return nil
			}

			active, err := store.ActiveProject(cmd.Context())
			if err != nil {
				return err
			}
			if active == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No active project")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), active)
			return nil
		},
	}
	cmd.Flags().StringVar(&set, "set", "", "Set the active project by name")
	return cmd
}
