package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dailies/internal/pipeline"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var (
		codeword   string
		fromDevice bool
		jsonOut    bool

		noNormalize  bool
		noProxy      bool
		noTranscribe bool
		noMarkers    bool
		roughCut     bool
		bindEditor   bool
	)

	cmd := &cobra.Command{
		Use:   "import <source>",
		Short: "Run the import pipeline over a card mount or ingest pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
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

			phases, preflightWarnings, err := gatePhases(cmd.Context(), cfg,
				buildPhases(noNormalize, noProxy, noTranscribe, noMarkers, roughCut, bindEditor))
			if err != nil {
				return err
			}
			for _, warning := range preflightWarnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
			}

			job := pipeline.Job{
				SourcePath: strings.TrimSpace(args[0]),
				Codeword:   codeword,
				FromDevice: fromDevice,
				Phases:     phases,
			}
			result := orchestrator.Run(cmd.Context(), job)

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), importResultView(result))
			}
			renderImportResult(cmd, result)
			if !result.Success() {
				return fmt.Errorf("import failed: %s", strings.Join(result.Errors, "; "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&codeword, "codeword", "", "Explicit project codeword")
	cmd.Flags().BoolVar(&fromDevice, "device", false, "Treat the source as a raw camera card")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")
	cmd.Flags().BoolVar(&noNormalize, "no-normalize", false, "Skip loudness normalization")
	cmd.Flags().BoolVar(&noProxy, "no-proxy", false, "Skip proxy generation")
	cmd.Flags().BoolVar(&noTranscribe, "no-transcribe", false, "Skip transcription (and marker detection)")
	cmd.Flags().BoolVar(&noMarkers, "no-markers", false, "Skip marker detection and segment cutting")
	cmd.Flags().BoolVar(&roughCut, "rough-cut", false, "Assemble the rough-cut timeline after processing")
	cmd.Flags().BoolVar(&bindEditor, "bind-editor", false, "Bind the project into a running editor")
	return cmd
}

func buildPhases(noNormalize, noProxy, noTranscribe, noMarkers, roughCut, bindEditor bool) pipeline.Phases {
	phases := pipeline.ImportPhases()
	if noNormalize {
		phases.Normalize = false
	}
	if noProxy {
		phases.Proxy = false
	}
	if noTranscribe {
		phases.Transcribe = false
		phases.Subtitles = false
	}
	if noMarkers {
		phases.DetectMarkers = false
		phases.CutSegments = false
	}
	phases.RoughCut = roughCut
	phases.BindEditor = bindEditor
	return phases
}

type importResultJSON struct {
	RunID           string   `json:"run_id"`
	Project         string   `json:"project"`
	ProjectPath     string   `json:"project_path,omitempty"`
	Success         bool     `json:"success"`
	Imported        int      `json:"files_imported"`
	Skipped         int      `json:"files_skipped"`
	Normalized      int      `json:"files_normalized"`
	Proxied         int      `json:"proxies_generated"`
	Transcribed     int      `json:"transcripts_generated"`
	Markers         int      `json:"markers_detected"`
	Segments        int      `json:"segments_extracted"`
	RoughCutCreated bool     `json:"rough_cut_created"`
	EditorBound     bool     `json:"editor_bound"`
	Errors          []string `json:"errors,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
}

func importResultView(result *pipeline.Result) importResultJSON {
	return importResultJSON{
		RunID:           result.RunID,
		Project:         result.ProjectName,
		ProjectPath:     result.ProjectPath,
		Success:         result.Success(),
		Imported:        result.Imported,
		Skipped:         result.Skipped,
		Normalized:      result.Normalized,
		Proxied:         result.Proxied,
		Transcribed:     result.Transcribed,
		Markers:         result.Markers,
		Segments:        result.Segments,
		RoughCutCreated: result.RoughCutCreated,
		EditorBound:     result.EditorBound,
		Errors:          result.Errors,
		Warnings:        result.Warnings,
	}
}

func renderImportResult(cmd *cobra.Command, result *pipeline.Result) {
	out := cmd.OutOrStdout()
	if result.ProjectName != "" {
		fmt.Fprintf(out, "Project: %s (%s)\n", result.ProjectName, result.ProjectPath)
	}
	rows := [][]string{
		{"Imported", fmt.Sprintf("%d", result.Imported)},
		{"Skipped", fmt.Sprintf("%d", result.Skipped)},
		{"Normalized", fmt.Sprintf("%d", result.Normalized)},
		{"Proxies", fmt.Sprintf("%d", result.Proxied)},
		{"Transcripts", fmt.Sprintf("%d", result.Transcribed)},
		{"Markers", fmt.Sprintf("%d", result.Markers)},
		{"Segments", fmt.Sprintf("%d", result.Segments)},
		{"Rough cut", yesNo(result.RoughCutCreated)},
		{"Editor bound", yesNo(result.EditorBound)},
		{"Success", yesNo(result.Success())},
	}
	fmt.Fprintln(out, renderTable([]string{"Phase", "Count"}, rows, 1))

	for _, warning := range result.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}
	for _, failure := range result.Errors {
		fmt.Fprintf(out, "error: %s\n", failure)
	}
}
