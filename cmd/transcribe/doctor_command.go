package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subgen/internal/config"
	"subgen/internal/language"
	"subgen/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check interpreters, GPU runtime, and model paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			engineLabel := cfg.Transcription.Engine
			if cfg.Transcription.Engine == config.EngineNeural {
				engineLabel = fmt.Sprintf("%s (%s)", engineLabel, cfg.Neural.Runtime)
			}
			fmt.Fprintf(out, "Engine:   %s\n", engineLabel)
			fmt.Fprintf(out, "Model:    %s\n", cfg.Transcription.Model)
			fmt.Fprintf(out, "Language: %s\n", language.DisplayName(cfg.Transcription.Language))

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			failed := 0
			for _, r := range results {
				kind := statusOK
				switch {
				case !r.Passed && r.Optional:
					kind = statusWarn
				case !r.Passed:
					kind = statusError
					failed++
				case r.Optional:
					kind = statusWarn
				}
				rows = append(rows, []string{r.Name, statusCell(kind, colorize), r.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			if failed > 0 {
				return fmt.Errorf("%d required check(s) failed", failed)
			}
			return nil
		},
	}
}
