package main

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"subgen/internal/transcribe"
)

const firstTextWidth = 30

func newDiagnoseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose <wav>",
		Short: "Run each backend plan once and report which ones work",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			svc := transcribe.NewService(cfg, transcribe.WithLogger(logger))
			reports, err := svc.Diagnose(cmd.Context(), args[0])
			if len(reports) > 0 {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderDiagnoseTable(reports, shouldColorize(out)))
			}
			return err
		},
	}
}

func renderDiagnoseTable(reports []transcribe.PlanReport, colorize bool) string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		kind := statusOK
		switch r.Status {
		case transcribe.StatusEmpty, transcribe.StatusUnavailable:
			kind = statusWarn
		case transcribe.StatusError:
			kind = statusError
		}
		status := statusCell(kind, colorize)
		if r.Status != transcribe.StatusOK {
			status = fmt.Sprintf("%s %s", status, r.Status)
		}
		detail := truncate(r.FirstText, firstTextWidth)
		if r.Err != nil {
			detail = truncate(r.Err.Error(), firstTextWidth*2)
		}
		rows = append(rows, []string{
			r.Plan.String(),
			status,
			strconv.Itoa(r.Segments),
			fmt.Sprintf("%.1f", r.Elapsed.Seconds()),
			detail,
		})
	}
	return renderTable(
		[]string{"Plan", "Status", "Segments", "Seconds", "First text"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func truncate(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit]) + "…"
}
