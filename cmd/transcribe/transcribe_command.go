package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"subgen/internal/logging"
	"subgen/internal/progress"
	"subgen/internal/transcribe"
)

func runTranscribe(cmd *cobra.Command, ctx *commandContext, audioPath, outputPath string) error {
	cfg, err := ctx.ensureConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := ctx.logger()
	if err != nil {
		return err
	}

	reporters := []progress.Reporter{progress.NewLineWriter(cmd.OutOrStdout())}
	if ctx.flags.progressBar && progress.IsTerminal(os.Stderr) {
		bar := progress.NewBar(os.Stderr)
		defer bar.Close()
		reporters = append(reporters, bar)
	}

	svc := transcribe.NewService(cfg,
		transcribe.WithLogger(logger),
		transcribe.WithProgress(progress.Multi(reporters...)),
	)
	result, err := svc.Run(cmd.Context(), transcribe.Request{AudioPath: audioPath, OutputPath: outputPath})
	if err != nil {
		return err
	}
	if !result.OutputProduced() {
		return fmt.Errorf("no subtitle file was produced at %s", outputPath)
	}
	if result.Err != nil {
		logging.WarnWithContext(logger, "subtitle file is empty", "transcription_empty",
			logging.String("output", outputPath),
			logging.Error(result.Err),
			logging.String(logging.FieldImpact, "empty subtitle file written"),
		)
	}
	return nil
}
