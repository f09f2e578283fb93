package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	flags := &runFlags{}

	ctx := newCommandContext(&configFlag, flags)

	rootCmd := &cobra.Command{
		Use:           "transcribe <input_audio_path> <output_subtitle_path>",
		Short:         "Generate SRT subtitles from a WAV file",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected <input_audio_path> <output_subtitle_path>, got %d argument(s)", len(args))
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runTranscribe(cmd, ctx, args[0], args[1])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format (console, json)")

	rootCmd.Flags().StringVar(&flags.engine, "engine", "", "Recognition engine: streaming (vosk) or neural (whisper)")
	rootCmd.Flags().StringVar(&flags.model, "model", "", "Model name or path")
	rootCmd.Flags().StringVar(&flags.language, "language", "", "Language hint (ISO code, BCP 47 tag, or auto)")
	rootCmd.Flags().IntVar(&flags.maxChars, "max-chars", 0, "Maximum characters per cue")
	rootCmd.Flags().StringVar(&flags.gpu, "gpu", "", "GPU use for the neural engine: auto, on, or off")
	rootCmd.Flags().StringVar(&flags.runtime, "runtime", "", "Neural runtime: faster-whisper or whisper-cpp")
	rootCmd.Flags().BoolVar(&flags.progressBar, "progress-bar", false, "Draw a progress bar on stderr when it is a terminal")

	rootCmd.AddCommand(newDiagnoseCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
