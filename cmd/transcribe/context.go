package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"subgen/internal/config"
	"subgen/internal/logging"
)

// runFlags are root flags that override the loaded configuration when set.
type runFlags struct {
	engine      string
	model       string
	language    string
	maxChars    int
	gpu         string
	runtime     string
	progressBar bool
	logLevel    string
	logFormat   string
}

type commandContext struct {
	configFlag *string
	flags      *runFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, flags *runFlags) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		flags:      flags,
	}
}

// ensureConfig loads the configuration once and applies flags that were set
// explicitly on cmd.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.applyFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			c.configErr = fmt.Errorf("command-line flags: %w", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if c.flags == nil || cmd == nil {
		return
	}
	changed := cmd.Flags().Changed
	if changed("engine") {
		cfg.Transcription.Engine = config.NormalizeEngine(c.flags.engine)
	}
	if changed("model") {
		cfg.Transcription.Model = strings.TrimSpace(c.flags.model)
	}
	if changed("language") {
		cfg.Transcription.Language = strings.ToLower(strings.TrimSpace(c.flags.language))
	}
	if changed("max-chars") {
		cfg.Transcription.MaxChars = c.flags.maxChars
	}
	if changed("gpu") {
		cfg.Neural.GPU = strings.ToLower(strings.TrimSpace(c.flags.gpu))
	}
	if changed("runtime") {
		cfg.Neural.Runtime = config.NormalizeRuntime(c.flags.runtime)
	}
	if changed("log-level") {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(c.flags.logLevel))
	}
	if changed("log-format") {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(c.flags.logFormat))
	}
}

func (c *commandContext) logger() (*slog.Logger, error) {
	return logging.NewFromConfig(c.config)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
