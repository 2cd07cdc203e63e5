package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/maauso/recut/internal/bootstrap"
	"github.com/maauso/recut/internal/config"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(cmd.Context(), path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.verbose != nil && *c.verbose {
			cfg.LogLevel = "debug"
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// setup loads the config, applies the command's flag overrides to a copy
// and wires dependencies from it. Logs go to the command's stderr.
func (c *commandContext) setup(cmd *cobra.Command, overrides *renderFlags) (*config.Config, *bootstrap.Dependencies, *slog.Logger, error) {
	base, err := c.ensureConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	cfg := *base
	if overrides != nil {
		if err := overrides.apply(cmd, &cfg); err != nil {
			return nil, nil, nil, err
		}
	}

	logger := cfg.NewLogger(cmd.ErrOrStderr())
	slog.SetDefault(logger)

	return &cfg, bootstrap.NewDependencies(&cfg, logger), logger, nil
}
