package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/replaydqn/experiment"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
)

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dqn",
		Short:         "Deep Q-learning with experience replay",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "",
		"JSON experiment configuration, applied over the defaults")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")

	cmd.AddCommand(trainCommand())
	cmd.AddCommand(configCommand())
	return cmd
}

// newLogger returns a console logger at the configured level
func newLogger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w",
			logLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Logger(), nil
}

// loadConfig returns the default experiment configuration overridden by
// the configuration file, if one was given
func loadConfig() (experiment.Config, error) {
	c := experiment.DefaultConfig()
	if configFile == "" {
		return c, nil
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return c, fmt.Errorf("could not read config: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("could not decode config %v: %w", configFile, err)
	}
	return c, nil
}

func configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective experiment configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		},
	}
}
