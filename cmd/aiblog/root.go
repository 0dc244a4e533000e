package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"aiblog/internal/domain/config"
	"aiblog/internal/logging"
	"aiblog/internal/metrics"
)

const defaultConfigPath = "aiblog.yaml"

// env is what every subcommand starts from.
type env struct {
	cfg     config.Config
	log     *logrus.Logger
	metrics *metrics.Metrics
}

type rootFlags struct {
	configPath string
	envFiles   []string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var (
		flags rootFlags
		e     env
	)
	root := &cobra.Command{
		Use:           "aiblog",
		Short:         "AI-generated news blog",
		Long:          "aiblog serves a file-backed news blog and writes one new article a day from the latest headlines.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadEnv(flags)
			if err != nil {
				return err
			}
			e = loaded
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", defaultConfigPath, "config file; defaults apply when it does not exist")
	root.PersistentFlags().StringSliceVar(&flags.envFiles, "env-file", []string{".env"}, "dotenv files loaded before the config")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(&e),
		newGenerateCmd(&e),
		newBuildCmd(&e),
		newMCPCmd(&e),
	)
	return root
}

func loadEnv(flags rootFlags) (env, error) {
	if _, err := config.LoadDotEnv(flags.envFiles...); err != nil {
		return env{}, fmt.Errorf("load env files: %w", err)
	}
	cfg, err := config.LoadOrDefault(flags.configPath)
	if err != nil {
		return env{}, fmt.Errorf("load config %s: %w", flags.configPath, err)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	log.WithFields(logging.Fields{"config": flags.configPath, "content": cfg.Content.Dir}).Debug("configuration loaded")
	return env{cfg: cfg, log: log, metrics: metrics.New()}, nil
}
