package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/inferlab/forkpoint/internal/config"
	"github.com/inferlab/forkpoint/internal/logging"
	"github.com/inferlab/forkpoint/pkg/adapters/memory"
	"github.com/inferlab/forkpoint/pkg/adapters/redis"
	"github.com/inferlab/forkpoint/pkg/observability"
	"github.com/inferlab/forkpoint/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "forkpoint",
	Short: "Forkpoint coordinates branching probabilistic execution traces",
	Long:  `Forkpoint runs the control-point protocol: trace branches park on a shared coordination store and are driven by externally delivered commands.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
}

// loadSetup resolves config, logger and store dialer for a subcommand.
func loadSetup(cmd *cobra.Command) (*config.Config, *setup, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var dialer ports.Dialer
	if cfg.Redis.Addr != "" {
		dialer = redis.NewDialer(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix))
	} else {
		dialer = memory.NewStore()
	}

	// One registry per process: the counters the protocol moves are the
	// same ones the HTTP surface exposes.
	reg := prometheus.NewRegistry()

	return cfg, &setup{
		logger:   logging.New(level),
		dialer:   dialer,
		registry: reg,
		metrics:  observability.New(reg),
	}, nil
}

type setup struct {
	logger   *slog.Logger
	dialer   ports.Dialer
	registry *prometheus.Registry
	metrics  *observability.Metrics
}
