package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/inlinegames/internal/channels/telegram"
	"github.com/aatumaykin/inlinegames/internal/cleanup"
	"github.com/aatumaykin/inlinegames/internal/config"
	"github.com/aatumaykin/inlinegames/internal/constants"
	"github.com/aatumaykin/inlinegames/internal/games"
	"github.com/aatumaykin/inlinegames/internal/locale"
	"github.com/aatumaykin/inlinegames/internal/logger"
	"github.com/aatumaykin/inlinegames/internal/metrics"
	"github.com/aatumaykin/inlinegames/internal/storage"
)

var (
	cleanConfigPath string
	cleanEnvPath    string
	cleanDebug      bool
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean [threshold-seconds]",
	Short: "Remove inactive game sessions",
	Long: `Find game sessions inactive for longer than the threshold, replace their
inline messages with an "empty session" notice, delete them and remove old
temporary files. The threshold defaults to clean.interval_seconds.`,
	Args: cobra.MaximumNArgs(1),
	RunE: cleanHandler,
}

func cleanHandler(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvOptional(cleanEnvPath); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	configPath := cleanConfigPath
	if configPath == "" {
		configPath = constants.DefaultConfigPath
	}

	cfg, err := loadCleanConfig(configPath)
	if err != nil {
		return err
	}

	if cleanDebug {
		cfg.Logging.Level = "debug"
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetDefault(log)

	if cfg.Telegram.Token == "" {
		return errors.New("telegram.token is required to edit inline messages")
	}
	bot, err := telegram.NewBot(cfg.Telegram.Token)
	if err != nil {
		return err
	}

	log.Info("starting clean",
		logger.Field{Key: "version", Value: Version},
		logger.Field{Key: "config", Value: configPath},
		logger.Field{Key: "storage_driver", Value: cfg.Storage.Driver},
		logger.Field{Key: "telegram_token", Value: config.MaskTelegramToken(cfg.Telegram.Token)})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	threshold := ""
	if len(args) > 0 {
		threshold = args[0]
	}

	_, err = runClean(ctx, cfg, threshold, bot, cmd.OutOrStdout(), log)
	return err
}

// loadCleanConfig reads the file when it exists, otherwise starts from
// defaults, then applies environment overrides and validates.
func loadCleanConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(path); err == nil {
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%s %w", constants.MsgConfigInvalid, errors.Join(errs...))
	}

	return cfg, nil
}

// runClean wires one sweep from cfg and reports progress to out and to the
// admin chat.
func runClean(ctx context.Context, cfg *config.Config, thresholdArg string, bot telegram.BotInterface, out io.Writer, log *logger.Logger) (cleanup.Stats, error) {
	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return cleanup.Stats{}, fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close storage", logger.Field{Key: "error", Value: err})
		}
	}()

	gateway := telegram.NewGateway(bot, cfg.Telegram.AdminChatID, cfg.Telegram.SendTimeout(), log)

	deps := cleanup.Deps{
		Store:   store,
		Gateway: gateway,
		Games:   games.NewRegistry(games.Builtin, cfg.Games.Disabled),
		Logger:  log,
		Printer: locale.Printer(cfg.Telegram.Language),
	}

	var sweepMetrics *metrics.SweepMetrics
	if cfg.Metrics.Textfile != "" {
		sweepMetrics = metrics.NewSweepMetrics(cfg.Metrics.Namespace, nil)
		deps.Recorder = sweepMetrics
	}

	runner := cleanup.NewRunner(cleanup.Config{
		TimeLimit:        cfg.Clean.TimeLimit(),
		NotifyInterval:   cfg.Clean.NotifyInterval(),
		ActivityInterval: cfg.Clean.ActivityInterval(),
		TempDir:          cfg.Clean.TempDir,
		TempMinAge:       cfg.Clean.TempMinAge(),
	}, deps)

	announce(ctx, out, gateway, fmt.Sprintf(constants.MsgExecuting, int(runner.TimeLimit().Seconds())))

	stats := runner.Run(ctx, cleanup.ResolveThreshold(thresholdArg, cfg.Clean.Interval()))

	announce(ctx, out, gateway, stats.Summary())

	if sweepMetrics != nil {
		if err := sweepMetrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Error("failed to export metrics", err, logger.Field{Key: "path", Value: cfg.Metrics.Textfile})
		}
	}

	return stats, nil
}

// announce prints text and mirrors it to the admin chat. Report failures
// are logged by the gateway and do not stop the sweep.
func announce(ctx context.Context, out io.Writer, gateway *telegram.Gateway, text string) {
	fmt.Fprintln(out, text)
	_ = gateway.Report(ctx, text)
}

func init() {
	cleanCmd.Flags().StringVarP(&cleanConfigPath, "config", "c", "", "Path to configuration file (default: ./config.toml)")
	cleanCmd.Flags().StringVarP(&cleanEnvPath, "env", "e", constants.DefaultEnvPath, "Path to .env file")
	cleanCmd.Flags().BoolVarP(&cleanDebug, "debug", "d", false, "Enable debug logging")
}
