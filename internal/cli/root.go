// Package cli implements the pair-assessment CLI commands.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/pair-assessment/internal/config"
	"github.com/rcliao/pair-assessment/internal/logging"
	"github.com/rcliao/pair-assessment/internal/store"
)

var (
	dbPath     string
	formatFlag string
	logLevel   string
	idFlag     string

	cfg    *config.Config
	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "pair-assessment",
	Short: "Executive function pair assessment",
	Long: "Two partners rate 30 everyday skills on a 1-5 scale. Once both are done the results\n" +
		"can be revealed: per-category averages, insights and a shared contract.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite path (default: $PAIR_ASSESSMENT_DB or ~/.pair-assessment/assessment.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json, yaml or text")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (default: $PAIR_ASSESSMENT_LOG_LEVEL or warn)")
	RootCmd.PersistentFlags().StringVar(&idFlag, "id", "", "Assessment id (default: $PAIR_ASSESSMENT_ID)")
}

func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg = c
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	l, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.SQLitePath()
}

func assessmentID() (string, error) {
	if idFlag != "" {
		return idFlag, nil
	}
	if cfg.AssessmentID != "" {
		return cfg.AssessmentID, nil
	}
	return "", fmt.Errorf("no assessment id: pass --id or set PAIR_ASSESSMENT_ID")
}

// openStore opens the local SQLite store used by the maintenance commands.
func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

// openAdapter picks PostgreSQL when DATABASE_URL is set and no --db flag
// was given, SQLite otherwise.
func openAdapter(ctx context.Context) (store.Adapter, error) {
	if dbPath == "" && cfg.UsePostgres() {
		logger.Debug("using postgres store")
		return store.NewPostgresStore(ctx, cfg.DatabaseURL)
	}
	logger.Debug("using sqlite store", zap.String("path", getDBPath()))
	return openStore()
}
