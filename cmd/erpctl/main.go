// Command erpctl runs maintenance jobs against the ERP database: salary
// ledger checks, evaluation status refresh and development tokens.
package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"go-erp/internal/app"
	"go-erp/internal/bootstrap"
	"go-erp/internal/config"
	"go-erp/internal/reaction"
	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/connection"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// env holds what every database-backed command needs.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *sql.DB
	repos    app.Repositories
	registry *reaction.Registry
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := bootstrap.NewLogger(cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	apperror.Init()

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	repos := app.NewRepositories(sqlDB, gormDB)
	return &env{
		cfg:      cfg,
		logger:   logger,
		db:       sqlDB,
		repos:    repos,
		registry: app.NewReactionRegistry(repos, logger),
	}, nil
}

func (e *env) Close() {
	_ = e.logger.Sync()
	_ = e.db.Close()
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "erpctl",
		Short:         "Maintenance commands for the ERP backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSalaryCmd(), newEvaluationCmd(), newTokenCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "erpctl:", err)
		os.Exit(1)
	}
}
