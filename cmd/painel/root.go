package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cgdin/painel/internal/config"
	"github.com/cgdin/painel/internal/source"
)

var (
	flagEnvFile string
	flagConfig  string
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "painel",
	Short: "Painel de monitoramento de projetos estratégicos",
	Long: "Reads the project-status table (xlsx, csv, sqlite or postgres) and " +
		"serves a dashboard with KPIs, a progress chart and a CSV export.",
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before configuration")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "TOML overlay (overrides PAINEL_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "directory holding the data files (overrides DATA_DIR)")
}

// loadConfig reads .env, applies flag overrides and loads the configuration.
func loadConfig() (*config.Config, error) {
	// Overload so the file wins over a stale shell environment.
	if err := godotenv.Overload(flagEnvFile); err != nil {
		slog.Debug("no .env file loaded", "path", flagEnvFile)
	}

	if flagConfig != "" {
		os.Setenv("PAINEL_CONFIG", flagConfig)
	}
	if flagDataDir != "" {
		os.Setenv("DATA_DIR", flagDataDir)
	}

	return config.Load()
}

// openSource builds the cached candidate loader. When DATABASE_URL is set a
// pgx pool is opened and postgres is tried after every file candidate. The
// returned cleanup closes the pool.
func openSource(ctx context.Context, cfg *config.Config) (*source.CachedLoader, func(), error) {
	candidates := source.FileCandidates(cfg.Data.Dir, cfg.Data.Candidates)
	opts := []source.LoaderOption{
		source.WithParser(source.FormatSQLite, source.SQLiteParser{Table: cfg.Data.SQLiteTable}),
	}
	cleanup := func() {}

	if cfg.Database.Enabled() {
		pool, err := openPool(ctx, cfg.Database)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = pool.Close
		candidates = append(candidates, source.PostgresCandidate())
		opts = append(opts, source.WithParser(source.FormatPostgres, source.PostgresParser{
			Pool:  pool,
			Query: cfg.Data.PostgresQuery,
		}))
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}
	slog.Info("data candidates", "dir", cfg.Data.Dir, "order", strings.Join(names, ", "))

	loader := source.NewLoader(candidates, opts...)
	return source.NewCachedLoader(loader, cfg.Data.CacheTTL), cleanup, nil
}

func openPool(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(db.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(db.MaxConns)
	poolConfig.MaxConnIdleTime = db.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(db.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
