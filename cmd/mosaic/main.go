// Command mosaic resolves plugin-contributed schema fragments and generates
// the model source unit, optionally bootstrapping a database with the
// resolved schema.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	// Database drivers for the migrate command.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/mosaic"
	"github.com/syssam/mosaic/compiler/load"
	"github.com/syssam/mosaic/dialect/sql"
	"github.com/syssam/mosaic/dialect/sql/schema"
)

var (
	configPath string
	watch      bool
	dialect    string
	dsn        string
)

var rootCmd = &cobra.Command{
	Use:           "mosaic",
	Short:         "Resolve plugin schema fragments and generate model source",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Resolve the schema and write the generated source unit",
	RunE:  runGenerate,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the resolved tables in the configured database",
	RunE:  runMigrate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "mosaic.yaml", "engine configuration file")
	generateCmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate when schema documents change")
	migrateCmd.Flags().StringVar(&dialect, "dialect", "", "database dialect (overrides config)")
	migrateCmd.Flags().StringVar(&dsn, "dsn", "", "database DSN (overrides config)")
	rootCmd.AddCommand(generateCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log := logger()
		log.Error().Err(err).Msg("mosaic failed")
		os.Exit(1)
	}
}

func logger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	log := logger()
	cfg, err := load.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := generateOnce(cmd.Context(), cfg, log); err != nil {
		return err
	}
	if !watch {
		return nil
	}
	return watchAndRegenerate(cmd.Context(), cfg, log)
}

func generateOnce(ctx context.Context, cfg *load.Config, log zerolog.Logger) error {
	run := log.With().Str("run", uuid.NewString()).Logger()
	res, err := mosaic.Generate(ctx, cfg, mosaic.WithLogger(run))
	if err != nil {
		return err
	}
	if !res.Written {
		run.Info().Str("output", res.Output).Msg("schema unchanged, output kept")
	}
	return nil
}

// watchAndRegenerate re-runs generation whenever a schema document changes.
// Events are debounced: editors fire several writes per save.
func watchAndRegenerate(ctx context.Context, cfg *load.Config, log zerolog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	for _, dir := range cfg.Plugins {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	log.Info().Strs("dirs", cfg.Plugins).Msg("watching schema documents")

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(250*time.Millisecond, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case <-pending:
			if err := generateOnce(ctx, cfg, log); err != nil {
				// A broken document mid-edit is expected under watch.
				log.Error().Err(err).Msg("regeneration failed")
			}
		}
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	log := logger()
	cfg, err := load.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if dialect == "" {
		dialect = cfg.DB.Dialect
	}
	if dsn == "" {
		dsn = cfg.DB.DSN
	}
	if dialect == "" || dsn == "" {
		return fmt.Errorf("migrate: dialect and dsn must be set via config or flags")
	}
	snap, err := mosaic.Resolve(cmd.Context(), cfg, mosaic.WithLogger(log))
	if err != nil {
		return err
	}
	drv, err := sql.Open(dialect, dsn)
	if err != nil {
		return err
	}
	defer drv.Close()
	if err := schema.Create(cmd.Context(), drv, snap); err != nil {
		return err
	}
	log.Info().Int("tables", len(snap.Order)).Str("dialect", dialect).Msg("database bootstrapped")
	return nil
}
