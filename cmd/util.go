// Package cmd provides CLI commands for the recall tool.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/recallhq/recall-cli/client"
	"github.com/recallhq/recall-cli/config"
	"github.com/recallhq/recall-cli/credentials"
	"github.com/recallhq/recall-cli/pkg/cache"
	"github.com/recallhq/recall-cli/pkg/db"
	"github.com/recallhq/recall-cli/pkg/logging"
)

// newLogger builds the CLI logger from config. Commands log to stderr so
// structured diagnostics never mix with command output.
func newLogger(cfg *config.CLIConfig) logging.Logger {
	level := logging.LevelWarn
	if cfg.Debug {
		level = logging.LevelDebug
	}
	return logging.NewLogger(&logging.Config{
		Level:     level,
		Component: "recall",
	})
}

// activeCredentials loads the active credential, translating the common
// failure modes into actionable messages.
func activeCredentials() (*credentials.Credentials, error) {
	credStore, err := credentials.NewStore()
	if err != nil {
		return nil, fmt.Errorf("initializing credential store: %w", err)
	}

	creds, err := credStore.GetActiveCredential()
	if err != nil {
		switch err {
		case credentials.ErrNoCredentials:
			return nil, fmt.Errorf("not logged in; run 'recall auth login' first")
		case credentials.ErrExpiredToken:
			return nil, fmt.Errorf("stored token has expired; run 'recall auth login' again")
		default:
			return nil, fmt.Errorf("loading credentials: %w", err)
		}
	}

	return creds, nil
}

// newAPIClient builds the recording service client from config and token.
func newAPIClient(cfg *config.CLIConfig, token string, logger logging.Logger) *client.Client {
	opts := client.DefaultOptions()
	opts.Timeout = cfg.Timeout
	opts.Token = token
	opts.Logger = logger
	return client.NewClient(cfg.ServerAddress, opts)
}

// newResponseCache returns the redis-backed response cache, or nil when no
// redis address is configured or the server is unreachable. The cache is an
// optimization; commands run fine without it.
func newResponseCache(ctx context.Context, cfg *config.CLIConfig, logger logging.Logger) *cache.ResponseCache {
	if cfg.Redis == nil || cfg.Redis.Addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, response cache disabled",
			logging.F("addr", cfg.Redis.Addr),
			logging.Err(err))
		return nil
	}

	ttl := cfg.Redis.CacheTTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return cache.New(rdb, ttl, logger)
}

// connectLocalCache opens the local cache database.
func connectLocalCache(ctx context.Context, cfg *config.CLIConfig) (*pgxpool.Pool, error) {
	pool, err := db.Connect(ctx, cfg.DBConfig())
	if err != nil {
		return nil, fmt.Errorf("connecting to local cache database: %w", err)
	}
	return pool, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printYAML writes v as YAML.
func printYAML(w io.Writer, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// resolveOutputFormat applies a per-command format flag over the configured
// default.
func resolveOutputFormat(cfg *config.CLIConfig, flag string) (config.OutputFormat, error) {
	if flag == "" {
		return cfg.OutputFormat, nil
	}
	format := config.OutputFormat(flag)
	if !format.IsValid() {
		return "", fmt.Errorf("invalid output format: %s", flag)
	}
	return format, nil
}
