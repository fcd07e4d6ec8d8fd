package blob

import (
	"context"
	"fmt"
)

// Config selects and configures the storage backend.
type Config struct {
	Backend  string         `yaml:"backend"` // fs, sqlite, redis, postgres
	Dir      string         `yaml:"dir"`     // fs backend
	Path     string         `yaml:"path"`    // sqlite backend
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// Open builds the Store named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "fs":
		dir := cfg.Dir
		if dir == "" {
			dir = ".orglens"
		}
		return NewFSStore(dir)
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = "orglens.db"
		}
		return NewSqliteStore(path)
	case "redis":
		return NewRedisStore(cfg.Redis)
	case "postgres":
		return NewPostgresStore(ctx, cfg.Postgres)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
