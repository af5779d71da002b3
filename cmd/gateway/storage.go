package main

import (
	"context"
	"fmt"

	"github.com/dwikikusuma/brewhome/pkg/config"
	"github.com/dwikikusuma/brewhome/pkg/kv"
	kvredis "github.com/dwikikusuma/brewhome/pkg/kv/redis"
	kvsqlite "github.com/dwikikusuma/brewhome/pkg/kv/sqlite"
)

// openStore returns the configured backend and a func releasing it.
func openStore(ctx context.Context, cfg config.Storage) (kv.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return kv.NewMemory(), func() error { return nil }, nil
	case config.BackendSQLite:
		s, err := kvsqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendRedis:
		s, err := kvredis.Open(ctx, kvredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
