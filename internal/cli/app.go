package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Leganyst/timeslot-allocator/internal/config"
	"github.com/Leganyst/timeslot-allocator/internal/db"
	"github.com/Leganyst/timeslot-allocator/internal/lock"
	"github.com/Leganyst/timeslot-allocator/internal/logger"
)

// app — общие зависимости команд, которым нужна база.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB

	closers []func() error
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	gormDB, err := db.Open(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("sql DB: %w", err)
	}

	a := &app{cfg: cfg, log: log, db: gormDB}
	a.closers = append(a.closers, sqlDB.Close)
	return a, nil
}

// locker выбирает реализацию блокировок партиций по конфигу.
func (a *app) locker(ctx context.Context) (lock.PartitionLocker, error) {
	timeout := a.cfg.Lock.Timeout

	switch a.cfg.Lock.Backend {
	case config.LockBackendAdvisory:
		return lock.NewAdvisoryLocker(timeout), nil
	case config.LockBackendRedis:
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{a.cfg.Redis.Addr},
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping %s: %w", a.cfg.Redis.Addr, err)
		}
		a.closers = append(a.closers, client.Close)
		return lock.NewRedisLocker(client, timeout), nil
	case config.LockBackendLocal:
		return lock.NewLocalLocker(timeout), nil
	default:
		return nil, fmt.Errorf("unknown lock backend %q", a.cfg.Lock.Backend)
	}
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
