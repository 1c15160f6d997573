package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"

	"github.com/emiflair/wazhop/internal/bootstrap"
	"github.com/emiflair/wazhop/internal/config"
	"github.com/emiflair/wazhop/pkg/database"
	"github.com/emiflair/wazhop/pkg/runlock"
)

// The scheduler drives the periodic billing pass on a fixed interval. A
// Redis run-lock keeps multiple instances from processing the same window;
// losing the lock just means another instance is already on it.
func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	lock := runlock.New(rdb, "wazhop:billing-pass", cfg.Billing.SchedulerInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("✅ Scheduler running, interval %s", cfg.Billing.SchedulerInterval)

	ticker := time.NewTicker(cfg.Billing.SchedulerInterval)
	defer ticker.Stop()

	runOnce(ctx, container, lock)
	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			runOnce(ctx, container, lock)
		}
	}
}

func runOnce(ctx context.Context, container *bootstrap.Container, lock *runlock.Lock) {
	release, ok, err := lock.Acquire(ctx)
	if err != nil {
		log.Printf("[WARN] Run-lock check failed: %v (skipping this tick)", err)
		return
	}
	if !ok {
		log.Println("Another scheduler instance holds the lock, skipping")
		return
	}
	defer release()

	started := time.Now()
	stats, err := container.RenewalService.RunPeriodicPass(ctx)
	if err != nil {
		color.Red("✗ billing pass aborted after %s: %v", time.Since(started).Round(time.Millisecond), err)
		return
	}

	color.Green("✓ billing pass done in %s", time.Since(started).Round(time.Millisecond))
	color.Cyan("  processed=%d warned=%d renewed=%d failures=%d expired=%d skipped=%d",
		stats.Processed, stats.Warned, stats.Renewed, stats.RenewalFailures, stats.Expired, stats.Skipped)
}
