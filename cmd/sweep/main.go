package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pawsitivelybooked/server/internal/application"
	"github.com/pawsitivelybooked/server/internal/config"
	"github.com/pawsitivelybooked/server/internal/database"
	"github.com/pawsitivelybooked/server/internal/events"
	"github.com/pawsitivelybooked/server/internal/logger"
	"github.com/pawsitivelybooked/server/internal/notification"
	"github.com/pawsitivelybooked/server/internal/repository"
)

// One-shot lifecycle sweep for cron or manual runs. The HTTP server schedules
// the same sweep internally; this binary exists for deployments that prefer
// an external scheduler.
func main() {
	nowFlag := flag.String("now", "", "sweep as of this date (YYYY-MM-DD, defaults to the current time)")
	timeout := flag.Duration("timeout", 5*time.Minute, "abort the sweep after this long")
	flag.Parse()

	now := time.Now().UTC()
	if *nowFlag != "" {
		parsed, err := time.Parse(time.DateOnly, *nowFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -now value %q: %v\n", *nowFlag, err)
			os.Exit(2)
		}
		now = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "pawsitivelybooked-sweep")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	producer := events.NewProducer(cfg.KafkaBrokers, log)
	defer func() { _ = producer.Close() }()

	mailer := notification.NewSMTPSender(cfg.SMTP)

	lifecycle := application.NewLifecycleService(
		repository.NewGormSweepStore(db),
		repository.NewGormFacilityRepository(db),
		repository.NewGormUserRepository(db),
		mailer,
		producer,
		cfg.Sweep.ExpireElapsed,
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := lifecycle.RunSweep(ctx, now)
	if err != nil {
		log.Fatal("sweep failed", zap.Error(err))
	}

	fmt.Printf("ongoing=%d expired=%d completed=%d skipped=%d\n",
		result.Ongoing, result.Expired, result.Completed, result.Skipped)
}
