// Command run-dormancy-scan runs a single dormant-account sweep
// outside the in-process schedule, for operators who want to trigger
// or rehearse the sweep by hand.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hideout/hideout/internal/config"
	"github.com/hideout/hideout/internal/dormancy"
	"github.com/hideout/hideout/internal/mailer"
	"github.com/hideout/hideout/internal/repository"
)

func main() {
	var (
		threshold = flag.Duration("threshold", 0, "Inactivity threshold (default: DORMANCY_THRESHOLD from env)")
		timeout   = flag.Duration("timeout", 10*time.Minute, "Overall sweep timeout")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if *threshold > 0 {
		cfg.DormancyThreshold = *threshold
	}
	if !cfg.MailEnabled() {
		fmt.Fprintln(os.Stderr, "SMTP_HOST and MAIL_FROM must be configured")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	notifier, err := mailer.New(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "set up mailer:", err)
		os.Exit(1)
	}

	scanner := dormancy.NewScanner(repo, notifier, cfg.DormancyThreshold, logger)
	if err := scanner.Scan(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "sweep failed:", err)
		os.Exit(1)
	}
}
