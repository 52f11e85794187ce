package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// stalecheck periodically scans for contacts whose tagged cadence has
// lapsed and for reminders that have come due, and reports them. It is
// a pull-based worker: nothing is mutated, state is derived from the
// stored cadence and the clock at scan time.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	worker := &staleWorker{
		contacts:  persistence.NewGormContactRepository(db.DB),
		tags:      persistence.NewGormTagRepository(db.DB),
		reminders: persistence.NewGormReminderRepository(db.DB),
		clock:     shared.SystemClock{},
		logger:    log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Stale check worker started",
		zap.Duration("interval", cfg.Journal.StaleCheckInterval),
		zap.String("default_timezone", cfg.Journal.DefaultTimezone),
	)

	worker.scan(ctx)

	ticker := time.NewTicker(cfg.Journal.StaleCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stale check worker stopping")
			return
		case <-ticker.C:
			worker.scan(ctx)
		}
	}
}

type staleWorker struct {
	contacts  *persistence.GormContactRepository
	tags      *persistence.GormTagRepository
	reminders *persistence.GormReminderRepository
	clock     shared.Clock
	logger    *zap.Logger
}

// scan runs one pass over stale contacts and due reminders
func (w *staleWorker) scan(ctx context.Context) {
	now := w.clock.Now()

	stale, err := w.contacts.FindStale(ctx, now)
	if err != nil {
		w.logger.Error("Stale contact scan failed", zap.Error(err))
	} else {
		for _, c := range stale {
			w.logger.Info("Contact is overdue for an interaction",
				zap.String("contact_id", c.ID.String()),
				zap.String("name", c.Name),
			)
		}
	}

	staleTags, err := w.tags.FindStale(ctx, now)
	if err != nil {
		w.logger.Error("Stale tag scan failed", zap.Error(err))
	} else {
		for _, t := range staleTags {
			w.logger.Info("Tag cadence lapsed",
				zap.String("tag", t.Name),
				zap.String("owner_kind", string(t.Owner.Kind)),
				zap.String("owner_id", t.Owner.ID.String()),
			)
		}
	}

	due, err := w.reminders.FindDue(ctx, now)
	if err != nil {
		w.logger.Error("Due reminder scan failed", zap.Error(err))
		return
	}
	for _, r := range due {
		w.logger.Info("Reminder is due",
			zap.String("reminder_id", r.ID.String()),
			zap.String("contact_id", r.ContactID.String()),
			zap.String("text", r.Text),
			zap.Time("due_at", r.DueAt),
		)
	}

	w.logger.Debug("Stale check pass complete",
		zap.Int("stale_contacts", len(stale)),
		zap.Int("stale_tags", len(staleTags)),
		zap.Int("due_reminders", len(due)),
	)
}
