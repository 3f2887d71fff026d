// Package scheduler drives session reconciliation: a ticker re-reads the
// canonical user directory every few seconds, and directory broadcast events
// trigger an immediate pass so administrative changes propagate without
// waiting out the interval.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/quadro-dev/quadro/internal/broadcast"
	"github.com/quadro-dev/quadro/internal/session"
	"github.com/robfig/cron/v3"
)

const DefaultInterval = 5 * time.Second

// Sessions older than this are purged by the nightly job.
const sessionMaxAge = 7 * 24 * time.Hour

type Reconciler struct {
	store    *session.Store
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	kick   chan struct{}
	cron   *cron.Cron
}

func NewReconciler(store *session.Store, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Reconciler{
		store:    store,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		kick:     make(chan struct{}, 1),
		cron:     cron.New(),
	}
}

// Start runs an immediate pass, then the recurring loop and the nightly
// session purge.
func (r *Reconciler) Start() error {
	log.Printf("Starting session reconciler (interval %s)", r.interval)

	if err := r.store.ReconcileAll(); err != nil {
		return err
	}

	go r.run()

	_, err := r.cron.AddFunc("@daily", func() {
		if err := r.store.PurgeStale(sessionMaxAge); err != nil {
			log.Printf("Failed to purge stale sessions: %v", err)
		}
	})

	if err != nil {
		return err
	}

	r.cron.Start()
	return nil
}

func (r *Reconciler) Stop() {
	log.Println("Stopping session reconciler...")
	r.cancel()
	r.cron.Stop()
}

// Kick requests an out-of-band pass. Broadcast messages are advisory
// triggers, never the reconciled data itself, so receivers call this instead
// of applying payloads.
func (r *Reconciler) Kick() {
	select {
	case r.kick <- struct{}{}:
	default: // a pass is already pending
	}
}

// SubscribeTo wires the reconciler to the hub: any directory change kicks an
// immediate pass.
func (r *Reconciler) SubscribeTo(hub *broadcast.Hub) {
	hub.Subscribe(func(event broadcast.Event) {
		if event.Type == broadcast.EventDirectory {
			r.Kick()
		}
	})
}

func (r *Reconciler) run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
		case <-r.kick:
		}

		if err := r.store.ReconcileAll(); err != nil {
			log.Printf("Session reconciliation failed: %v", err)
		}
	}
}
