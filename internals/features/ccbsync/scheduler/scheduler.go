package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"circleops_backend/internals/features/ccbsync/service"
)

// StartSyncScheduler runs the daily sync at the given cron spec plus a weekly
// discovery sweep for leaders whose event-id cache is still unwritten.
// Returns nil when sync is unconfigured or the cron expression is empty.
func StartSyncScheduler(svc *service.SyncService, spec string) *cron.Cron {
	if svc == nil || spec == "" {
		return nil
	}

	c := cron.New()

	if _, err := c.AddFunc(spec, func() {
		log.Println("[SYNC] ⏱ scheduled daily sync starting")
		res := svc.Sync(context.Background(), service.SyncOptions{Mode: service.ModeDaily})
		log.Printf("[SYNC] scheduled run done: synced=%d errors=%d warning=%q", res.Synced, res.Errors, res.Warning)
	}); err != nil {
		log.Printf("[SYNC] ❌ invalid SYNC_CRON %q: %v", spec, err)
		return nil
	}

	_, _ = c.AddFunc("0 2 * * 1", func() {
		log.Println("[DISCOVERY] ⏱ weekly discovery sweep starting")
		res := svc.Discover(context.Background(), service.DiscoverOptions{})
		log.Printf("[DISCOVERY] sweep done: processed=%d discovered=%d errors=%d", res.Processed, res.Discovered, res.Errors)
	})

	c.Start()
	log.Printf("✅ CCB sync scheduler started (%s)", spec)
	return c
}
