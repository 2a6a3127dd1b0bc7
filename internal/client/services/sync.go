package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/models"
)

// Sync refreshes the session from the server. It is skipped while signed
// out, while another sync is in flight, and within MinSyncInterval of the
// previous attempt. Failures are logged and never change the decision; a
// response that arrives after the session changed is discarded.
func (c *SessionCoordinator) Sync(ctx context.Context) models.SyncResult {
	c.mu.Lock()
	if !c.decision.Authenticated() || c.syncState.InFlight {
		c.mu.Unlock()
		return models.SyncSkipped
	}
	now := c.now()
	if last := c.syncState.LastAttemptAt; last != nil && now.Sub(*last) < c.cfg.MinSyncInterval {
		c.mu.Unlock()
		return models.SyncSkipped
	}
	c.syncState.InFlight = true
	c.syncState.LastAttemptAt = &now
	gen := c.generation
	lastSynced := copyTime(c.lastSynced)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.syncState.InFlight = false
		c.mu.Unlock()
	}()

	rctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	resp, err := c.api.Sync(rctx, lastSynced)
	cancel()
	if err != nil {
		c.log.Warn(ctx, "session sync failed", "error", err)
		return models.SyncFailed
	}

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		c.log.Debug(ctx, "discarding sync response for an ended session")
		return models.SyncDiscarded
	}

	syncedAt := c.now()
	if err := c.store.MarkSynced(ctx, syncedAt, resp.User); err != nil {
		c.log.Warn(ctx, "failed to persist sync result", "error", err)
	}
	if resp.User != nil {
		c.profile = resp.User.Clone()
	}
	c.syncState.LastSyncAt = &syncedAt
	c.lastSynced = copyTime(&syncedAt)
	c.decision = models.AuthenticatedSynced
	ev := c.eventLocked()
	c.mu.Unlock()

	c.log.Debug(ctx, "session synced", "profile_updated", resp.User != nil)
	c.publish(ev)
	c.applyGuard(ev.Decision)
	return models.SyncSynced
}

// goSync runs Sync in the background; Close waits for it.
func (c *SessionCoordinator) goSync() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.Sync(c.bgCtx)
	}()
}

// StartAutoSync syncs every SyncInterval until ctx is done or the
// coordinator is closed.
func (c *SessionCoordinator) StartAutoSync(ctx context.Context) {
	interval := c.cfg.SyncInterval
	if interval <= 0 {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.bgCtx.Done():
				return
			case <-ticker.C:
				c.Sync(ctx)
			}
		}
	}()
}

// SetVisible records whether the user is looking at the client. Becoming
// visible again triggers a sync.
func (c *SessionCoordinator) SetVisible(ctx context.Context, visible bool) models.SyncResult {
	c.mu.Lock()
	wasVisible := c.visible
	c.visible = visible
	c.mu.Unlock()

	if !visible || wasVisible {
		return models.SyncSkipped
	}
	return c.Sync(ctx)
}
