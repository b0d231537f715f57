// Package sync schedules reconciliation passes. Passes are triggered by
// app-lifecycle events rather than a timer: logging in, the app becoming
// active again and connectivity coming back are the moments a stale cache
// is most likely and a refresh is cheapest.
package sync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sittersafe/carelog/internal/client/models"
	"github.com/sittersafe/carelog/internal/logging"
)

// Trigger names the lifecycle event that started a pass.
type Trigger string

const (
	TriggerLogin        Trigger = "login"
	TriggerBecameActive Trigger = "became_active"
	TriggerConnectivity Trigger = "regained_connectivity"
)

// ProfileReconciler is the profile half of a pass.
type ProfileReconciler interface {
	Reconcile(ctx context.Context) ([]models.ProfileRecord, error)
}

// EventRefresher is the event half of a pass.
type EventRefresher interface {
	LoadToday(ctx context.Context) ([]models.CareEvent, error)
}

// Orchestrator serializes sync passes. Triggers arriving while a pass runs
// queue up; a queued pass that has been superseded by a newer trigger before
// it gets to run is dropped, so a burst of lifecycle events collapses into
// the one pass that observes the freshest state.
type Orchestrator struct {
	profiles ProfileReconciler
	events   EventRefresher
	log      logging.Logger

	triggers chan Trigger
	passID   atomic.Uint64
	mu       sync.Mutex
}

func NewOrchestrator(profiles ProfileReconciler, events EventRefresher, log logging.Logger) *Orchestrator {
	return &Orchestrator{
		profiles: profiles,
		events:   events,
		log:      log,
		triggers: make(chan Trigger, 8),
	}
}

// Notify queues a pass for the trigger. It never blocks the caller: with the
// queue full a pass is already pending and the trigger is dropped.
func (o *Orchestrator) Notify(ctx context.Context, tr Trigger) {
	select {
	case o.triggers <- tr:
	default:
		o.log.Debug(ctx, "sync trigger dropped, queue full", "trigger", string(tr))
	}
}

// Run consumes queued triggers until the context ends. Intended to run on
// its own goroutine for the lifetime of a session.
func (o *Orchestrator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case tr := <-o.triggers:
			o.RunPass(ctx, tr)
		}
	}
}

// RunPass executes one pass synchronously. Safe to call concurrently with
// the Run loop; callers serialize on the run mutex.
func (o *Orchestrator) RunPass(ctx context.Context, tr Trigger) {
	o.execute(ctx, o.passID.Add(1), tr)
}

// Pinger reports backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WatchConnectivity polls the backend and queues a pass when connectivity
// comes back after an offline stretch. Steady online and steady offline both
// stay quiet; only the offline-to-online edge triggers.
func (o *Orchestrator) WatchConnectivity(ctx context.Context, p Pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	online := true
	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := p.Ping(pingCtx)
			cancel()

			if err != nil {
				if online {
					o.log.Info(ctx, "backend unreachable, staying on local cache", "error", err)
				}
				online = false
				continue
			}
			if !online {
				online = true
				o.Notify(ctx, TriggerConnectivity)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (o *Orchestrator) execute(ctx context.Context, id uint64, tr Trigger) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if id != o.passID.Load() {
		o.log.Debug(ctx, "skipping superseded sync pass", "trigger", string(tr))
		return
	}

	o.log.Info(ctx, "sync pass started", "trigger", string(tr))
	if _, err := o.profiles.Reconcile(ctx); err != nil {
		o.log.Error(ctx, "profile reconciliation failed", "trigger", string(tr), "error", err)
	}

	// Login already renders from the freshly merged profile set; the event
	// snapshot is refreshed when the events surface is shown. The other
	// triggers mean the snapshot on screen may be stale.
	if tr != TriggerLogin {
		if _, err := o.events.LoadToday(ctx); err != nil {
			o.log.Error(ctx, "event refresh failed", "trigger", string(tr), "error", err)
		}
	}
}
