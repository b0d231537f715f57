package sync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sittersafe/carelog/internal/client/models"
	"github.com/sittersafe/carelog/internal/logging"
)

type reconcilerFake struct {
	calls atomic.Int32
	block chan struct{} // when non-nil, Reconcile waits on it
	err   error
}

func (f *reconcilerFake) Reconcile(ctx context.Context) ([]models.ProfileRecord, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	return nil, f.err
}

type refresherFake struct {
	calls atomic.Int32
	err   error
}

func (f *refresherFake) LoadToday(ctx context.Context) ([]models.CareEvent, error) {
	f.calls.Add(1)
	return nil, f.err
}

func newOrchestrator(profiles *reconcilerFake, events *refresherFake) *Orchestrator {
	return NewOrchestrator(profiles, events, logging.NewNopLogger())
}

func TestRunPass_LoginReconcilesProfilesOnly(t *testing.T) {
	profiles, events := &reconcilerFake{}, &refresherFake{}
	o := newOrchestrator(profiles, events)

	o.RunPass(context.Background(), TriggerLogin)

	assert.Equal(t, int32(1), profiles.calls.Load())
	assert.Equal(t, int32(0), events.calls.Load())
}

func TestRunPass_BecameActiveRefreshesBoth(t *testing.T) {
	profiles, events := &reconcilerFake{}, &refresherFake{}
	o := newOrchestrator(profiles, events)

	o.RunPass(context.Background(), TriggerBecameActive)

	assert.Equal(t, int32(1), profiles.calls.Load())
	assert.Equal(t, int32(1), events.calls.Load())
}

func TestRunPass_ErrorsAreSwallowed(t *testing.T) {
	profiles := &reconcilerFake{err: errors.New("remote down")}
	events := &refresherFake{err: errors.New("remote down")}
	o := newOrchestrator(profiles, events)

	o.RunPass(context.Background(), TriggerConnectivity)

	assert.Equal(t, int32(1), profiles.calls.Load())
	assert.Equal(t, int32(1), events.calls.Load(), "a failed reconcile must not cancel the event refresh")
}

func TestExecute_SupersededPassIsSkipped(t *testing.T) {
	profiles, events := &reconcilerFake{}, &refresherFake{}
	o := newOrchestrator(profiles, events)

	o.passID.Store(5)
	o.execute(context.Background(), 3, TriggerBecameActive)

	assert.Equal(t, int32(0), profiles.calls.Load())
	assert.Equal(t, int32(0), events.calls.Load())
}

func TestRunPass_BurstCollapsesToNewest(t *testing.T) {
	profiles := &reconcilerFake{block: make(chan struct{})}
	events := &refresherFake{}
	o := newOrchestrator(profiles, events)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.RunPass(ctx, TriggerLogin)
	}()

	// Wait until the first pass is inside Reconcile and holds the mutex.
	require.Eventually(t, func() bool { return profiles.calls.Load() == 1 },
		time.Second, time.Millisecond)

	// Register two more passes before releasing it. Both wait on the mutex;
	// only the newest of them may run.
	id1 := o.passID.Add(1)
	id2 := o.passID.Add(1)
	wg.Add(2)
	go func() {
		defer wg.Done()
		o.execute(ctx, id1, TriggerBecameActive)
	}()
	go func() {
		defer wg.Done()
		o.execute(ctx, id2, TriggerBecameActive)
	}()

	close(profiles.block)
	wg.Wait()

	assert.Equal(t, int32(2), profiles.calls.Load(), "exactly one of the queued passes runs")
	assert.Equal(t, int32(1), events.calls.Load())
}

func TestNotify_NeverBlocksWhenQueueIsFull(t *testing.T) {
	o := newOrchestrator(&reconcilerFake{}, &refresherFake{})
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			o.Notify(ctx, TriggerBecameActive)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}
}

type pingerFake struct {
	mu  sync.Mutex
	err error
}

func (p *pingerFake) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *pingerFake) Ping(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func TestWatchConnectivity_TriggersOnRecovery(t *testing.T) {
	profiles, events := &reconcilerFake{}, &refresherFake{}
	o := newOrchestrator(profiles, events)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)

	pinger := &pingerFake{err: errors.New("down")}
	go o.WatchConnectivity(ctx, pinger, time.Millisecond)

	// Let the watcher observe the outage, then restore connectivity.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), profiles.calls.Load(), "no pass while offline")

	pinger.setErr(nil)
	require.Eventually(t, func() bool { return profiles.calls.Load() >= 1 },
		time.Second, time.Millisecond, "recovery must queue a pass")
	require.Eventually(t, func() bool { return events.calls.Load() >= 1 },
		time.Second, time.Millisecond)
}

func TestWatchConnectivity_SteadyOnlineStaysQuiet(t *testing.T) {
	profiles, events := &reconcilerFake{}, &refresherFake{}
	o := newOrchestrator(profiles, events)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)

	go o.WatchConnectivity(ctx, &pingerFake{}, time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), profiles.calls.Load(), "steady online must not trigger passes")
}

func TestRun_ConsumesQueuedTriggers(t *testing.T) {
	profiles, events := &reconcilerFake{}, &refresherFake{}
	o := newOrchestrator(profiles, events)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		o.Run(ctx)
	}()

	o.Notify(ctx, TriggerLogin)
	require.Eventually(t, func() bool { return profiles.calls.Load() == 1 },
		time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}
